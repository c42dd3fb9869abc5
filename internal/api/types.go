package api

import "time"

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string   `json:"status"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	Extension     string   `json:"extension"`
	Registries    []string `json:"registries"`
}

// ReportSummary describes a stored report without its payload.
type ReportSummary struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Subject      string    `json:"subject"`
	CreatedAt    time.Time `json:"created_at"`
	Primary      string    `json:"primary,omitempty"`
	Dependencies int       `json:"dependencies"`
	WithMetadata int       `json:"with_metadata"`
}

// ReportsResponse is returned by GET /v1/reports.
type ReportsResponse struct {
	Reports []ReportSummary `json:"reports"`
}
