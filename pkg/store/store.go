// Package store records query reports for later review.
//
// A [Report] summarizes one answered query and carries the full response
// as JSON. Reports form an audit trail only: they are never read back to
// answer a query.
//
// # Backends
//
// [Open] selects a backend from a URL:
//   - "" : [NullStore], recording disabled
//   - file:///path : [FileStore], one JSON file per report
//   - redis://host:port/db : [RedisStore], a capped list
//   - mongodb://host:port/db : [MongoStore], a "reports" collection
//
// All backends return reports newest first from List.
package store

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/fare"
)

// Report summarizes one answered query.
type Report struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Subject      string          `json:"subject"`
	CreatedAt    time.Time       `json:"created_at"`
	Primary      string          `json:"primary,omitempty"`
	Dependencies int             `json:"dependencies"`
	WithMetadata int             `json:"with_metadata"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// Store persists reports.
type Store interface {
	// Save records a report.
	Save(ctx context.Context, r Report) error
	// List returns up to limit reports, newest first. A limit of zero or
	// less returns all retained reports.
	List(ctx context.Context, limit int) ([]Report, error)
	// Close releases any connections.
	Close() error
}

// NewReport builds a report with a fresh ID and the current time. payload
// is the query response and is stored as JSON.
func NewReport(kind, subject string, primary *fare.Package, dependencies, withMetadata int, payload any) (Report, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeInternal, err, "encode report payload")
	}
	r := Report{
		ID:           uuid.NewString(),
		Kind:         kind,
		Subject:      subject,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		Dependencies: dependencies,
		WithMetadata: withMetadata,
		Payload:      data,
	}
	if primary != nil {
		r.Primary = primary.String()
	}
	return r, nil
}

// Open connects to the backend named by rawURL. maxReports caps how many
// reports the Redis and MongoDB backends retain; zero keeps everything.
// The file store never prunes.
func Open(ctx context.Context, rawURL string, maxReports int) (Store, error) {
	if rawURL == "" {
		return NewNullStore(), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse store url")
	}
	switch u.Scheme {
	case "file":
		return NewFileStore(u.Host + u.Path)
	case "redis", "rediss":
		return NewRedisStore(ctx, rawURL, maxReports)
	case "mongodb", "mongodb+srv":
		return NewMongoStore(ctx, rawURL, maxReports)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "store scheme %q is not supported", u.Scheme)
	}
}
