package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/query"
)

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Extension:     s.ext.Name(),
		Registries:    s.ext.Registries(),
	})
}

// handleProject handles GET /v1/project/{kind}?path=.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, query.Request{
		Kind: "project-" + chi.URLParam(r, "kind"),
		Dir:  r.URL.Query().Get("path"),
	})
}

// handlePackage handles GET /v1/packages/{kind}/{name} and its scoped form.
func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidPackage, err, "decode package name"))
		return
	}
	if scope := chi.URLParam(r, "scope"); scope != "" {
		name = scope + "/" + name
	}
	s.answer(w, r, query.Request{
		Kind:    "package-" + chi.URLParam(r, "kind"),
		Name:    name,
		Version: r.URL.Query().Get("version"),
	})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request, req query.Request) {
	ctx := r.Context()
	res, err := query.Run(ctx, s.ext, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.config.Record {
		report, err := res.Report()
		if err == nil {
			err = s.store.Save(ctx, report)
		}
		if err != nil {
			s.logger.Warn("report not saved", "kind", req.Kind, "subject", req.Subject(), "error", err)
		} else {
			w.Header().Set("X-Report-ID", report.ID)
		}
	}

	respondJSON(w, http.StatusOK, res.Response)
}

// handleReports handles GET /v1/reports?limit=.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	limit := s.config.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	reports, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summaries := make([]ReportSummary, 0, len(reports))
	for _, rep := range reports {
		summaries = append(summaries, ReportSummary{
			ID:           rep.ID,
			Kind:         rep.Kind,
			Subject:      rep.Subject,
			CreatedAt:    rep.CreatedAt,
			Primary:      rep.Primary,
			Dependencies: rep.Dependencies,
			WithMetadata: rep.WithMetadata,
		})
	}
	respondJSON(w, http.StatusOK, ReportsResponse{Reports: summaries})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPackage, errors.ErrCodeInvalidVersion,
		errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePackageNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeInvalidResponse:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondJSON(w, status, ErrorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
