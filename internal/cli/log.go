package cli

import (
	"context"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/observability"
)

// envLogLevel overrides the configured log level.
const envLogLevel = "FARELOCK_LOG"

// levelOff is above every level the logger emits.
const levelOff = log.Level(math.MaxInt32)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLevel accepts debug, info, warn, error and off.
func parseLevel(name string) (log.Level, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	switch norm {
	case "off":
		return levelOff, nil
	case "":
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(norm)
	if err != nil || level > log.ErrorLevel {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", name)
	}
	return level, nil
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Found 42 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Debug hooks
// =============================================================================

// debugHooks logs observability events at debug level.
type debugHooks struct {
	logger *log.Logger
}

var (
	_ observability.QueryHooks     = (*debugHooks)(nil)
	_ observability.ProvisionHooks = (*debugHooks)(nil)
	_ observability.HTTPHooks      = (*debugHooks)(nil)
)

func (h *debugHooks) OnQueryStart(_ context.Context, kind, subject string) {
	h.logger.Debug("query started", "kind", kind, "subject", subject)
}

func (h *debugHooks) OnQueryComplete(_ context.Context, kind, subject string, dependencies int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("query failed", "kind", kind, "subject", subject, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("query complete", "kind", kind, "subject", subject, "dependencies", dependencies, "duration", d.Round(time.Millisecond))
}

func (h *debugHooks) OnInstallStart(_ context.Context, dir string, args []string) {
	h.logger.Debug("npm started", "dir", dir, "args", strings.Join(args, " "))
}

func (h *debugHooks) OnInstallComplete(_ context.Context, dir string, args []string, d time.Duration, err error) {
	h.logger.Debug("npm finished", "dir", dir, "args", strings.Join(args, " "), "duration", d.Round(time.Millisecond), "err", err)
}

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("registry request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("registry response", "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("registry error", "method", method, "host", host, "path", path, "err", err)
}
