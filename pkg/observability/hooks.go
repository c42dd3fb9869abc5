// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about dependency queries, package manager invocations,
// and registry calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine packages
// stay free of any particular backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetQueryHooks(&myQueryHooks{})
//	    observability.SetProvisionHooks(&myProvisionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Query().OnQueryStart(ctx, "project-locks", dir)
//	// ... run query ...
//	observability.Query().OnQueryComplete(ctx, "project-locks", dir, count, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from the query orchestrators.
type QueryHooks interface {
	// OnQueryStart records the start of a query. subject is a project path
	// or a package spec.
	OnQueryStart(ctx context.Context, kind, subject string)

	// OnQueryComplete records a finished query with the number of
	// dependencies found.
	OnQueryComplete(ctx context.Context, kind, subject string, dependencies int, duration time.Duration, err error)
}

// =============================================================================
// Provision Hooks
// =============================================================================

// ProvisionHooks receives events from package manager invocations.
type ProvisionHooks interface {
	// OnInstallStart records the start of a package manager run in dir.
	OnInstallStart(ctx context.Context, dir string, args []string)

	// OnInstallComplete records the end of a package manager run.
	OnInstallComplete(ctx context.Context, dir string, args []string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQueryStart(context.Context, string, string) {}
func (NoopQueryHooks) OnQueryComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopProvisionHooks is a no-op implementation of ProvisionHooks.
type NoopProvisionHooks struct{}

func (NoopProvisionHooks) OnInstallStart(context.Context, string, []string) {}
func (NoopProvisionHooks) OnInstallComplete(context.Context, string, []string, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	queryHooks     QueryHooks     = NoopQueryHooks{}
	provisionHooks ProvisionHooks = NoopProvisionHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetQueryHooks registers custom query hooks.
// This should be called once at application startup before any query runs.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// SetProvisionHooks registers custom provision hooks.
func SetProvisionHooks(h ProvisionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		provisionHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Provision returns the registered provision hooks.
func Provision() ProvisionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return provisionHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	queryHooks = NoopQueryHooks{}
	provisionHooks = NoopProvisionHooks{}
	httpHooks = NoopHTTPHooks{}
}
