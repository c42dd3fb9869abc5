// Package integrations provides the shared HTTP plumbing for registry API
// clients.
//
// # Overview
//
// Each registry has its own subpackage built on [Client]:
//
//   - [npm]: the npm registry (latest version lookup)
//
// # Shared Infrastructure
//
// [Client] wraps net/http with:
//   - Default request headers
//   - Status mapping: 404 becomes [ErrNotFound]; 5xx, 429 and connection
//     failures become transient [ErrNetwork] errors
//   - Retry with exponential backoff via [httputil.Policy], honouring
//     Retry-After
//   - HTTP events reported to [observability.HTTP]
//
// Undecodable bodies are reported as [ErrInvalidResponse]. Responses are
// never cached.
//
// [npm]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/integrations/npm
package integrations
