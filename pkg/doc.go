// Package pkg provides the public API of farelock, a discovery engine that
// finds OPENFARE.lock and OPENFARE.json documents across the dependencies of
// npm projects and registry packages.
//
// # Overview
//
// Every query follows the same shape:
//
//  1. Locate an npm install tree (a project on disk, or a registry package
//     installed into a scratch directory)
//  2. Walk node_modules and read each package's identity from package.json
//  3. Attach the metadata document found next to it, if any
//
// # Quick Start
//
//	engine := query.NewEngine(
//	    npm.NewNPM("npm", 5*time.Minute),
//	    registry.NewClient("", 30*time.Second),
//	    log.Default(),
//	)
//
//	res, err := query.Run(ctx, engine, query.Request{
//	    Kind: query.KindProjectLocks,
//	    Dir:  "/abs/path/to/project",
//	})
//	if err != nil {
//	    return err
//	}
//	for _, e := range res.Entries {
//	    fmt.Println(e.Package, e.Metadata != nil)
//	}
//
// # Main Packages
//
// ## Domain
//
// [fare] - Package identity, the opaque Lock and Config documents, and the
// response types an extension hands back to its host.
//
// [npm] - Install tree location, node_modules extraction, and the npm
// install provisioner.
//
// [query] - The engine answering project and registry queries, plus the
// shared [query.Run] entry point used by the CLI and the HTTP API.
//
// ## Infrastructure
//
// [integrations] - HTTP client base for package registries; the npm
// subpackage resolves "latest" versions.
//
// [store] - Report persistence: file backend for the CLI, Redis and MongoDB
// backends for shared deployments.
//
// [config] - TOML configuration with XDG-aware defaults.
//
// [errors], [observability], [httputil], [buildinfo] - Coded errors,
// lifecycle hooks, retry helpers, and version information.
//
// # Testing
//
//	go test ./...                        # Unit tests
//	go test -tags integration ./pkg/...  # Registry and store integration tests
//
// [fare]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/fare
// [npm]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/npm
// [query]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/query
// [query.Run]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/query#Run
// [integrations]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/integrations
// [store]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/farelock/pkg/buildinfo
package pkg
