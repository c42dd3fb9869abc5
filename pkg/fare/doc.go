// Package fare defines the data model shared by the dependency discovery
// engine, the CLI, and the HTTP API.
//
// # Identity
//
// A [Package] is a (name, version) pair taken verbatim from an installed
// package.json. It is comparable and is used directly as a map key.
//
// # Metadata
//
// [Lock] and [Config] are opaque JSON documents read from OPENFARE.lock and
// OPENFARE.json inside a package directory. Their schema is owned by the
// fee/licensing tooling that consumes these results; this package never
// looks inside them.
//
// # Results
//
// A [DependencyMap] records every package found in an install tree together
// with its optional metadata:
//
//	locks := fare.DependenciesLocks{
//	    fare.NewPackage("a", "1.0.0"): &fare.Lock{"plans": []any{}},
//	    fare.NewPackage("b", "2.0.0"): nil, // installed, no OPENFARE.lock
//	}
//
// The response types ([ProjectDependenciesLocks], [PackageDependenciesLocks]
// and their config counterparts) are what an [Extension] returns to its host.
package fare
