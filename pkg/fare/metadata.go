package fare

import (
	"maps"
	"slices"
)

// File names of the package-local metadata documents.
const (
	LockFileName   = "OPENFARE.lock"
	ConfigFileName = "OPENFARE.json"
)

// Lock is the opaque contents of a package's OPENFARE.lock file. Its schema
// belongs to the fee/licensing tooling; this module only records whether a
// package declares one.
type Lock map[string]any

// Config is the opaque contents of a package's OPENFARE.json file.
type Config map[string]any

// DependencyMap maps every package found in an install tree to its optional
// metadata. A nil value means the package is installed but declares no
// metadata, which is distinct from the package being absent from the map.
type DependencyMap[V any] map[Package]*V

// Entry is one element of a [DependencyMap] in sorted order.
type Entry[V any] struct {
	Package Package
	Value   *V
}

// Sorted returns the map's entries ordered by (name, version).
func (m DependencyMap[V]) Sorted() []Entry[V] {
	keys := slices.SortedFunc(maps.Keys(m), Package.Compare)
	entries := make([]Entry[V], 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry[V]{Package: k, Value: m[k]})
	}
	return entries
}

// WithMetadata counts the packages that declare a metadata document.
func (m DependencyMap[V]) WithMetadata() int {
	n := 0
	for _, v := range m {
		if v != nil {
			n++
		}
	}
	return n
}

// Without deletes pkg from the map and returns the map for chaining.
func (m DependencyMap[V]) Without(pkg *Package) DependencyMap[V] {
	if pkg != nil {
		delete(m, *pkg)
	}
	return m
}

// DependenciesLocks maps dependencies to their optional locks.
type DependenciesLocks = DependencyMap[Lock]

// DependenciesConfigs maps dependencies to their optional configs.
type DependenciesConfigs = DependencyMap[Config]
