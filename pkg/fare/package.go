package fare

import (
	"cmp"
	"fmt"
	"strings"
)

// Package identifies one installed package by its resolved name and version.
//
// Package is a comparable value and is used directly as a map key. Two
// packages are equal iff both fields match exactly; no normalization or
// semver interpretation is applied.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewPackage returns the package identity for name and version.
func NewPackage(name, version string) Package {
	return Package{Name: name, Version: version}
}

// String returns the "name@version" form used by npm.
func (p Package) String() string {
	return p.Name + "@" + p.Version
}

// Compare orders packages by name, then by version (byte-wise).
func (p Package) Compare(o Package) int {
	if c := cmp.Compare(p.Name, o.Name); c != 0 {
		return c
	}
	return cmp.Compare(p.Version, o.Version)
}

// MarshalText encodes the package as "name@version" so that maps keyed by
// Package can be serialized as JSON objects.
func (p Package) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses "name@version". The last "@" separates the version,
// which keeps scoped names such as "@types/node@20.1.0" intact.
func (p *Package) UnmarshalText(text []byte) error {
	s := string(text)
	i := strings.LastIndex(s, "@")
	if i <= 0 || i == len(s)-1 {
		return fmt.Errorf("invalid package identity %q: want name@version", s)
	}
	p.Name, p.Version = s[:i], s[i+1:]
	return nil
}
