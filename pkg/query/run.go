package query

import (
	"context"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/fare"
	"github.com/matzehuels/farelock/pkg/npm"
)

// Kinds lists every query kind in display order.
var Kinds = []string{KindProjectLocks, KindProjectConfigs, KindPackageLocks, KindPackageConfigs}

// Request names one query. Project kinds read Dir; package kinds read Name
// and the optional Version.
type Request struct {
	Kind    string
	Dir     string
	Name    string
	Version string
}

// Subject returns the project directory or package spec being queried.
func (r Request) Subject() string {
	if IsProjectKind(r.Kind) {
		return r.Dir
	}
	return npm.Spec(r.Name, r.Version)
}

// IsProjectKind reports whether kind queries a project on disk.
func IsProjectKind(kind string) bool {
	return kind == KindProjectLocks || kind == KindProjectConfigs
}

// Entry is one dependency in a [Result], in (name, version) order.
type Entry struct {
	Package  fare.Package
	Metadata map[string]any // nil when the package declares none
}

// Result pairs the host-facing response with a flattened view used for
// display and reports.
type Result struct {
	Kind     string
	Subject  string
	Location string // project root or registry host

	Primary         *fare.Package
	PrimaryMetadata map[string]any
	Entries         []Entry

	// Response is the *fare.Project... or *fare.Package... value returned
	// by the extension.
	Response any
}

// WithMetadata counts the entries that declare metadata.
func (r *Result) WithMetadata() int {
	n := 0
	for _, e := range r.Entries {
		if e.Metadata != nil {
			n++
		}
	}
	return n
}

// Run validates req and dispatches it to ext. Relative project directories
// are rejected here so they never reach the locators.
func Run(ctx context.Context, ext fare.Extension, req Request) (*Result, error) {
	if IsProjectKind(req.Kind) {
		if err := errors.ValidateAbsolutePath(req.Dir); err != nil {
			return nil, err
		}
	} else if req.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "package name cannot be empty")
	}

	res := &Result{Kind: req.Kind, Subject: req.Subject()}
	switch req.Kind {
	case KindProjectLocks:
		r, err := ext.ProjectDependenciesLocks(ctx, req.Dir)
		if err != nil {
			return nil, err
		}
		res.Location = r.ProjectPath
		fillLocks(res, r.PackageLocks)
		res.Response = r
	case KindProjectConfigs:
		r, err := ext.ProjectDependenciesConfigs(ctx, req.Dir)
		if err != nil {
			return nil, err
		}
		res.Location = r.ProjectPath
		fillConfigs(res, r.PackageConfigs)
		res.Response = r
	case KindPackageLocks:
		r, err := ext.PackageDependenciesLocks(ctx, req.Name, req.Version)
		if err != nil {
			return nil, err
		}
		res.Location = r.RegistryHostName
		fillLocks(res, r.PackageLocks)
		res.Response = r
	case KindPackageConfigs:
		r, err := ext.PackageDependenciesConfigs(ctx, req.Name, req.Version)
		if err != nil {
			return nil, err
		}
		res.Location = r.RegistryHostName
		fillConfigs(res, r.PackageConfigs)
		res.Response = r
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown query kind %q", req.Kind)
	}
	return res, nil
}

func fillLocks(res *Result, p fare.PackageLocks) {
	res.Primary = p.PrimaryPackage
	if p.PrimaryPackageLock != nil {
		res.PrimaryMetadata = declared(*p.PrimaryPackageLock)
	}
	res.Entries = entries(p.DependenciesLocks, func(l fare.Lock) map[string]any { return l })
}

func fillConfigs(res *Result, p fare.PackageConfigs) {
	res.Primary = p.PrimaryPackage
	if p.PrimaryPackageConfig != nil {
		res.PrimaryMetadata = declared(*p.PrimaryPackageConfig)
	}
	res.Entries = entries(p.DependenciesConfigs, func(c fare.Config) map[string]any { return c })
}

func entries[V any](m fare.DependencyMap[V], doc func(V) map[string]any) []Entry {
	sorted := m.Sorted()
	out := make([]Entry, 0, len(sorted))
	for _, e := range sorted {
		entry := Entry{Package: e.Package}
		if e.Value != nil {
			entry.Metadata = declared(doc(*e.Value))
		}
		out = append(out, entry)
	}
	return out
}

// declared keeps a present document non-nil, even when its file held
// JSON null.
func declared(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	return doc
}
