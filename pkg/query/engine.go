package query

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farelock/pkg/fare"
	registry "github.com/matzehuels/farelock/pkg/integrations/npm"
	"github.com/matzehuels/farelock/pkg/npm"
	"github.com/matzehuels/farelock/pkg/observability"
)

// ExtensionName identifies the JavaScript ecosystem to hosts.
const ExtensionName = "js"

// Query kinds reported to observability hooks and stored reports.
const (
	KindProjectLocks   = "project-locks"
	KindProjectConfigs = "project-configs"
	KindPackageLocks   = "package-locks"
	KindPackageConfigs = "package-configs"
)

// VersionResolver resolves the latest published version of a package.
// ok is false when the package has no published versions.
type VersionResolver interface {
	LatestVersion(ctx context.Context, name string) (version string, ok bool, err error)
}

// Engine answers project and registry queries for npm packages.
//
// An Engine holds no per-query state; every call owns its own maps and
// scratch directory, so one Engine may serve concurrent callers.
type Engine struct {
	Installer npm.Installer
	Registry  VersionResolver
	Logger    *log.Logger

	// RegistryHost is reported in registry query results.
	RegistryHost string
	// ScratchPrefix names the temporary directories used by registry queries.
	ScratchPrefix string
}

var _ fare.Extension = (*Engine)(nil)

// NewEngine creates an engine. A nil installer runs npm from PATH, a nil
// resolver uses the public registry, and a nil logger uses log.Default().
func NewEngine(installer npm.Installer, resolver VersionResolver, logger *log.Logger) *Engine {
	if installer == nil {
		installer = npm.NewNPM("", 0)
	}
	if resolver == nil {
		resolver = registry.NewClient("", 0)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Installer:     installer,
		Registry:      resolver,
		Logger:        logger,
		RegistryHost:  registry.HostName,
		ScratchPrefix: npm.ScratchPrefix,
	}
}

// Name implements [fare.Extension].
func (e *Engine) Name() string { return ExtensionName }

// Registries implements [fare.Extension]. The first entry is the host
// reported in registry query results.
func (e *Engine) Registries() []string { return []string{e.RegistryHost} }

// ProjectDependenciesLocks implements [fare.Extension].
func (e *Engine) ProjectDependenciesLocks(ctx context.Context, workingDir string) (*fare.ProjectDependenciesLocks, error) {
	r, err := observe(ctx, KindProjectLocks, workingDir, func() (*projectResult[fare.Lock], error) {
		return runProject[fare.Lock](ctx, e, workingDir, npm.ReadLock)
	})
	if err != nil {
		return nil, err
	}
	return &fare.ProjectDependenciesLocks{
		ProjectPath: r.root,
		PackageLocks: fare.PackageLocks{
			PrimaryPackage:     r.primary,
			PrimaryPackageLock: r.primaryMeta,
			DependenciesLocks:  r.deps,
		},
	}, nil
}

// ProjectDependenciesConfigs implements [fare.Extension].
func (e *Engine) ProjectDependenciesConfigs(ctx context.Context, workingDir string) (*fare.ProjectDependenciesConfigs, error) {
	r, err := observe(ctx, KindProjectConfigs, workingDir, func() (*projectResult[fare.Config], error) {
		return runProject[fare.Config](ctx, e, workingDir, npm.ReadConfig)
	})
	if err != nil {
		return nil, err
	}
	return &fare.ProjectDependenciesConfigs{
		ProjectPath: r.root,
		PackageConfigs: fare.PackageConfigs{
			PrimaryPackage:       r.primary,
			PrimaryPackageConfig: r.primaryMeta,
			DependenciesConfigs:  r.deps,
		},
	}, nil
}

// PackageDependenciesLocks implements [fare.Extension].
func (e *Engine) PackageDependenciesLocks(ctx context.Context, name, version string) (*fare.PackageDependenciesLocks, error) {
	r, err := observe(ctx, KindPackageLocks, npm.Spec(name, version), func() (*projectResult[fare.Lock], error) {
		return runPackage[fare.Lock](ctx, e, name, version, npm.ReadLock)
	})
	if err != nil {
		return nil, err
	}
	return &fare.PackageDependenciesLocks{
		RegistryHostName: e.RegistryHost,
		PackageLocks: fare.PackageLocks{
			PrimaryPackage:     r.primary,
			PrimaryPackageLock: r.primaryMeta,
			DependenciesLocks:  r.deps,
		},
	}, nil
}

// PackageDependenciesConfigs implements [fare.Extension].
func (e *Engine) PackageDependenciesConfigs(ctx context.Context, name, version string) (*fare.PackageDependenciesConfigs, error) {
	r, err := observe(ctx, KindPackageConfigs, npm.Spec(name, version), func() (*projectResult[fare.Config], error) {
		return runPackage[fare.Config](ctx, e, name, version, npm.ReadConfig)
	})
	if err != nil {
		return nil, err
	}
	return &fare.PackageDependenciesConfigs{
		RegistryHostName: e.RegistryHost,
		PackageConfigs: fare.PackageConfigs{
			PrimaryPackage:       r.primary,
			PrimaryPackageConfig: r.primaryMeta,
			DependenciesConfigs:  r.deps,
		},
	}, nil
}

// projectResult is the ecosystem-neutral outcome of one query.
type projectResult[V any] struct {
	root        string
	primary     *fare.Package
	primaryMeta *V
	deps        fare.DependencyMap[V]
}

func observe[V any](ctx context.Context, kind, subject string, run func() (*projectResult[V], error)) (*projectResult[V], error) {
	hooks := observability.Query()
	hooks.OnQueryStart(ctx, kind, subject)
	start := time.Now()

	r, err := run()

	n := 0
	if r != nil {
		n = len(r.deps)
	}
	hooks.OnQueryComplete(ctx, kind, subject, n, time.Since(start), err)
	return r, err
}
