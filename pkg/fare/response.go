package fare

import "context"

// PackageLocks is the primary package, its own lock, and the locks of
// everything installed alongside it.
type PackageLocks struct {
	PrimaryPackage     *Package          `json:"primary_package"`
	PrimaryPackageLock *Lock             `json:"primary_package_lock"`
	DependenciesLocks  DependenciesLocks `json:"dependencies_locks"`
}

// PackageConfigs is the config analogue of [PackageLocks].
type PackageConfigs struct {
	PrimaryPackage       *Package            `json:"primary_package"`
	PrimaryPackageConfig *Config             `json:"primary_package_config"`
	DependenciesConfigs  DependenciesConfigs `json:"dependencies_configs"`
}

// ProjectDependenciesLocks answers a lock query for a project on disk.
// The zero value, with an empty dependency map, is the result for a
// directory that is not inside any npm project.
type ProjectDependenciesLocks struct {
	ProjectPath  string       `json:"project_path"`
	PackageLocks PackageLocks `json:"package_locks"`
}

// ProjectDependenciesConfigs answers a config query for a project on disk.
type ProjectDependenciesConfigs struct {
	ProjectPath    string         `json:"project_path"`
	PackageConfigs PackageConfigs `json:"package_configs"`
}

// PackageDependenciesLocks answers a lock query for a registry package.
type PackageDependenciesLocks struct {
	RegistryHostName string       `json:"registry_host_name"`
	PackageLocks     PackageLocks `json:"package_locks"`
}

// PackageDependenciesConfigs answers a config query for a registry package.
type PackageDependenciesConfigs struct {
	RegistryHostName string         `json:"registry_host_name"`
	PackageConfigs   PackageConfigs `json:"package_configs"`
}

// Extension is the contract a host uses to query an ecosystem extension.
//
// workingDir must be absolute. An empty version asks the extension to
// resolve the registry's latest version.
type Extension interface {
	// Name returns the extension identifier (e.g., "js").
	Name() string
	// Registries returns the registry host names the extension serves.
	Registries() []string

	ProjectDependenciesLocks(ctx context.Context, workingDir string) (*ProjectDependenciesLocks, error)
	ProjectDependenciesConfigs(ctx context.Context, workingDir string) (*ProjectDependenciesConfigs, error)
	PackageDependenciesLocks(ctx context.Context, name, version string) (*PackageDependenciesLocks, error)
	PackageDependenciesConfigs(ctx context.Context, name, version string) (*PackageDependenciesConfigs, error)
}
