package npm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/fare"
)

// Loader reads an optional metadata document from a package directory.
// It returns nil, nil when the package declares no document.
type Loader[V any] func(packageDir string) (*V, error)

// Extractor walks install trees and collects per-package identity and
// metadata. A failure on one entry never aborts the walk.
type Extractor struct {
	logger *log.Logger
}

// NewExtractor returns an Extractor that reports skipped entries to logger
// at debug level. A nil logger discards them.
func NewExtractor(logger *log.Logger) *Extractor {
	if logger == nil {
		logger = discardLogger()
	}
	return &Extractor{logger: logger}
}

// Locks returns every package in nodeModules with its optional lock.
func (x *Extractor) Locks(nodeModules string) (fare.DependenciesLocks, error) {
	return Extract[fare.Lock](x, nodeModules, ReadLock)
}

// Configs returns every package in nodeModules with its optional config.
func (x *Extractor) Configs(nodeModules string) (fare.DependenciesConfigs, error) {
	return Extract[fare.Config](x, nodeModules, ReadConfig)
}

// Extract walks the immediate subdirectories of nodeModules. Entries that
// are not directories, cannot be read, or lack a valid package.json are
// skipped. Packages with a valid package.json are always recorded; a
// missing or unreadable metadata document is recorded as nil.
//
// Scope directories ("@scope") are descended one level, since npm installs
// scoped packages beneath them.
//
// Only a failure to list nodeModules itself is returned as an error.
func Extract[V any](x *Extractor, nodeModules string, load Loader[V]) (fare.DependencyMap[V], error) {
	entries, err := os.ReadDir(nodeModules)
	if err != nil && len(entries) == 0 {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read install tree %s", nodeModules)
	}
	if err != nil {
		x.logger.Debug("Partial install tree listing", "dir", nodeModules, "err", err)
	}

	result := make(fare.DependencyMap[V])
	for _, entry := range entries {
		dir := filepath.Join(nodeModules, entry.Name())
		if !isDir(dir) {
			continue
		}
		if isScope(entry.Name()) && !isFile(filepath.Join(dir, PackageJSON)) {
			collectScope(x, result, dir, load)
			continue
		}
		collect(x, result, dir, load)
	}
	return result, nil
}

func collectScope[V any](x *Extractor, result fare.DependencyMap[V], scopeDir string, load Loader[V]) {
	entries, err := os.ReadDir(scopeDir)
	if err != nil {
		x.logger.Debug("Skipping unreadable scope", "dir", scopeDir, "err", err)
	}
	for _, entry := range entries {
		dir := filepath.Join(scopeDir, entry.Name())
		if isDir(dir) {
			collect(x, result, dir, load)
		}
	}
}

func collect[V any](x *Extractor, result fare.DependencyMap[V], dir string, load Loader[V]) {
	pkg, err := ReadPackage(filepath.Join(dir, PackageJSON))
	if err != nil {
		x.logger.Debug("Skipping package directory", "dir", dir, "err", err)
		return
	}
	meta, err := load(dir)
	if err != nil {
		x.logger.Debug("Ignoring unreadable metadata", "package", pkg, "err", err)
		meta = nil
	}
	result[pkg] = meta
}

func isScope(name string) bool {
	return strings.HasPrefix(name, "@")
}

// packageFile holds the identity fields of package.json.
type packageFile struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReadPackage reads the package identity from a package.json (or
// package-lock.json) file. Both name and version must be non-empty strings.
func ReadPackage(manifestPath string) (fare.Package, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fare.Package{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", manifestPath)
		}
		return fare.Package{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", manifestPath)
	}

	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fare.Package{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", manifestPath)
	}
	if pkg.Name == "" {
		return fare.Package{}, errors.New(errors.ErrCodeInvalidManifest, "missing package name in %s", manifestPath)
	}
	if pkg.Version == "" {
		return fare.Package{}, errors.New(errors.ErrCodeInvalidManifest, "missing package version in %s", manifestPath)
	}
	return fare.NewPackage(pkg.Name, pkg.Version), nil
}

// ReadLock reads OPENFARE.lock from packageDir. A missing file yields
// nil, nil.
func ReadLock(packageDir string) (*fare.Lock, error) {
	return readDocument[fare.Lock](filepath.Join(packageDir, fare.LockFileName))
}

// ReadConfig reads OPENFARE.json from packageDir. A missing file yields
// nil, nil.
func ReadConfig(packageDir string) (*fare.Config, error) {
	return readDocument[fare.Config](filepath.Join(packageDir, fare.ConfigFileName))
}

func readDocument[V any](path string) (*V, error) {
	if !isFile(path) {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return &v, nil
}
