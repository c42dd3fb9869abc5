package query

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/npm"
)

// runPackage installs name (at version, or the registry's latest) into a
// scratch directory and reads the resulting tree. The scratch directory is
// released before returning on every path.
func runPackage[V any](ctx context.Context, e *Engine, name, version string, load npm.Loader[V]) (*projectResult[V], error) {
	if err := errors.ValidateNpmPackageName(name); err != nil {
		return nil, err
	}
	version, err := e.resolveVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	spec := npm.Spec(name, version)

	scratch, err := npm.NewScratchDir(e.ScratchPrefix)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scratch.Release(); err != nil {
			e.Logger.Warn("Failed to remove scratch directory", "dir", scratch.Path(), "err", err)
		}
	}()

	e.Logger.Debug("Installing package", "spec", spec, "dir", scratch.Path())
	installErr := e.Installer.Install(ctx, scratch.Path(), spec)
	if installErr != nil {
		var ierr *npm.InstallError
		if !errors.As(installErr, &ierr) {
			return nil, withContext(installErr, "install %s", spec)
		}
		e.logInstallFailure(installErr)
	}

	nodeModules := filepath.Join(scratch.Path(), npm.NodeModulesDir)
	primaryDir := filepath.Join(nodeModules, filepath.FromSlash(name))

	primary, err := npm.ReadPackage(filepath.Join(primaryDir, npm.PackageJSON))
	if err != nil {
		if installErr != nil {
			return nil, errors.Wrap(errors.ErrCodeProvision, installErr, "install %s", spec)
		}
		return nil, withContext(err, "read installed package %s", spec)
	}
	meta, err := load(primaryDir)
	if err != nil {
		return nil, withContext(err, "read metadata of %s", primary)
	}

	deps, err := npm.Extract[V](npm.NewExtractor(e.Logger), nodeModules, load)
	if err != nil {
		return nil, err
	}
	return &projectResult[V]{
		primary:     &primary,
		primaryMeta: meta,
		deps:        deps.Without(&primary),
	}, nil
}

// resolveVersion returns version unchanged when set, otherwise the
// registry's latest. A package with no published versions resolves to ""
// and is installed unpinned.
func (e *Engine) resolveVersion(ctx context.Context, name, version string) (string, error) {
	if version != "" {
		return version, errors.ValidateVersion(version)
	}
	latest, ok, err := e.Registry.LatestVersion(ctx, name)
	if err != nil {
		return "", withContext(err, "resolve latest version of %s", name)
	}
	if !ok {
		e.Logger.Warn("Registry lists no versions, installing unpinned", "package", name)
		return "", nil
	}
	e.Logger.Debug("Resolved latest version", "package", name, "version", latest)
	return latest, nil
}
