package query

import (
	"context"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/fare"
	"github.com/matzehuels/farelock/pkg/npm"
)

// runProject answers a query for the npm project enclosing workingDir.
//
// No manifest between workingDir and the filesystem root yields an empty
// result. Failures reading the primary package are returned; failures in
// individual dependencies are not.
func runProject[V any](ctx context.Context, e *Engine, workingDir string, load npm.Loader[V]) (*projectResult[V], error) {
	manifest, ok := npm.Primary(npm.FindManifests(workingDir))
	if !ok {
		e.Logger.Debug("No npm manifest found", "dir", workingDir)
		return &projectResult[V]{deps: fare.DependencyMap[V]{}}, nil
	}
	root := manifest.Dir()
	e.Logger.Debug("Found manifest", "path", manifest.Path)

	primary, err := npm.ReadPackage(manifest.Path)
	if err != nil {
		return nil, withContext(err, "read project package in %s", root)
	}
	meta, err := load(root)
	if err != nil {
		return nil, withContext(err, "read metadata of %s", primary)
	}

	nodeModules, found, err := e.installTree(ctx, root)
	if err != nil {
		return nil, err
	}
	if !found {
		e.Logger.Debug("No node_modules found after install", "dir", root)
		return &projectResult[V]{
			root:        root,
			primary:     &primary,
			primaryMeta: meta,
			deps:        fare.DependencyMap[V]{},
		}, nil
	}

	deps, err := npm.Extract[V](npm.NewExtractor(e.Logger), nodeModules, load)
	if err != nil {
		return nil, err
	}
	return &projectResult[V]{
		root:        root,
		primary:     &primary,
		primaryMeta: meta,
		deps:        deps.Without(&primary),
	}, nil
}

// installTree finds the node_modules tree serving the project at root. When
// none exists it runs a production install in root and searches once more.
// An install that fails is logged, not returned; the second search decides.
func (e *Engine) installTree(ctx context.Context, root string) (string, bool, error) {
	if dir, ok := npm.FindNodeModules(root); ok {
		e.Logger.Debug("Found node_modules", "dir", dir)
		return dir, true, nil
	}

	e.Logger.Info("No node_modules found, installing production dependencies", "dir", root)
	if err := e.Installer.InstallProduction(ctx, root); err != nil {
		if ctx.Err() != nil {
			return "", false, withContext(err, "install dependencies of %s", root)
		}
		e.logInstallFailure(err)
	}

	dir, ok := npm.FindNodeModules(root)
	return dir, ok, nil
}

func (e *Engine) logInstallFailure(err error) {
	var ierr *npm.InstallError
	if errors.As(err, &ierr) {
		e.Logger.Warn("Package manager exited with an error",
			"cmd", ierr.Args,
			"dir", ierr.Dir,
			"status", ierr.ExitCode,
			"stderr", ierr.Stderr)
		return
	}
	e.Logger.Warn("Package manager failed", "err", err)
}

// withContext wraps err with a message while keeping its error code.
func withContext(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format, args...)
}
