// Package npm discovers npm projects and install trees on disk.
//
// # Locating
//
// [FindManifests] walks upward from a directory to the nearest level that
// holds package.json and/or package-lock.json. [FindNodeModules] performs
// the same walk for a node_modules directory. Both take absolute paths and
// report absence as an empty result rather than an error.
//
// # Provisioning
//
// An [Installer] populates a node_modules tree. [NPM] shells out to the npm
// CLI with stdin closed and output captured; a run that exits non-zero
// returns an [*InstallError] so callers can decide whether the partial tree
// is still worth reading. [ScratchDir] holds a throwaway install for
// registry queries.
//
// # Extracting
//
// An [Extractor] lists the packages in a node_modules tree together with
// their optional OPENFARE.lock or OPENFARE.json documents:
//
//	x := npm.NewExtractor(logger)
//	locks, err := x.Locks("/srv/app/node_modules")
//
// Broken entries are logged at debug level and skipped; only an unreadable
// tree root is an error.
package npm
