// Package query answers dependency metadata queries for npm packages.
//
// # Overview
//
// [Engine] implements [fare.Extension] with two kinds of query, each
// available for OPENFARE.lock ("locks") and OPENFARE.json ("configs"):
//
//  1. Project queries read an npm project already on disk
//  2. Package queries install a registry package into a scratch directory
//     and read the result
//
// # Project Queries
//
// The project root is the nearest directory at or above the working
// directory holding package.json or package-lock.json. No such directory is
// not an error; the result is empty. If no node_modules tree serves the
// root, the engine runs "npm install --prod" there once and searches
// again.
//
// # Package Queries
//
// Without an explicit version the registry's latest is installed. The
// scratch directory is removed before the call returns, whatever the
// outcome. A package manager run that exits non-zero is logged and the tree
// it left behind is read anyway.
//
// In both cases the primary package is reported separately and never
// appears in its own dependency map. A broken dependency entry is skipped;
// only failures on the primary package are returned as errors.
package query
