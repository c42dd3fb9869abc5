// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package resolves the latest published version of a package from the
// npm registry (https://registry.npmjs.com), which registry queries use
// when the caller does not pin a version.
//
// # Usage
//
//	client := npm.NewClient("", 30*time.Second)
//
//	version, ok, err := client.LatestVersion(ctx, "express")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !ok {
//	    fmt.Println("no published versions")
//	}
//
// # Version Selection
//
// The latest version is the LAST key of the document's "versions" object
// in the order the registry sent it. dist-tags are not consulted and
// versions are not compared semantically, so a registry that lists
// versions out of publication order yields whatever it lists last.
//
// Scoped names are path-escaped ("@types/node" is requested as
// "@types%2Fnode").
package npm
