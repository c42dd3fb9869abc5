package npm

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/farelock/pkg/errors"
)

// File and directory names that make up an npm project on disk.
const (
	PackageJSON     = "package.json"
	PackageLockJSON = "package-lock.json"
	NodeModulesDir  = "node_modules"
)

// ManifestKind identifies which recognized manifest a [ManifestFile] is.
type ManifestKind int

const (
	// PrimaryManifest is package.json.
	PrimaryManifest ManifestKind = iota
	// LockManifest is package-lock.json.
	LockManifest
)

// FileName returns the file name associated with the manifest kind.
func (k ManifestKind) FileName() string {
	switch k {
	case PrimaryManifest:
		return PackageJSON
	case LockManifest:
		return PackageLockJSON
	default:
		return ""
	}
}

func (k ManifestKind) String() string { return k.FileName() }

// manifestKinds lists the recognized manifests in lookup order.
var manifestKinds = []ManifestKind{PrimaryManifest, LockManifest}

// primaryPreference orders manifests by which identifies the project.
// package-lock.json records the name and version npm last installed.
var primaryPreference = []ManifestKind{LockManifest, PrimaryManifest}

// ManifestFile is a recognized manifest found by [FindManifests].
type ManifestFile struct {
	Kind ManifestKind
	Path string // absolute
}

// Dir returns the directory holding the manifest, which is the project root.
func (m ManifestFile) Dir() string {
	return filepath.Dir(m.Path)
}

// FindManifests walks upward from dir and returns the recognized manifests
// at the first level that contains at least one of them. Ancestors above a
// hit are not searched. It returns nil if the filesystem root is reached
// without a hit.
//
// dir must be absolute; a relative path is a programming error and panics.
func FindManifests(dir string) []ManifestFile {
	var found []ManifestFile
	walkUp(dir, func(d string) bool {
		for _, kind := range manifestKinds {
			p := filepath.Join(d, kind.FileName())
			if isFile(p) {
				found = append(found, ManifestFile{Kind: kind, Path: p})
			}
		}
		return len(found) > 0
	})
	return found
}

// Primary picks the manifest that identifies the project: package-lock.json
// when present at the winning level, otherwise package.json.
func Primary(files []ManifestFile) (ManifestFile, bool) {
	for _, kind := range primaryPreference {
		for _, f := range files {
			if f.Kind == kind {
				return f, true
			}
		}
	}
	return ManifestFile{}, false
}

// FindNodeModules walks upward from dir looking for a node_modules
// directory and returns the first one found.
//
// dir must be absolute; a relative path is a programming error and panics.
func FindNodeModules(dir string) (string, bool) {
	var found string
	walkUp(dir, func(d string) bool {
		p := filepath.Join(d, NodeModulesDir)
		if isDir(p) {
			found = p
			return true
		}
		return false
	})
	return found, found != ""
}

// GlobalNodeModules would locate the system-wide install tree. Only local
// install trees are searched.
func GlobalNodeModules() (string, error) {
	return "", errors.New(errors.ErrCodeUnsupported, "global node_modules lookup is not implemented")
}

// walkUp calls visit on dir and then on each ancestor until visit returns
// true or the filesystem root has been visited.
func walkUp(dir string, visit func(string) bool) {
	if !filepath.IsAbs(dir) {
		panic("npm: directory must be absolute: " + dir)
	}
	dir = filepath.Clean(dir)
	for {
		if visit(dir) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
