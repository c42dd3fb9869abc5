package npm

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates path (and its parents) with the given contents.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// installPackage lays out node_modules/<name>/package.json under root.
func installPackage(t *testing.T, nodeModules, name, version string) string {
	t.Helper()
	dir := filepath.Join(nodeModules, filepath.FromSlash(name))
	writeFile(t, filepath.Join(dir, PackageJSON), `{"name":"`+name+`","version":"`+version+`"}`)
	return dir
}
