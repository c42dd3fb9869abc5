package npm

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/fare"
)

func TestExtractLocks(t *testing.T) {
	nm := filepath.Join(t.TempDir(), NodeModulesDir)
	a := installPackage(t, nm, "a", "1.0.0")
	writeFile(t, filepath.Join(a, fare.LockFileName), `{"schema-version":"1"}`)
	installPackage(t, nm, "b", "2.0.0")
	// Directory without package.json is skipped.
	mkdir(t, filepath.Join(nm, "c"))
	// Plain files are skipped.
	writeFile(t, filepath.Join(nm, ".package-lock.json"), `{}`)
	// Scoped packages live one level down.
	installPackage(t, nm, "@scope/d", "3.0.0")

	got, err := NewExtractor(nil).Locks(nm)
	if err != nil {
		t.Fatalf("Locks() error: %v", err)
	}

	want := map[fare.Package]bool{
		fare.NewPackage("a", "1.0.0"):        true,
		fare.NewPackage("b", "2.0.0"):        false,
		fare.NewPackage("@scope/d", "3.0.0"): false,
	}
	if len(got) != len(want) {
		t.Fatalf("Locks() returned %d packages, want %d: %v", len(got), len(want), got)
	}
	for pkg, hasLock := range want {
		lock, ok := got[pkg]
		if !ok {
			t.Errorf("missing %s", pkg)
			continue
		}
		if (lock != nil) != hasLock {
			t.Errorf("%s lock present = %v, want %v", pkg, lock != nil, hasLock)
		}
	}
	if lock := got[fare.NewPackage("a", "1.0.0")]; lock != nil && (*lock)["schema-version"] != "1" {
		t.Errorf("lock contents = %v", *lock)
	}
}

func TestExtractLocksIdempotent(t *testing.T) {
	nm := filepath.Join(t.TempDir(), NodeModulesDir)
	// Directory names differ from the manifest names on purpose.
	writeFile(t, filepath.Join(nm, "pkg-a", PackageJSON), `{"name":"a","version":"1.0.0"}`)
	writeFile(t, filepath.Join(nm, "pkg-a", fare.LockFileName), `{"schema-version":"1","profile":{"p1":{}}}`)
	writeFile(t, filepath.Join(nm, "pkg-b", PackageJSON), `{"name":"b","version":"2.0.0"}`)
	writeFile(t, filepath.Join(nm, "README"), "not a package")

	e := NewExtractor(nil)
	first, err := e.Locks(nm)
	if err != nil {
		t.Fatalf("first Locks() error: %v", err)
	}
	second, err := e.Locks(nm)
	if err != nil {
		t.Fatalf("second Locks() error: %v", err)
	}

	if len(first) != 2 {
		t.Fatalf("Locks() returned %d packages, want 2: %v", len(first), first)
	}
	if first[fare.NewPackage("a", "1.0.0")] == nil {
		t.Error("a@1.0.0 should carry its lock")
	}
	if lock, ok := first[fare.NewPackage("b", "2.0.0")]; !ok || lock != nil {
		t.Errorf("b@2.0.0 = %v, %v; want present without lock", lock, ok)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Locks() differ:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestExtractConfigs(t *testing.T) {
	nm := filepath.Join(t.TempDir(), NodeModulesDir)
	a := installPackage(t, nm, "a", "1.0.0")
	writeFile(t, filepath.Join(a, fare.ConfigFileName), `{"profile":"p1"}`)
	// A lock file does not count as a config.
	b := installPackage(t, nm, "b", "1.0.0")
	writeFile(t, filepath.Join(b, fare.LockFileName), `{}`)

	got, err := NewExtractor(nil).Configs(nm)
	if err != nil {
		t.Fatalf("Configs() error: %v", err)
	}
	if cfg := got[fare.NewPackage("a", "1.0.0")]; cfg == nil || (*cfg)["profile"] != "p1" {
		t.Errorf("config for a = %v, want profile p1", cfg)
	}
	if cfg, ok := got[fare.NewPackage("b", "1.0.0")]; !ok || cfg != nil {
		t.Errorf("config for b = %v (present %v), want recorded without config", cfg, ok)
	}
}

func TestExtractMalformedEntries(t *testing.T) {
	nm := filepath.Join(t.TempDir(), NodeModulesDir)
	writeFile(t, filepath.Join(nm, "broken", PackageJSON), `{not json`)
	writeFile(t, filepath.Join(nm, "noversion", PackageJSON), `{"name":"noversion"}`)
	ok := installPackage(t, nm, "ok", "1.0.0")
	writeFile(t, filepath.Join(ok, fare.LockFileName), `[not a lock`)

	got, err := NewExtractor(nil).Locks(nm)
	if err != nil {
		t.Fatalf("Locks() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Locks() = %v, want only the valid package", got)
	}
	lock, present := got[fare.NewPackage("ok", "1.0.0")]
	if !present || lock != nil {
		t.Errorf("malformed lock should be recorded as absent, got %v (present %v)", lock, present)
	}
}

func TestExtractEmptyTree(t *testing.T) {
	nm := filepath.Join(t.TempDir(), NodeModulesDir)
	mkdir(t, nm)

	got, err := NewExtractor(nil).Locks(nm)
	if err != nil {
		t.Fatalf("Locks() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Locks() = %v, want empty", got)
	}
}

func TestExtractMissingTree(t *testing.T) {
	_, err := NewExtractor(nil).Locks(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Locks() error = %v, want INVALID_PATH", err)
	}
}

func TestReadPackage(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		contents string
		wantCode errors.Code
	}{
		{"valid", `{"name":"left-pad","version":"1.3.0"}`, ""},
		{"missing name", `{"version":"1.3.0"}`, errors.ErrCodeInvalidManifest},
		{"empty version", `{"name":"left-pad","version":""}`, errors.ErrCodeInvalidManifest},
		{"wrong type", `{"name":1,"version":"1.3.0"}`, errors.ErrCodeInvalidManifest},
		{"malformed", `{`, errors.ErrCodeInvalidManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name, PackageJSON)
			writeFile(t, path, tt.contents)

			pkg, err := ReadPackage(path)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ReadPackage() error: %v", err)
				}
				if pkg != fare.NewPackage("left-pad", "1.3.0") {
					t.Errorf("ReadPackage() = %v", pkg)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("ReadPackage() error = %v, want %s", err, tt.wantCode)
			}
		})
	}

	_, err := ReadPackage(filepath.Join(dir, "absent", PackageJSON))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadPackage(absent) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadLockAbsent(t *testing.T) {
	lock, err := ReadLock(t.TempDir())
	if err != nil || lock != nil {
		t.Errorf("ReadLock() = %v, %v; want nil, nil", lock, err)
	}
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, fare.ConfigFileName), `"just a string"`)

	if _, err := ReadConfig(dir); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("ReadConfig() error = %v, want INVALID_MANIFEST", err)
	}
}
