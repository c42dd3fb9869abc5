package fare

import (
	"encoding/json"
	"testing"
)

func TestPackageCompare(t *testing.T) {
	tests := []struct {
		a, b Package
		want int
	}{
		{NewPackage("a", "1.0.0"), NewPackage("b", "0.1.0"), -1},
		{NewPackage("b", "1.0.0"), NewPackage("a", "9.0.0"), 1},
		{NewPackage("a", "1.0.0"), NewPackage("a", "1.1.0"), -1},
		{NewPackage("a", "1.0.0"), NewPackage("a", "1.0.0"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_"+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPackageEqualityAsKey(t *testing.T) {
	m := DependenciesLocks{}
	m[NewPackage("a", "1.0.0")] = nil
	m[NewPackage("a", "1.0.0")] = &Lock{"k": "v"}

	if len(m) != 1 {
		t.Fatalf("len = %d, want identical identities to collapse to 1", len(m))
	}
	if m[NewPackage("a", "1.0.0")] == nil {
		t.Error("last write should win")
	}
}

func TestPackageText(t *testing.T) {
	tests := []struct {
		text    string
		want    Package
		wantErr bool
	}{
		{"left-pad@1.3.0", NewPackage("left-pad", "1.3.0"), false},
		{"@types/node@20.1.0", NewPackage("@types/node", "20.1.0"), false},
		{"left-pad", Package{}, true},
		{"@types/node", Package{}, true},
		{"left-pad@", Package{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var p Package
			err := p.UnmarshalText([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if !tt.wantErr && p != tt.want {
				t.Errorf("UnmarshalText(%q) = %+v, want %+v", tt.text, p, tt.want)
			}
		})
	}
}

func TestDependencyMapSorted(t *testing.T) {
	m := DependenciesLocks{
		NewPackage("zeta", "1.0.0"):  nil,
		NewPackage("alpha", "2.0.0"): &Lock{},
		NewPackage("alpha", "1.0.0"): nil,
	}

	entries := m.Sorted()
	want := []string{"alpha@1.0.0", "alpha@2.0.0", "zeta@1.0.0"}
	if len(entries) != len(want) {
		t.Fatalf("len = %d, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Package.String() != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, e.Package, want[i])
		}
	}
	if m.WithMetadata() != 1 {
		t.Errorf("WithMetadata() = %d, want 1", m.WithMetadata())
	}
}

func TestDependencyMapWithout(t *testing.T) {
	primary := NewPackage("app", "0.1.0")
	m := DependenciesConfigs{
		primary:                  nil,
		NewPackage("b", "1.0.0"): nil,
	}

	m.Without(&primary).Without(nil)

	if _, ok := m[primary]; ok {
		t.Error("primary package should be removed")
	}
	if len(m) != 1 {
		t.Errorf("len = %d, want 1", len(m))
	}
}

func TestDependencyMapJSON(t *testing.T) {
	m := DependenciesLocks{
		NewPackage("a", "1.0.0"):         &Lock{"schema-version": "1"},
		NewPackage("@s/b", "2.0.0-rc.1"): nil,
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got DependenciesLocks
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[NewPackage("@s/b", "2.0.0-rc.1")] != nil {
		t.Error("absent lock should stay absent")
	}
	lock := got[NewPackage("a", "1.0.0")]
	if lock == nil || (*lock)["schema-version"] != "1" {
		t.Errorf("lock = %v, want schema-version 1", lock)
	}
}
