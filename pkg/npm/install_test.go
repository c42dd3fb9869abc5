package npm

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/farelock/pkg/errors"
)

// fakeNPM writes an executable shell script standing in for npm.
func fakeNPM(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "npm")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake npm: %v", err)
	}
	return path
}

func TestNPMInstall(t *testing.T) {
	// The fake records its arguments and lays out the requested package.
	bin := fakeNPM(t, `echo "$@" > args.txt
mkdir -p node_modules/is-even
echo '{"name":"is-even","version":"1.0.0"}' > node_modules/is-even/package.json
`)
	dir := t.TempDir()

	if err := NewNPM(bin, 0).Install(context.Background(), dir, Spec("is-even", "1.0.0")); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	if err != nil {
		t.Fatalf("fake npm did not run in dir: %v", err)
	}
	if got := strings.TrimSpace(string(args)); got != "install is-even@1.0.0" {
		t.Errorf("args = %q, want %q", got, "install is-even@1.0.0")
	}
	if _, err := ReadPackage(filepath.Join(dir, NodeModulesDir, "is-even", PackageJSON)); err != nil {
		t.Errorf("installed package unreadable: %v", err)
	}
}

func TestNPMInstallProduction(t *testing.T) {
	bin := fakeNPM(t, `echo "$@" > args.txt`)
	dir := t.TempDir()

	if err := NewNPM(bin, 0).InstallProduction(context.Background(), dir); err != nil {
		t.Fatalf("InstallProduction() error: %v", err)
	}
	args, _ := os.ReadFile(filepath.Join(dir, "args.txt"))
	if got := strings.TrimSpace(string(args)); got != "install --prod" {
		t.Errorf("args = %q, want %q", got, "install --prod")
	}
}

func TestNPMInstallStdinIsEmpty(t *testing.T) {
	// cat would block forever on an inherited terminal.
	bin := fakeNPM(t, `cat > stdin.txt`)
	dir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := NewNPM(bin, 0).Install(ctx, dir, "x"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "stdin.txt"))
	if len(data) != 0 {
		t.Errorf("stdin = %q, want empty", data)
	}
}

func TestNPMInstallNonZeroExit(t *testing.T) {
	bin := fakeNPM(t, `echo "progress"
echo "npm ERR! 404 Not Found" >&2
exit 3`)

	err := NewNPM(bin, 0).Install(context.Background(), t.TempDir(), "missing-pkg")
	var ierr *InstallError
	if !stderrors.As(err, &ierr) {
		t.Fatalf("Install() error = %v, want *InstallError", err)
	}
	if ierr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", ierr.ExitCode)
	}
	if !strings.Contains(ierr.Stderr, "404") {
		t.Errorf("Stderr = %q, want captured output", ierr.Stderr)
	}
	if !strings.Contains(ierr.Stdout, "progress") {
		t.Errorf("Stdout = %q, want captured output", ierr.Stdout)
	}
	if !strings.Contains(ierr.Error(), "npm ERR! 404 Not Found") {
		t.Errorf("Error() = %q, want stderr tail", ierr.Error())
	}
}

func TestNPMInstallMissingExecutable(t *testing.T) {
	n := NewNPM(filepath.Join(t.TempDir(), "no-such-npm"), 0)

	err := n.Install(context.Background(), t.TempDir(), "x")
	if !errors.Is(err, errors.ErrCodeProvision) {
		t.Errorf("Install() error = %v, want PROVISION_FAILED", err)
	}
	var ierr *InstallError
	if stderrors.As(err, &ierr) {
		t.Error("spawn failure must not be reported as an exit status")
	}
}

func TestNPMInstallTimeout(t *testing.T) {
	bin := fakeNPM(t, `exec sleep 5`)

	err := NewNPM(bin, 50*time.Millisecond).Install(context.Background(), t.TempDir(), "x")
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Install() error = %v, want TIMEOUT", err)
	}
}

func TestNPMInstallContextDone(t *testing.T) {
	tests := []struct {
		name     string
		ctx      func() (context.Context, context.CancelFunc)
		wantCode errors.Code
		wantErr  error
	}{
		{
			name: "deadline",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
			wantCode: errors.ErrCodeTimeout,
			wantErr:  context.DeadlineExceeded,
		},
		{
			name: "cancelled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(50*time.Millisecond, cancel)
				return ctx, cancel
			},
			wantCode: errors.ErrCodeProvision,
			wantErr:  context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := fakeNPM(t, `exec sleep 5`)
			ctx, cancel := tt.ctx()
			defer cancel()

			err := NewNPM(bin, 0).Install(ctx, t.TempDir(), "x")
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("GetCode() = %s, want %s", got, tt.wantCode)
			}
			if !stderrors.Is(err, tt.wantErr) {
				t.Errorf("Install() error = %v, want it to wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpec(t *testing.T) {
	tests := []struct {
		name, version, want string
	}{
		{"is-even", "", "is-even"},
		{"is-even", "1.0.0", "is-even@1.0.0"},
		{"@types/node", "20.1.0", "@types/node@20.1.0"},
	}
	for _, tt := range tests {
		if got := Spec(tt.name, tt.version); got != tt.want {
			t.Errorf("Spec(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.want)
		}
	}
}

func TestScratchDir(t *testing.T) {
	s, err := NewScratchDir(ScratchPrefix)
	if err != nil {
		t.Fatalf("NewScratchDir() error: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(s.Path()), ScratchPrefix) {
		t.Errorf("Path() = %q, want prefix %q", s.Path(), ScratchPrefix)
	}
	writeFile(t, filepath.Join(s.Path(), NodeModulesDir, "a", PackageJSON), `{}`)

	if err := s.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("scratch dir still exists after Release(): %v", err)
	}
	if err := s.Release(); err != nil {
		t.Errorf("second Release() error: %v", err)
	}
}
