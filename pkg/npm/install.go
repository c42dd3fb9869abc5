package npm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/observability"
)

// DefaultCommand is the package manager executable looked up on PATH.
const DefaultCommand = "npm"

// ScratchPrefix prefixes the temporary directories created for registry
// queries.
const ScratchPrefix = "farelock-"

// Installer populates a node_modules tree by running the package manager.
type Installer interface {
	// Install installs spec ("name" or "name@version") into dir.
	Install(ctx context.Context, dir, spec string) error
	// InstallProduction installs the production dependencies of the project
	// rooted at dir.
	InstallProduction(ctx context.Context, dir string) error
}

// InstallError reports a package manager run that started but exited with
// a non-zero status. The tree it leaves behind may still be usable.
type InstallError struct {
	Args     []string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("%s in %s exited with status %d", strings.Join(e.Args, " "), e.Dir, e.ExitCode)
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// NPM runs the npm CLI.
type NPM struct {
	// Command is the executable name or path. Empty means [DefaultCommand].
	Command string
	// Timeout bounds a single run. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewNPM returns an NPM installer using command, or [DefaultCommand] when
// command is empty.
func NewNPM(command string, timeout time.Duration) *NPM {
	return &NPM{Command: command, Timeout: timeout}
}

// Install runs "npm install <spec>" in dir.
func (n *NPM) Install(ctx context.Context, dir, spec string) error {
	return n.run(ctx, dir, "install", spec)
}

// InstallProduction runs "npm install --prod" in dir.
func (n *NPM) InstallProduction(ctx context.Context, dir string) error {
	return n.run(ctx, dir, "install", "--prod")
}

func (n *NPM) run(ctx context.Context, dir string, args ...string) (err error) {
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	hooks := observability.Provision()
	hooks.OnInstallStart(ctx, dir, args)
	start := time.Now()
	defer func() { hooks.OnInstallComplete(ctx, dir, args, time.Since(start), err) }()

	command := n.Command
	if command == "" {
		command = DefaultCommand
	}

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	// A nil Stdin reads from the null device, so npm never prompts.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && ctx.Err() == nil {
			return &InstallError{
				Args:     append([]string{command}, args...),
				Dir:      dir,
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}
		if cerr := ctx.Err(); cerr != nil {
			code := errors.ErrCodeProvision
			if cerr == context.DeadlineExceeded {
				code = errors.ErrCodeTimeout
			}
			return errors.Wrap(code, cerr, "%s %s", command, strings.Join(args, " "))
		}
		return errors.Wrap(errors.ErrCodeProvision, err, "start %s", command)
	}
	return nil
}

// Spec renders an install argument: "name" when version is empty,
// otherwise "name@version".
func Spec(name, version string) string {
	if version == "" {
		return name
	}
	return name + "@" + version
}

// ScratchDir is a temporary directory owned by a single query.
type ScratchDir struct {
	path string
	once sync.Once
	err  error
}

// NewScratchDir creates a fresh directory under the system temp dir whose
// name starts with prefix.
func NewScratchDir(prefix string) (*ScratchDir, error) {
	path, err := os.MkdirTemp("", prefix+"*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProvision, err, "create scratch directory")
	}
	return &ScratchDir{path: path}, nil
}

// Path returns the directory's absolute path.
func (s *ScratchDir) Path() string { return s.path }

// Release removes the directory and everything in it. Only the first call
// does any work; later calls return the first result.
func (s *ScratchDir) Release() error {
	s.once.Do(func() {
		if err := os.RemoveAll(s.path); err != nil {
			s.err = errors.Wrap(errors.ErrCodeInternal, err, "remove scratch directory %s", s.path)
		}
	})
	return s.err
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
