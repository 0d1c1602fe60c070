// Package agency forwards research queries to the external research agency
// and collects its answer.
package agency

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-researchpdf/internal/process"
)

// DefaultCommand starts the agency's interactive loop.
const DefaultCommand = "python DeepResearchAgency/agency.py"

// quitCommand ends the agency's read loop after one query.
const quitCommand = "quit"

// maxStderr bounds the stderr excerpt carried in errors.
const maxStderr = 512

var (
	ErrEmptyQuery   = errors.New("query is empty")
	ErrEmptyCommand = errors.New("agency command is empty")
	ErrAgencyFailed = errors.New("research agency failed")
)

// Runner answers research queries.
type Runner interface {
	Ask(ctx context.Context, query string) (string, error)
}

// SubprocessRunner runs the agency as a child process per query. The query is
// written to stdin followed by quitCommand, and stdout is the answer.
type SubprocessRunner struct {
	command []string
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

var _ Runner = (*SubprocessRunner)(nil)

// Option configures a SubprocessRunner.
type Option func(*SubprocessRunner)

// WithDir sets the working directory of the agency process.
func WithDir(dir string) Option {
	return func(r *SubprocessRunner) { r.dir = dir }
}

// WithTimeout bounds each query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *SubprocessRunner) { r.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *SubprocessRunner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewSubprocessRunner parses command into program and arguments on whitespace.
// An empty command falls back to DefaultCommand.
func NewSubprocessRunner(command string, opts ...Option) (*SubprocessRunner, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}

	r := &SubprocessRunner{command: fields, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Command returns the program and arguments that Ask runs.
func (r *SubprocessRunner) Command() []string {
	return append([]string(nil), r.command...)
}

// Ask runs one agency session and returns what it printed. The whole process
// group is killed when ctx is done or the timeout expires.
func (r *SubprocessRunner) Ask(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// #nosec G204 -- command comes from operator configuration
	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = r.dir
	cmd.Stdin = strings.NewReader(query + "\n" + quitCommand + "\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	r.logger.Debug("running agency", "command", r.command)

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%w: %w", ErrAgencyFailed, ctxErr)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrAgencyFailed, err, tail(stderr.String()))
	}

	r.logger.Info("agency answered", "duration", time.Since(start), "bytes", stdout.Len())
	return stdout.String(), nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return s
}
