package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/shell"
)

// Output is the result of running the external command. It's never an error:
// a failed run is marked as such, along with whatever stdout it produced.
type Output struct {
	Stdout string `json:"stdout"`
	Failed bool   `json:"failed"`           // did the command fail to run or exit non-zero?
	Reason string `json:"reason,omitempty"` // why it failed, if applicable
}

// Runner runs a command and returns its standard output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as subprocesses, discarding their stderr
type ExecRunner struct{}

// Run executes the command, returning stdout even if it exits non-zero
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = nil // discarded
	err := cmd.Run()
	return stdout.Bytes(), err
}

// Fetcher runs a fixed external command with per-request arguments
type Fetcher struct {
	command []string
	runner  Runner
	logger  *zap.Logger
}

// New creates a Fetcher for the given command line, split into words the way
// a shell would: "tlmgr --usermode" runs tlmgr with --usermode before any
// request arguments.
func New(commandLine string, logger *zap.Logger) (*Fetcher, error) {
	words, err := shell.Fields(commandLine, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", commandLine, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty command %q", commandLine)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{command: words, runner: ExecRunner{}, logger: logger}, nil
}

// WithRunner swaps out how commands are run
func (f *Fetcher) WithRunner(r Runner) *Fetcher {
	f.runner = r
	return f
}

// Command returns the full command line that Fetch would run with args
func (f *Fetcher) Command(args ...string) []string {
	return append(append([]string{}, f.command...), args...)
}

// Fetch runs the command with args and captures its standard output.
//
// It never fails the caller: a missing command or non-zero exit results in a
// failed Output rather than an error.
func (f *Fetcher) Fetch(ctx context.Context, args ...string) Output {
	argv := f.Command(args...)
	log := f.logger.With(zap.String("command", strings.Join(argv, " ")))

	stdout, err := f.runner.Run(ctx, argv[0], argv[1:]...)
	out := Output{Stdout: string(stdout)}
	if err != nil {
		out.Failed = true
		out.Reason = describe(err)
		log.Info("fetch failed", zap.String("reason", out.Reason), zap.Int("bytes", len(stdout)))
		return out
	}

	log.Debug("fetched", zap.Int("bytes", len(stdout)))
	return out
}

func describe(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exited with status %d", exitErr.ExitCode())
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "command not found"
	}
	return err.Error()
}
