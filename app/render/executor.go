package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Executor runs an external program.
type Executor struct {
	Name   string
	Path   string
	logger *slog.Logger
}

// NewExecutor locates name on PATH.
func NewExecutor(name string, logger *slog.Logger) (*Executor, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s is required but was not found: %w", name, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{Name: name, Path: path, logger: logger}, nil
}

// Run executes the program with args, feeding it stdin when non-nil, and
// returns its standard output.
func (e *Executor) Run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.Path, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	// Capture stdout and stderr
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		e.logger.Debug("external program output", "program", e.Name, "stderr", msg)
	}
	if err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return nil, fmt.Errorf("%s failed: %v\nstderr: %s", e.Name, err, stderrStr)
		}
		return nil, fmt.Errorf("%s failed: %v", e.Name, err)
	}
	return stdout.Bytes(), nil
}

// CheckExecutables reports every name that is not on PATH.
func CheckExecutables(names ...string) error {
	var errs []error
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			errs = append(errs, fmt.Errorf("%s is required but was not found", name))
		}
	}
	return errors.Join(errs...)
}
