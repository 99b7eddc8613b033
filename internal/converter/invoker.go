package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/qbc/internal/models"
)

// DefaultPath is the converter executable looked up on PATH.
const DefaultPath = "quarto"

// diagnosticLines is how much converter output is kept for a failed file.
const diagnosticLines = 20

// Invoker runs the external converter, one process per file
type Invoker struct {
	Path    string        // Converter executable name or path
	Timeout time.Duration // Per-file timeout (0 = none)
}

// NewInvoker creates a new Invoker with default settings
func NewInvoker() *Invoker {
	return &Invoker{Path: DefaultPath}
}

// NewInvokerWithPath creates an Invoker for a specific converter executable.
func NewInvokerWithPath(path string, timeout time.Duration) *Invoker {
	if path == "" {
		path = DefaultPath
	}
	return &Invoker{Path: path, Timeout: timeout}
}

// BuildCommandArgs constructs the converter arguments for one file
func (inv *Invoker) BuildCommandArgs(task models.FileTask) []string {
	return []string{"convert", task.SourcePath, "--output", task.OutputPath}
}

// CheckInstalled resolves the converter on PATH and returns its location.
func (inv *Invoker) CheckInstalled() (string, error) {
	path, err := exec.LookPath(inv.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrConverterNotFound, inv.Path, err)
	}
	return path, nil
}

// Version returns the first line printed by "<converter> --version".
func (inv *Invoker) Version(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, inv.Path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to query %s version: %w", inv.Path, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}

// Convert runs the converter on one task. Failures are reported in the
// returned result; they never affect other tasks.
func (inv *Invoker) Convert(ctx context.Context, task models.FileTask) models.FileResult {
	startTime := time.Now()
	result := models.FileResult{Task: task}

	fail := func(err error) models.FileResult {
		result.Status = models.StatusFailed
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}

	if err := task.Validate(); err != nil {
		return fail(fmt.Errorf("invalid task: %w", err))
	}

	// Concurrent workers may create the same directory; MkdirAll tolerates that.
	if err := os.MkdirAll(filepath.Dir(task.OutputPath), 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Path, inv.BuildCommandArgs(task)...)
	cmd.WaitDelay = 2 * time.Second
	output, err := cmd.CombinedOutput()
	result.Duration = time.Since(startTime)

	if err != nil {
		result.Message = Tail(string(output), diagnosticLines)
		switch {
		case ctx.Err() != nil:
			return fail(fmt.Errorf("conversion cancelled: %w", context.Cause(ctx)))
		case runCtx.Err() == context.DeadlineExceeded:
			return fail(&TimeoutError{Source: task.SourcePath, TimeoutDuration: inv.Timeout})
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fail(&ConversionError{
				Source:   task.SourcePath,
				ExitCode: exitErr.ExitCode(),
				Output:   result.Message,
			})
		}
		return fail(fmt.Errorf("failed to run %s: %w", inv.Path, err))
	}

	if _, err := os.Stat(task.OutputPath); err != nil {
		result.Message = Tail(string(output), diagnosticLines)
		return fail(fmt.Errorf("%w: %s", ErrOutputMissing, task.OutputPath))
	}

	result.Status = models.StatusConverted
	return result
}

// Tail returns the last n lines of output.
func Tail(output string, n int) string {
	output = strings.TrimRight(output, "\r\n\t ")
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
