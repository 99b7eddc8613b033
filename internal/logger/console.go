// Package logger provides logging implementations for qbc batch runs.
//
// The logger package reports batch progress at the file and summary levels.
// Implementations are thread-safe and write to a console or to per-run log
// files.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/qbc/internal/models"
)

// bannerWidth is the width of the dashed rule around the completion banner.
const bannerWidth = 50

// ConsoleLogger logs batch progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled only when the writer is a terminal and NO_COLOR is unset.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	colors      *colorScheme
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	useColor := IsTerminal(writer)
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: useColor,
		colors:      newColorScheme(useColor),
	}
}

// IsTerminal reports whether w is a TTY that should receive color.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LogLevel returns the normalized level the logger filters on.
func (cl *ConsoleLogger) LogLevel() string {
	return cl.logLevel
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return enabled(cl.logLevel, messageLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// Infof logs a formatted info-level message.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.LogInfo(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning-level message.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.LogWarn(fmt.Sprintf(format, args...))
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprintf(cl.writer, "[%s] %s %s\n", timestamp(), cl.colors.level(level).Sprintf("[%s]", level), message)
}

// writeLines writes pre-formatted lines under a single lock so concurrent
// callers never interleave a multi-line block.
func (cl *ConsoleLogger) writeLines(lines []string) {
	if cl.writer == nil || len(lines) == 0 {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprint(cl.writer, strings.Join(lines, "\n")+"\n")
}

// LogBatchStart announces how many files will be converted.
// The file list itself is only shown at debug level.
func (cl *ConsoleLogger) LogBatchStart(tasks []models.FileTask, workers int) {
	if !cl.shouldLog("info") {
		return
	}

	lines := []string{fmt.Sprintf("[%s] Found %d file(s) to be converted (workers: %d)", timestamp(), len(tasks), workers)}
	if cl.shouldLog("debug") {
		for _, task := range tasks {
			lines = append(lines, fmt.Sprintf("  %s -> %s", task.SourcePath, task.OutputPath))
		}
	}
	cl.writeLines(lines)
}

// LogFileResult logs one file outcome. Converted and skipped files are
// debug-level; failures are always shown at warn.
func (cl *ConsoleLogger) LogFileResult(result models.FileResult) {
	level := "debug"
	if result.IsFailed() {
		level = "warn"
	}
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	status := cl.colors.status(result.Status).Sprint(string(result.Status))
	line := fmt.Sprintf("[%s] %s %s", timestamp(), status, result.Task.SourcePath)
	switch {
	case result.IsConverted():
		line += fmt.Sprintf(" -> %s (%s)", result.Task.OutputPath, formatDuration(result.Duration))
	case result.Reason() != "":
		line += ": " + result.Reason()
	}
	cl.writeLines([]string{line})
}

// LogProgress renders a progress bar after each completed file.
func (cl *ConsoleLogger) LogProgress(done, total int) {
	if cl.writer == nil || !cl.shouldLog("info") || total <= 0 {
		return
	}

	bar := NewProgressBar(total, 20, cl.colorOutput)
	bar.Update(done)
	cl.writeLines([]string{fmt.Sprintf("[%s] Progress: %s", timestamp(), bar.Render())})
}

// LogSummary logs the batch summary: counts, elapsed time, each failure with
// its diagnostic, and the completion banner. The summary is written at every
// log level.
func (cl *ConsoleLogger) LogSummary(result models.BatchResult) {
	if cl.writer == nil {
		return
	}

	if result.NoFilesMatched {
		cl.LogWarn("No files matched the given inputs; nothing to convert")
		return
	}

	cs := cl.colors
	lines := []string{
		"",
		fmt.Sprintf("[%s] === Conversion Summary ===", timestamp()),
		fmt.Sprintf("  Direction: %s", result.Direction),
		fmt.Sprintf("  Total files: %d", result.Total),
		"  " + formatColorizedCount("Converted", result.Converted, cs.success, cs),
		"  " + formatColorizedCount("Skipped", result.Skipped, cs.warn, cs),
		"  " + formatColorizedCount("Failed", result.Failed, cs.fail, cs),
		fmt.Sprintf("  Duration: %s", formatDuration(result.Duration)),
	}

	if failed := result.FailedResults(); len(failed) > 0 {
		lines = append(lines, "", cs.fail.Sprint("  Failed files:"))
		for _, r := range failed {
			lines = append(lines, fmt.Sprintf("    - %s: %s", r.Task.SourcePath, r.Reason()))
			if r.Message != "" && r.Message != r.Reason() {
				for _, diag := range strings.Split(strings.TrimRight(r.Message, "\n"), "\n") {
					lines = append(lines, "        "+cs.dim.Sprint(diag))
				}
			}
		}
	}

	lines = append(lines, "", completionBanner(result.Converted, result.Duration, cs))
	cl.writeLines(lines)
}

// completionBanner returns the dashed "Converted N files in X seconds" block.
func completionBanner(converted int, d time.Duration, cs *colorScheme) string {
	rule := strings.Repeat("-", bannerWidth)
	msg := fmt.Sprintf("Converted %d files in %.3f seconds", converted, d.Seconds())
	return strings.Join([]string{rule, cs.success.Sprint(msg), rule}, "\n")
}

// NoOpLogger discards all batch events.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that does nothing.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogBatchStart(tasks []models.FileTask, workers int) {}

func (n *NoOpLogger) LogFileResult(result models.FileResult) {}

func (n *NoOpLogger) LogProgress(done, total int) {}

func (n *NoOpLogger) LogSummary(result models.BatchResult) {}

func (n *NoOpLogger) Warnf(format string, args ...interface{}) {}
