package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/qbc/internal/models"
)

// DefaultLogDir is where run logs go when no directory is configured.
var DefaultLogDir = filepath.Join(".qbc", "logs")

// FileLogger logs batch events to files in a log directory.
// It creates timestamped per-run log files, a detail file for every failed
// source under files/, and maintains a latest.log symlink pointing to the
// most recent run. It is thread-safe and implements the executor.Logger interface.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	filesDir string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to DefaultLogDir at info level.
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(DefaultLogDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger with a custom log directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filesDir := filepath.Join(logDir, "files")
	if err := os.MkdirAll(filesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create files directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log; a second run in the same second appends.
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		filesDir: filesDir,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== qbc Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of this run's log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return enabled(fl.logLevel, messageLevel)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// Warnf logs a formatted warning-level message.
func (fl *FileLogger) Warnf(format string, args ...interface{}) {
	fl.LogWarn(fmt.Sprintf(format, args...))
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogBatchStart records the batch size and every planned task at info level.
func (fl *FileLogger) LogBatchStart(tasks []models.FileTask, workers int) {
	if !fl.shouldLog("info") {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Found %d file(s) to be converted (workers: %d)\n", timestamp(), len(tasks), workers)
	for _, task := range tasks {
		fmt.Fprintf(&b, "  %s -> %s\n", task.SourcePath, task.OutputPath)
	}
	fl.writeRunLog(b.String())
}

// LogFileResult records one file outcome in the run log. Failures also get
// a detail file holding the full converter output.
func (fl *FileLogger) LogFileResult(result models.FileResult) {
	if fl.shouldLog("info") {
		line := fmt.Sprintf("[%s] %s %s", timestamp(), result.Status, result.Task.SourcePath)
		if result.IsConverted() {
			line += fmt.Sprintf(" -> %s (%.3fs)", result.Task.OutputPath, result.Duration.Seconds())
		} else if reason := result.Reason(); reason != "" {
			line += ": " + reason
		}
		fl.writeRunLog(line + "\n")
	}

	if result.IsFailed() {
		if err := fl.writeFileDetail(result); err != nil {
			fl.LogError(fmt.Sprintf("failed to write detail log for %s: %v", result.Task.SourcePath, err))
		}
	}
}

// writeFileDetail writes files/<index>-<name>.log for a failed source.
func (fl *FileLogger) writeFileDetail(result models.FileResult) error {
	name := fmt.Sprintf("%04d-%s.log", result.Task.Index, filepath.Base(result.Task.SourcePath))

	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", result.Task.SourcePath)
	fmt.Fprintf(&b, "Output: %s\n", result.Task.OutputPath)
	fmt.Fprintf(&b, "Status: %s\n", result.Status)
	fmt.Fprintf(&b, "Duration: %s\n", result.Duration)
	if result.Error != nil {
		fmt.Fprintf(&b, "Error: %v\n", result.Error)
	}
	if result.Message != "" {
		b.WriteString("\n--- converter output ---\n")
		b.WriteString(result.Message)
		if !strings.HasSuffix(result.Message, "\n") {
			b.WriteString("\n")
		}
	}

	return os.WriteFile(filepath.Join(fl.filesDir, name), []byte(b.String()), 0644)
}

// LogProgress is a no-op; the run log records every file result instead.
func (fl *FileLogger) LogProgress(done, total int) {}

// LogSummary writes the batch summary with final statistics at every level.
func (fl *FileLogger) LogSummary(result models.BatchResult) {
	var b strings.Builder
	b.WriteString("\n=== Conversion Summary ===\n")
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	}
	if result.NoFilesMatched {
		b.WriteString("No files matched the given inputs\n")
		fl.writeRunLog(b.String())
		return
	}
	fmt.Fprintf(&b, "Direction: %s\n", result.Direction)
	fmt.Fprintf(&b, "Output root: %s\n", result.OutputRoot)
	fmt.Fprintf(&b, "Total files: %d\n", result.Total)
	fmt.Fprintf(&b, "Converted: %d\n", result.Converted)
	fmt.Fprintf(&b, "Skipped: %d\n", result.Skipped)
	fmt.Fprintf(&b, "Failed: %d\n", result.Failed)
	fmt.Fprintf(&b, "Duration: %.3fs\n", result.Duration.Seconds())

	if failed := result.FailedResults(); len(failed) > 0 {
		b.WriteString("\nFailed files:\n")
		for _, r := range failed {
			fmt.Fprintf(&b, "  - %s: %s\n", r.Task.SourcePath, r.Reason())
		}
	}

	status := "SUCCESS"
	if result.HasFailures() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)
	fl.writeRunLog(b.String())
}

// Close closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	fl.runLog.WriteString(fmt.Sprintf("\nFinished at: %s\n", time.Now().Format(time.RFC3339)))
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

// writeRunLog appends to the run log and syncs it.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(message)
	fl.runLog.Sync()
}
