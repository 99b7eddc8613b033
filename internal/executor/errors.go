package executor

import (
	"errors"
	"fmt"
	"time"

	"github.com/harrison/qbc/internal/models"
)

var (
	// ErrEnvironmentNotReady indicates the converter is unavailable. No file
	// is attempted when this is returned.
	ErrEnvironmentNotReady = errors.New("environment not ready")
	// ErrOutputLocked indicates another batch is writing the same output tree.
	ErrOutputLocked = errors.New("output directory is in use")
	// ErrCancelled marks files that were never started because the batch was interrupted.
	ErrCancelled = errors.New("batch cancelled before file was converted")
)

// BatchPhase represents the phase of a batch where an error occurred.
type BatchPhase int

const (
	// PhaseResolve represents errors while expanding input specs.
	PhaseResolve BatchPhase = iota
	// PhaseNaming represents errors while deriving output paths.
	PhaseNaming
	// PhaseConvert represents errors reported by the converter.
	PhaseConvert
)

// String returns the string representation of BatchPhase.
func (p BatchPhase) String() string {
	switch p {
	case PhaseResolve:
		return "resolve"
	case PhaseNaming:
		return "naming"
	case PhaseConvert:
		return "convert"
	default:
		return "unknown"
	}
}

// FileError represents a failure of one file in a batch.
type FileError struct {
	Source    string     // Source document that failed
	Phase     BatchPhase // Where the failure happened
	Err       error      // Underlying error
	Timestamp time.Time  // When the error was recorded
}

// NewFileError creates a new FileError with the current timestamp.
func NewFileError(source string, phase BatchPhase, err error) *FileError {
	return &FileError{
		Source:    source,
		Phase:     phase,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Source, e.Phase, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileError) Unwrap() error {
	return e.Err
}

// BatchError aggregates the failed files of a completed batch.
type BatchError struct {
	FileErrors []*FileError
	TotalFiles int
}

// NewBatchError builds a BatchError from a result, or returns nil when no
// file failed.
func NewBatchError(result *models.BatchResult) error {
	if result == nil || !result.HasFailures() {
		return nil
	}
	be := &BatchError{TotalFiles: result.Total}
	for _, r := range result.FailedResults() {
		err := r.Error
		if err == nil {
			err = errors.New(r.Message)
		}
		var fe *FileError
		if errors.As(err, &fe) {
			be.FileErrors = append(be.FileErrors, fe)
			continue
		}
		be.FileErrors = append(be.FileErrors, NewFileError(r.Task.SourcePath, PhaseConvert, err))
	}
	return be
}

// Error implements the error interface for BatchError.
func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d file(s) failed to convert", len(e.FileErrors), e.TotalFiles)
}

// Unwrap returns the file errors so errors.Is and errors.As can reach them.
func (e *BatchError) Unwrap() []error {
	if len(e.FileErrors) == 0 {
		return nil
	}
	errs := make([]error, len(e.FileErrors))
	for i, fe := range e.FileErrors {
		errs[i] = fe
	}
	return errs
}

// IsFileError checks if the error is or wraps a FileError.
func IsFileError(err error) bool {
	if err == nil {
		return false
	}
	var fe *FileError
	return errors.As(err, &fe)
}

// IsBatchError checks if the error is or wraps a BatchError.
func IsBatchError(err error) bool {
	if err == nil {
		return false
	}
	var be *BatchError
	return errors.As(err, &be)
}
