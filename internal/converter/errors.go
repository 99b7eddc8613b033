package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrConverterNotFound indicates the converter executable is not on PATH.
	ErrConverterNotFound = errors.New("converter executable not found")
	// ErrOutputMissing indicates the converter exited 0 without writing its output.
	ErrOutputMissing = errors.New("converter reported success but wrote no output")
)

// ConversionError is returned when the converter exits non-zero.
type ConversionError struct {
	Source   string // Source document
	ExitCode int    // Converter exit status
	Output   string // Tail of the converter's combined output
}

// Error implements the error interface for ConversionError.
func (e *ConversionError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("converting %s: exit status %d", e.Source, e.ExitCode))
	if line := lastLine(e.Output); line != "" {
		sb.WriteString(": ")
		sb.WriteString(line)
	}
	return sb.String()
}

// TimeoutError represents a conversion that exceeded the per-file timeout.
type TimeoutError struct {
	Source          string        // Source document
	TimeoutDuration time.Duration // Duration after which timeout occurred
}

// Error implements the error interface for TimeoutError.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("converting %s: timeout after %v", e.Source, e.TimeoutDuration)
}

// Unwrap returns context.DeadlineExceeded to support error wrapping.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// IsConversionError checks if the error is or wraps a ConversionError.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}

// IsTimeoutError checks if the error is or wraps a TimeoutError or context.DeadlineExceeded.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
