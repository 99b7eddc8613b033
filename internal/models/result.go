package models

import "time"

// Status is the outcome of a single file in a batch.
type Status string

// File outcome constants
const (
	StatusConverted Status = "CONVERTED" // Converter exited 0 and wrote the output
	StatusSkipped   Status = "SKIPPED"   // Filtered out before conversion
	StatusFailed    Status = "FAILED"    // Could not be converted
)

// FileResult represents the outcome of processing one source file
type FileResult struct {
	Task     FileTask      // The task that was processed
	Status   Status        // CONVERTED, SKIPPED or FAILED
	Message  string        // Skip reason or converter diagnostics
	Error    error         // Cause of a failure, nil otherwise
	Duration time.Duration // Time spent in the converter
}

// IsConverted reports whether the file was converted.
func (r FileResult) IsConverted() bool { return r.Status == StatusConverted }

// IsSkipped reports whether the file was filtered out.
func (r FileResult) IsSkipped() bool { return r.Status == StatusSkipped }

// IsFailed reports whether the file failed. A result carrying an error is
// always a failure.
func (r FileResult) IsFailed() bool { return r.Status == StatusFailed || r.Error != nil }

// Reason returns the human readable failure or skip reason.
func (r FileResult) Reason() string {
	if r.Error != nil {
		return r.Error.Error()
	}
	return r.Message
}

// BatchResult represents the aggregate result of a conversion batch
type BatchResult struct {
	RunID          string        // Unique batch identifier
	Direction      Direction     // Conversion direction of the batch
	OutputRoot     string        // Root directory outputs were written under
	Results        []FileResult  // One entry per resolved file, in resolver order
	Total          int           // Number of resolved files
	Converted      int           // Number of converted files
	Skipped        int           // Number of skipped files
	Failed         int           // Number of failed files
	Duration       time.Duration // Wall time of the batch
	NoFilesMatched bool          // True when the resolver found nothing
}

// NewBatchResult tallies results into a BatchResult.
func NewBatchResult(results []FileResult, duration time.Duration) *BatchResult {
	b := &BatchResult{
		Results:  results,
		Total:    len(results),
		Duration: duration,
	}
	for _, r := range results {
		switch {
		case r.IsFailed():
			b.Failed++
		case r.IsSkipped():
			b.Skipped++
		case r.IsConverted():
			b.Converted++
		}
	}
	return b
}

// FailedResults returns the failed entries in resolver order.
func (b *BatchResult) FailedResults() []FileResult {
	var failed []FileResult
	for _, r := range b.Results {
		if r.IsFailed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// HasFailures reports whether any file failed.
func (b *BatchResult) HasFailures() bool {
	return b.Failed > 0
}
