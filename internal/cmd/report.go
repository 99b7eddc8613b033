package cmd

import (
	"context"
	"fmt"

	"github.com/harrison/qbc/internal/filelock"
	"github.com/harrison/qbc/internal/history"
	"github.com/harrison/qbc/internal/models"
)

// batchReport is the JSON document written by --report.
type batchReport struct {
	RunID           string       `json:"run_id"`
	Direction       string       `json:"direction"`
	OutputRoot      string       `json:"output_root"`
	Total           int          `json:"total"`
	Converted       int          `json:"converted"`
	Skipped         int          `json:"skipped"`
	Failed          int          `json:"failed"`
	DurationSeconds float64      `json:"duration_seconds"`
	Files           []fileReport `json:"files"`
}

type fileReport struct {
	Index           int           `json:"index"`
	Source          string        `json:"source"`
	Output          string        `json:"output,omitempty"`
	Status          models.Status `json:"status"`
	Reason          string        `json:"reason,omitempty"`
	DurationSeconds float64       `json:"duration_seconds"`
}

func newBatchReport(result *models.BatchResult) batchReport {
	report := batchReport{
		RunID:           result.RunID,
		Direction:       result.Direction.String(),
		OutputRoot:      result.OutputRoot,
		Total:           result.Total,
		Converted:       result.Converted,
		Skipped:         result.Skipped,
		Failed:          result.Failed,
		DurationSeconds: result.Duration.Seconds(),
		Files:           make([]fileReport, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		status := r.Status
		if r.IsFailed() {
			status = models.StatusFailed
		}
		report.Files = append(report.Files, fileReport{
			Index:           r.Task.Index,
			Source:          r.Task.SourcePath,
			Output:          r.Task.OutputPath,
			Status:          status,
			Reason:          r.Reason(),
			DurationSeconds: r.Duration.Seconds(),
		})
	}
	return report
}

// writeReport writes the batch report atomically.
func writeReport(path string, result *models.BatchResult) error {
	return filelock.WriteJSON(path, newBatchReport(result))
}

// recordHistory stores the batch in the run history database.
func recordHistory(ctx context.Context, dbPath string, result *models.BatchResult) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	return store.RecordRun(ctx, result)
}
