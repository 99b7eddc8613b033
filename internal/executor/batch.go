package executor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/qbc/internal/models"
)

// BatchExecutor runs the conversions of a plan with bounded parallelism.
type BatchExecutor struct {
	converter  Converter
	logger     Logger
	maxWorkers int
}

// NewBatchExecutor constructs a BatchExecutor. maxWorkers <= 0 means one
// worker per CPU. The logger is optional and can be nil.
func NewBatchExecutor(converter Converter, logger Logger, maxWorkers int) *BatchExecutor {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &BatchExecutor{
		converter:  converter,
		logger:     logger,
		maxWorkers: maxWorkers,
	}
}

// Workers returns the effective pool size for n tasks.
func (b *BatchExecutor) Workers(n int) int {
	return max(1, min(n, b.maxWorkers))
}

// Execute converts every undecided entry of the plan and returns one result
// per entry in resolver order. A failing file never stops its siblings.
// The returned error is non-nil only when ctx was cancelled; files that had
// not started by then are reported as failed.
func (b *BatchExecutor) Execute(ctx context.Context, plan *Plan) ([]models.FileResult, error) {
	if b == nil || b.converter == nil {
		return nil, fmt.Errorf("batch executor requires a converter")
	}
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	total := len(plan.Entries)
	results := make([]models.FileResult, 0, total)

	// Pre-decided outcomes are reported without touching the converter.
	var done int
	for _, r := range plan.Decided() {
		results = append(results, r)
		done++
		b.logResult(r, done, total)
	}

	tasks := plan.ToConvert()
	if len(tasks) == 0 {
		sortByIndex(results)
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(b.Workers(len(tasks)))
	resultsCh := make(chan models.FileResult, len(tasks))

	var launchErr error
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			launchErr = err
			break
		}
		task := task
		g.Go(func() error {
			if ctx.Err() != nil {
				resultsCh <- cancelledResult(task)
				return nil
			}
			result := b.converter.Convert(ctx, task)
			result.Task = task
			if result.Error != nil {
				result.Status = models.StatusFailed
			}
			resultsCh <- result
			return nil
		})
	}

	go func() {
		g.Wait()
		close(resultsCh)
	}()

	resultMap := make(map[int]models.FileResult, len(tasks))
	for result := range resultsCh {
		resultMap[result.Task.Index] = result
		done++
		b.logResult(result, done, total)
	}

	for _, task := range tasks {
		result, ok := resultMap[task.Index]
		if !ok {
			result = cancelledResult(task)
			done++
			b.logResult(result, done, total)
		}
		results = append(results, result)
	}
	sortByIndex(results)

	if launchErr == nil {
		launchErr = ctx.Err()
	}
	return results, launchErr
}

func (b *BatchExecutor) logResult(result models.FileResult, done, total int) {
	if b.logger == nil {
		return
	}
	b.logger.LogFileResult(result)
	b.logger.LogProgress(done, total)
}

func cancelledResult(task models.FileTask) models.FileResult {
	return models.FileResult{
		Task:   task,
		Status: models.StatusFailed,
		Error:  NewFileError(task.SourcePath, PhaseConvert, ErrCancelled),
	}
}
