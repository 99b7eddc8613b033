package executor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/qbc/internal/filelock"
	"github.com/harrison/qbc/internal/models"
)

// Logger defines the interface for logging batch progress and results.
type Logger interface {
	LogBatchStart(tasks []models.FileTask, workers int)
	LogFileResult(result models.FileResult)
	LogProgress(done, total int)
	LogSummary(result models.BatchResult)
	Warnf(format string, args ...interface{})
}

// Orchestrator drives one conversion batch from input specs to a
// BatchResult, with graceful shutdown on SIGINT/SIGTERM.
type Orchestrator struct {
	converter Converter
	logger    Logger
	opts      Options
}

// NewOrchestrator creates a new Orchestrator instance.
// The logger parameter is optional and can be nil.
func NewOrchestrator(converter Converter, logger Logger, opts Options) *Orchestrator {
	if converter == nil {
		panic("converter cannot be nil")
	}
	return &Orchestrator{
		converter: converter,
		logger:    logger,
		opts:      opts,
	}
}

// Execute runs the batch: check the converter, lock the output root,
// resolve and name files, convert them in parallel and tally the outcome.
//
// Per-file failures are reported in the result, not as an error. The error
// is non-nil when the batch could not start (environment not ready, output
// locked, bad input) or was interrupted.
func (o *Orchestrator) Execute(ctx context.Context, specs []string) (*models.BatchResult, error) {
	if _, err := o.converter.CheckInstalled(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvironmentNotReady, err)
	}

	outputRoot := o.opts.OutputRoot
	if outputRoot == "" {
		outputRoot = "."
	}
	lock, err := filelock.LockOutputRoot(outputRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputLocked, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			GracefulWarn(o.logger, "failed to release output lock: %v", err)
		}
	}()

	startTime := time.Now()

	plan, err := BuildPlan(specs, o.opts)
	if err != nil {
		return nil, err
	}
	for _, w := range plan.Warnings {
		GracefulWarn(o.logger, "%v", w)
	}

	if plan.Empty() {
		result := o.newResult(plan, nil, time.Since(startTime))
		result.NoFilesMatched = true
		if o.logger != nil {
			o.logger.LogSummary(*result)
		}
		return result, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			GracefulWarn(o.logger, "Received interrupt signal, cancelling remaining conversions...")
			cancel()
		case <-ctx.Done():
		}
	}()

	batch := NewBatchExecutor(o.converter, o.logger, o.opts.MaxWorkers)
	toConvert := plan.ToConvert()
	if o.logger != nil {
		o.logger.LogBatchStart(toConvert, batch.Workers(len(toConvert)))
	}

	results, err := batch.Execute(ctx, plan)

	result := o.newResult(plan, results, time.Since(startTime))
	if o.logger != nil {
		o.logger.LogSummary(*result)
	}
	return result, err
}

func (o *Orchestrator) newResult(plan *Plan, results []models.FileResult, duration time.Duration) *models.BatchResult {
	result := models.NewBatchResult(results, duration)
	result.RunID = uuid.New().String()
	result.Direction = plan.Direction
	result.OutputRoot = plan.OutputRoot
	return result
}
