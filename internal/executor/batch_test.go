package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_executor "github.com/harrison/qbc/internal/executor/mocks"
	"github.com/harrison/qbc/internal/models"
)

// recordingLogger captures logger calls for assertions.
type recordingLogger struct {
	mu        sync.Mutex
	started   []models.FileTask
	workers   int
	results   []models.FileResult
	progress  [][2]int
	summaries []models.BatchResult
	warnings  []string
}

func (l *recordingLogger) LogBatchStart(tasks []models.FileTask, workers int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = tasks
	l.workers = workers
}

func (l *recordingLogger) LogFileResult(result models.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
}

func (l *recordingLogger) LogProgress(done, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.progress = append(l.progress, [2]int{done, total})
}

func (l *recordingLogger) LogSummary(result models.BatchResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summaries = append(l.summaries, result)
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// funcConverter adapts a function to the Converter interface.
type funcConverter func(ctx context.Context, task models.FileTask) models.FileResult

func (f funcConverter) Convert(ctx context.Context, task models.FileTask) models.FileResult {
	return f(ctx, task)
}

func (f funcConverter) CheckInstalled() (string, error) { return "/usr/bin/fake", nil }

func planFor(n int, decided map[int]models.Status) *Plan {
	plan := &Plan{}
	for i := 0; i < n; i++ {
		task := models.FileTask{
			Index:      i,
			SourcePath: fmt.Sprintf("/src/f%02d.ipynb", i),
			OutputPath: fmt.Sprintf("/out/f%02d.qmd", i),
			TargetExt:  ".qmd",
		}
		entry := PlanEntry{Task: task}
		if status, ok := decided[i]; ok {
			entry.Decided = &models.FileResult{Task: task, Status: status}
		}
		plan.Entries = append(plan.Entries, entry)
	}
	return plan
}

func TestBatchExecutor_SkippedFilesNeverReachConverter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plan := planFor(4, map[int]models.Status{1: models.StatusSkipped, 3: models.StatusSkipped})

	conv := mock_executor.NewMockConverter(ctrl)
	for _, task := range plan.ToConvert() {
		conv.EXPECT().
			Convert(gomock.Any(), task).
			Return(models.FileResult{Status: models.StatusConverted}).
			Times(1)
	}

	results, err := NewBatchExecutor(conv, nil, 2).Execute(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 4)

	wantStatus := []models.Status{models.StatusConverted, models.StatusSkipped, models.StatusConverted, models.StatusSkipped}
	for i, r := range results {
		assert.Equal(t, i, r.Task.Index)
		assert.Equal(t, wantStatus[i], r.Status)
	}
}

func TestBatchExecutor_AllDecided(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conv := mock_executor.NewMockConverter(ctrl)
	conv.EXPECT().Convert(gomock.Any(), gomock.Any()).Times(0)

	plan := planFor(2, map[int]models.Status{0: models.StatusSkipped, 1: models.StatusFailed})
	results, err := NewBatchExecutor(conv, nil, 4).Execute(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, models.StatusSkipped, results[0].Status)
	assert.Equal(t, models.StatusFailed, results[1].Status)
}

func TestBatchExecutor_PartialFailureIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plan := planFor(5, nil)
	conv := mock_executor.NewMockConverter(ctrl)
	conv.EXPECT().
		Convert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task models.FileTask) models.FileResult {
			if task.Index == 2 {
				return models.FileResult{Status: models.StatusFailed, Message: "boom", Error: errors.New("exit status 1")}
			}
			return models.FileResult{Status: models.StatusConverted}
		}).
		Times(5)

	logger := &recordingLogger{}
	results, err := NewBatchExecutor(conv, logger, 3).Execute(context.Background(), plan)
	require.NoError(t, err)

	batch := models.NewBatchResult(results, 0)
	assert.Equal(t, 4, batch.Converted)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, "exit status 1", results[2].Reason())

	assert.Len(t, logger.results, 5)
	require.Len(t, logger.progress, 5)
	assert.Equal(t, [2]int{5, 5}, logger.progress[4])
}

func TestBatchExecutor_RespectsWorkerLimit(t *testing.T) {
	const workers = 3
	var inFlight, peak int32

	conv := funcConverter(func(_ context.Context, task models.FileTask) models.FileResult {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return models.FileResult{Status: models.StatusConverted}
	})

	results, err := NewBatchExecutor(conv, nil, workers).Execute(context.Background(), planFor(12, nil))
	require.NoError(t, err)
	assert.Len(t, results, 12)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(workers))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestBatchExecutor_ResultsInResolverOrder(t *testing.T) {
	// Later tasks finish first.
	conv := funcConverter(func(_ context.Context, task models.FileTask) models.FileResult {
		time.Sleep(time.Duration(10-task.Index) * 5 * time.Millisecond)
		return models.FileResult{Status: models.StatusConverted}
	})

	results, err := NewBatchExecutor(conv, nil, 10).Execute(context.Background(), planFor(10, map[int]models.Status{4: models.StatusSkipped}))
	require.NoError(t, err)
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i, r.Task.Index)
		assert.Equal(t, fmt.Sprintf("/src/f%02d.ipynb", i), r.Task.SourcePath)
	}
}

func TestBatchExecutor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32

	conv := funcConverter(func(ctx context.Context, task models.FileTask) models.FileResult {
		if atomic.AddInt32(&calls, 1) == 1 {
			cancel()
		}
		<-ctx.Done()
		return models.FileResult{Status: models.StatusFailed, Error: ctx.Err()}
	})

	results, err := NewBatchExecutor(conv, nil, 1).Execute(ctx, planFor(5, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 5)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i, r := range results {
		assert.Equal(t, i, r.Task.Index)
		assert.True(t, r.IsFailed())
	}
	for _, r := range results[1:] {
		assert.True(t, errors.Is(r.Error, ErrCancelled), "got %v", r.Error)
	}
}

func TestBatchExecutor_Validation(t *testing.T) {
	_, err := NewBatchExecutor(nil, nil, 1).Execute(context.Background(), planFor(1, nil))
	assert.Error(t, err)

	conv := funcConverter(func(context.Context, models.FileTask) models.FileResult { return models.FileResult{} })
	_, err = NewBatchExecutor(conv, nil, 1).Execute(context.Background(), nil)
	assert.Error(t, err)
}

func TestBatchExecutor_Workers(t *testing.T) {
	b := NewBatchExecutor(nil, nil, 4)
	assert.Equal(t, 1, b.Workers(0))
	assert.Equal(t, 2, b.Workers(2))
	assert.Equal(t, 4, b.Workers(100))

	def := NewBatchExecutor(nil, nil, 0)
	assert.GreaterOrEqual(t, def.Workers(1000), 1)
}

func TestBatchExecutor_ErrorForcesFailedStatus(t *testing.T) {
	conv := funcConverter(func(context.Context, models.FileTask) models.FileResult {
		return models.FileResult{Status: models.StatusConverted, Error: errors.New("output missing")}
	})
	results, err := NewBatchExecutor(conv, nil, 1).Execute(context.Background(), planFor(1, nil))
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, results[0].Status)
	assert.Equal(t, "/src/f00.ipynb", results[0].Task.SourcePath)
}
