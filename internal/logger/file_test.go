package logger

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/qbc/internal/models"
)

func newTestFileLogger(t *testing.T, level string) (*FileLogger, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "logs")
	fl, err := NewFileLoggerWithDirAndLevel(dir, level)
	require.NoError(t, err)
	t.Cleanup(func() { fl.Close() })
	return fl, dir
}

func readRunLog(t *testing.T, fl *FileLogger) string {
	t.Helper()
	data, err := os.ReadFile(fl.RunFile())
	require.NoError(t, err)
	return string(data)
}

func TestFileLogger_CreatesLayout(t *testing.T) {
	fl, dir := newTestFileLogger(t, "info")

	assert.DirExists(t, dir)
	assert.DirExists(t, filepath.Join(dir, "files"))
	assert.Regexp(t, regexp.MustCompile(`run-\d{8}-\d{6}\.log$`), fl.RunFile())

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.RunFile()), target)

	assert.Contains(t, readRunLog(t, fl), "=== qbc Run Log ===")
}

func TestFileLogger_SymlinkReplaced(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.Symlink("run-19990101-000000.log", filepath.Join(dir, "latest.log")))

	fl, err := NewFileLoggerWithDirAndLevel(dir, "info")
	require.NoError(t, err)
	defer fl.Close()

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.RunFile()), target)
}

func TestFileLogger_BatchEvents(t *testing.T) {
	fl, dir := newTestFileLogger(t, "info")

	tasks := []models.FileTask{
		{Index: 0, SourcePath: "/src/a.ipynb", OutputPath: "/out/a.qmd"},
		{Index: 1, SourcePath: "/src/bad.ipynb", OutputPath: "/out/bad.qmd"},
	}
	fl.LogBatchStart(tasks, 2)

	ok := models.FileResult{Task: tasks[0], Status: models.StatusConverted, Duration: 250 * time.Millisecond}
	bad := models.FileResult{
		Task:    tasks[1],
		Status:  models.StatusFailed,
		Error:   errors.New("exit status 1"),
		Message: "ERROR: unable to parse",
	}
	fl.LogFileResult(ok)
	fl.LogFileResult(bad)
	fl.LogProgress(2, 2)

	batch := models.NewBatchResult([]models.FileResult{ok, bad}, time.Second)
	batch.RunID = "run-123"
	batch.OutputRoot = "/out"
	fl.LogSummary(*batch)
	require.NoError(t, fl.Close())

	log := readRunLog(t, fl)
	for _, want := range []string{
		"Found 2 file(s) to be converted (workers: 2)",
		"/src/a.ipynb -> /out/a.qmd",
		"CONVERTED /src/a.ipynb -> /out/a.qmd (0.250s)",
		"FAILED /src/bad.ipynb: exit status 1",
		"=== Conversion Summary ===",
		"Run ID: run-123",
		"Output root: /out",
		"Converted: 1",
		"Failed: 1",
		"Status: FAILED",
		"Finished at:",
	} {
		assert.Contains(t, log, want)
	}

	detail, err := os.ReadFile(filepath.Join(dir, "files", "0001-bad.ipynb.log"))
	require.NoError(t, err)
	assert.Contains(t, string(detail), "Source: /src/bad.ipynb")
	assert.Contains(t, string(detail), "Error: exit status 1")
	assert.Contains(t, string(detail), "--- converter output ---\nERROR: unable to parse\n")

	_, err = os.Stat(filepath.Join(dir, "files", "0000-a.ipynb.log"))
	assert.True(t, os.IsNotExist(err), "converted files get no detail log")
}

func TestFileLogger_NoFilesMatched(t *testing.T) {
	fl, _ := newTestFileLogger(t, "info")
	fl.LogSummary(models.BatchResult{RunID: "r", NoFilesMatched: true})

	log := readRunLog(t, fl)
	assert.Contains(t, log, "No files matched the given inputs")
	assert.NotContains(t, log, "Total files")
}

func TestFileLogger_LevelFiltering(t *testing.T) {
	fl, dir := newTestFileLogger(t, "error")

	fl.LogInfo("info line")
	fl.Warnf("warn %s", "line")
	fl.LogError("error line")
	fl.LogFileResult(models.FileResult{
		Task:   models.FileTask{Index: 3, SourcePath: "/src/x.qmd"},
		Status: models.StatusFailed,
		Error:  errors.New("boom"),
	})
	fl.LogSummary(models.BatchResult{RunID: "r", Total: 1, Failed: 1})

	log := readRunLog(t, fl)
	assert.Contains(t, log, "=== Conversion Summary ===", "summary is written at every level")
	assert.NotContains(t, log, "info line")
	assert.NotContains(t, log, "warn line")
	assert.Contains(t, log, "[ERROR] error line")
	assert.NotContains(t, log, "FAILED /src/x.qmd")

	// Detail files are written regardless of level.
	assert.FileExists(t, filepath.Join(dir, "files", "0003-x.qmd.log"))
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	fl, _ := newTestFileLogger(t, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fl.LogFileResult(models.FileResult{
				Task:   models.FileTask{Index: i, SourcePath: "/src/f.ipynb", OutputPath: "/out/f.qmd"},
				Status: models.StatusConverted,
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(readRunLog(t, fl), "CONVERTED /src/f.ipynb"))
}

func TestFileLogger_CloseTwice(t *testing.T) {
	fl, _ := newTestFileLogger(t, "info")
	require.NoError(t, fl.Close())
	require.NoError(t, fl.Close())

	// Writes after close are dropped.
	fl.LogInfo("late")
	assert.NotContains(t, readRunLog(t, fl), "late")
}

func TestNewFileLogger_InvalidDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewFileLoggerWithDirAndLevel(filepath.Join(blocker, "logs"), "info")
	assert.Error(t, err)
}

func TestNewFileLogger_DefaultDir(t *testing.T) {
	chdir(t, t.TempDir())

	fl, err := NewFileLogger()
	require.NoError(t, err)
	defer fl.Close()

	assert.Equal(t, DefaultLogDir, filepath.Dir(fl.RunFile()))
	assert.FileExists(t, filepath.Join(".qbc", "logs", "latest.log"))
}
