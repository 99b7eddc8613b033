package cmd

import (
	"github.com/harrison/qbc/internal/executor"
	"github.com/harrison/qbc/internal/models"
)

// multiLogger implements executor.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []executor.Logger
}

// LogBatchStart forwards to all loggers
func (ml *multiLogger) LogBatchStart(tasks []models.FileTask, workers int) {
	for _, logger := range ml.loggers {
		logger.LogBatchStart(tasks, workers)
	}
}

// LogFileResult forwards to all loggers
func (ml *multiLogger) LogFileResult(result models.FileResult) {
	for _, logger := range ml.loggers {
		logger.LogFileResult(result)
	}
}

// LogProgress forwards to all loggers
func (ml *multiLogger) LogProgress(done, total int) {
	for _, logger := range ml.loggers {
		logger.LogProgress(done, total)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result models.BatchResult) {
	for _, logger := range ml.loggers {
		logger.LogSummary(result)
	}
}

// Warnf forwards to all loggers
func (ml *multiLogger) Warnf(format string, args ...interface{}) {
	for _, logger := range ml.loggers {
		logger.Warnf(format, args...)
	}
}
