package executor

// GracefulWarn logs a warning if logger is non-nil. Used for conditions
// that are worth reporting but must not fail the batch.
func GracefulWarn(logger Logger, format string, args ...interface{}) {
	if logger != nil {
		logger.Warnf(format, args...)
	}
}
