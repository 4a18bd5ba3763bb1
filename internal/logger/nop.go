package logger

// nopLogger discards everything. Used by tests and by components that run
// before the real logger is configured.
type nopLogger struct{}

// NewNop returns a Logger that discards all output.
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(msg string, fields ...Field) {}

func (nopLogger) Info(msg string, fields ...Field) {}

func (nopLogger) Warn(msg string, fields ...Field) {}

func (nopLogger) Error(msg string, fields ...Field) {}

// Fatal discards the message and does not exit.
func (nopLogger) Fatal(msg string, fields ...Field) {}

func (l nopLogger) With(fields ...Field) Logger {
	return l
}

func (nopLogger) Sync() error {
	return nil
}
