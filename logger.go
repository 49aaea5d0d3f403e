package numfmt

// Logger is the structured logger used by the resolver. Log methods take a
// message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (l nopLogger) With(...any) Logger { return l }

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
