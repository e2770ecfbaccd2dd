package core

// Logger is the process-wide diagnostics channel. Production wires it to
// Rollbar; it never carries user-facing text.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
