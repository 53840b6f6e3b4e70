package core

// Logger interface for progress and diagnostic output
type Logger interface {
	Printf(format string, args ...interface{})
}
