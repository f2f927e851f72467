package core

import "errors"

var (
	ErrInvalidEmitter   = errors.New("invalid emitter")
	ErrInvalidRange     = errors.New("invalid range")
	ErrInvalidLifeCycle = errors.New("invalid life cycle")
)

// Logger is the logging surface handed to runtime packages. It matches the
// engine-level logger so the same value can be passed down.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}
