package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Warnf(format string, args ...any)  {}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

type fakeEnder struct {
	err   error
	ended bool
}

func (p *fakeEnder) End() error {
	p.ended = true
	return p.err
}

func TestContext_EndPassLogsFailure(t *testing.T) {
	log := &recordingLogger{}
	ctx := &Context{Log: log}

	ok := &fakeEnder{}
	ctx.endPass(ok, "compute")
	assert.True(t, ok.ended)
	assert.Empty(t, log.errors)

	failed := &fakeEnder{err: errors.New("validation error")}
	ctx.endPass(failed, "particle")
	assert.True(t, failed.ended)
	assert.Equal(t, []string{"particle pass End failed: validation error"}, log.errors)
}
