package csvimport

import (
	"fmt"
	"strings"

	"github.com/banshee-data/trackcsv/internal/monitoring"
)

// runLog accumulates the plain-text run log and mirrors each line to the
// caller's sink.
type runLog struct {
	buf  strings.Builder
	sink monitoring.Sink
}

func newRunLog(sink monitoring.Sink) *runLog {
	if sink == nil {
		sink = monitoring.Nop{}
	}
	return &runLog{sink: sink}
}

func (l *runLog) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.buf.WriteString(msg)
	l.buf.WriteByte('\n')
	l.sink.Log(msg)
}

func (l *runLog) warnf(format string, args ...interface{}) {
	l.warn(fmt.Sprintf(format, args...))
}

func (l *runLog) warn(msg string) {
	l.buf.WriteString("WARNING: ")
	l.buf.WriteString(msg)
	l.buf.WriteByte('\n')
	l.sink.Warn(msg)
}

// block appends pre-formatted multi-line text without forwarding it
// line by line.
func (l *runLog) block(text string) {
	if text == "" {
		return
	}
	l.buf.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		l.buf.WriteByte('\n')
	}
	l.sink.Log(strings.TrimRight(text, "\n"))
}

func (l *runLog) progress(f float64) { l.sink.Progress(f) }

func (l *runLog) String() string { return l.buf.String() }
