package monitoring

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives human-readable log lines, warnings and a progress fraction
// in [0, 1] from a long-running operation.
type Sink interface {
	Log(msg string)
	Warn(msg string)
	Progress(fraction float64)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Log(string)       {}
func (Nop) Warn(string)      {}
func (Nop) Progress(float64) {}

// LogfSink forwards messages to the package Logf. Progress is dropped.
type LogfSink struct {
	Prefix string
}

func (s LogfSink) Log(msg string) { Logf("%s%s", s.Prefix, msg) }

func (s LogfSink) Warn(msg string) { Logf("%sWARNING: %s", s.Prefix, msg) }

func (LogfSink) Progress(float64) {}

// Recorder keeps every call in memory. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	logs     []string
	warnings []string
	progress []float64
}

func (r *Recorder) Log(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, msg)
}

func (r *Recorder) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *Recorder) Progress(f float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, f)
}

// Logs returns a copy of the recorded log lines.
func (r *Recorder) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.logs...)
}

// Warnings returns a copy of the recorded warnings.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

// ProgressValues returns a copy of the recorded progress fractions.
func (r *Recorder) ProgressValues() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...)
}

// Tee fans every call out to each sink in order. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) Log(msg string) {
	for _, s := range m {
		s.Log(msg)
	}
}

func (m multiSink) Warn(msg string) {
	for _, s := range m {
		s.Warn(msg)
	}
}

func (m multiSink) Progress(f float64) {
	for _, s := range m {
		s.Progress(f)
	}
}

// ProgressWriter prints progress to W as whole percentages, skipping
// repeats. Log and Warn are dropped.
type ProgressWriter struct {
	W    io.Writer
	last int
	seen bool
}

func (p *ProgressWriter) Log(string) {}

func (p *ProgressWriter) Warn(string) {}

func (p *ProgressWriter) Progress(f float64) {
	pct := int(f*100 + 0.5)
	if p.seen && pct == p.last {
		return
	}
	p.last, p.seen = pct, true
	fmt.Fprintf(p.W, "progress: %3d%%\n", pct)
}
