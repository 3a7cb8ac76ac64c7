package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Recorder captures a transcript of one issuance run in addition to the
// normal structured log output. The pipeline degrades silently in many
// places, so when it does fail the transcript is returned to the caller
// for diagnosis.
type Recorder struct {
	ctx     context.Context
	mu      sync.Mutex
	entries []string
}

// NewRecorder creates a recorder bound to a request context.
func NewRecorder(ctx context.Context) *Recorder {
	return &Recorder{ctx: ctx}
}

func (r *Recorder) record(msg string, args []any) {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	r.mu.Lock()
	r.entries = append(r.entries, b.String())
	r.mu.Unlock()
}

// Info logs at info level and records the entry
func (r *Recorder) Info(msg string, args ...any) {
	Info(r.ctx, msg, args...)
	r.record(msg, args)
}

// Warn logs at warn level and records the entry
func (r *Recorder) Warn(msg string, args ...any) {
	Warn(r.ctx, msg, args...)
	r.record(msg, args)
}

// Error logs at error level and records the entry
func (r *Recorder) Error(msg string, args ...any) {
	Error(r.ctx, msg, args...)
	r.record(msg, args)
}

// Entries returns a copy of the recorded transcript.
func (r *Recorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}
