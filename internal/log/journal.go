package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

// Journal is the append-only diagnostic record of store command invocations.
// Each entry is prefixed with a local timestamp. Safe for concurrent use.
type Journal struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

type journalKey struct{}

// NewJournal creates a journal writing to w. A nil now uses time.Now.
func NewJournal(w io.Writer, now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	return &Journal{w: w, now: now}
}

// WithJournal attaches a journal to the context.
func WithJournal(ctx context.Context, j *Journal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

// JournalFromContext returns the attached journal, or one discarding everything.
func JournalFromContext(ctx context.Context) *Journal {
	if j, ok := ctx.Value(journalKey{}).(*Journal); ok {
		return j
	}
	return NewJournal(io.Discard, nil)
}

// Spawn records the start of an invocation.
func (j *Journal) Spawn(label string) {
	j.write(fmt.Sprintf("Spawn %s\n", strconv.Quote(label)))
}

// Ended records a finished invocation with its captured output, both quoted.
func (j *Journal) Ended(label string, stdout, stderr []byte) {
	j.write(fmt.Sprintf("Ended %s\nstdout: %s\nstderr: %s\n",
		strconv.Quote(label), strconv.Quote(string(stdout)), strconv.Quote(string(stderr))))
}

// Notef records a free-form note, e.g. a dropped list entry.
func (j *Journal) Notef(format string, args ...any) {
	j.write(fmt.Sprintf(format, args...) + "\n")
}

func (j *Journal) write(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	ts := j.now().Format("2006-01-02 15:04:05")
	_, _ = io.WriteString(j.w, ts+" "+entry)
}
