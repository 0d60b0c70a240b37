package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPrintf(t *testing.T) {
	t.Parallel()

	t.Run("writes formatted output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, false, false)
		l.Printf("cached %s %d", "entries", 42)
		if got := buf.String(); got != "cached entries 42" {
			t.Errorf("Printf output = %q, want %q", got, "cached entries 42")
		}
	})

	t.Run("suppressed when quiet", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, false, true)
		l.Printf("should not appear")
		if buf.Len() != 0 {
			t.Errorf("Printf wrote %q when quiet", buf.String())
		}
	})
}

func TestPrintln(t *testing.T) {
	t.Parallel()

	t.Run("writes line output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, false, false)
		l.Println("query", "refreshed")
		if got := buf.String(); got != "query refreshed\n" {
			t.Errorf("Println output = %q, want %q", got, "query refreshed\n")
		}
	})

	t.Run("suppressed when quiet", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, false, true)
		l.Println("should not appear")
		if buf.Len() != 0 {
			t.Errorf("Println wrote %q when quiet", buf.String())
		}
	})
}

func TestCommand(t *testing.T) {
	t.Parallel()

	t.Run("verbose with dir", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, false)
		done := l.Command("/srv/app", "npx", "wrangler", "kv", "key", "list")
		done(100 * time.Millisecond)
		got := buf.String()
		if !strings.Contains(got, "[/srv/app] $ npx wrangler kv key list") {
			t.Errorf("Command output = %q, want to contain %q", got, "[/srv/app] $ npx wrangler kv key list")
		}
		if !strings.Contains(got, "100ms") {
			t.Errorf("Command output = %q, want to contain duration", got)
		}
	})

	t.Run("verbose without dir", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, false)
		done := l.Command("", "wrangler", "kv", "key", "get", "k1")
		done(50 * time.Millisecond)
		got := buf.String()
		if !strings.HasPrefix(got, "$ wrangler kv key get k1") {
			t.Errorf("Command output = %q, want prefix %q", got, "$ wrangler kv key get k1")
		}
	})

	t.Run("not verbose is no-op", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, false, false)
		done := l.Command("/srv/app", "npx", "wrangler", "kv", "key", "list")
		done(100 * time.Millisecond)
		if buf.Len() != 0 {
			t.Errorf("Command wrote %q when not verbose", buf.String())
		}
	})

	t.Run("quiet overrides verbose", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, true)
		done := l.Command("/srv/app", "npx", "wrangler", "kv", "key", "list")
		done(100 * time.Millisecond)
		if buf.Len() != 0 {
			t.Errorf("Command wrote %q when quiet", buf.String())
		}
	})
}

func TestDebug(t *testing.T) {
	t.Parallel()

	t.Run("verbose key-val format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, false)
		l.Debug("list cache miss", "prefix", "users/", "records", 3)
		got := buf.String()
		if !strings.Contains(got, "list cache miss") {
			t.Errorf("Debug output = %q, want to contain message", got)
		}
		if !strings.Contains(got, "prefix=users/") {
			t.Errorf("Debug output = %q, want to contain prefix=users/", got)
		}
		if !strings.Contains(got, "records=3") {
			t.Errorf("Debug output = %q, want to contain records=3", got)
		}
	})

	t.Run("odd keyvals drops last", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, false)
		l.Debug("msg", "key1", "val1", "orphan")
		got := buf.String()
		// Only complete pairs are printed
		if !strings.Contains(got, "key1=val1") {
			t.Errorf("Debug output = %q, want to contain key1=val1", got)
		}
		if strings.Contains(got, "orphan") {
			t.Errorf("Debug output = %q, should not contain orphan key", got)
		}
	})

	t.Run("not verbose is silent", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, false, false)
		l.Debug("should not appear", "key", "val")
		if buf.Len() != 0 {
			t.Errorf("Debug wrote %q when not verbose", buf.String())
		}
	})

	t.Run("quiet overrides verbose", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, true)
		l.Debug("should not appear")
		if buf.Len() != 0 {
			t.Errorf("Debug wrote %q when quiet", buf.String())
		}
	})
}

func TestIsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    bool
	}{
		{"verbose only", true, false, true},
		{"quiet only", false, true, false},
		{"both", true, true, false},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := New(io.Discard, tt.verbose, tt.quiet)
			if got := l.IsVerbose(); got != tt.want {
				t.Errorf("IsVerbose() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := New(&buf, false, false)
	if l.Writer() != &buf {
		t.Error("Writer() did not return the underlying writer")
	}
}

func TestWithLogger_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		l := New(&buf, true, false)
		ctx := WithLogger(context.Background(), l)
		got := FromContext(ctx)
		if got != l {
			t.Error("FromContext did not return the stored logger")
		}
	})

	t.Run("fallback discard logger", func(t *testing.T) {
		t.Parallel()
		l := FromContext(context.Background())
		if l == nil {
			t.Fatal("FromContext returned nil for empty context")
		}
		// Writes to io.Discard without panicking
		l.Printf("should not appear anywhere")
		l.Debug("should not appear anywhere")
		if l.Writer() != io.Discard {
			t.Error("fallback logger should write to io.Discard")
		}
	})
}

func TestJournal(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	now := func() time.Time { return fixed }

	t.Run("spawn and ended", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		j := NewJournal(&buf, now)
		j.Spawn("npx wrangler kv key get k1")
		j.Ended("npx wrangler kv key get k1", []byte("value\n"), []byte("warn"))

		got := buf.String()
		wantSpawn := "2024-03-01 09:30:00 Spawn \"npx wrangler kv key get k1\"\n"
		if !strings.HasPrefix(got, wantSpawn) {
			t.Errorf("journal = %q, want prefix %q", got, wantSpawn)
		}
		if !strings.Contains(got, `stdout: "value\n"`) {
			t.Errorf("journal = %q, want quoted stdout", got)
		}
		if !strings.Contains(got, `stderr: "warn"`) {
			t.Errorf("journal = %q, want quoted stderr", got)
		}
	})

	t.Run("notef", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		j := NewJournal(&buf, now)
		j.Notef("dropped %q", "b/1")
		if got, want := buf.String(), "2024-03-01 09:30:00 dropped \"b/1\"\n"; got != want {
			t.Errorf("Notef wrote %q, want %q", got, want)
		}
	})

	t.Run("context fallback discards", func(t *testing.T) {
		t.Parallel()
		j := JournalFromContext(context.Background())
		j.Spawn("ignored")
		if j.w != io.Discard {
			t.Error("fallback journal should write to io.Discard")
		}
	})

	t.Run("context round trip", func(t *testing.T) {
		t.Parallel()
		j := NewJournal(io.Discard, now)
		ctx := WithJournal(context.Background(), j)
		if JournalFromContext(ctx) != j {
			t.Error("JournalFromContext did not return the stored journal")
		}
	})
}
