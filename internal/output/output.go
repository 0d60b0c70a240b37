// Package output provides context-aware output for kvview.
// Stdout carries primary data (values, tables, JSON); diagnostics go to
// stderr through the log package.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type ctxKey struct{}

// Printer writes primary output.
type Printer struct {
	w        io.Writer
	terminal bool
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w, terminal: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WithPrinter attaches a Printer writing to w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Value writes a stored value byte for byte. On a terminal a missing final
// newline is added so the shell prompt starts on its own line; piped output
// is never altered.
func (p *Printer) Value(value []byte) error {
	if _, err := p.w.Write(value); err != nil {
		return err
	}
	if p.terminal && len(value) > 0 && !bytes.HasSuffix(value, []byte("\n")) {
		_, err := io.WriteString(p.w, "\n")
		return err
	}
	return nil
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
