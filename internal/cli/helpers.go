package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	green = color.New(color.FgGreen, color.Bold)
	cyan  = color.New(color.FgCyan, color.Bold)
	faint = color.New(color.Faint)
)

// printField writes an aligned "name: value" line.
func printField(w io.Writer, name string, value interface{}) {
	cyan.Fprintf(w, "  %-14s", name+":")
	fmt.Fprintf(w, " %v\n", value)
}

func printHex(w io.Writer, name string, data []byte) {
	printField(w, name, hex.EncodeToString(data))
}

// progressPrinter rewrites a single status line on w.
//
// It is safe for concurrent use, as parallel solvers report from several goroutines.
type progressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	start time.Time
}

func newProgressPrinter(w io.Writer, label string) *progressPrinter {
	return &progressPrinter{w: w, label: label, start: time.Now()}
}

func (p *progressPrinter) update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	faint.Fprintf(p.w, "\r  %s %d/%d (%s)", p.label, done, total, time.Since(p.start).Round(time.Millisecond))
}

func (p *progressPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}
