// Package output renders command results for the terminal, either as
// human-readable text or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Format selects how command results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formatter writes command output in a single format. All methods are
// safe for concurrent use.
type Formatter struct {
	mu     sync.Mutex
	out    io.Writer
	format Format
	color  bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithWriter redirects output away from stdout.
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) { f.out = w }
}

// WithFormat selects the output format.
func WithFormat(format Format) Option {
	return func(f *Formatter) { f.format = format }
}

// WithColor turns ANSI styling on or off.
func WithColor(enabled bool) Option {
	return func(f *Formatter) { f.color = enabled }
}

// NewFormatter creates a text formatter writing to stdout; options
// override format, destination, and styling.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{out: os.Stdout, format: FormatText, color: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format returns the active output format.
func (f *Formatter) Format() Format {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.format
}

// Print writes a formatted string without a trailing newline.
func (f *Formatter) Print(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.out, format, args...)
}

// Println writes a formatted line.
func (f *Formatter) Println(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.out, format+"\n", args...)
}

// JSON writes v as indented JSON.
func (f *Formatter) JSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success writes a green check line.
func (f *Formatter) Success(format string, args ...any) {
	f.statusLine(styleGreen, "✓", fmt.Sprintf(format, args...))
}

// Error writes a red cross line.
func (f *Formatter) Error(format string, args ...any) {
	f.statusLine(styleRed, "✗", fmt.Sprintf(format, args...))
}

// Warning writes a yellow warning line.
func (f *Formatter) Warning(format string, args ...any) {
	f.statusLine(styleYellow, "⚠", fmt.Sprintf(format, args...))
}

// Info writes a blue info line.
func (f *Formatter) Info(format string, args ...any) {
	f.statusLine(styleBlue, "ℹ", fmt.Sprintf(format, args...))
}

func (f *Formatter) statusLine(s style, symbol, msg string) {
	f.Println("%s", f.paint(s, symbol+" "+msg))
}

// Header writes a bold title underlined to its width.
func (f *Formatter) Header(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.out, f.apply(styleBold, title))
	fmt.Fprintln(f.out, strings.Repeat("─", len(title)))
}

// SubHeader writes a cyan section title.
func (f *Formatter) SubHeader(title string) {
	f.Println("%s", f.paint(styleCyan, title))
}

// Item writes an indented key-value line with the key dimmed.
func (f *Formatter) Item(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.out, "  %s: %s\n", f.apply(styleDim, key), value)
}

// Bold returns s styled bold.
func (f *Formatter) Bold(s string) string {
	return f.paint(styleBold, s)
}

// Dim returns s styled dim.
func (f *Formatter) Dim(s string) string {
	return f.paint(styleDim, s)
}

func (f *Formatter) paint(s style, text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apply(s, text)
}

// apply assumes f.mu is held.
func (f *Formatter) apply(s style, text string) string {
	if !f.color {
		return text
	}
	return string(s) + text + string(styleReset)
}
