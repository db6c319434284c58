// Package diagnostic accumulates compiler errors and warnings and
// renders them with source snippets.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/HugoDaniel/glslx/internal/source"
)

// Severity classifies a Diagnostic.
type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single compiler message with an optional trailing note.
type Diagnostic struct {
	Severity  Severity
	Range     source.Range
	Message   string
	NoteRange source.Range
	NoteText  string
}

// Log accumulates diagnostics in issue order and supports the
// de-duplication and note-attachment policy of the error handling
// design: duplicate identical errors at the same start position are
// suppressed, and notes attach to the most recently emitted diagnostic.
type Log struct {
	diagnostics []Diagnostic
	seen        map[seenKey]bool
}

type seenKey struct {
	srcName string
	start   int
	message string
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{seen: make(map[seenKey]bool)}
}

func (l *Log) add(severity Severity, r source.Range, message string) *Diagnostic {
	key := seenKey{start: r.Start, message: message}
	if r.Src != nil {
		key.srcName = r.Src.Name
	}
	if l.seen[key] {
		return nil
	}
	l.seen[key] = true
	l.diagnostics = append(l.diagnostics, Diagnostic{Severity: severity, Range: r, Message: message})
	return &l.diagnostics[len(l.diagnostics)-1]
}

// AddError records an error diagnostic.
func (l *Log) AddError(r source.Range, format string, args ...interface{}) {
	l.add(Error, r, fmt.Sprintf(format, args...))
}

// AddWarning records a warning diagnostic.
func (l *Log) AddWarning(r source.Range, format string, args ...interface{}) {
	l.add(Warning, r, fmt.Sprintf(format, args...))
}

// AddNote attaches a note to the most recently emitted diagnostic, if any.
func (l *Log) AddNote(r source.Range, format string, args ...interface{}) {
	if len(l.diagnostics) == 0 {
		return
	}
	last := &l.diagnostics[len(l.diagnostics)-1]
	last.NoteRange = r
	last.NoteText = fmt.Sprintf(format, args...)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l *Log) HasErrors() bool {
	for _, d := range l.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning-severity diagnostic was recorded.
func (l *Log) HasWarnings() bool {
	for _, d := range l.diagnostics {
		if d.Severity == Warning {
			return true
		}
	}
	return false
}

// Diagnostics returns all diagnostics in issue order.
func (l *Log) Diagnostics() []Diagnostic {
	return l.diagnostics
}

// SortedByPosition returns a copy of the diagnostics sorted by source
// name and start offset, for consumers that want positional order
// rather than issue order.
func (l *Log) SortedByPosition() []Diagnostic {
	out := append([]Diagnostic(nil), l.diagnostics...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Range, out[j].Range
		an, bn := "", ""
		if a.Src != nil {
			an = a.Src.Name
		}
		if b.Src != nil {
			bn = b.Src.Name
		}
		if an != bn {
			return an < bn
		}
		return a.Start < b.Start
	})
	return out
}

// Clear empties the log, for re-running a stage idempotently.
func (l *Log) Clear() {
	l.diagnostics = nil
	l.seen = make(map[seenKey]bool)
}

// Format renders a single diagnostic with a source snippet and a caret
// under the offending range.
func Format(d Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s\n", d.Range.Locate(), d.Severity, d.Message)
	if d.Range.Src != nil {
		line, col := d.Range.Src.IndexToLineColumn(d.Range.Start)
		text := d.Range.Src.ContentsOfLine(line)
		fmt.Fprintf(&b, "  %s\n", text)
		fmt.Fprintf(&b, "  %s^\n", strings.Repeat(" ", col))
	}
	if d.NoteText != "" {
		fmt.Fprintf(&b, "  note: %s: %s\n", d.NoteRange.Locate(), d.NoteText)
	}
	return b.String()
}

// FormatAll renders every diagnostic in the log, issue order.
func FormatAll(l *Log) string {
	var b strings.Builder
	for _, d := range l.diagnostics {
		b.WriteString(Format(d))
	}
	return b.String()
}
