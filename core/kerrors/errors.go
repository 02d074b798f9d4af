// Package kerrors is the KEVS diagnostics model: a typed error carrying
// enough context to render spec's "<file>:<line>: <phase>: <reason>"
// messages, plus a Sink that keeps only the first error reported to it
// (scanning and parsing both halt on their first failure).
package kerrors

import "fmt"

// Kind classifies a failure per spec §7.
type Kind int

const (
	Lexical Kind = iota
	Escape
	Numeric
	Structural
	Lookup
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Escape:
		return "escape"
	case Numeric:
		return "numeric"
	case Structural:
		return "structural"
	case Lookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the scanner, the tree
// builder, and the typed accessors.
type Error struct {
	Kind    Kind
	File    string
	Line    int   // 0 for errors with no source position (e.g. accessor lookups)
	Phase   string // "scan", "parse", or "" for accessor errors
	Message string
}

// Error implements the error interface, rendering the file:line: phase:
// reason format from spec §4.6, omitting whichever prefix parts don't
// apply.
func (e *Error) Error() string {
	switch {
	case e.File != "" && e.Phase != "":
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Phase, e.Message)
	case e.Phase != "":
		return fmt.Sprintf("%s: %s", e.Phase, e.Message)
	default:
		return e.Message
	}
}

func newf(kind Kind, file string, line int, phase, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		File:    file,
		Line:    line,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewScan builds a scanner-phase error (Lexical kind).
func NewScan(file string, line int, format string, args ...interface{}) *Error {
	return newf(Lexical, file, line, "scan", format, args...)
}

// NewParse builds a parser-phase structural error.
func NewParse(file string, line int, format string, args ...interface{}) *Error {
	return newf(Structural, file, line, "parse", format, args...)
}

// NewParseNumeric builds a parser-phase error for a malformed integer
// literal.
func NewParseNumeric(file string, line int, format string, args ...interface{}) *Error {
	return newf(Numeric, file, line, "parse", format, args...)
}

// NewParseEscape builds a parser-phase error for a malformed string
// escape.
func NewParseEscape(file string, line int, format string, args ...interface{}) *Error {
	return newf(Escape, file, line, "parse", format, args...)
}

// NewLookup builds an accessor lookup error: no file/line, since typed
// accessors operate on an already-built tree.
func NewLookup(format string, args ...interface{}) *Error {
	return newf(Lookup, "", 0, "", format, args...)
}

// Sink accumulates at most one error: the first one reported. Subsequent
// reports are ignored, matching the "first error halts the phase" rule.
type Sink struct {
	err *Error
}

// Report records err if this is the first error reported to the sink.
// Returns true if err was recorded (i.e. the sink was previously empty).
func (s *Sink) Report(err *Error) bool {
	if s.err != nil {
		return false
	}
	s.err = err
	return true
}

// Err returns the first reported error, or nil if none was reported.
func (s *Sink) Err() *Error {
	return s.err
}

// Failed reports whether the sink holds an error.
func (s *Sink) Failed() bool {
	return s.err != nil
}
