// Package lexer implements the KEVS scanner: the first phase of the
// scanner → parser pipeline. It turns a raw byte slice into a flat token
// stream, tracking source lines and enforcing the context-sensitive
// delimiter rules described in spec §4.1 (a list needs ']', a table needs
// '}', a bare value needs ';', and only one of those is ever legal at a
// given point).
//
// The scanner never allocates long-lived storage for value payloads: each
// token's Value field is a slice into the caller's input.
package lexer

import (
	"io"
	"log/slog"
	"os"

	"github.com/kevs-lang/kevs/core/bytesspan"
	"github.com/kevs-lang/kevs/core/invariant"
	"github.com/kevs-lang/kevs/core/kerrors"
	"github.com/kevs-lang/kevs/core/token"
)

const (
	keyValSep     = '='
	keyValEnd     = ';'
	commentBegin  = '#'
	stringBegin   = '"'
	rawStrBegin   = '`'
	listBegin     = '['
	listEnd       = ']'
	tableBegin    = '{'
	tableEnd      = '}'
	spaces        = " \t"
)

// Options configures a scan run.
type Options struct {
	// FileName is used in diagnostic messages ("file:line: scan: ...").
	FileName string
	// FileLineInErrors controls whether diagnostics carry the
	// "file:line: " prefix at all.
	FileLineInErrors bool
	// AbortOnError terminates the process after printing the first
	// diagnostic, instead of returning it to the caller. A debugging
	// aid inherited from the reference implementation's abort() path;
	// most callers should leave this false.
	AbortOnError bool
	// Logger receives Debug-level traces of every token produced. A
	// nil Logger discards them.
	Logger *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Scan tokenizes src per Options, returning the flat token stream or the
// first diagnostic encountered.
func Scan(src []byte, opts Options) ([]token.Token, error) {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	s := &scanner{
		file:    opts.FileName,
		showLoc: opts.FileLineInErrors,
		abort:   opts.AbortOnError,
		input:   bytesspan.Span(src),
		line:    1,
		logger:  logger,
	}

	if err := s.run(); err != nil {
		invariant.Invariant(s.sink.Failed(), "sink must hold the error a failed run returned")
		return nil, err
	}
	return s.tokens, nil
}

type scanner struct {
	file    string
	showLoc bool
	abort   bool
	input   bytesspan.Span
	line    int
	tokens  []token.Token
	logger  *slog.Logger
	sink    kerrors.Sink
}

// errf reports err to the scanner's sink and returns the first error ever
// reported, so that a scan which (incorrectly) kept going past its first
// failure still surfaces that original diagnostic rather than a later one.
func (s *scanner) errf(format string, args ...interface{}) error {
	file := s.file
	if !s.showLoc {
		file = ""
	}
	s.sink.Report(kerrors.NewScan(file, s.line, format, args...))
	err := s.sink.Err()
	if s.abort {
		os.Stdout.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	return err
}

func (s *scanner) expect(c byte) bool {
	return s.input.StartsWith(c)
}

func (s *scanner) advance(n int) {
	s.input = s.input[n:]
}

func (s *scanner) trimSpace() {
	s.input = s.input.TrimLeft(spaces)
}

func (s *scanner) add(kind token.Kind, end int) {
	val := s.input[:end].TrimRight(spaces)
	t := token.Token{Kind: kind, Value: []byte(val), Line: s.line}
	s.tokens = append(s.tokens, t)
	s.logger.Debug("token", "kind", t.Kind.String(), "value", string(t.Value), "line", t.Line)
	s.advance(end)
}

func (s *scanner) addDelim() {
	t := token.Token{Kind: token.Delim, Value: []byte{s.input[0]}, Line: s.line}
	s.tokens = append(s.tokens, t)
	s.logger.Debug("token", "kind", "delim", "value", string(t.Value), "line", t.Line)
	s.advance(1)
}

func (s *scanner) newline() {
	s.line++
	s.advance(1)
}

func (s *scanner) comment() error {
	nl := s.input.IndexByte('\n')
	if nl == -1 {
		return s.errf("comment does not end with newline")
	}
	s.advance(nl)
	return nil
}

func (s *scanner) key() error {
	end, c := s.input.IndexAny("=;\n")
	if end == -1 || c != keyValSep {
		return s.errf("key-value pair is missing separator")
	}
	s.add(token.Key, end)
	if len(s.tokens[len(s.tokens)-1].Value) == 0 {
		return s.errf("empty key")
	}
	return nil
}

func (s *scanner) delim(c byte) bool {
	if !s.expect(c) {
		return false
	}
	s.addDelim()
	return true
}

// stringValue locates the closing quote, skipping any quote whose
// immediately-preceding byte is a backslash. This is a lexical rule only:
// whether the escape sequence itself is valid is checked later by the
// escape decoder.
func (s *scanner) stringValue() error {
	pos := 1 // skip the leading quote
	for {
		i := s.input[pos:].IndexByte(stringBegin)
		if i == -1 {
			return s.errf("string value does not end with quote")
		}
		closeAt := pos + i
		prev := s.input[closeAt-1]
		pos = closeAt + 1
		if prev != '\\' {
			break
		}
	}
	s.add(token.Value, pos)
	return nil
}

func (s *scanner) rawString() error {
	end := s.input[1:].IndexByte(rawStrBegin)
	if end == -1 {
		return s.errf("raw string value does not end with backtick")
	}
	n := end + 2 // +2 for leading and trailing backticks
	newlines := s.input[:n].CountNewlines()
	s.add(token.Value, n)
	s.line += newlines
	return nil
}

func (s *scanner) intOrBoolValue() error {
	end, c := s.input.IndexAny(";]}\n")
	if end == -1 || c != keyValEnd {
		return s.errf("integer or boolean value does not end with semicolon")
	}
	s.add(token.Value, end)
	return nil
}

func (s *scanner) listValue() error {
	s.addDelim() // '['
	for {
		s.trimSpace()
		if len(s.input) == 0 {
			return s.errf("end of input without list end")
		}
		if s.expect('\n') {
			s.newline()
			continue
		}
		if s.expect(commentBegin) {
			if err := s.comment(); err != nil {
				return err
			}
			continue
		}
		if s.expect(listEnd) {
			s.addDelim()
			return nil
		}
		if err := s.value(); err != nil {
			return err
		}
		if s.expect(listEnd) {
			s.addDelim()
			return nil
		}
	}
}

func (s *scanner) tableValue() error {
	s.addDelim() // '{'
	for {
		s.trimSpace()
		if len(s.input) == 0 {
			return s.errf("end of input without table end")
		}
		if s.expect('\n') {
			s.newline()
			continue
		}
		if s.expect(commentBegin) {
			if err := s.comment(); err != nil {
				return err
			}
			continue
		}
		if s.expect(tableEnd) {
			s.addDelim()
			return nil
		}
		if err := s.keyValue(); err != nil {
			return err
		}
		if s.expect(tableEnd) {
			s.addDelim()
			return nil
		}
	}
}

func (s *scanner) value() error {
	s.trimSpace()

	var err error
	switch {
	case s.expect(listBegin):
		err = s.listValue()
	case s.expect(tableBegin):
		err = s.tableValue()
	case s.expect(stringBegin):
		err = s.stringValue()
	case s.expect(rawStrBegin):
		err = s.rawString()
	default:
		err = s.intOrBoolValue()
	}
	if err != nil {
		return err
	}

	if !s.delim(keyValEnd) {
		return s.errf("value does not end with semicolon")
	}
	return nil
}

func (s *scanner) keyValue() error {
	if err := s.key(); err != nil {
		return err
	}
	s.addDelim() // '='
	return s.value()
}

func (s *scanner) run() error {
	for len(s.input) != 0 {
		s.trimSpace()
		switch {
		case s.expect('\n'):
			s.newline()
		case s.expect(commentBegin):
			if err := s.comment(); err != nil {
				return err
			}
		default:
			if err := s.keyValue(); err != nil {
				return err
			}
		}
	}
	return nil
}
