// Package parser implements the KEVS tree builder: the second phase of
// the scanner → parser pipeline. It consumes the token stream produced by
// package lexer and materializes the tagged value tree described in
// spec §3, decoding string escapes and integer literals at construction
// time and enforcing per-table key uniqueness as it goes.
package parser

import (
	"io"
	"log/slog"
	"os"

	"github.com/kevs-lang/kevs/core/ast"
	"github.com/kevs-lang/kevs/core/escape"
	"github.com/kevs-lang/kevs/core/invariant"
	"github.com/kevs-lang/kevs/core/kerrors"
	"github.com/kevs-lang/kevs/core/numeric"
	"github.com/kevs-lang/kevs/core/token"
)

// Options configures a build run. See lexer.Options for the matching
// scan-phase knobs; the two are kept separate because a caller may scan
// once and build multiple times against different option sets (e.g. the
// --scan CLI flag stops before ever calling Build).
type Options struct {
	FileName         string
	FileLineInErrors bool
	AbortOnError     bool
	Logger           *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Build consumes tokens and returns the root table, or the first
// diagnostic encountered.
func Build(tokens []token.Token, opts Options) (*ast.TableValue, error) {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	p := &parser{
		tokens:  tokens,
		file:    opts.FileName,
		showLoc: opts.FileLineInErrors,
		abort:   opts.AbortOnError,
		logger:  logger,
	}

	root := ast.NewTableValue()
	for p.i < len(p.tokens) {
		key, val, err := p.keyValue(root)
		if err != nil {
			invariant.Invariant(p.sink.Failed(), "sink must hold the error a failed keyValue returned")
			return nil, err
		}
		root.Append(key, val)
	}
	return root, nil
}

type parser struct {
	tokens  []token.Token
	i       int
	file    string
	showLoc bool
	abort   bool
	logger  *slog.Logger
	sink    kerrors.Sink
}

func (p *parser) line() int {
	if p.i < len(p.tokens) {
		return p.tokens[p.i].Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 1
}

// errf reports err to the parser's sink and returns the first error ever
// reported to it, mirroring the scanner's first-error-wins rule.
func (p *parser) errf(format string, args ...interface{}) error {
	file := p.file
	if !p.showLoc {
		file = ""
	}
	p.sink.Report(kerrors.NewParse(file, p.line(), format, args...))
	err := p.sink.Err()
	if p.abort {
		os.Stdout.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	return err
}

func (p *parser) numericErrf(lexeme string, reason string) error {
	file := p.file
	if !p.showLoc {
		file = ""
	}
	p.sink.Report(kerrors.NewParseNumeric(file, p.line(), "value '%s' is not an integer: %s", lexeme, reason))
	err := p.sink.Err()
	if p.abort {
		os.Stdout.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	return err
}

func (p *parser) escapeErrf(reason string) error {
	file := p.file
	if !p.showLoc {
		file = ""
	}
	p.sink.Report(kerrors.NewParseEscape(file, p.line(), "%s", reason))
	err := p.sink.Err()
	if p.abort {
		os.Stdout.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	return err
}

// peek returns the current token and whether one is available.
func (p *parser) peek() (token.Token, bool) {
	if p.i >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.i], true
}

func (p *parser) peekKind(k token.Kind) bool {
	t, ok := p.peek()
	return ok && t.Kind == k
}

func (p *parser) peekDelim(c byte) bool {
	t, ok := p.peek()
	return ok && t.IsDelim(c)
}

// pop consumes and returns the current token. Callers must have checked
// availability via peek/peekKind/peekDelim first.
func (p *parser) pop() token.Token {
	t := p.tokens[p.i]
	p.i++
	p.logger.Debug("consume", "kind", t.Kind.String(), "value", string(t.Value), "line", t.Line)
	return t
}

// expectDelim pops a delimiter token carrying byte c, or fails.
func (p *parser) expectDelim(c byte) error {
	if !p.peekDelim(c) {
		return p.errf("expected delimiter '%c'", c)
	}
	p.pop()
	return nil
}

// keyValue parses "key = value ;" and enforces the duplicate-key
// invariant against the enclosing table built so far.
func (p *parser) keyValue(enclosing *ast.TableValue) (string, ast.Value, error) {
	key, err := p.key()
	if err != nil {
		return "", ast.Value{}, err
	}
	if enclosing.Has(key) {
		return "", ast.Value{}, p.errf("duplicate key '%s'", key)
	}

	if err := p.expectDelim('='); err != nil {
		return "", ast.Value{}, err
	}

	val, err := p.value()
	if err != nil {
		return "", ast.Value{}, err
	}

	if err := p.expectDelim(';'); err != nil {
		return "", ast.Value{}, err
	}

	return key, val, nil
}

func (p *parser) key() (string, error) {
	if !p.peekKind(token.Key) {
		return "", p.errf("expected key token")
	}
	t := p.pop()
	key := string(t.Value)
	if !isValidIdentifier(key) {
		return "", p.errf("key is not a valid identifier: '%s'", key)
	}
	return key, nil
}

func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if c != '_' && !isLetter(c) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && !isLetter(c) && c != '_' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// value dispatches on the next token: '[' starts a list, '{' starts a
// table, anything else is a simple (string/integer/boolean) value. The
// trailing ';' is consumed by the caller (keyValue, or the list/table
// element loop below) — not here.
func (p *parser) value() (ast.Value, error) {
	switch {
	case p.peekDelim('['):
		return p.list()
	case p.peekDelim('{'):
		return p.table()
	default:
		return p.simple()
	}
}

func (p *parser) list() (ast.Value, error) {
	p.pop() // '['

	var elems []ast.Value
	for {
		if p.peekDelim(']') {
			p.pop()
			return ast.NewList(elems), nil
		}

		start := p.i
		val, err := p.value()
		if err != nil {
			return ast.Value{}, err
		}
		if err := p.expectDelim(';'); err != nil {
			return ast.Value{}, err
		}
		elems = append(elems, val)

		invariant.Invariant(p.i > start, "cursor must advance while parsing list elements")

		if p.peekDelim(']') {
			p.pop()
			return ast.NewList(elems), nil
		}
	}
}

func (p *parser) table() (ast.Value, error) {
	p.pop() // '{'

	t := ast.NewTableValue()
	for {
		if p.peekDelim('}') {
			p.pop()
			return ast.NewTable(t), nil
		}

		key, val, err := p.keyValue(t)
		if err != nil {
			return ast.Value{}, err
		}
		t.Append(key, val)

		if p.peekDelim('}') {
			p.pop()
			return ast.NewTable(t), nil
		}
	}
}

func (p *parser) simple() (ast.Value, error) {
	if !p.peekKind(token.Value) {
		return ast.Value{}, p.errf("expected value token")
	}
	t := p.pop()
	lexeme := t.Value

	switch {
	case len(lexeme) > 0 && lexeme[0] == '"':
		decoded, err := escape.Decode(lexeme[1 : len(lexeme)-1])
		if err != nil {
			return ast.Value{}, p.escapeErrf(err.Error())
		}
		return ast.NewString(decoded), nil

	case len(lexeme) > 0 && lexeme[0] == '`':
		return ast.NewString(string(lexeme[1 : len(lexeme)-1])), nil

	case string(lexeme) == "true":
		return ast.NewBoolean(true), nil

	case string(lexeme) == "false":
		return ast.NewBoolean(false), nil

	default:
		n, err := numeric.ParseInt(lexeme)
		if err != nil {
			return ast.Value{}, p.numericErrf(string(lexeme), err.Error())
		}
		return ast.NewInteger(n), nil
	}
}
