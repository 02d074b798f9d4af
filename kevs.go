// Package kevs parses KEVS configuration source into a typed value tree.
//
// Parse runs the two-phase scanner → parser pipeline described in
// core/ast, lexer, and parser: the scanner turns raw bytes into a flat
// token stream, and the parser materializes that stream into a root
// ast.TableValue, decoding string escapes and integer literals along
// the way.
package kevs

import (
	"log/slog"

	"github.com/kevs-lang/kevs/core/ast"
	"github.com/kevs-lang/kevs/lexer"
	"github.com/kevs-lang/kevs/parser"
)

// options holds the resolved configuration for a single Parse call.
type options struct {
	abortOnError     bool
	fileLineInErrors bool
	logger           *slog.Logger
}

// Option configures a Parse call.
type Option func(*options)

// WithAbortOnError terminates the process on the first diagnostic
// instead of returning it, matching the reference tool's --abort flag.
func WithAbortOnError() Option {
	return func(o *options) { o.abortOnError = true }
}

// WithFileLineInErrors controls whether diagnostics carry a "file:line:"
// prefix. Defaults to true when name is non-empty.
func WithFileLineInErrors(enabled bool) Option {
	return func(o *options) { o.fileLineInErrors = enabled }
}

// WithLogger routes Debug-level scan/parse traces to logger. A nil
// logger (the default) discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Parse scans and builds src into a root table. name identifies the
// source in diagnostics; pass "" to suppress location prefixes
// regardless of WithFileLineInErrors.
func Parse(name string, src []byte, opts ...Option) (*ast.TableValue, error) {
	o := options{fileLineInErrors: name != ""}
	for _, apply := range opts {
		apply(&o)
	}

	tokens, err := lexer.Scan(src, lexer.Options{
		FileName:         name,
		FileLineInErrors: o.fileLineInErrors,
		AbortOnError:     o.abortOnError,
		Logger:           o.logger,
	})
	if err != nil {
		return nil, err
	}

	return parser.Build(tokens, parser.Options{
		FileName:         name,
		FileLineInErrors: o.fileLineInErrors,
		AbortOnError:     o.abortOnError,
		Logger:           o.logger,
	})
}

// Scan runs only the scanner phase, returning tokens instead of a built
// tree. Used by the CLI's --scan flag and by callers that want to
// inspect the token stream directly.
func Scan(name string, src []byte, opts ...Option) ([]ScanToken, error) {
	o := options{fileLineInErrors: name != ""}
	for _, apply := range opts {
		apply(&o)
	}

	tokens, err := lexer.Scan(src, lexer.Options{
		FileName:         name,
		FileLineInErrors: o.fileLineInErrors,
		AbortOnError:     o.abortOnError,
		Logger:           o.logger,
	})
	if err != nil {
		return nil, err
	}

	out := make([]ScanToken, len(tokens))
	for i, t := range tokens {
		out[i] = ScanToken{Kind: t.Kind.String(), Value: string(t.Value), Line: t.Line}
	}
	return out, nil
}

// ScanToken is the public, decoupled view of a scanned token: a copy
// that does not alias the caller's input and does not expose the
// internal token package.
type ScanToken struct {
	Kind  string
	Value string
	Line  int
}
