package parser

import (
	"fmt"

	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// Error codes for programmatic handling, grounded in the teacher's
// parser error-code scheme.
const (
	ErrUnexpectedToken  = "E_UNEXPECTED_TOKEN"
	ErrExpectedIdent    = "E_EXPECTED_IDENT"
	ErrNoPrefixParse    = "E_NO_PREFIX_PARSE"
	ErrInvalidType      = "E_INVALID_TYPE"
	ErrInvalidExpr      = "E_INVALID_EXPRESSION"
	ErrDuplicateDecl    = "E_DUPLICATE_DECLARATION"
	ErrInvalidDirective = "E_INVALID_DIRECTIVE"
)

// Error is a structured parse error carrying a span for diagnostic
// rendering (internal/diag turns this into `file:line:col: parse error: msg`).
type Error struct {
	Message string
	Code    string
	Span    lexer.TextSpan
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(span lexer.TextSpan, code, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Code: code, Span: span}
}
