// Package diag implements the structured diagnostics described in
// SPEC_FULL.md §7: every compiler error is attached to a TextSpan and
// classified by Kind, rendered either for a terminal or exported as
// JSON for an editor integration.
package diag

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// Kind classifies a Diagnostic, per SPEC_FULL.md §7.
type Kind int

const (
	Lex Kind = iota
	Parse
	Name
	Type
	Polymorph
	Cycle
	Layout
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Name:
		return "name error"
	case Type:
		return "type error"
	case Polymorph:
		return "polymorph error"
	case Cycle:
		return "cycle error"
	case Layout:
		return "layout error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// Diagnostic is one reported problem, per SPEC_FULL.md §7
// ("Propagation policy: each kind is attached to a TextSpan").
type Diagnostic struct {
	Kind    Kind
	Span    lexer.TextSpan
	Message string
}

func (d Diagnostic) Error() string { return d.Message }

// Format renders d as `file:line:col: kind: message`, with an
// optional caret-annotated source line when src is non-empty.
func (d Diagnostic) Format(filename, src string) string {
	pos := lexer.PositionIn(src, d.Span)
	head := fmt.Sprintf("%s:%d:%d: %s: %s", filename, pos.Line, pos.Column, d.Kind, d.Message)
	if src == "" {
		return head
	}
	line := lexer.LineText(src, d.Span)
	pad := pos.Column - 1
	if pad < 0 {
		pad = 0
	}
	caret := strings.Repeat(" ", pad) + "^"
	return head + "\n" + line + "\n" + caret
}

// Sink accumulates diagnostics for a single compiler instance
// (SPEC_FULL.md §5: "the driver checks an 'any errors reported' flag
// between passes").
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink creates an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Report appends a diagnostic.
func (s *Sink) Report(kind Kind, span lexer.TextSpan, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been reported.
func (s *Sink) HasErrors() bool { return len(s.diagnostics) > 0 }

// All returns every diagnostic reported so far, in report order.
func (s *Sink) All() []Diagnostic { return s.diagnostics }

// Reset discards all reported diagnostics.
func (s *Sink) Reset() { s.diagnostics = nil }
