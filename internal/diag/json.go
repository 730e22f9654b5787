package diag

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// MarshalJSON renders every diagnostic in s as a JSON array, so a host
// IDE/editor integration can consume a compiler run's diagnostics as a
// machine-readable stream without depending on encoding/json
// reflection (SPEC_FULL.md §6.2a).
func (s *Sink) MarshalJSON() ([]byte, error) {
	doc := "[]"
	var err error
	for i, d := range s.diagnostics {
		prefix := fmt.Sprintf("%d.", i)
		doc, err = sjson.Set(doc, prefix+"kind", d.Kind.String())
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, prefix+"file", int(d.Span.File))
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, prefix+"offset", d.Span.Offset)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, prefix+"length", d.Span.Length)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, prefix+"message", d.Message)
		if err != nil {
			return nil, err
		}
	}
	return []byte(doc), nil
}

var kindByName = map[string]Kind{
	Lex.String():       Lex,
	Parse.String():     Parse,
	Name.String():      Name,
	Type.String():      Type,
	Polymorph.String(): Polymorph,
	Cycle.String():     Cycle,
	Layout.String():    Layout,
	Internal.String():  Internal,
}

// ParseDiagnosticsJSON reads back the array produced by
// Sink.MarshalJSON, for tooling that round-trips a prior compiler
// run's diagnostics (SPEC_FULL.md §6.2a).
func ParseDiagnosticsJSON(data []byte) ([]Diagnostic, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("diag: invalid JSON")
	}
	var out []Diagnostic
	var parseErr error
	gjson.ParseBytes(data).ForEach(func(_, value gjson.Result) bool {
		kind, ok := kindByName[value.Get("kind").String()]
		if !ok {
			parseErr = fmt.Errorf("diag: unknown kind %q", value.Get("kind").String())
			return false
		}
		out = append(out, Diagnostic{
			Kind: kind,
			Span: lexer.TextSpan{
				File:   lexer.FileID(value.Get("file").Int()),
				Offset: int(value.Get("offset").Int()),
				Length: int(value.Get("length").Int()),
			},
			Message: value.Get("message").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}
