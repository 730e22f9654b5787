package lexer

import "testing"

func typesOf(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, src string, want ...TokenType) {
	t.Helper()
	toks := New(src, 0).Tokenize()
	got := typesOf(toks)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want types %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize(%q)[%d] = %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestBasicFunctionSignature(t *testing.T) {
	assertTypes(t, "func add(a: int32, b: int32) -> int32 { return a + b; }",
		FUNC, IDENT, TokenType('('), IDENT, TokenType(':'), IDENT, TokenType(','),
		IDENT, TokenType(':'), IDENT, TokenType(')'), ARROW, IDENT, TokenType('{'),
		RETURN, IDENT, TokenType('+'), IDENT, TokenType(';'), TokenType('}'), EOF)
}

func TestKeywordsAreNotIdentifiers(t *testing.T) {
	for kw, tt := range keywords {
		toks := New(kw, 0).Tokenize()
		if len(toks) != 2 || toks[0].Type != tt {
			t.Fatalf("Tokenize(%q) = %v, want single %v token", kw, toks, tt)
		}
	}
}

func TestIdentifierNotMistakenForKeywordPrefix(t *testing.T) {
	assertTypes(t, "variable", IDENT, EOF)
	assertTypes(t, "iffy", IDENT, EOF)
}

func TestHexIntegerLiteral(t *testing.T) {
	toks := New("0xFF", 0).Tokenize()
	if toks[0].Type != INT || toks[0].Int != 255 || toks[0].Radix != 16 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestDecimalIntegerLiteral(t *testing.T) {
	toks := New("12345", 0).Tokenize()
	if toks[0].Type != INT || toks[0].Int != 12345 || toks[0].Radix != 10 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := New("3.14", 0).Tokenize()
	if toks[0].Type != FLOAT || toks[0].Float != 3.14 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestFloatWithExponent(t *testing.T) {
	toks := New("1.5e10", 0).Tokenize()
	if toks[0].Type != FLOAT || toks[0].Float != 1.5e10 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestRangeOperatorsDoNotConsumeDigitDot(t *testing.T) {
	assertTypes(t, "0..10", INT, RANGE_INCL, INT, EOF)
	assertTypes(t, "0..<10", INT, RANGE_EXCL, INT, EOF)
}

func TestDotBeforeDigitIsFloat(t *testing.T) {
	toks := New("1.5", 0).Tokenize()
	if toks[0].Type != FLOAT {
		t.Fatalf("want FLOAT, got %v", toks[0].Type)
	}
}

func TestStringLiteralBasic(t *testing.T) {
	toks := New(`"hello\nworld"`, 0).Tokenize()
	if toks[0].Type != STRING || toks[0].Str != "hello\nworld" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestStringUnknownEscapeIsError(t *testing.T) {
	l := New(`"a\qb"`, 0)
	toks := l.Tokenize()
	if toks[0].Type != STRING {
		t.Fatalf("got %+v", toks[0])
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("want 1 lex error, got %v", l.Errors())
	}
}

func TestNewlineInSingleLineStringIsError(t *testing.T) {
	l := New("\"a\nb\"", 0)
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatalf("want a lex error for embedded newline")
	}
}

func TestMultilineStringStripsCommonIndent(t *testing.T) {
	src := "\"\"\"\n    line one\n    line two\n    \"\"\""
	toks := New(src, 0).Tokenize()
	want := "line one\nline two"
	if toks[0].Type != STRING || toks[0].Str != want {
		t.Fatalf("got %+v want body %q", toks[0], want)
	}
}

func TestCharLiteralPacksLittleEndian(t *testing.T) {
	toks := New(`'A'`, 0).Tokenize()
	if toks[0].Type != CHAR || toks[0].Int != 'A' {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestCharLiteralOverwideIsError(t *testing.T) {
	l := New(`'abcde'`, 0)
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatalf("want an error for an over-wide character literal")
	}
}

func TestCompileTimeTag(t *testing.T) {
	toks := New("@c_function", 0).Tokenize()
	if toks[0].Type != TAG || toks[0].TagVal != "c_function" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestUnrecognizedTagIsError(t *testing.T) {
	l := New("@bogus", 0)
	l.Tokenize()
	if len(l.Errors()) == 0 {
		t.Fatalf("want an error for an unrecognized tag")
	}
}

func TestNestedBlockComments(t *testing.T) {
	assertTypes(t, "/* outer /* inner */ still outer */ 1", INT, EOF)
}

func TestLineCommentSkippedByDefault(t *testing.T) {
	assertTypes(t, "1 // trailing comment\n2", INT, INT, EOF)
}

func TestPreserveCommentsOption(t *testing.T) {
	toks := New("1 // c\n2", 0, WithPreserveComments(true)).Tokenize()
	types := typesOf(toks)
	want := []TokenType{INT, COMMENT, INT, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v want %v", types, want)
		}
	}
}

func TestAllCompoundOperators(t *testing.T) {
	assertTypes(t, "-> << >> .. ..< == != <= >= && || ^^ += -= *= /= %= &= |= ^= <<= >>=",
		ARROW, SHL, SHR, RANGE_INCL, RANGE_EXCL, EQ, NEQ, LE, GE, LAND, LOR, LXOR,
		ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, QUO_ASSIGN, REM_ASSIGN, AND_ASSIGN,
		OR_ASSIGN, XOR_ASSIGN, SHL_ASSIGN, SHR_ASSIGN, EOF)
}

func TestSpanRoundTrips(t *testing.T) {
	src := "var count = 42;"
	toks := New(src, 0).Tokenize()
	for _, tok := range toks {
		if tok.Type == EOF {
			continue
		}
		got := src[tok.Span.Offset:tok.Span.End()]
		if got != tok.Literal {
			t.Fatalf("span for %v covers %q, want %q", tok, got, tok.Literal)
		}
	}
}

func TestReLexingASpanProducesSameKind(t *testing.T) {
	src := "func foo(x: *int32) -> bool { }"
	toks := New(src, 0).Tokenize()
	for _, tok := range toks {
		if tok.Type == EOF {
			continue
		}
		text := src[tok.Span.Offset:tok.Span.End()]
		reToks := New(text, 0).Tokenize()
		if len(reToks) < 1 || reToks[0].Type != tok.Type {
			t.Fatalf("re-lexing %q produced %v, want kind %v", text, reToks, tok.Type)
		}
	}
}

func TestBOMIsStripped(t *testing.T) {
	src := "\xef\xbb\xbfvar x = 1;"
	toks := New(src, 0).Tokenize()
	if toks[0].Type != VAR {
		t.Fatalf("got %+v, want leading BOM stripped", toks[0])
	}
}

func TestUnicodeInComments(t *testing.T) {
	assertTypes(t, "// 🚀 ÄÖÜ\n1", INT, EOF)
}

func TestStringLiteralsNormalizeToNFC(t *testing.T) {
	// "e" with an acute accent, spelled as a single precomposed rune
	// (U+00E9) vs. "e" plus a combining acute accent (U+0065 U+0301),
	// must decode to the same string content.
	composedSrc := "\"caf\u00e9\""
	decomposedSrc := "\"cafe\u0301\""

	composed := New(composedSrc, 0).Tokenize()[0]
	decomposed := New(decomposedSrc, 0).Tokenize()[0]
	if composed.Str != decomposed.Str {
		t.Fatalf("want NFC-equivalent string literals to decode identically, got %q vs %q", composed.Str, decomposed.Str)
	}
}

func TestIllegalCharacterRecorded(t *testing.T) {
	l := New("`", 0)
	toks := l.Tokenize()
	if toks[0].Type != ILLEGAL {
		t.Fatalf("got %+v", toks[0])
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("want 1 error, got %v", l.Errors())
	}
}

func TestPositionInDerivesLineAndColumn(t *testing.T) {
	src := "line one\nline two\nthird"
	span := TextSpan{Offset: len("line one\nline "), Length: 3}
	pos := PositionIn(src, span)
	if pos.Line != 2 {
		t.Fatalf("got line %d, want 2", pos.Line)
	}
}
