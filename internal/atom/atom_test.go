package atom

import "testing"

func TestInternReturnsSameAtomForSameString(t *testing.T) {
	tbl := New()
	a := tbl.Intern("foo")
	b := tbl.Intern("foo")
	if a != b {
		t.Fatalf("Intern(%q) = %d, Intern(%q) = %d, want equal", "foo", a, "foo", b)
	}
}

func TestInternDistinguishesStrings(t *testing.T) {
	tbl := New()
	a := tbl.Intern("foo")
	b := tbl.Intern("bar")
	if a == b {
		t.Fatalf("Intern(%q) and Intern(%q) collided on %d", "foo", "bar", a)
	}
}

func TestStringRoundTrip(t *testing.T) {
	tbl := New()
	for _, s := range []string{"x", "count", "_private", "T"} {
		a := tbl.Intern(s)
		if got := tbl.String(a); got != s {
			t.Fatalf("String(Intern(%q)) = %q", s, got)
		}
	}
}

func TestZeroValueIsInvalid(t *testing.T) {
	tbl := New()
	var zero Atom
	if tbl.Valid(zero) {
		t.Fatalf("zero Atom reported valid")
	}
	if got := tbl.String(zero); got != "" {
		t.Fatalf("String(zero) = %q, want empty", got)
	}
}

func TestLenCountsDistinctAtoms(t *testing.T) {
	tbl := New()
	tbl.Intern("a")
	tbl.Intern("b")
	tbl.Intern("a")
	if got := tbl.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}
