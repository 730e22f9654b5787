package modsearch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFindsFileInRegisteredDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "util.jiyu"), []byte("let x = 1;"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r := New()
	if err := r.AddModulePath(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.Resolve("util.jiyu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "util.jiyu") {
		t.Fatalf("got %q", got)
	}
}

func TestResolveMissingModuleReturnsError(t *testing.T) {
	r := New()
	if err := r.AddModulePath(t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve("nope.jiyu"); err == nil {
		t.Fatalf("expected a not-found error")
	}
}

func TestGlobExpansionIsCachedAcrossResolves(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.jiyu"), []byte("let x = 1;"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r := New()
	glob := filepath.Join(dir, "*.jiyu")
	if err := r.AddModulePath(glob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve("a.jiyu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.expandedGlobCache[glob]; !ok {
		t.Fatalf("want the glob's expansion to be cached after the first resolve")
	}
}

func TestLibraryPathsAndPrecompiledObjectsAreTracked(t *testing.T) {
	r := New()
	r.AddLibraryPath("/usr/lib")
	r.AddPrecompiledObject("runtime.o")
	if got := r.LibraryPaths(); len(got) != 1 || got[0] != "/usr/lib" {
		t.Fatalf("got %v", got)
	}
	if got := r.PrecompiledObjects(); len(got) != 1 || got[0] != "runtime.o" {
		t.Fatalf("got %v", got)
	}
}
