// Package modsearch resolves #load/#import targets against the
// directories and globs a compiler instance has registered, per
// SPEC_FULL.md §6.2a: "add_module_search_path accepts a directory or a
// bmatcuk/doublestar/v4 glob; #load/#import resolution walks
// registered directories and expands globs once, caching the
// expansion."
package modsearch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolver owns one compiler instance's module/library search paths.
// It is not safe for concurrent use, matching SPEC_FULL.md §5's
// single-threaded-per-instance model.
type Resolver struct {
	dirs              []string
	globs             []string
	expandedGlobCache map[string][]string

	libraryDirs        []string
	precompiledObjects []string
}

// New creates an empty Resolver.
func New() *Resolver {
	return &Resolver{expandedGlobCache: make(map[string][]string)}
}

// isGlob reports whether pathOrGlob contains a doublestar meta
// character, distinguishing a plain directory from a glob pattern.
func isGlob(pathOrGlob string) bool {
	return doublestar.ValidatePattern(pathOrGlob) && containsMeta(pathOrGlob)
}

func containsMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// AddModulePath registers a directory or glob for #load/#import
// resolution.
func (r *Resolver) AddModulePath(pathOrGlob string) error {
	if isGlob(pathOrGlob) {
		if _, err := doublestar.Match(pathOrGlob, ""); err != nil {
			return fmt.Errorf("invalid module search glob %q: %w", pathOrGlob, err)
		}
		r.globs = append(r.globs, pathOrGlob)
		return nil
	}
	r.dirs = append(r.dirs, pathOrGlob)
	return nil
}

// AddLibraryPath registers a native library search directory, passed
// through to the external backend's link step unchanged.
func (r *Resolver) AddLibraryPath(dir string) {
	r.libraryDirs = append(r.libraryDirs, dir)
}

// AddPrecompiledObject registers an object file passed through to the
// external backend's link step unchanged.
func (r *Resolver) AddPrecompiledObject(path string) {
	r.precompiledObjects = append(r.precompiledObjects, path)
}

// LibraryPaths returns the registered native library search
// directories, in registration order.
func (r *Resolver) LibraryPaths() []string { return r.libraryDirs }

// PrecompiledObjects returns the registered precompiled object paths,
// in registration order.
func (r *Resolver) PrecompiledObjects() []string { return r.precompiledObjects }

// Resolve finds the source file backing a #load/#import target named
// module (a relative path, with or without a language extension) by
// checking each registered directory, then the cached expansion of
// each registered glob. The first match wins, in registration order.
func (r *Resolver) Resolve(module string) (string, error) {
	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, module)
		if fileExists(candidate) {
			return candidate, nil
		}
		if fileExists(candidate + ".jiyu") {
			return candidate + ".jiyu", nil
		}
	}
	for _, glob := range r.globs {
		matches, ok := r.expandedGlobCache[glob]
		if !ok {
			var err error
			matches, err = doublestar.FilepathGlob(glob)
			if err != nil {
				return "", fmt.Errorf("expanding module search glob %q: %w", glob, err)
			}
			r.expandedGlobCache[glob] = matches
		}
		for _, m := range matches {
			if filepath.Base(m) == module || filepath.Base(m) == module+".jiyu" {
				return m, nil
			}
		}
	}
	return "", fmt.Errorf("module %q not found in any registered search path", module)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
