// Package jiyu is the public facade over internal/driver, mirroring
// the teacher's own pkg/ convention of re-exporting a stable surface
// for external embedders rather than letting them import internal/
// directly.
package jiyu

import (
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/driver"
)

// BuildOptions configures a Compiler instance (SPEC_FULL.md §6.2).
type BuildOptions = driver.BuildOptions

// Diagnostic is one reported problem (SPEC_FULL.md §7).
type Diagnostic = diag.Diagnostic

// Compiler is one compilation instance.
type Compiler = driver.Compiler

// New creates a Compiler instance with a fresh arena.
func New(opts BuildOptions) *Compiler {
	return driver.New(opts)
}

// SetDefaultModuleSearchPath installs the process-wide default module
// search root (SPEC_FULL.md §5).
func SetDefaultModuleSearchPath(path string) {
	driver.SetDefaultModuleSearchPath(path)
}

// GetDefaultModuleSearchPath returns the process-wide default, or ""
// if none was set.
func GetDefaultModuleSearchPath() string {
	return driver.GetDefaultModuleSearchPath()
}
