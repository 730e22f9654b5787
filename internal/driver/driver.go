// Package driver implements the compiler instance described in
// SPEC_FULL.md §4.6 and §6.2: it owns one atom table, type table,
// diagnostic sink, and work-list, and exposes the load/typecheck/
// backend-delegate operations the host program (or cmd/jiyuc) drives.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/lexer"
	"github.com/cwbudde/go-jiyu/internal/modsearch"
	"github.com/cwbudde/go-jiyu/internal/parser"
	"github.com/cwbudde/go-jiyu/internal/semantic"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// BuildOptions configures one Compiler instance, per SPEC_FULL.md §6.2.
type BuildOptions struct {
	// ExecutableName is the base name for output artifacts.
	ExecutableName string
	// TargetTriple is empty for the host triple, or a target
	// descriptor consumed by the (external) backend.
	TargetTriple string
	// OnlyWantObjFile tells the backend to stop after the object file.
	OnlyWantObjFile bool
	// VerboseDiagnostics adds informational messages keyed by the
	// instance's uuid.
	VerboseDiagnostics bool
	// EmitLLVMIR also writes a human-readable IR sibling file.
	EmitLLVMIR bool
}

// defaultModuleSearchPath is the optional process-wide search root
// shared across every Compiler instance in the process, per
// SPEC_FULL.md §5 ("two independent compiler instances ... must not
// share any state other than the optional process-wide default
// module-search-path"). A Compiler instance otherwise owns its own
// arena exclusively.
var defaultModuleSearchPath atomic.Pointer[string]

// SetDefaultModuleSearchPath installs the process-wide default module
// search root. The value is only stored and returned by
// GetDefaultModuleSearchPath: #load/#import resolution searches only
// the paths an instance registered via AddModuleSearchPath.
func SetDefaultModuleSearchPath(path string) {
	defaultModuleSearchPath.Store(&path)
}

// GetDefaultModuleSearchPath returns the process-wide default, or ""
// if none was set.
func GetDefaultModuleSearchPath() string {
	if p := defaultModuleSearchPath.Load(); p != nil {
		return *p
	}
	return ""
}

// Compiler is one compilation instance: its own atom table, type
// table, diagnostic sink, semantic analyzer, and search-path/preload
// state (SPEC_FULL.md §4.6, §5 — "every AST node, type entry, and
// interned atom is owned by the Compiler instance that created it").
type Compiler struct {
	ID uuid.UUID

	Options BuildOptions

	atoms    *atom.Table
	types    *types.Table
	diags    *diag.Sink
	analyzer *semantic.Analyzer
	search   *modsearch.Resolver

	// root is the instance's preload scope: a synthetic top-level
	// scope inserted before user source, per SPEC_FULL.md §9's
	// "Preload scope" design note. LoadFile appends each loaded file's
	// resolved statements to it directly.
	root *ast.Scope

	nextFile lexer.FileID
	files    map[lexer.FileID]sourceFile

	errored bool
}

type sourceFile struct {
	name string
	text string
}

// New creates a Compiler instance with a fresh arena, per SPEC_FULL.md
// §6.2's "create a compiler instance" operation.
func New(opts BuildOptions) *Compiler {
	atoms := atom.New()
	tbl := types.New()
	diags := diag.NewSink()

	c := &Compiler{
		ID:       uuid.New(),
		Options:  opts,
		atoms:    atoms,
		types:    tbl,
		diags:    diags,
		analyzer: semantic.New(atoms, tbl, diags),
		search:   modsearch.New(),
		root:     ast.NewScope(lexer.TextSpan{}, nil),
		files:    make(map[lexer.FileID]sourceFile),
	}
	return c
}

func (c *Compiler) verbose(format string, args ...any) {
	if !c.Options.VerboseDiagnostics {
		return
	}
	msg := fmt.Sprintf(format, args...)
	c.diags.Report(diag.Internal, lexer.TextSpan{}, "[%s] %s", c.ID, msg)
}

// Diagnostics returns every diagnostic reported so far.
func (c *Compiler) Diagnostics() []diag.Diagnostic { return c.diags.All() }

// HasErrors reports whether any diagnostic has been reported.
func (c *Compiler) HasErrors() bool { return c.diags.HasErrors() }

// AddModuleSearchPath registers a directory or bmatcuk/doublestar/v4
// glob that #load/#import resolution will search, per SPEC_FULL.md
// §6.2a.
func (c *Compiler) AddModuleSearchPath(pathOrGlob string) error {
	return c.search.AddModulePath(pathOrGlob)
}

// AddLibrarySearchPath registers a native library search directory,
// consumed only by the external backend at link time.
func (c *Compiler) AddLibrarySearchPath(dir string) {
	c.search.AddLibraryPath(dir)
}

// AddPrecompiledObject registers an already-built object file to be
// passed through to the external backend's link step unchanged.
func (c *Compiler) AddPrecompiledObject(path string) {
	c.search.AddPrecompiledObject(path)
}

// AddPreloadDefinition injects a compile-time constant into the
// preload scope, from a `NAME` or `NAME=VALUE` string, per
// SPEC_FULL.md §6.2. A bare NAME becomes a boolean `true`; NAME=VALUE
// parses VALUE as an integer literal if possible, else a string.
func (c *Compiler) AddPreloadDefinition(def string) error {
	name, value, hasValue := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty preload definition name")
	}

	lit := &ast.Literal{Kind: ast.LitBool, Bool: true}
	if hasValue {
		lit = parsePreloadValue(value)
	}

	decl := &ast.Declaration{
		Kind:        ast.DeclLet,
		Name:        c.atoms.Intern(name),
		Initializer: lit,
		State:       ast.StateParsed,
	}
	if !c.root.Declare(decl.Name, decl) {
		return fmt.Errorf("duplicate preload definition %q", name)
	}
	c.verbose("preload definition %s", name)
	return nil
}

func parsePreloadValue(value string) *ast.Literal {
	var n uint64
	if _, err := fmt.Sscanf(value, "%d", &n); err == nil {
		return &ast.Literal{Kind: ast.LitInt, Int: n, Untyped: true}
	}
	return &ast.Literal{Kind: ast.LitString, Str: value}
}

// LoadFile tokenizes and parses name's contents into a fresh scope
// spliced into the preload scope, per SPEC_FULL.md §4.6.
func (c *Compiler) LoadFile(name, src string) bool {
	file := c.nextFile
	c.nextFile++
	c.files[file] = sourceFile{name: name, text: src}

	toks := lexer.New(src, file).Tokenize()
	fileScope := ast.NewScope(lexer.TextSpan{File: file}, nil)
	_, perrs := parser.ParseProgram(c.atoms, toks, fileScope)
	for _, pe := range perrs {
		c.diags.Report(diag.Parse, pe.Span, "%s", pe.Message)
	}

	// Resolve every #load/#import directive in the file before splicing
	// it in, so the preload scope the analyzer sees already has the
	// referenced modules' declarations in place (SPEC_FULL.md §9).
	resolved := c.resolveDirectives(fileScope, map[string]bool{}, true)

	// Splice the resolved statements straight into the preload scope,
	// as if pasted inline, so AnalyzeProgram's top-level work-list sees
	// them directly instead of through a ScopeExpansion indirection
	// (that node exists to represent an already-parsed nested block,
	// not the driver's own file/module-loading operation: Declaration
	// lookup goes through Scope.Declare, but Function/Struct/Enum/
	// TypeAlias lookup walks Scope.Statements directly, which a
	// ScopeExpansion's Source scope is never part of).
	for _, s := range resolved {
		if d, ok := s.(*ast.Declaration); ok {
			if !c.root.Declare(d.Name, d) {
				c.diags.Report(diag.Name, d.Span(), "duplicate top-level declaration %q", c.atoms.String(d.Name))
				continue
			}
		}
		c.root.Statements = append(c.root.Statements, s)
	}

	c.verbose("loaded %s (%d bytes)", name, len(src))
	return len(perrs) == 0
}

// resolveDirectives replaces every #load/#import statement in scope
// with the statements it resolves to, per SPEC_FULL.md §9: #load
// splices the target file's own statements in place, as if pasted
// inline; #import splices only the target's exported top-level
// declarations (functions tagged @export, plus struct/enum/typealias
// declarations, which carry no private/exported distinction of their
// own). allowImports gates whether nested #import directives are
// themselves resolved — set to false while computing what a module
// exports, so an import's own imports are not re-exported transitively.
func (c *Compiler) resolveDirectives(scope *ast.Scope, visiting map[string]bool, allowImports bool) []ast.Statement {
	out := make([]ast.Statement, 0, len(scope.Statements))
	for _, s := range scope.Statements {
		switch n := s.(type) {
		case *ast.Load:
			if stmts, ok := c.loadModule(n.Path, n.Span(), visiting, false); ok {
				out = append(out, stmts...)
			}
		case *ast.Import:
			if !allowImports {
				continue
			}
			if stmts, ok := c.loadModule(n.Module, n.Span(), visiting, true); ok {
				out = append(out, stmts...)
			}
		default:
			out = append(out, s)
		}
	}
	return out
}

// loadModule resolves ref through the instance's modsearch.Resolver,
// reads and parses the target, recursively resolves its own
// directives, and returns either its full statement list (#load) or
// just its exported declarations (#import, exportedOnly). A #load
// target's own #import directives still resolve normally (the loaded
// file behaves exactly as if pasted inline); an #import target's own
// #import directives do not, so re-exporting stays non-transitive.
// visiting guards against a #load/#import cycle.
func (c *Compiler) loadModule(ref string, span lexer.TextSpan, visiting map[string]bool, exportedOnly bool) ([]ast.Statement, bool) {
	path, err := c.search.Resolve(ref)
	if err != nil {
		c.diags.Report(diag.Name, span, "%s", err)
		return nil, false
	}
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}
	if visiting[abs] {
		c.diags.Report(diag.Name, span, "circular #load/#import of %q", ref)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.diags.Report(diag.Name, span, "reading %q: %s", ref, err)
		return nil, false
	}

	file := c.nextFile
	c.nextFile++
	c.files[file] = sourceFile{name: path, text: string(data)}

	toks := lexer.New(string(data), file).Tokenize()
	modScope := ast.NewScope(lexer.TextSpan{File: file}, nil)
	_, perrs := parser.ParseProgram(c.atoms, toks, modScope)
	for _, pe := range perrs {
		c.diags.Report(diag.Parse, pe.Span, "%s", pe.Message)
	}

	visiting[abs] = true
	resolved := c.resolveDirectives(modScope, visiting, !exportedOnly)
	delete(visiting, abs)

	if !exportedOnly {
		return resolved, true
	}

	exported := make([]ast.Statement, 0, len(resolved))
	for _, s := range resolved {
		switch n := s.(type) {
		case *ast.Function:
			if n.IsExported {
				exported = append(exported, n)
			}
		case *ast.Struct, *ast.Enum, *ast.TypeAlias:
			exported = append(exported, n)
		}
	}
	return exported, true
}

// LoadString is LoadFile with a synthetic, non-disk-backed name, for
// an embedder (or cmd/jiyuc's repl) evaluating a snippet.
func (c *Compiler) LoadString(src string) bool {
	return c.LoadFile("<string>", src)
}

// TypecheckProgram runs the semantic analyzer to a fixed point over
// the instance's accumulated preload scope, per SPEC_FULL.md §4.6 and
// §6.2's "typecheck program" operation. The backend must not be
// invoked unless this returns true.
func (c *Compiler) TypecheckProgram() bool {
	ok := c.analyzer.AnalyzeProgram(c.root)
	if !ok {
		c.errored = true
	}
	return ok
}

// Root exposes the instance's fully-typed scope tree to the external
// backend (SPEC_FULL.md §6.1): a list of top-level declarations and,
// transitively, every resolved Scope beneath them.
func (c *Compiler) Root() *ast.Scope { return c.root }

// Types exposes the instance's type table, indexable by
// type_table_index for the backend (SPEC_FULL.md §6.1).
func (c *Compiler) Types() *types.Table { return c.types }

// backend delegate stubs: code generation is SPEC_FULL.md §1's first
// "deliberately out of scope" item. These operations exist on the
// driver API (§6.2) but simply report that no backend is wired; a
// real embedder supplies its own backend and does not call these.

func (c *Compiler) requireTypechecked() bool {
	if c.errored {
		c.diags.Report(diag.Internal, lexer.TextSpan{}, "cannot invoke the backend: typecheck_program reported errors")
		return false
	}
	return true
}

// RequestNativeCodegen delegates to the external backend.
func (c *Compiler) RequestNativeCodegen() bool {
	if !c.requireTypechecked() {
		return false
	}
	c.diags.Report(diag.Internal, lexer.TextSpan{}, "no code generation backend is wired into this instance")
	return false
}

// RequestObjectEmission delegates to the external backend.
func (c *Compiler) RequestObjectEmission(path string) bool {
	if !c.requireTypechecked() {
		return false
	}
	c.diags.Report(diag.Internal, lexer.TextSpan{}, "no object-emission backend is wired into this instance")
	return false
}

// RequestJITLoad delegates to the external backend.
func (c *Compiler) RequestJITLoad() bool {
	if !c.requireTypechecked() {
		return false
	}
	c.diags.Report(diag.Internal, lexer.TextSpan{}, "no JIT backend is wired into this instance")
	return false
}

// RequestJITSymbolLookup delegates to the external backend.
func (c *Compiler) RequestJITSymbolLookup(symbol string) (uintptr, bool) {
	if !c.requireTypechecked() {
		return 0, false
	}
	c.diags.Report(diag.Internal, lexer.TextSpan{}, "no JIT backend is wired into this instance")
	return 0, false
}

// FormatDiagnostics renders every reported diagnostic as
// `file:line:col: kind: message` with a caret-annotated source line,
// per SPEC_FULL.md §7.
func (c *Compiler) FormatDiagnostics() string {
	var b strings.Builder
	for _, d := range c.diags.All() {
		sf := c.files[d.Span.File]
		b.WriteString(d.Format(sf.name, sf.text))
		b.WriteByte('\n')
	}
	return b.String()
}
