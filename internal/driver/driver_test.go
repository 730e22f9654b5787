package driver

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndTypecheckProgram(t *testing.T) {
	c := New(BuildOptions{})
	require.True(t, c.LoadFile("main.jiyu", `func add(a: int32, b: int32) -> int32 { return a + b; }`), "unexpected parse diagnostics: %v", c.Diagnostics())
	require.True(t, c.TypecheckProgram(), "unexpected typecheck diagnostics: %s", c.FormatDiagnostics())
}

func TestTypecheckProgramReportsErrors(t *testing.T) {
	c := New(BuildOptions{})
	c.LoadFile("main.jiyu", `var x: int32 = "not an int";`)
	require.False(t, c.TypecheckProgram(), "expected a type error")
	require.True(t, c.HasErrors())
}

func TestPreloadDefinitionInjectsConstant(t *testing.T) {
	c := New(BuildOptions{})
	require.NoError(t, c.AddPreloadDefinition("VERSION=3"))
	require.True(t, c.LoadFile("main.jiyu", `let v = VERSION;`), "unexpected parse diagnostics: %v", c.Diagnostics())
	require.True(t, c.TypecheckProgram(), "unexpected typecheck diagnostics: %s", c.FormatDiagnostics())
}

func TestDuplicatePreloadDefinitionIsRejected(t *testing.T) {
	c := New(BuildOptions{})
	require.NoError(t, c.AddPreloadDefinition("DEBUG"))
	require.Error(t, c.AddPreloadDefinition("DEBUG"))
}

func TestDefaultModuleSearchPathIsProcessWide(t *testing.T) {
	SetDefaultModuleSearchPath("/usr/local/lib/jiyu")
	require.Equal(t, "/usr/local/lib/jiyu", GetDefaultModuleSearchPath())
}

func TestBackendOperationsRequireTypecheckSuccess(t *testing.T) {
	c := New(BuildOptions{})
	c.LoadFile("main.jiyu", `var x: int32 = "bad";`)
	c.TypecheckProgram()
	require.False(t, c.RequestObjectEmission("out"), "object emission must refuse to run after a failed typecheck")
}

func TestFormattedDiagnosticOutputMatchesGolden(t *testing.T) {
	c := New(BuildOptions{})
	c.LoadFile("main.jiyu", "var x: int32 = \"not an int\";\n")
	c.TypecheckProgram()
	snaps.MatchSnapshot(t, c.FormatDiagnostics())
}
