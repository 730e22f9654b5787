package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/go-jiyu/internal/driver"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestLoadDecodesManifestAndBuildOptions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "jiyu.yaml", `
executable_name: out
target_triple: x86_64-unknown-linux-gnu
verbose_diagnostics: true
preload_definitions:
  - DEBUG
  - VERSION=3
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ExecutableName != "out" || m.TargetTriple != "x86_64-unknown-linux-gnu" {
		t.Fatalf("got %+v", m)
	}
	if !m.VerboseDiagnostics {
		t.Fatalf("want verbose_diagnostics true")
	}
	opts := m.ToBuildOptions()
	if opts.ExecutableName != "out" || !opts.VerboseDiagnostics {
		t.Fatalf("got %+v", opts)
	}
}

func TestLoadMergesEnvDefinePrefixedVariables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "jiyu.yaml", "executable_name: out\n")
	writeFile(t, dir, ".env", "JIYU_DEFINE_FEATURE_X=1\n")

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, d := range m.PreloadDefinitions {
		if d == "FEATURE_X=1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want FEATURE_X=1 among preload definitions, got %v", m.PreloadDefinitions)
	}
}

func TestApplyRegistersSearchPathsAndSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.jiyu", `func main() -> int32 { return 0; }`)

	m := &Manifest{Sources: []string{filepath.Join(dir, "main.jiyu")}}
	c := driver.New(driver.BuildOptions{})
	if err := Apply(c, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.TypecheckProgram() {
		t.Fatalf("unexpected diagnostics: %s", c.FormatDiagnostics())
	}
}
