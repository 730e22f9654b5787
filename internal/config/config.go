// Package config loads a project's jiyu.yaml manifest into the same
// driver.BuildOptions/search-path shapes the programmatic API accepts,
// per SPEC_FULL.md §6.2a: "the manifest is decoded with goccy/go-yaml
// into the same BuildOptions/search-path types the programmatic API
// accepts, so CLI and embedder configuration never diverge." A
// sibling .env is loaded first via joho/godotenv so preload
// definitions can also arrive as JIYU_DEFINE_* environment entries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/cwbudde/go-jiyu/internal/driver"
)

// Manifest is the decoded shape of jiyu.yaml.
type Manifest struct {
	ExecutableName     string   `yaml:"executable_name"`
	TargetTriple       string   `yaml:"target_triple"`
	OnlyWantObjFile    bool     `yaml:"only_want_obj_file"`
	VerboseDiagnostics bool     `yaml:"verbose_diagnostics"`
	EmitLLVMIR         bool     `yaml:"emit_llvm_ir"`
	ModuleSearchPaths  []string `yaml:"module_search_paths"`
	LibrarySearchPaths []string `yaml:"library_search_paths"`
	PreloadDefinitions []string `yaml:"preload_definitions"`
	Sources            []string `yaml:"sources"`
}

// ToBuildOptions projects the manifest's build-option fields onto
// driver.BuildOptions.
func (m *Manifest) ToBuildOptions() driver.BuildOptions {
	return driver.BuildOptions{
		ExecutableName:     m.ExecutableName,
		TargetTriple:       m.TargetTriple,
		OnlyWantObjFile:    m.OnlyWantObjFile,
		VerboseDiagnostics: m.VerboseDiagnostics,
		EmitLLVMIR:         m.EmitLLVMIR,
	}
}

// envDefinePrefix is the environment-variable prefix a CI pipeline
// uses to supply preload definitions without editing jiyu.yaml
// (SPEC_FULL.md §6.2a).
const envDefinePrefix = "JIYU_DEFINE_"

// Load reads dir/.env (if present) into the process environment, then
// decodes dir/jiyu.yaml, then appends any JIYU_DEFINE_* environment
// entries as additional preload definitions.
func Load(dir string) (*Manifest, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envPath, err)
		}
	}

	manifestPath := filepath.Join(dir, "jiyu.yaml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envDefinePrefix) {
			continue
		}
		def := strings.TrimPrefix(name, envDefinePrefix)
		if value != "" {
			def = def + "=" + value
		}
		m.PreloadDefinitions = append(m.PreloadDefinitions, def)
	}

	return &m, nil
}

// Apply registers every search path/preload definition/source file
// the manifest names onto c, loading each source in turn.
func Apply(c *driver.Compiler, m *Manifest) error {
	for _, p := range m.ModuleSearchPaths {
		if err := c.AddModuleSearchPath(p); err != nil {
			return err
		}
	}
	for _, p := range m.LibrarySearchPaths {
		c.AddLibrarySearchPath(p)
	}
	for _, d := range m.PreloadDefinitions {
		if err := c.AddPreloadDefinition(d); err != nil {
			return err
		}
	}
	for _, src := range m.Sources {
		text, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("reading source %s: %w", src, err)
		}
		c.LoadFile(src, string(text))
	}
	return nil
}
