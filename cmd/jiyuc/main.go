// Command jiyuc is a thin demonstration harness over the driver API
// (SPEC_FULL.md §6.2a): it is glue, not part of the core contract —
// see SPEC_FULL.md §1's Non-goals on CLI argument parsing and build
// orchestration beyond a demonstration harness.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-jiyu/internal/config"
	"github.com/cwbudde/go-jiyu/internal/driver"
)

var (
	flagVerbose bool
	flagDefines []string
	flagSearch  []string
)

func main() {
	root := &cobra.Command{
		Use:   "jiyuc",
		Short: "jiyu compiler frontend driver",
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose diagnostics")
	root.PersistentFlags().StringArrayVarP(&flagDefines, "define", "D", nil, "preload definition NAME or NAME=VALUE")
	root.PersistentFlags().StringArrayVarP(&flagSearch, "search", "I", nil, "module search path or glob")

	root.AddCommand(buildCmd(), checkCmd(), replCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newCompiler() (*driver.Compiler, error) {
	c := driver.New(driver.BuildOptions{VerboseDiagnostics: flagVerbose})
	for _, p := range flagSearch {
		if err := c.AddModuleSearchPath(p); err != nil {
			return nil, err
		}
	}
	for _, d := range flagDefines {
		if err := c.AddPreloadDefinition(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func printDiagnostics(c *driver.Compiler) {
	out := c.FormatDiagnostics()
	if out == "" {
		return
	}
	color.New(color.FgRed).Fprint(os.Stderr, out)
}

func buildCmd() *cobra.Command {
	var manifestDir string
	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "typecheck a program and request object emission from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCompiler()
			if err != nil {
				return err
			}
			if manifestDir != "" {
				m, err := config.Load(manifestDir)
				if err != nil {
					return err
				}
				c.Options = m.ToBuildOptions()
				if err := config.Apply(c, m); err != nil {
					return err
				}
			}
			for _, path := range args {
				text, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				c.LoadFile(path, string(text))
			}
			ok := c.TypecheckProgram()
			printDiagnostics(c)
			if !ok {
				return fmt.Errorf("typecheck failed")
			}
			if !c.RequestObjectEmission(c.Options.ExecutableName) {
				printDiagnostics(c)
				return fmt.Errorf("object emission requires an external backend")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestDir, "manifest", "", "directory containing jiyu.yaml")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "typecheck a program and report diagnostics without invoking the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCompiler()
			if err != nil {
				return err
			}
			for _, path := range args {
				text, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				c.LoadFile(path, string(text))
			}
			ok := c.TypecheckProgram()
			printDiagnostics(c)
			if !ok {
				return fmt.Errorf("typecheck failed")
			}
			fmt.Println(color.New(color.FgGreen).Sprint("ok"))
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive typecheck loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}
