package main

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/cwbudde/go-jiyu/internal/driver"
)

// runRepl feeds each entered line to LoadString + TypecheckProgram on
// a single, persistent Compiler instance, printing diagnostics with
// fatih/color, per SPEC_FULL.md §6.2a ("jiyuc repl uses chzyer/
// readline for line editing/history and feeds each line to LoadString
// + TypecheckProgram").
func runRepl() error {
	rl, err := readline.New("jiyu> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	c := driver.New(driver.BuildOptions{})

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		c.LoadString(line)
		ok := c.TypecheckProgram()
		if out := c.FormatDiagnostics(); out != "" {
			color.New(color.FgRed).Fprint(rl.Stderr(), out)
		}
		if ok {
			fmt.Fprintln(rl.Stdout(), color.New(color.FgGreen).Sprint("ok"))
		}
	}
}
