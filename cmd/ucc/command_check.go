package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ucclang/ucc"
	"github.com/ucclang/ucc/semantics"
)

// ErrCompilationFailed marks that at least one input did not compile.
var ErrCompilationFailed = errors.New("compilation failed")

// CheckCmd represents the check command
type CheckCmd struct {
	Inputs []string `arg:"" help:"Source files" type:"existingfile"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := ucc.LoadConfig(ctx.Config)
	if err != nil {
		return err
	}

	failed := false

	for _, input := range cmd.Inputs {
		source, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read source file: %w", err)
		}

		unit, err := ucc.Compile(string(source), config)
		if err != nil {
			// The error already carries "<line>: <phase>: <description>".
			color.Red("%s: %v", input, err)

			failed = true

			continue
		}

		color.Green("%s: ok", input)

		if ctx.Verbose {
			printUnit(unit)
		}
	}

	if failed {
		return ErrCompilationFailed
	}

	return nil
}

// printUnit lists the resolved struct layouts and function signatures.
func printUnit(unit *semantics.Unit) {
	for _, layout := range unit.Structs {
		fmt.Printf("struct %s: %d bytes\n", layout.Name, layout.Size)

		for _, field := range layout.Fields {
			fmt.Printf("  %4d  %-8s %s\n", field.Offset, field.Type, field.Name)
		}
	}

	for _, f := range unit.Funcs {
		fmt.Println(f.Signature())
	}
}
