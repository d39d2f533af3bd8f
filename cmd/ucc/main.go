package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Check   CheckCmd   `cmd:"" help:"Compile source files up to the validated AST"`
	Tokens  TokensCmd  `cmd:"" help:"Dump the token stream of a source file"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("ucc v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
