package main

import (
	"fmt"
	"os"

	"github.com/ucclang/ucc"
	"github.com/ucclang/ucc/parser"
	"github.com/ucclang/ucc/tokenizer"
)

// TokensCmd represents the tokens command
type TokensCmd struct {
	Input string `arg:"" help:"Source file" type:"existingfile"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	config, err := ucc.LoadConfig(ctx.Config)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	language := parser.Language()
	language.Comment = config.Comment

	t, err := tokenizer.New(language)
	if err != nil {
		return err
	}

	for token, err := range t.Tokens(string(source)) {
		if err != nil {
			return err
		}

		fmt.Println(token)
	}

	return nil
}
