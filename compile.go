package ucc

import (
	"github.com/ucclang/ucc/parser"
	"github.com/ucclang/ucc/semantics"
	"github.com/ucclang/ucc/tokenizer"
)

// Compile runs one source unit through the full pipeline: tokenize, parse,
// analyze. It either returns a fully validated unit or the first error
// encountered; there is no partial output. Compilation of independent units
// shares no state, so callers may run them concurrently.
func Compile(src string, config *Config) (*semantics.Unit, error) {
	if config == nil {
		config = DefaultConfig()
	}

	language := parser.Language()
	language.Comment = config.Comment

	t, err := tokenizer.New(language)
	if err != nil {
		return nil, err
	}

	prog, err := parser.Parse(t.Tokens(src))
	if err != nil {
		return nil, err
	}

	return semantics.Analyze(prog, semantics.Sizes{Pointer: config.PointerSize})
}
