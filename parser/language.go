package parser

import "github.com/ucclang/ucc/tokenizer"

// Kinds of the language's keywords, operators and punctuation. Each spelling
// in Language is lexed into a token whose kind is the spelling itself.
const (
	kindStruct   = tokenizer.Kind("struct")
	kindIf       = tokenizer.Kind("if")
	kindElse     = tokenizer.Kind("else")
	kindWhile    = tokenizer.Kind("while")
	kindBreak    = tokenizer.Kind("break")
	kindContinue = tokenizer.Kind("continue")
	kindReturn   = tokenizer.Kind("return")
	kindSizeof   = tokenizer.Kind("sizeof")

	kindLParen = tokenizer.Kind("(")
	kindRParen = tokenizer.Kind(")")
	kindLBrace = tokenizer.Kind("{")
	kindRBrace = tokenizer.Kind("}")
	kindComma  = tokenizer.Kind(",")
	kindSemi   = tokenizer.Kind(";")
	kindDot    = tokenizer.Kind(".")
	kindAssign = tokenizer.Kind("=")

	kindPlus  = tokenizer.Kind("+")
	kindMinus = tokenizer.Kind("-")
	kindStar  = tokenizer.Kind("*")
	kindSlash = tokenizer.Kind("/")
	kindSra   = tokenizer.Kind(">>>")
	kindSrl   = tokenizer.Kind(">>")
	kindSll   = tokenizer.Kind("<<")
	kindAmp   = tokenizer.Kind("&")
	kindPipe  = tokenizer.Kind("|")
	kindCaret = tokenizer.Kind("^")
	kindTilde = tokenizer.Kind("~")

	kindEq = tokenizer.Kind("==")
	kindNe = tokenizer.Kind("!=")
	kindLt = tokenizer.Kind("<")
	kindGt = tokenizer.Kind(">")
	kindLe = tokenizer.Kind("<=")
	kindGe = tokenizer.Kind(">=")
)

// Language returns the token configuration the grammar expects. The driver
// passes it to tokenizer.New; the parser itself never constructs a
// tokenizer. Longest-match ordering among prefix-sharing operators (">>>"
// over ">>" over ">") is handled by the tokenizer.
func Language() tokenizer.Config {
	return tokenizer.Config{
		Comment: "#",
		Atoms: []string{
			"struct", "if", "else", "while", "break", "continue", "return", "sizeof",
			"==", "!=", "<=", ">=", ">>>", ">>", "<<",
			"(", ")", "{", "}", ",", ";", ".", "=",
			"+", "-", "*", "/", "&", "|", "^", "~", "<", ">",
		},
	}
}
