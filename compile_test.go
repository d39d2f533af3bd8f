package ucc

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ucclang/ucc/parser"
	"github.com/ucclang/ucc/semantics"
	"github.com/ucclang/ucc/tokenizer"
)

const sampleSource = `
# A singly linked list of bytes.
struct Node {
	u8 value;
	Node* next;
}

u64 length(Node* head) {
	u64 n = 0;
	while head != 0 {
		n = n + 1;
		head = deref_next(head);
	}
	return n;
}

Node* deref_next(Node* p) {
	return p;
}
`

func TestCompile(t *testing.T) {
	unit, err := Compile(sampleSource, nil)
	assert.NoError(t, err)

	node, ok := unit.Struct("Node")
	assert.True(t, ok)
	assert.Equal(t, 9, node.Size)

	next, ok := node.Lookup("next")
	assert.True(t, ok)
	assert.Equal(t, 1, next.Offset)

	assert.Equal(t, 2, len(unit.Funcs))
	assert.Equal(t, "length", unit.Funcs[0].Name)
}

func TestCompilePointerSize(t *testing.T) {
	config := DefaultConfig()
	config.PointerSize = 2

	unit, err := Compile(sampleSource, config)
	assert.NoError(t, err)

	node, ok := unit.Struct("Node")
	assert.True(t, ok)
	assert.Equal(t, 3, node.Size)
}

func TestCompileCommentMarker(t *testing.T) {
	config := DefaultConfig()
	config.Comment = "//"

	_, err := Compile("// a comment\nu0 f() { u8 x; }\n", config)
	assert.NoError(t, err)

	// The default marker no longer applies.
	_, err = Compile("# a comment\nu0 f() { u8 x; }\n", config)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, tokenizer.ErrUnexpectedCharacter))
}

func TestCompileDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		message  string
		sentinel error
	}{
		{
			name:     "lexical",
			src:      "u0 f() {\n u8 x = $;\n}",
			message:  "2: lexer: unexpected character",
			sentinel: tokenizer.ErrUnexpectedCharacter,
		},
		{
			name:     "grammatical",
			src:      "u0 f() {\n u8 x =\n}",
			message:  "3: parser: expected ( or int or str or id",
			sentinel: parser.ErrUnexpectedToken,
		},
		{
			name:     "semantic",
			src:      "u0 f() {\n y = 1;\n}",
			message:  "2: semantics: variable not found: y",
			sentinel: semantics.ErrUndefinedVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src, nil)
			assert.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}
