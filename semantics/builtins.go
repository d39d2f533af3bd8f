// Package semantics validates a parsed compilation unit: it resolves scopes,
// checks types, and computes flattened struct layouts with byte offsets.
package semantics

// builtinWidths maps each builtin type name to its byte width. u0 is the
// zero-width unit type.
var builtinWidths = map[string]int{
	"u0": 0,
	"u8": 1, "u16": 2, "u32": 4, "u64": 8,
	"i8": 1, "i16": 2, "i32": 4, "i64": 8,
}

// IsBuiltin reports whether name is a builtin type name.
func IsBuiltin(name string) bool {
	_, ok := builtinWidths[name]
	return ok
}

// isInteger reports whether name is a builtin type with a value
// representation, i.e. any builtin except u0.
func isInteger(name string) bool {
	return name != "u0" && IsBuiltin(name)
}

// Sizes fixes the architecture-dependent widths used during layout.
type Sizes struct {
	// Pointer is the byte width of one architecture word. Every pointer
	// member occupies exactly this much, regardless of pointee type.
	Pointer int
}

// DefaultSizes returns the widths of the default 64-bit target.
func DefaultSizes() Sizes {
	return Sizes{Pointer: 8}
}
