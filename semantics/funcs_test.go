package semantics

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func analyze(t *testing.T, src string) (*Unit, error) {
	t.Helper()

	return Analyze(parseProgram(t, src), DefaultSizes())
}

func TestValidProgram(t *testing.T) {
	unit, err := analyze(t, `
		struct Point {
			u32 x;
			u32 y;
		}

		u32 dot(Point a, Point b) {
			return a.x * b.x + a.y * b.y;
		}

		u0 zero(Point* p) {
			u32 n = 0;
			while n < 2 {
				n = n + 1;
			}
		}
	`)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(unit.Funcs))

	point, ok := unit.Struct("Point")
	assert.True(t, ok)
	assert.Equal(t, 8, point.Size)
}

func TestReturnChecking(t *testing.T) {
	t.Run("literal adopts the return type", func(t *testing.T) {
		_, err := analyze(t, "u8 f() { return 5; }")
		assert.NoError(t, err)
	})

	t.Run("string from integer function", func(t *testing.T) {
		_, err := analyze(t, "u8 f() {\n return \"str\";\n}")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrReturnMismatch))

		var semErr *SemanticsError

		assert.True(t, errors.As(err, &semErr))
		assert.Equal(t, 2, semErr.Line)
		assert.Equal(t, "2: semantics: return type mismatch: function returns u8", semErr.Error())
	})

	t.Run("string from pointer function", func(t *testing.T) {
		_, err := analyze(t, `u8* f() { return "str"; }`)
		assert.NoError(t, err)
	})

	t.Run("missing return", func(t *testing.T) {
		_, err := analyze(t, "u8 f() { u8 x; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingReturn))
	})

	t.Run("u0 may omit return", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { u8 x; }")
		assert.NoError(t, err)
	})

	t.Run("wrong width", func(t *testing.T) {
		_, err := analyze(t, "u8 f(u16 x) { return x; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrReturnMismatch))
	})
}

func TestScopes(t *testing.T) {
	t.Run("undefined variable", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { x = 1; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUndefinedVariable))
	})

	t.Run("same scope redeclaration", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { u8 x; u8 x; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateVariable))
	})

	t.Run("inner scope may shadow", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { u8 x; { u16 x; x = 1; } }")
		assert.NoError(t, err)
	})

	t.Run("block names do not leak", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { { u8 x; } x = 1; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUndefinedVariable))
	})

	t.Run("duplicate parameter", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 a, u16 a) { a = 1; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
	})

	t.Run("local shadows parameter", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 a) { u16 a; a = 1; }")
		assert.NoError(t, err)
	})

	t.Run("duplicate function", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { u8 x; }\nu0 f() { u8 x; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateFunction))
	})

	t.Run("undefined parameter type", func(t *testing.T) {
		_, err := analyze(t, "u0 f(Missing m) { m = 1; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUndefinedType))
	})
}

func TestAssignments(t *testing.T) {
	t.Run("exact type required", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 a, u16 b) { a = b; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("literal adopts any integer type", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 a, i64 b) { a = 200; b = -1; }")
		assert.NoError(t, err)
	})

	t.Run("literal into pointer", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8* p) { p = 0; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("struct member store", func(t *testing.T) {
		_, err := analyze(t, `
			struct S {
				u8 a;
				u8* p;
			}
			u0 f(S s) { s.a = 1; s.p = s.p; }
		`)
		assert.NoError(t, err)
	})

	t.Run("struct member store mismatch", func(t *testing.T) {
		_, err := analyze(t, `
			struct S {
				u8* p;
			}
			u0 f(S s) { s.p = 1; }
		`)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})
}

func TestPointerOperations(t *testing.T) {
	t.Run("store through pointer", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8** p) { **p = 1; *p = p; }")
		assert.Error(t, err)
		// *p has type u8*, p has type u8**.
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("store depth exceeds pointer depth", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8* p) { **p = 1; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrBadDeref))
	})

	t.Run("deref in expression", func(t *testing.T) {
		_, err := analyze(t, "u8 f(u8** p) { return **p; }")
		assert.NoError(t, err)
	})

	t.Run("deref of non-pointer", func(t *testing.T) {
		_, err := analyze(t, "u8 f(u8 x) { return *x; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrBadDeref))
	})

	t.Run("address of variable", func(t *testing.T) {
		_, err := analyze(t, "u8** f(u8 x) { return &&x; }")
		assert.NoError(t, err)
	})

	t.Run("address of expression", func(t *testing.T) {
		_, err := analyze(t, "u8* f(u8 x) { return &(x + 1); }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotAddressable))
	})

	t.Run("pointer plus integer", func(t *testing.T) {
		_, err := analyze(t, "u8* f(u8* p, u16 n) { return p + 1; }")
		assert.NoError(t, err)
	})

	t.Run("pointer plus pointer", func(t *testing.T) {
		_, err := analyze(t, "u8* f(u8* p) { return p + p; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("pointer multiplication", func(t *testing.T) {
		_, err := analyze(t, "u8* f(u8* p) { return p * 2; }")
		assert.Error(t, err)
	})
}

func TestSizeof(t *testing.T) {
	t.Run("of a type name", func(t *testing.T) {
		_, err := analyze(t, `
			struct S {
				u64 a;
			}
			u8 f() { return sizeof S + sizeof u16; }
		`)
		assert.NoError(t, err)
	})

	t.Run("of an expression", func(t *testing.T) {
		_, err := analyze(t, "u32 f(u16 x) { return sizeof x; }")
		assert.NoError(t, err)
	})

	t.Run("of an undefined name", func(t *testing.T) {
		_, err := analyze(t, "u8 f() { return sizeof missing; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUndefinedVariable))
	})
}

func TestStructAccess(t *testing.T) {
	t.Run("unknown member", func(t *testing.T) {
		_, err := analyze(t, `
			struct S {
				u8 a;
			}
			u8 f(S s) { return s.b; }
		`)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownMember))
	})

	t.Run("member of non-struct", func(t *testing.T) {
		_, err := analyze(t, "u8 f(u8 x) { return x.a; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotAStruct))
	})

	t.Run("member of struct pointer requires deref", func(t *testing.T) {
		_, err := analyze(t, `
			struct S {
				u8 a;
			}
			u8 f(S* s) { return s.a; }
		`)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotAStruct))
	})

	t.Run("nested member chain", func(t *testing.T) {
		_, err := analyze(t, `
			struct Inner {
				u16 v;
			}
			struct Outer {
				Inner i;
			}
			u16 f(Outer o) { return o.i.v; }
		`)
		assert.NoError(t, err)
	})
}

func TestCalls(t *testing.T) {
	t.Run("undefined function", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { g(); }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUndefinedFunction))
	})

	t.Run("call before declaration", func(t *testing.T) {
		_, err := analyze(t, "u8 f() { return g(); }\nu8 g() { return 1; }")
		assert.NoError(t, err)
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 x) { f(x, x); }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgCount))
	})

	t.Run("argument type mismatch", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 x) { }\nu0 g(u16 y) { f(y); }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("literal argument", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 x) { }\nu0 g() { f(7); }")
		assert.NoError(t, err)
	})

	t.Run("result feeds expressions", func(t *testing.T) {
		_, err := analyze(t, "u8 f() { return 1; }\nu8 g() { return f() + 1; }")
		assert.NoError(t, err)
	})
}

func TestConditions(t *testing.T) {
	t.Run("matching integer operands", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 a, u8 b) { if a < b a = b; }")
		assert.NoError(t, err)
	})

	t.Run("mixed widths", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 a, u16 b) { if a < b a = 1; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("pointer against literal", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8* p) { if p != 0 p = p; }")
		assert.NoError(t, err)
	})

	t.Run("matching pointers", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8* p, u8* q) { if p == q p = q; }")
		assert.NoError(t, err)
	})
}

func TestLoopControl(t *testing.T) {
	t.Run("break inside loop", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 x) { while x != 0 { break; } }")
		assert.NoError(t, err)
	})

	t.Run("break outside loop", func(t *testing.T) {
		_, err := analyze(t, "u0 f() { break; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCtrlOutsideLoop))
	})

	t.Run("continue after loop", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 x) { while x != 0 { x = 0; } continue; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCtrlOutsideLoop))
	})

	t.Run("break in nested if", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8 x) { while x != 0 { if x == 1 break; } }")
		assert.NoError(t, err)
	})
}

func TestUnaryOperands(t *testing.T) {
	t.Run("negate integer", func(t *testing.T) {
		_, err := analyze(t, "i8 f(i8 x) { return -x; }")
		assert.NoError(t, err)
	})

	t.Run("negate pointer", func(t *testing.T) {
		_, err := analyze(t, "u0 f(u8* p) { p = -p; }")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotInteger))
	})

	t.Run("invert struct", func(t *testing.T) {
		_, err := analyze(t, `
			struct S {
				u8 a;
			}
			u0 f(S s) { s.a = ~s; }
		`)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotInteger))
	})
}
