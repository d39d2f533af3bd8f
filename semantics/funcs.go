package semantics

import (
	"fmt"

	"github.com/ucclang/ucc/parser"
)

// typeU0 is the unit return type; functions of this type may omit return
// statements entirely.
var typeU0 = parser.TypeRef{Base: "u0"}

// CheckFuncs validates every function against the resolved struct lookup.
// The first violation aborts with a *SemanticsError.
func CheckFuncs(funcs []*parser.FuncDecl, structs map[string]*StructLayout) error {
	byName := make(map[string]*parser.FuncDecl, len(funcs))

	for _, f := range funcs {
		if _, dup := byName[f.Name]; dup {
			return semErr(f.Line, ErrDuplicateFunction, f.Name)
		}

		byName[f.Name] = f
	}

	for _, f := range funcs {
		c := &funcChecker{structs: structs, funcs: byName, ret: f.Ret}
		if err := c.checkFunc(f); err != nil {
			return err
		}
	}

	return nil
}

type funcChecker struct {
	structs map[string]*StructLayout
	funcs   map[string]*parser.FuncDecl
	ret     parser.TypeRef // declared return type of the current function
	returns int            // return statements seen in the current function
	loops   int            // loop nesting depth
}

// valueType is the inferred type of an expression. Integer literals (and
// sizeof) are untyped: they adopt any integer builtin they meet, while all
// other type comparisons require exact equality.
type valueType struct {
	ref     parser.TypeRef
	untyped bool
}

var untypedInt = valueType{untyped: true}

func concrete(ref parser.TypeRef) valueType {
	return valueType{ref: ref}
}

func isIntegerValue(v valueType) bool {
	return v.untyped || v.ref.Indirection == 0 && isInteger(v.ref.Base)
}

// assignable reports whether a value of type v may flow into a slot of the
// declared type dst.
func assignable(dst parser.TypeRef, v valueType) bool {
	if v.untyped {
		return dst.Indirection == 0 && isInteger(dst.Base)
	}

	return v.ref == dst
}

// scope is one lexical scope. Blocks nest scopes; shadowing an outer name
// is allowed, redeclaring within one scope is not.
type scope struct {
	parent *scope
	vars   map[string]parser.TypeRef
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]parser.TypeRef)}
}

func (s *scope) lookup(name string) (parser.TypeRef, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}

	return parser.TypeRef{}, false
}

func (s *scope) declare(name string, t parser.TypeRef) bool {
	if _, dup := s.vars[name]; dup {
		return false
	}

	s.vars[name] = t

	return true
}

func (c *funcChecker) typeExists(t parser.TypeRef) bool {
	if IsBuiltin(t.Base) {
		return true
	}

	_, ok := c.structs[t.Base]

	return ok
}

func (c *funcChecker) checkFunc(f *parser.FuncDecl) error {
	if !c.typeExists(f.Ret) {
		return semErr(f.Line, ErrUndefinedType, f.Ret.Base)
	}

	params := newScope(nil)

	for _, param := range f.Params {
		if !c.typeExists(param.Type) {
			return semErr(param.Line, ErrUndefinedType, param.Type.Base)
		}

		if !params.declare(param.Name, param.Type) {
			return semErr(param.Line, ErrDuplicateParam, param.Name)
		}
	}

	if err := c.checkStmt(f.Body, newScope(params)); err != nil {
		return err
	}

	if c.returns == 0 && c.ret != typeU0 {
		return semErr(f.Line, ErrMissingReturn, f.Name)
	}

	return nil
}

// checkStmt validates one statement. The switch is exhaustive over the
// closed statement set; a new variant must be handled here.
func (c *funcChecker) checkStmt(stmt parser.Stmt, sc *scope) error {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		inner := newScope(sc)
		for _, st := range s.Stmts {
			if err := c.checkStmt(st, inner); err != nil {
				return err
			}
		}

		return nil

	case *parser.VarDeclStmt:
		if !c.typeExists(s.Type) {
			return semErr(s.Line, ErrUndefinedType, s.Type.Base)
		}

		if !sc.declare(s.Name, s.Type) {
			return semErr(s.Line, ErrDuplicateVariable, s.Name)
		}

		return nil

	case *parser.AssignStmt:
		t, ok := sc.lookup(s.Name)
		if !ok {
			return semErr(s.Line, ErrUndefinedVariable, s.Name)
		}

		v, err := c.typeOf(s.Value, sc)
		if err != nil {
			return err
		}

		if !assignable(t, v) {
			return semErr(s.Line, ErrTypeMismatch, s.Name)
		}

		return nil

	case *parser.StructStoreStmt:
		target, err := c.typeOf(s.Target, sc)
		if err != nil {
			return err
		}

		v, err := c.typeOf(s.Value, sc)
		if err != nil {
			return err
		}

		if !assignable(target.ref, v) {
			return semErr(s.Line, ErrTypeMismatch, s.Target.Field)
		}

		return nil

	case *parser.StoreStmt:
		dest, err := c.typeOf(s.Dest, sc)
		if err != nil {
			return err
		}

		if dest.untyped || dest.ref.Indirection < s.Count {
			return semErr(s.Line, ErrBadDeref, "")
		}

		v, err := c.typeOf(s.Value, sc)
		if err != nil {
			return err
		}

		if !assignable(dest.ref.Deref(s.Count), v) {
			return semErr(s.Line, ErrTypeMismatch, "")
		}

		return nil

	case *parser.ReturnStmt:
		c.returns++

		v, err := c.typeOf(s.Value, sc)
		if err != nil {
			return err
		}

		if !assignable(c.ret, v) {
			return semErr(s.Line, ErrReturnMismatch, fmt.Sprintf("function returns %s", c.ret))
		}

		return nil

	case *parser.IfStmt:
		if err := c.checkCondition(s.Cond, sc); err != nil {
			return err
		}

		if err := c.checkStmt(s.Then, newScope(sc)); err != nil {
			return err
		}

		if s.Else != nil {
			return c.checkStmt(s.Else, newScope(sc))
		}

		return nil

	case *parser.WhileStmt:
		if err := c.checkCondition(s.Cond, sc); err != nil {
			return err
		}

		c.loops++
		defer func() { c.loops-- }()

		return c.checkStmt(s.Body, newScope(sc))

	case *parser.CtrlStmt:
		if c.loops == 0 {
			return semErr(s.Line, ErrCtrlOutsideLoop, string(s.Op))
		}

		return nil

	case *parser.FCall:
		_, err := c.typeOfCall(s, sc)
		return err

	default:
		panic(fmt.Sprintf("semantics: unhandled statement variant %T", stmt))
	}
}

// checkCondition validates the two operands of an if/while guard.
func (c *funcChecker) checkCondition(cond *parser.Condition, sc *scope) error {
	lt, err := c.typeOf(cond.Left, sc)
	if err != nil {
		return err
	}

	rt, err := c.typeOf(cond.Right, sc)
	if err != nil {
		return err
	}

	switch {
	case lt.untyped && rt.untyped:
		return nil
	case lt.untyped:
		lt, rt = rt, lt
		fallthrough
	case rt.untyped:
		if isIntegerValue(lt) || lt.ref.IsPointer() {
			return nil
		}
	default:
		if lt.ref == rt.ref {
			return nil
		}
	}

	return semErr(cond.Line, ErrTypeMismatch, "comparison operands")
}

// typeOf infers the type of an expression. The switch is exhaustive over
// the closed expression set.
func (c *funcChecker) typeOf(expr parser.Expr, sc *scope) (valueType, error) {
	switch e := expr.(type) {
	case *parser.IntLit:
		return untypedInt, nil

	case *parser.StrLit:
		// String literals are pointers to their first byte.
		return concrete(parser.TypeRef{Base: "u8", Indirection: 1}), nil

	case *parser.VarRef:
		t, ok := sc.lookup(e.Name)
		if !ok {
			return valueType{}, semErr(e.Line, ErrUndefinedVariable, e.Name)
		}

		return concrete(t), nil

	case *parser.UnaryOp:
		v, err := c.typeOf(e.Operand, sc)
		if err != nil {
			return valueType{}, err
		}

		if !isIntegerValue(v) {
			return valueType{}, semErr(e.Line, ErrNotInteger, string(e.Op))
		}

		return v, nil

	case *parser.PointerOp:
		return c.typeOfPointerOp(e, sc)

	case *parser.BinaryOp:
		lt, err := c.typeOf(e.Left, sc)
		if err != nil {
			return valueType{}, err
		}

		rt, err := c.typeOf(e.Right, sc)
		if err != nil {
			return valueType{}, err
		}

		return c.combine(e, lt, rt)

	case *parser.StructAccess:
		base, err := c.typeOf(e.Left, sc)
		if err != nil {
			return valueType{}, err
		}

		if base.untyped || base.ref.IsPointer() {
			return valueType{}, semErr(e.Line, ErrNotAStruct, "")
		}

		layout, ok := c.structs[base.ref.Base]
		if !ok {
			return valueType{}, semErr(e.Line, ErrNotAStruct, base.ref.Base)
		}

		t, ok := layout.Member(e.Field)
		if !ok {
			return valueType{}, semErr(e.Line, ErrUnknownMember, base.ref.Base+"."+e.Field)
		}

		return concrete(t), nil

	case *parser.FCall:
		return c.typeOfCall(e, sc)

	case *parser.Condition:
		// The grammar confines conditions to if/while guards.
		panic("semantics: condition outside a guard")

	default:
		panic(fmt.Sprintf("semantics: unhandled expression variant %T", expr))
	}
}

func (c *funcChecker) typeOfPointerOp(e *parser.PointerOp, sc *scope) (valueType, error) {
	if e.Op == parser.OpSizeOf {
		// sizeof accepts a type name where an expression is expected.
		if v, ok := e.Operand.(*parser.VarRef); ok {
			if IsBuiltin(v.Name) {
				return untypedInt, nil
			}

			if _, ok := c.structs[v.Name]; ok {
				return untypedInt, nil
			}
		}

		if _, err := c.typeOf(e.Operand, sc); err != nil {
			return valueType{}, err
		}

		return untypedInt, nil
	}

	v, err := c.typeOf(e.Operand, sc)
	if err != nil {
		return valueType{}, err
	}

	switch e.Op {
	case parser.OpDeref:
		if v.untyped || v.ref.Indirection < e.Count {
			return valueType{}, semErr(e.Line, ErrBadDeref, "")
		}

		return concrete(v.ref.Deref(e.Count)), nil

	default: // OpAddrOf
		switch e.Operand.(type) {
		case *parser.VarRef, *parser.StructAccess:
		default:
			return valueType{}, semErr(e.Line, ErrNotAddressable, "")
		}

		return concrete(parser.TypeRef{Base: v.ref.Base, Indirection: v.ref.Indirection + e.Count}), nil
	}
}

// combine types a binary operation. Integer operands of equal type pass
// through; pointer arithmetic is confined to pointer plus or minus integer.
func (c *funcChecker) combine(e *parser.BinaryOp, lt, rt valueType) (valueType, error) {
	additive := e.Op == parser.OpAdd || e.Op == parser.OpSub

	if lt.untyped && rt.untyped {
		return untypedInt, nil
	}

	if lt.untyped || rt.untyped {
		typed := lt
		if lt.untyped {
			typed = rt
		}

		if isIntegerValue(typed) {
			return typed, nil
		}

		if typed.ref.IsPointer() && additive {
			return typed, nil
		}

		return valueType{}, semErr(e.Line, ErrNotInteger, string(e.Op))
	}

	if lt.ref == rt.ref && isIntegerValue(lt) {
		return lt, nil
	}

	if additive && lt.ref.IsPointer() && isIntegerValue(rt) {
		return lt, nil
	}

	if e.Op == parser.OpAdd && rt.ref.IsPointer() && isIntegerValue(lt) {
		return rt, nil
	}

	return valueType{}, semErr(e.Line, ErrTypeMismatch, string(e.Op))
}

func (c *funcChecker) typeOfCall(e *parser.FCall, sc *scope) (valueType, error) {
	f, ok := c.funcs[e.Name]
	if !ok {
		return valueType{}, semErr(e.Line, ErrUndefinedFunction, e.Name)
	}

	if len(e.Args) != len(f.Params) {
		return valueType{}, semErr(e.Line, ErrArgCount,
			fmt.Sprintf("%s takes %d, got %d", e.Name, len(f.Params), len(e.Args)))
	}

	for i, arg := range e.Args {
		v, err := c.typeOf(arg, sc)
		if err != nil {
			return valueType{}, err
		}

		if !assignable(f.Params[i].Type, v) {
			return valueType{}, semErr(arg.Pos(), ErrTypeMismatch,
				fmt.Sprintf("argument %s of %s", f.Params[i].Name, e.Name))
		}
	}

	return concrete(f.Ret), nil
}
