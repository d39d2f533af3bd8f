package semantics

import (
	"github.com/ucclang/ucc/parser"
)

// Unit is the validated output of the front end: resolved struct layouts and
// fully type-checked functions, both in source order, ready for a code
// generation stage.
type Unit struct {
	Structs []*StructLayout
	Funcs   []*parser.FuncDecl

	byName map[string]*StructLayout
}

// Struct returns the resolved layout with the given name.
func (u *Unit) Struct(name string) (*StructLayout, bool) {
	layout, ok := u.byName[name]
	return layout, ok
}

// Analyze validates the parsed program. Structs are resolved first because
// function signatures and bodies may reference struct types. Analysis is
// run-to-completion: the first violation aborts with no partial output.
func Analyze(prog *parser.Program, sizes Sizes) (*Unit, error) {
	layouts, err := CheckStructs(prog.Structs, sizes)
	if err != nil {
		return nil, err
	}

	if err := CheckFuncs(prog.Funcs, layouts); err != nil {
		return nil, err
	}

	unit := &Unit{
		Structs: make([]*StructLayout, len(prog.Structs)),
		Funcs:   prog.Funcs,
		byName:  layouts,
	}
	for i, decl := range prog.Structs {
		unit.Structs[i] = layouts[decl.Name]
	}

	return unit, nil
}
