package semantics

import (
	"github.com/ucclang/ucc/parser"
)

// Field is one leaf slot of a resolved struct layout: builtin-typed or
// pointer-typed, never a struct value. Fields inlined from nested struct
// members carry dotted names ("outer.inner").
type Field struct {
	Name   string
	Type   parser.TypeRef
	Offset int // byte offset from the start of the struct
}

// StructLayout is the validated, flattened layout of one struct. It is
// computed from the parsed declaration without mutating it, and is immutable
// afterwards; ownership passes to whatever consumes the unit next.
type StructLayout struct {
	Name   string
	Fields []Field
	Size   int // total byte size, no alignment padding
	Line   int

	members map[string]parser.TypeRef // immediate members as written
}

// Member returns the declared type of an immediate member, before
// flattening. Nested struct members are visible here but not in Fields.
func (l *StructLayout) Member(name string) (parser.TypeRef, bool) {
	t, ok := l.members[name]
	return t, ok
}

// Lookup returns the flattened leaf field with the given dotted name.
func (l *StructLayout) Lookup(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// CheckStructs validates every struct declaration and returns the by-name
// lookup of resolved layouts. Struct resolution runs before function
// checking because function signatures and bodies may reference struct
// types.
func CheckStructs(decls []*parser.StructDecl, sizes Sizes) (map[string]*StructLayout, error) {
	c := &structChecker{
		decls:     make(map[string]*parser.StructDecl, len(decls)),
		done:      make(map[string]*StructLayout, len(decls)),
		expanding: make(map[string]bool),
		sizes:     sizes,
	}

	for _, decl := range decls {
		if _, dup := c.decls[decl.Name]; dup {
			return nil, semErr(decl.Line, ErrDuplicateStruct, decl.Name)
		}

		c.decls[decl.Name] = decl
	}

	for _, decl := range decls {
		if _, err := c.resolve(decl); err != nil {
			return nil, err
		}
	}

	return c.done, nil
}

type structChecker struct {
	decls     map[string]*parser.StructDecl
	done      map[string]*StructLayout
	expanding map[string]bool // cycle guard: structs currently being expanded
	sizes     Sizes
}

// resolve expands one struct into its flat field list with byte offsets.
//
// Pointer members occupy one architecture word and are never expanded, so a
// struct may point to itself. A value-type member of a struct currently
// being expanded is a recursive definition and is rejected before it can
// recurse unboundedly. Offsets are a plain running accumulator; the layout
// has no alignment padding.
func (c *structChecker) resolve(decl *parser.StructDecl) (*StructLayout, error) {
	if layout, ok := c.done[decl.Name]; ok {
		return layout, nil
	}

	c.expanding[decl.Name] = true
	defer delete(c.expanding, decl.Name)

	layout := &StructLayout{
		Name:    decl.Name,
		Line:    decl.Line,
		members: make(map[string]parser.TypeRef, len(decl.Members)),
	}

	for _, member := range decl.Members {
		if _, dup := layout.members[member.Name]; dup {
			return nil, semErr(member.Line, ErrDuplicateMember, member.Name)
		}

		layout.members[member.Name] = member.Type

		switch {
		case member.Type.IsPointer():
			if !IsBuiltin(member.Type.Base) {
				if _, ok := c.decls[member.Type.Base]; !ok {
					return nil, semErr(member.Line, ErrUndefinedType, member.Type.Base)
				}
			}

			layout.Fields = append(layout.Fields, Field{Name: member.Name, Type: member.Type, Offset: layout.Size})
			layout.Size += c.sizes.Pointer

		case IsBuiltin(member.Type.Base):
			layout.Fields = append(layout.Fields, Field{Name: member.Name, Type: member.Type, Offset: layout.Size})
			layout.Size += builtinWidths[member.Type.Base]

		default:
			nested, ok := c.decls[member.Type.Base]
			if !ok {
				return nil, semErr(member.Line, ErrUndefinedType, member.Type.Base)
			}

			if c.expanding[nested.Name] {
				return nil, semErr(member.Line, ErrRecursiveStruct, nested.Name)
			}

			sub, err := c.resolve(nested)
			if err != nil {
				return nil, err
			}

			for _, f := range sub.Fields {
				layout.Fields = append(layout.Fields, Field{
					Name:   member.Name + "." + f.Name,
					Type:   f.Type,
					Offset: layout.Size + f.Offset,
				})
			}

			layout.Size += sub.Size
		}
	}

	c.done[decl.Name] = layout

	return layout, nil
}
