// Package typeinfo models the compile-time type metadata of an inspected
// C++ program: scalar widths, struct field offsets, pointer and reference
// wrappers, typedefs and cv-qualifiers. Descriptors are registered in a
// Table keyed by fully-qualified (template-instantiated) type name and are
// immutable after construction.
package typeinfo

import "fmt"

// Type is a descriptor for one concrete type of the inspected program.
type Type interface {
	// Name returns the fully-qualified type name, template arguments included.
	Name() string
	// Size returns the storage size in bytes.
	Size() uint64
}

// Scalar describes an integral type: ints, bools, chars, enum storage.
type Scalar struct {
	TypeName string
	ByteSize uint64
	Signed   bool
	// CharLike marks character types so string contents can be decoded
	// from arrays of this scalar. ByteSize selects the encoding: 1 byte
	// means raw bytes, 2 means UTF-16LE code units.
	CharLike bool
	// BoolLike marks bool so renderers print true/false instead of 0/1.
	BoolLike bool
}

func (s *Scalar) Name() string { return s.TypeName }
func (s *Scalar) Size() uint64 { return s.ByteSize }

// Pointer describes a data pointer. The pointee descriptor is Elem.
type Pointer struct {
	Elem     Type
	ByteSize uint64
}

func (p *Pointer) Name() string { return p.Elem.Name() + " *" }
func (p *Pointer) Size() uint64 { return p.ByteSize }

// Reference describes a C++ lvalue reference. Its storage is a single
// pointer holding the referent's address.
type Reference struct {
	Elem     Type
	ByteSize uint64
}

func (r *Reference) Name() string { return r.Elem.Name() + " &" }
func (r *Reference) Size() uint64 { return r.ByteSize }

// Array describes an inline fixed-length array, e.g. the character buffer
// of a short-string representation.
type Array struct {
	Elem  Type
	Count uint64
}

func (a *Array) Name() string { return fmt.Sprintf("%s [%d]", a.Elem.Name(), a.Count) }
func (a *Array) Size() uint64 { return a.Elem.Size() * a.Count }

// Typedef is a named alias for another type.
type Typedef struct {
	TypeName string
	Aliased  Type
}

func (t *Typedef) Name() string { return t.TypeName }
func (t *Typedef) Size() uint64 { return t.Aliased.Size() }

// Qualified wraps a type with a cv-qualifier. Qualifiers never change
// layout, only how the name prints.
type Qualified struct {
	Qual string // "const" or "volatile"
	Elem Type
}

func (q *Qualified) Name() string { return q.Qual + " " + q.Elem.Name() }
func (q *Qualified) Size() uint64 { return q.Elem.Size() }

// Field is a named member of a Struct at a fixed byte offset.
type Field struct {
	FieldName string
	Offset    uint64
	Type      Type
}

// Struct describes a record type. Base, when set, is the first (and only
// tracked) base class; member lookups fall through to it, matching how the
// inspected containers layer their internals over base-class storage.
type Struct struct {
	TypeName string
	ByteSize uint64
	Fields   []Field
	Base     *Struct
	// TemplateArgs holds the resolved template arguments for instantiated
	// templates, in declaration order. Empty for plain structs.
	TemplateArgs []Type
}

func (s *Struct) Name() string { return s.TypeName }
func (s *Struct) Size() uint64 { return s.ByteSize }

// FieldByName finds a direct member, searching base classes on a miss.
func (s *Struct) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	if s.Base != nil {
		return s.Base.FieldByName(name)
	}
	return Field{}, false
}

// TemplateArg returns the i-th template argument.
func (s *Struct) TemplateArg(i int) (Type, error) {
	if i < 0 || i >= len(s.TemplateArgs) {
		return nil, fmt.Errorf("typeinfo: %s has no template argument %d", s.TypeName, i)
	}
	return s.TemplateArgs[i], nil
}

// Strip removes typedefs and cv-qualifiers, returning the underlying type.
func Strip(t Type) Type {
	for {
		switch u := t.(type) {
		case *Typedef:
			t = u.Aliased
		case *Qualified:
			t = u.Elem
		default:
			return t
		}
	}
}

// Unref unwraps a reference type, if t is one. Qualifiers and typedefs
// around the reference are stripped first; other types pass through.
func Unref(t Type) Type {
	if r, ok := Strip(t).(*Reference); ok {
		return r.Elem
	}
	return t
}
