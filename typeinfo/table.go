package typeinfo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTypeNotFound indicates a name had no registered descriptor.
var ErrTypeNotFound = errors.New("typeinfo: type not found")

// DefaultPointerSize is the pointer width assumed unless a table says
// otherwise. All currently supported captures are 64-bit.
const DefaultPointerSize = 8

// Table maps fully-qualified type names to descriptors.
type Table struct {
	types   map[string]Type
	ptrSize uint64
}

// NewTable returns an empty table with the default pointer width.
func NewTable() *Table {
	return &Table{
		types:   make(map[string]Type),
		ptrSize: DefaultPointerSize,
	}
}

// SetPointerSize overrides the pointer width used for synthesized pointer
// and reference types. Must be called before any lookups that synthesize.
func (t *Table) SetPointerSize(n uint64) {
	if n != 0 {
		t.ptrSize = n
	}
}

// PointerSize returns the table's pointer width in bytes.
func (t *Table) PointerSize() uint64 {
	return t.ptrSize
}

// Add registers a descriptor under its own name. Re-registering a name
// replaces the previous descriptor.
func (t *Table) Add(typ Type) {
	t.types[typ.Name()] = typ
}

// PointerTo synthesizes a pointer descriptor with the table's width.
func (t *Table) PointerTo(elem Type) *Pointer {
	return &Pointer{Elem: elem, ByteSize: t.ptrSize}
}

// ReferenceTo synthesizes a reference descriptor with the table's width.
func (t *Table) ReferenceTo(elem Type) *Reference {
	return &Reference{Elem: elem, ByteSize: t.ptrSize}
}

// Resolve looks up a descriptor by name. Trailing "*" and "&" derive
// pointer and reference types from a registered base name, so field
// references in a manifest never need explicit pointer entries.
func (t *Table) Resolve(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if typ, ok := t.types[name]; ok {
		return typ, nil
	}
	switch {
	case strings.HasSuffix(name, "*"):
		elem, err := t.Resolve(strings.TrimSpace(name[:len(name)-1]))
		if err != nil {
			return nil, err
		}
		return t.PointerTo(elem), nil
	case strings.HasSuffix(name, "&"):
		elem, err := t.Resolve(strings.TrimSpace(name[:len(name)-1]))
		if err != nil {
			return nil, err
		}
		return t.ReferenceTo(elem), nil
	case strings.HasPrefix(name, "const "):
		elem, err := t.Resolve(name[len("const "):])
		if err != nil {
			return nil, err
		}
		return &Qualified{Qual: "const", Elem: elem}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
}

// Nested resolves a type name nested inside typ, e.g. value_type inside a
// container instantiation. On a miss it retries against the first base
// class, mirroring how the inspected containers inherit their nested
// aliases from implementation-detail base types.
func (t *Table) Nested(typ Type, name string) (Type, error) {
	cur := Strip(typ)
	for {
		if found, err := t.Resolve(cur.Name() + "::" + name); err == nil {
			return found, nil
		}
		st, ok := cur.(*Struct)
		if !ok || st.Base == nil {
			return nil, fmt.Errorf("%w: %s::%s", ErrTypeNotFound, Strip(typ).Name(), name)
		}
		cur = st.Base
	}
}
