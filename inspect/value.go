// Package inspect binds type metadata to a captured memory image and
// exposes typed, addressable views onto it. A Value is a weak reference
// into the snapshot: it holds a type descriptor and an address, nothing
// else, and stays valid exactly as long as the underlying image does.
// Nothing in this package writes to the image.
package inspect

import (
	"fmt"

	"github.com/choiday/boost-container-pretty-printer/internal/format"
	"github.com/choiday/boost-container-pretty-printer/snapshot"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// Target couples one memory image with one type table. All Values created
// from a Target read through it.
type Target struct {
	Mem   *snapshot.Image
	Types *typeinfo.Table
}

// Value returns a typed view at addr.
func (t *Target) Value(typ typeinfo.Type, addr uint64) Value {
	return Value{typ: typ, addr: addr, t: t}
}

// Value is a typed, addressable view onto inspected memory.
type Value struct {
	typ  typeinfo.Type
	addr uint64
	t    *Target
}

// Type returns the value's type descriptor.
func (v Value) Type() typeinfo.Type { return v.typ }

// Address returns the value's location in the inspected address space.
func (v Value) Address() uint64 { return v.addr }

// Target returns the target the value reads through.
func (v Value) Target() *Target { return v.t }

// Cast reinterprets the same storage as another type.
func (v Value) Cast(typ typeinfo.Type) Value {
	return Value{typ: typ, addr: v.addr, t: v.t}
}

// Field returns the member with the given name. The value's type must
// (after stripping typedefs and qualifiers) be a struct; base classes are
// searched on a miss.
func (v Value) Field(name string) (Value, error) {
	st, ok := typeinfo.Strip(v.typ).(*typeinfo.Struct)
	if !ok {
		return Value{}, fmt.Errorf("inspect: field %q: %s is not a struct", name, v.typ.Name())
	}
	f, ok := st.FieldByName(name)
	if !ok {
		return Value{}, fmt.Errorf("inspect: %s has no field %q", st.TypeName, name)
	}
	return Value{typ: f.Type, addr: v.addr + f.Offset, t: v.t}, nil
}

// Path follows a chain of nested fields.
func (v Value) Path(names ...string) (Value, error) {
	cur := v
	for _, name := range names {
		next, err := cur.Field(name)
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// Bytes reads n raw bytes at the value's address.
func (v Value) Bytes(n uint64) ([]byte, error) {
	return v.t.Mem.ReadBytes(v.addr, n)
}

// Uint reads the value's storage as an unsigned scalar. Pointers and
// references read their stored address.
func (v Value) Uint() (uint64, error) {
	u, err := v.t.Mem.ReadUint(v.addr, typeinfo.Strip(v.typ).Size())
	if err != nil {
		return 0, fmt.Errorf("inspect: %s at %#x: %w", v.typ.Name(), v.addr, err)
	}
	return u, nil
}

// Int reads the value's storage as a signed scalar.
func (v Value) Int() (int64, error) {
	u, err := v.Uint()
	if err != nil {
		return 0, err
	}
	return format.SignExtend(u, int(typeinfo.Strip(v.typ).Size())), nil
}

// Bool reads the value's storage and reports whether it is non-zero.
func (v Value) Bool() (bool, error) {
	u, err := v.Uint()
	if err != nil {
		return false, err
	}
	return u != 0, nil
}

// IsNil reports whether a pointer value holds a null address.
func (v Value) IsNil() (bool, error) {
	u, err := v.Uint()
	if err != nil {
		return false, err
	}
	return u == 0, nil
}

// Deref follows a pointer or reference and returns the pointee view.
func (v Value) Deref() (Value, error) {
	switch t := typeinfo.Strip(v.typ).(type) {
	case *typeinfo.Pointer:
		addr, err := v.Uint()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t.Elem, addr: addr, t: v.t}, nil
	case *typeinfo.Reference:
		addr, err := v.Uint()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t.Elem, addr: addr, t: v.t}, nil
	default:
		return Value{}, fmt.Errorf("inspect: cannot dereference %s", v.typ.Name())
	}
}

// Unref dereferences reference-typed values and passes everything else
// through unchanged. Printers call this first so &container formats the
// same as the container itself.
func (v Value) Unref() (Value, error) {
	if _, ok := typeinfo.Strip(v.typ).(*typeinfo.Reference); ok {
		return v.Deref()
	}
	return v, nil
}

// Index treats a pointer value as the base of an array and returns the
// i-th element view, with no bounds information to check against.
func (v Value) Index(i uint64) (Value, error) {
	pt, ok := typeinfo.Strip(v.typ).(*typeinfo.Pointer)
	if !ok {
		return Value{}, fmt.Errorf("inspect: cannot index %s", v.typ.Name())
	}
	base, err := v.Uint()
	if err != nil {
		return Value{}, err
	}
	return Value{typ: pt.Elem, addr: base + i*pt.Elem.Size(), t: v.t}, nil
}
