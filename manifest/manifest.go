// Package manifest loads capture descriptions from JSON. A manifest names
// the raw memory (a dump file or inline hex segments), the type table, and
// the root values to inspect, so a capture taken elsewhere can be decoded
// without the original debug session.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/snapshot"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// Address accepts either a JSON number or a hex string ("0x1000").
type Address uint64

func (a *Address) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("manifest: bad address %q: %w", s, err)
		}
		*a = Address(v)
		return nil
	}
	var v uint64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Address(v)
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%#x", uint64(a)))
}

// SegmentDef is an inline memory segment, data hex-encoded.
type SegmentDef struct {
	Addr Address `json:"addr"`
	Data string  `json:"data"`
}

// MemoryDef points at the raw memory: either a dump file mapped at Base,
// or inline segments.
type MemoryDef struct {
	File     string       `json:"file,omitempty"`
	Base     Address      `json:"base,omitempty"`
	Segments []SegmentDef `json:"segments,omitempty"`
}

// FieldDef is one member of a struct type.
type FieldDef struct {
	Name   string `json:"name"`
	Offset uint64 `json:"offset"`
	Type   string `json:"type"`
}

// TypeDef describes one entry of the type table. Kind selects which of the
// remaining fields apply.
type TypeDef struct {
	Kind string `json:"kind"` // scalar, struct, pointer, typedef, array
	Name string `json:"name"`
	Size uint64 `json:"size,omitempty"`

	// scalar
	Signed   bool `json:"signed,omitempty"`
	CharLike bool `json:"char,omitempty"`
	BoolLike bool `json:"bool,omitempty"`

	// struct
	Fields       []FieldDef `json:"fields,omitempty"`
	Base         string     `json:"base,omitempty"`
	TemplateArgs []string   `json:"template_args,omitempty"`

	// pointer, typedef, array
	Elem  string `json:"elem,omitempty"`
	Count uint64 `json:"count,omitempty"`
}

// RootDef is a named value to decode.
type RootDef struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Addr Address `json:"addr"`
}

// Manifest is the on-disk capture description.
type Manifest struct {
	PointerSize uint64    `json:"pointer_size,omitempty"`
	Memory      MemoryDef `json:"memory"`
	Types       []TypeDef `json:"types"`
	Roots       []RootDef `json:"roots"`
}

// Root pairs a manifest root name with its resolved value.
type Root struct {
	Name  string
	Value inspect.Value
}

// Capture is a manifest realized against memory and types.
type Capture struct {
	Target *inspect.Target
	Roots  []Root

	img *snapshot.Image
}

// Close releases the underlying memory image.
func (c *Capture) Close() error {
	if c.img == nil {
		return nil
	}
	return c.img.Close()
}

// Load reads a manifest file and builds a Capture from it. Relative memory
// file paths resolve against the manifest's directory.
func Load(path string) (*Capture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	if m.Memory.File != "" && !strings.HasPrefix(m.Memory.File, "/") {
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			m.Memory.File = path[:i+1] + m.Memory.File
		}
	}
	return Build(&m)
}

// Build realizes a parsed manifest.
func Build(m *Manifest) (*Capture, error) {
	img, err := buildImage(&m.Memory)
	if err != nil {
		return nil, err
	}
	tbl, err := buildTable(m)
	if err != nil {
		img.Close()
		return nil, err
	}
	tgt := &inspect.Target{Mem: img, Types: tbl}

	roots := make([]Root, 0, len(m.Roots))
	for _, rd := range m.Roots {
		typ, err := tbl.Resolve(rd.Type)
		if err != nil {
			img.Close()
			return nil, fmt.Errorf("manifest: root %q: %w", rd.Name, err)
		}
		roots = append(roots, Root{Name: rd.Name, Value: tgt.Value(typ, uint64(rd.Addr))})
	}
	return &Capture{Target: tgt, Roots: roots, img: img}, nil
}

func buildImage(mem *MemoryDef) (*snapshot.Image, error) {
	if mem.File != "" {
		return snapshot.Open(mem.File, uint64(mem.Base))
	}
	img := snapshot.NewImage()
	for _, s := range mem.Segments {
		data, err := hex.DecodeString(s.Data)
		if err != nil {
			return nil, fmt.Errorf("manifest: segment %#x: %w", uint64(s.Addr), err)
		}
		if err := img.AddSegment(uint64(s.Addr), data); err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
	}
	return img, nil
}

// buildTable runs two passes: the first registers shells for every named
// type so fields and elems can reference types in any order, the second
// fills them in.
func buildTable(m *Manifest) (*typeinfo.Table, error) {
	tbl := typeinfo.NewTable()
	if m.PointerSize != 0 {
		tbl.SetPointerSize(m.PointerSize)
	}

	shells := make(map[string]typeinfo.Type, len(m.Types))
	for _, td := range m.Types {
		if td.Name == "" {
			return nil, fmt.Errorf("manifest: unnamed %s type", td.Kind)
		}
		if _, dup := shells[td.Name]; dup {
			return nil, fmt.Errorf("manifest: duplicate type %q", td.Name)
		}
		var typ typeinfo.Type
		switch td.Kind {
		case "scalar":
			typ = &typeinfo.Scalar{
				TypeName: td.Name,
				ByteSize: td.Size,
				Signed:   td.Signed,
				CharLike: td.CharLike,
				BoolLike: td.BoolLike,
			}
		case "struct":
			typ = &typeinfo.Struct{TypeName: td.Name, ByteSize: td.Size}
		case "typedef":
			typ = &typeinfo.Typedef{TypeName: td.Name}
		case "pointer", "array":
			// resolved in the second pass; placeholder keeps name lookups
			// working for types that reference this one
			typ = &typeinfo.Typedef{TypeName: td.Name}
		default:
			return nil, fmt.Errorf("manifest: type %q: unknown kind %q", td.Name, td.Kind)
		}
		shells[td.Name] = typ
		tbl.Add(typ)
	}

	for _, td := range m.Types {
		switch td.Kind {
		case "struct":
			st := shells[td.Name].(*typeinfo.Struct)
			for _, fd := range td.Fields {
				ft, err := tbl.Resolve(fd.Type)
				if err != nil {
					return nil, fmt.Errorf("manifest: %s.%s: %w", td.Name, fd.Name, err)
				}
				st.Fields = append(st.Fields, typeinfo.Field{
					FieldName: fd.Name, Offset: fd.Offset, Type: ft,
				})
			}
			if td.Base != "" {
				bt, err := tbl.Resolve(td.Base)
				if err != nil {
					return nil, fmt.Errorf("manifest: %s base: %w", td.Name, err)
				}
				bs, ok := typeinfo.Strip(bt).(*typeinfo.Struct)
				if !ok {
					return nil, fmt.Errorf("manifest: %s base %q is not a struct", td.Name, td.Base)
				}
				st.Base = bs
			}
			for _, arg := range td.TemplateArgs {
				at, err := tbl.Resolve(arg)
				if err != nil {
					return nil, fmt.Errorf("manifest: %s template arg: %w", td.Name, err)
				}
				st.TemplateArgs = append(st.TemplateArgs, at)
			}
		case "typedef":
			at, err := tbl.Resolve(td.Elem)
			if err != nil {
				return nil, fmt.Errorf("manifest: typedef %s: %w", td.Name, err)
			}
			shells[td.Name].(*typeinfo.Typedef).Aliased = at
		case "pointer":
			et, err := tbl.Resolve(td.Elem)
			if err != nil {
				return nil, fmt.Errorf("manifest: pointer %s: %w", td.Name, err)
			}
			shells[td.Name].(*typeinfo.Typedef).Aliased = tbl.PointerTo(et)
		case "array":
			et, err := tbl.Resolve(td.Elem)
			if err != nil {
				return nil, fmt.Errorf("manifest: array %s: %w", td.Name, err)
			}
			shells[td.Name].(*typeinfo.Typedef).Aliased = &typeinfo.Array{Elem: et, Count: td.Count}
		}
	}
	return tbl, nil
}
