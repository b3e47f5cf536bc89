package printers

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// StringPrinter decodes a basic_string of some kind. The representation is
// a union discriminated by the is_short flag: short strings keep length and
// character data inline, long strings reinterpret the same storage as the
// nested long_t header holding a length and a pointer to the heap buffer.
//
// The stored length is authoritative in both branches. Scanning for a
// terminator would drop everything past an embedded NUL.
func StringPrinter(typename string, v inspect.Value) (*Result, error) {
	header, err := v.Path("members_", "m_repr", "s", "h")
	if err != nil {
		return nil, err
	}
	shortFlag, err := header.Field("is_short")
	if err != nil {
		return nil, err
	}
	isShort, err := shortFlag.Bool()
	if err != nil {
		return nil, err
	}

	var length, dataAddr uint64
	var charType typeinfo.Type
	if isShort {
		lengthField, err := header.Field("length")
		if err != nil {
			return nil, err
		}
		if length, err = lengthField.Uint(); err != nil {
			return nil, err
		}
		data, err := v.Path("members_", "m_repr", "s", "data")
		if err != nil {
			return nil, err
		}
		dataAddr = data.Address()
		charType = data.Type()
	} else {
		longT, err := v.Target().Types.Nested(v.Type(), "long_t")
		if err != nil {
			return nil, err
		}
		repr, err := v.Path("members_", "m_repr", "r")
		if err != nil {
			return nil, err
		}
		long := repr.Cast(typeinfo.Strip(longT))
		lengthField, err := long.Field("length")
		if err != nil {
			return nil, err
		}
		if length, err = lengthField.Uint(); err != nil {
			return nil, err
		}
		start, err := long.Field("start")
		if err != nil {
			return nil, err
		}
		if dataAddr, err = start.Uint(); err != nil {
			return nil, err
		}
		charType = start.Type()
	}

	width, err := charWidth(charType)
	if err != nil {
		return nil, err
	}
	raw, err := v.Target().Mem.ReadBytes(dataAddr, length*width)
	if err != nil {
		return nil, err
	}
	text, err := decodeChars(raw, width)
	if err != nil {
		return nil, err
	}
	return &Result{Summary: text, Hint: HintString}, nil
}

// charWidth extracts the character width behind a data field, accepting
// the inline array of the short branch, the char pointer of the long
// branch, or a bare character scalar.
func charWidth(t typeinfo.Type) (uint64, error) {
	switch u := typeinfo.Strip(t).(type) {
	case *typeinfo.Array:
		return charWidth(u.Elem)
	case *typeinfo.Pointer:
		return charWidth(u.Elem)
	case *typeinfo.Scalar:
		if u.CharLike {
			return u.ByteSize, nil
		}
	}
	return 0, fmt.Errorf("printers: %s is not a character type", t.Name())
}

// decodeChars turns raw character storage into UTF-8 text. Single-byte
// characters pass through unchanged; two-byte characters are UTF-16LE.
// Embedded NULs survive either way.
func decodeChars(raw []byte, width uint64) (string, error) {
	switch width {
	case 1:
		return string(raw), nil
	case 2:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("printers: decode UTF-16LE string: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("printers: unsupported character width %d", width)
}
