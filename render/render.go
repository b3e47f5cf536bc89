// Package render turns dispatch results into indented text. It sits on the
// host side of the printer interface: summaries come back verbatim, child
// values are rendered through recursive dispatch, and anything without a
// printer falls back to scalar formatting.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/printers"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

const (
	DefaultIndentSize  = 2
	DefaultMaxElements = 64
	DefaultMaxDepth    = 8
)

// Options controls rendering behavior.
type Options struct {
	// IndentSize is the number of spaces per nesting level.
	// Default: 2
	IndentSize int

	// MaxElements limits how many children of a single container are
	// rendered before truncating with an ellipsis. Set to 0 for no limit.
	// Default: 64
	MaxElements int

	// MaxDepth limits recursion into nested containers (0 = unlimited).
	// Default: 8
	MaxDepth int

	// MaxStringBytes limits how many bytes of a decoded string summary are
	// shown (0 = unlimited). Default: 0
	MaxStringBytes int

	// ShowAddresses prefixes each rendered value with its address.
	// Default: false
	ShowAddresses bool
}

// DefaultOptions returns sensible defaults for rendering.
func DefaultOptions() Options {
	return Options{
		IndentSize:  DefaultIndentSize,
		MaxElements: DefaultMaxElements,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Renderer formats inspected values through a printer registry.
type Renderer struct {
	reg    *printers.Registry
	opts   Options
	writer io.Writer
}

// New creates a Renderer writing to w.
func New(reg *printers.Registry, w io.Writer, opts Options) *Renderer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Renderer{reg: reg, opts: opts, writer: w}
}

// Render formats one named value, containers expanded recursively.
func (r *Renderer) Render(name string, v inspect.Value) error {
	fmt.Fprintf(r.writer, "%s = ", name)
	return r.renderValue(v, 0)
}

func (r *Renderer) renderValue(v inspect.Value, depth int) error {
	res, err := r.reg.Dispatch(v)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Fprintf(r.writer, "%s\n", r.scalarString(v))
		return nil
	}

	if res.Summary != "" {
		if res.Hint == printers.HintString {
			s := res.Summary
			if r.opts.MaxStringBytes > 0 && len(s) > r.opts.MaxStringBytes {
				fmt.Fprintf(r.writer, "%q...\n", s[:r.opts.MaxStringBytes])
			} else {
				fmt.Fprintf(r.writer, "%q\n", s)
			}
		} else {
			fmt.Fprintf(r.writer, "%s\n", res.Summary)
		}
	}
	if res.Children == nil {
		return nil
	}
	if r.opts.MaxDepth > 0 && depth >= r.opts.MaxDepth {
		fmt.Fprintf(r.writer, "%s...\n", r.indent(depth+1))
		return nil
	}
	return r.renderChildren(res.Children, res.Summary == "", depth)
}

func (r *Renderer) renderChildren(it printers.ChildIter, inline bool, depth int) error {
	for count := 0; ; count++ {
		child, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if r.opts.MaxElements > 0 && count >= r.opts.MaxElements {
			fmt.Fprintf(r.writer, "%s...\n", r.indent(depth+1))
			return nil
		}
		if inline && child.Label == "" {
			// Iterator results: a single unlabeled child stands in for
			// the whole value.
			if err := r.renderValue(child.Value, depth); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(r.writer, "%s%s = ", r.indent(depth+1), child.Label)
		if r.opts.ShowAddresses {
			fmt.Fprintf(r.writer, "<%#x> ", child.Value.Address())
		}
		if err := r.renderValue(child.Value, depth+1); err != nil {
			return err
		}
	}
}

func (r *Renderer) indent(depth int) string {
	return strings.Repeat(" ", depth*r.opts.IndentSize)
}

// scalarString formats a value no printer claimed. Scalars print by kind;
// pointers print as addresses; anything else prints as its type name.
func (r *Renderer) scalarString(v inspect.Value) string {
	switch t := typeinfo.Strip(typeinfo.Unref(v.Type())).(type) {
	case *typeinfo.Scalar:
		switch {
		case t.BoolLike:
			b, err := v.Bool()
			if err != nil {
				return readError(err)
			}
			return fmt.Sprintf("%t", b)
		case t.CharLike:
			u, err := v.Uint()
			if err != nil {
				return readError(err)
			}
			return fmt.Sprintf("%d %q", u, rune(u))
		case t.Signed:
			n, err := v.Int()
			if err != nil {
				return readError(err)
			}
			return fmt.Sprintf("%d", n)
		default:
			u, err := v.Uint()
			if err != nil {
				return readError(err)
			}
			return fmt.Sprintf("%d", u)
		}
	case *typeinfo.Pointer:
		u, err := v.Uint()
		if err != nil {
			return readError(err)
		}
		return fmt.Sprintf("(%s) %#x", t.Name(), u)
	default:
		return fmt.Sprintf("<%s>", v.Type().Name())
	}
}

func readError(err error) string {
	return fmt.Sprintf("<unreadable: %v>", err)
}
