// Package printers implements the container decoders: per-kind algorithms
// that reconstruct the logical contents of Boost.Container data structures
// from their in-memory layout, plus the registry that dispatches a concrete
// type name to the right decoder.
//
// Decoders never validate the inspected containers beyond the field reads
// they need. The containers are assumed well-formed; a lying size field or
// a corrupt link produces truncated or garbage output, not a crash, and no
// hidden validation is attempted on top of that.
package printers

import (
	"io"

	"github.com/choiday/boost-container-pretty-printer/inspect"
)

// Hint tells the renderer which display style suits the result.
type Hint int

const (
	HintNone Hint = iota
	HintString
	HintArray
	HintList
	HintMap
)

// Child is one named element of a decoded container.
type Child struct {
	Label string
	Value inspect.Value
}

// ChildIter produces a container's children one at a time, on demand.
// Next returns io.EOF after the last child. Abandoning an iterator early
// is always safe; no resources are held between calls.
type ChildIter interface {
	Next() (Child, error)
}

// Result is a decoded view of one value: a summary line, a display hint,
// and a lazy child sequence. Children is nil for leaf results.
type Result struct {
	Summary  string
	Hint     Hint
	Children ChildIter
}

// oneChild yields a single child and then io.EOF. Iterator printers use it
// to surface the pointed-to value without a summary line.
type oneChild struct {
	child Child
	done  bool
}

func (it *oneChild) Next() (Child, error) {
	if it.done {
		return Child{}, io.EOF
	}
	it.done = true
	return it.child, nil
}
