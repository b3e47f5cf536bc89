package printers

import (
	"fmt"
	"io"

	"github.com/choiday/boost-container-pretty-printer/inspect"
)

// VectorPrinter decodes a growable array from its holder fields: a start
// pointer, a logical size and an allocated capacity. Children are the
// first size elements behind the start pointer; the size field is trusted
// as-is, there is nothing else to check it against.
func VectorPrinter(typename string, v inspect.Value) (*Result, error) {
	holder, err := v.Field("m_holder")
	if err != nil {
		return nil, err
	}
	start, err := holder.Field("m_start")
	if err != nil {
		return nil, err
	}
	sizeField, err := holder.Field("m_size")
	if err != nil {
		return nil, err
	}
	size, err := sizeField.Uint()
	if err != nil {
		return nil, err
	}
	capField, err := holder.Field("m_capacity")
	if err != nil {
		return nil, err
	}
	capacity, err := capField.Uint()
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary:  fmt.Sprintf("%s of length %d, capacity %d", typename, size, capacity),
		Hint:     HintArray,
		Children: &vectorIter{start: start, size: size},
	}, nil
}

type vectorIter struct {
	start inspect.Value
	size  uint64
	count uint64
}

func (it *vectorIter) Next() (Child, error) {
	if it.count == it.size {
		return Child{}, io.EOF
	}
	elem, err := it.start.Index(it.count)
	if err != nil {
		return Child{}, err
	}
	label := fmt.Sprintf("[%d]", it.count)
	it.count++
	return Child{Label: label, Value: elem}, nil
}

// VectorIteratorPrinter decodes a vector iterator: a single raw pointer,
// rendered as the element it points at. No summary line.
func VectorIteratorPrinter(typename string, v inspect.Value) (*Result, error) {
	ptr, err := v.Field("m_ptr")
	if err != nil {
		return nil, err
	}
	elem, err := ptr.Deref()
	if err != nil {
		return nil, err
	}
	return &Result{Children: &oneChild{child: Child{Value: elem}}}, nil
}
