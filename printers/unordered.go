package printers

import (
	"fmt"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// UnorderedMapPrinter decodes a hash map. Entries come from the bucket
// chain in storage order (neither insertion nor key order); each chain
// node's pair record sits two hook headers past the node address. The
// element count is the table's stored size field.
func UnorderedMapPrinter(typename string, v inspect.Value) (*Result, error) {
	sizeField, err := v.Path("table_", "size_")
	if err != nil {
		return nil, err
	}
	size, err := sizeField.Uint()
	if err != nil {
		return nil, err
	}
	cursor, err := NewChainCursor(v)
	if err != nil {
		return nil, err
	}
	pairType, err := v.Target().Types.Nested(v.Type(), "value_type")
	if err != nil {
		return nil, err
	}

	t := v.Target()
	pt := typeinfo.Strip(pairType)
	hookSize := cursor.NodeType().Size()
	fetch := func() (inspect.Value, error) {
		node, err := cursor.Next()
		if err != nil {
			return inspect.Value{}, err
		}
		return t.Value(pt, node.Address()+2*hookSize), nil
	}

	return &Result{
		Summary:  fmt.Sprintf("%s with %d elements", typename, size),
		Hint:     HintMap,
		Children: &pairIter{fetch: fetch},
	}, nil
}
