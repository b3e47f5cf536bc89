package printers

import (
	"fmt"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// MapPrinter decodes a balanced-tree map or multimap. The tree cursor
// yields node addresses in key order; each node's key-value pair record
// sits one node header past the node address and is expanded into a pair
// of children, the key first, then the value from the same pair.
func MapPrinter(typename string, v inspect.Value) (*Result, error) {
	cursor, err := NewTreeCursor(v)
	if err != nil {
		return nil, err
	}
	pairType, err := v.Target().Types.Nested(v.Type(), "value_type")
	if err != nil {
		return nil, err
	}

	t := v.Target()
	pt := typeinfo.Strip(pairType)
	fetch := func() (inspect.Value, error) {
		node, err := cursor.Next()
		if err != nil {
			return inspect.Value{}, err
		}
		return t.Value(pt, node.Address()+node.Type().Size()), nil
	}

	return &Result{
		Summary:  fmt.Sprintf("%s with %d elements", typename, cursor.Len()),
		Hint:     HintMap,
		Children: &pairIter{fetch: fetch},
	}, nil
}

// pairIter expands a sequence of pair records 2:1 into alternating key and
// value children. Even steps fetch a fresh pair and surface its first
// component; odd steps reuse the held pair and surface its second. The
// expansion assumes in-order, single-threaded consumption: a value child
// always follows its key child with nothing interleaved.
type pairIter struct {
	fetch func() (inspect.Value, error)
	pair  inspect.Value
	count uint64
}

func (it *pairIter) Next() (Child, error) {
	var item inspect.Value
	if it.count%2 == 0 {
		pair, err := it.fetch()
		if err != nil {
			return Child{}, err
		}
		it.pair = pair
		if item, err = pair.Field("first"); err != nil {
			return Child{}, err
		}
	} else {
		var err error
		if item, err = it.pair.Field("second"); err != nil {
			return Child{}, err
		}
	}
	label := "key"
	if it.count%2 == 1 {
		label = "value"
	}
	it.count++
	return Child{Label: label, Value: item}, nil
}
