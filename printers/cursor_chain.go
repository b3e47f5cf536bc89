package printers

import (
	"fmt"
	"io"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// ChainCursor walks the single forward-linked chain that threads every
// entry of a hash table, regardless of bucket boundaries. The chain is
// anchored at the sentinel slot one past the last real bucket, and ends
// when a link points back at that slot (or is null).
type ChainCursor struct {
	t        *inspect.Target
	nodeType typeinfo.Type // node hook struct carrying next_
	cur      uint64
	sentinel uint64
	done     bool
}

// NewChainCursor positions a cursor on the chain head of an unordered
// container value.
func NewChainCursor(table inspect.Value) (*ChainCursor, error) {
	buckets, err := table.Path("table_", "buckets_")
	if err != nil {
		return nil, err
	}
	countField, err := table.Path("table_", "bucket_count_")
	if err != nil {
		return nil, err
	}
	count, err := countField.Uint()
	if err != nil {
		return nil, err
	}
	// The slot after the last bucket holds the chain head.
	slot, err := buckets.Index(count)
	if err != nil {
		return nil, err
	}
	next, err := slot.Field("next_")
	if err != nil {
		return nil, err
	}
	ptr, ok := typeinfo.Strip(next.Type()).(*typeinfo.Pointer)
	if !ok {
		return nil, fmt.Errorf("printers: bucket next_ link is %s, not a pointer", next.Type().Name())
	}
	head, err := next.Uint()
	if err != nil {
		return nil, err
	}
	return &ChainCursor{
		t:        table.Target(),
		nodeType: ptr.Elem,
		cur:      head,
		sentinel: next.Address(),
		done:     false,
	}, nil
}

// NodeType returns the hook struct the chain links point at.
func (c *ChainCursor) NodeType() typeinfo.Type {
	return c.nodeType
}

// Next returns the current chain node as a struct view and follows its
// forward link. Returns io.EOF when the chain closes on the sentinel or
// hits a null link.
func (c *ChainCursor) Next() (inspect.Value, error) {
	if c.done || c.cur == 0 || c.cur == c.sentinel {
		c.done = true
		return inspect.Value{}, io.EOF
	}
	node := c.t.Value(c.nodeType, c.cur)
	next, err := node.Field("next_")
	if err != nil {
		return inspect.Value{}, err
	}
	cur, err := next.Uint()
	if err != nil {
		return inspect.Value{}, err
	}
	c.cur = cur
	return node, nil
}
