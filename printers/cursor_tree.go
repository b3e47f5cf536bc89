package printers

import (
	"fmt"
	"io"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// TreeCursor walks a red-black tree in key order without recursion or an
// explicit stack, using only the left_/right_/parent_ links recovered from
// node memory. One cursor serves one traversal; cursors are never shared
// or reused across decode calls.
type TreeCursor struct {
	t        *inspect.Target
	nodeType typeinfo.Type // node hook struct carrying the links
	cur      uint64
	size     uint64
	count    uint64
}

// NewTreeCursor positions a cursor on the leftmost node of the tree inside
// a map or multimap value. The element count comes from the container's
// stored size field, never from counting nodes.
func NewTreeCursor(tree inspect.Value) (*TreeCursor, error) {
	icont, err := tree.Path("members_", "m_icont")
	if err != nil {
		return nil, err
	}
	sizeField, err := icont.Field("size_")
	if err != nil {
		return nil, err
	}
	size, err := sizeField.Uint()
	if err != nil {
		return nil, err
	}
	// The header keeps a leftmost-node shortcut in its left link.
	leftmost, err := icont.Path("holder", "root", "left_")
	if err != nil {
		return nil, err
	}
	ptr, ok := typeinfo.Strip(leftmost.Type()).(*typeinfo.Pointer)
	if !ok {
		return nil, fmt.Errorf("printers: tree left_ link is %s, not a pointer", leftmost.Type().Name())
	}
	cur, err := leftmost.Uint()
	if err != nil {
		return nil, err
	}
	return &TreeCursor{
		t:        tree.Target(),
		nodeType: ptr.Elem,
		cur:      cur,
		size:     size,
	}, nil
}

// Len returns the tree's stored element count.
func (c *TreeCursor) Len() uint64 {
	return c.size
}

// Next returns the current node as a struct view and advances the cursor.
// Nodes come back in ascending key order. Returns io.EOF once the stored
// size has been exhausted.
func (c *TreeCursor) Next() (inspect.Value, error) {
	if c.count == c.size {
		return inspect.Value{}, io.EOF
	}
	node := c.t.Value(c.nodeType, c.cur)
	c.count++
	if c.count < c.size {
		if err := c.advance(); err != nil {
			return inspect.Value{}, err
		}
	}
	return node, nil
}

// link reads a named link field of the node at addr.
func (c *TreeCursor) link(addr uint64, name string) (uint64, error) {
	f, err := c.t.Value(c.nodeType, addr).Field(name)
	if err != nil {
		return 0, err
	}
	return f.Uint()
}

// advance computes the in-order successor of the current node. With a
// right subtree, the successor is that subtree's leftmost node. Without
// one, the cursor climbs tag-cleared parent links while the node is its
// parent's right child; the root boundary is recognized when the climbed-to
// node's right child is not the tracked parent.
func (c *TreeCursor) advance() error {
	node := c.cur
	right, err := c.link(node, "right_")
	if err != nil {
		return err
	}
	if right != 0 {
		node = right
		for {
			left, err := c.link(node, "left_")
			if err != nil {
				return err
			}
			if left == 0 {
				break
			}
			node = left
		}
	} else {
		parentRaw, err := c.link(node, "parent_")
		if err != nil {
			return err
		}
		parent := ClearParentTag(parentRaw)
		for {
			pright, err := c.link(parent, "right_")
			if err != nil {
				return err
			}
			if node != pright {
				break
			}
			node = parent
			praw, err := c.link(parent, "parent_")
			if err != nil {
				return err
			}
			parent = ClearParentTag(praw)
		}
		nright, err := c.link(node, "right_")
		if err != nil {
			return err
		}
		if nright != parent {
			node = parent
		}
	}
	c.cur = node
	return nil
}
