package printers

import (
	"fmt"
	"io"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// ListPrinter decodes a doubly-linked list. The intrusive header node
// doubles as the termination sentinel: traversal starts at header.next_
// and stops when a link points back at the header's own address. Each
// node stores its element immediately after the link fields.
func ListPrinter(typename string, v inspect.Value) (*Result, error) {
	icont, err := v.Path("members_", "m_icont")
	if err != nil {
		return nil, err
	}
	rps, err := icont.Path("data_", "root_plus_size_")
	if err != nil {
		return nil, err
	}
	sizeField, err := rps.Field("size_")
	if err != nil {
		return nil, err
	}
	size, err := sizeField.Uint()
	if err != nil {
		return nil, err
	}
	header, err := rps.Field("m_header")
	if err != nil {
		return nil, err
	}
	next, err := header.Field("next_")
	if err != nil {
		return nil, err
	}
	hookPtr, ok := typeinfo.Strip(next.Type()).(*typeinfo.Pointer)
	if !ok {
		return nil, fmt.Errorf("printers: list next_ link is %s, not a pointer", next.Type().Name())
	}
	head, err := next.Uint()
	if err != nil {
		return nil, err
	}

	st, ok := typeinfo.Strip(v.Type()).(*typeinfo.Struct)
	if !ok {
		return nil, fmt.Errorf("printers: %s is not a struct", v.Type().Name())
	}
	valType, err := st.TemplateArg(0)
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("%s with %d elements", typename, size),
		Hint:    HintList,
		Children: &listIter{
			t:        v.Target(),
			hook:     hookPtr.Elem,
			valType:  typeinfo.Strip(valType),
			cur:      head,
			sentinel: header.Address(),
		},
	}, nil
}

type listIter struct {
	t        *inspect.Target
	hook     typeinfo.Type
	valType  typeinfo.Type
	cur      uint64
	sentinel uint64
	count    uint64
}

func (it *listIter) Next() (Child, error) {
	if it.cur == it.sentinel || it.cur == 0 {
		return Child{}, io.EOF
	}
	node := it.t.Value(it.hook, it.cur)
	next, err := node.Field("next_")
	if err != nil {
		return Child{}, err
	}
	cur, err := next.Uint()
	if err != nil {
		return Child{}, err
	}
	// The element record sits one hook header past the node address.
	elem := it.t.Value(it.valType, it.cur+it.hook.Size())
	label := fmt.Sprintf("[%d]", it.count)
	it.count++
	it.cur = cur
	return Child{Label: label, Value: elem}, nil
}
