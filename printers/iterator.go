package printers

import (
	"fmt"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// IteratorPrinter decodes a node-based container iterator. The element
// type comes from the value_type alias that lives beside the iterator in
// the owning container's scope; when the capture lacks that alias, the
// iterator's first template argument serves instead. The element record
// sits one node header past the wrapped node pointer.
func IteratorPrinter(typename string, v inspect.Value) (*Result, error) {
	valType, err := iteratorValueType(v)
	if err != nil {
		return nil, err
	}
	nodeptr, err := v.Path("m_iit", "members_", "nodeptr_")
	if err != nil {
		return nil, err
	}
	hookPtr, ok := typeinfo.Strip(nodeptr.Type()).(*typeinfo.Pointer)
	if !ok {
		return nil, fmt.Errorf("printers: iterator nodeptr_ is %s, not a pointer", nodeptr.Type().Name())
	}
	addr, err := nodeptr.Uint()
	if err != nil {
		return nil, err
	}
	elem := v.Target().Value(typeinfo.Strip(valType), addr+hookPtr.Elem.Size())
	return &Result{Children: &oneChild{child: Child{Value: elem}}}, nil
}

func iteratorValueType(v inspect.Value) (typeinfo.Type, error) {
	// The declared (possibly typedef'd) name carries the owning scope,
	// e.g. list<int>::iterator; strip the last component and look up the
	// sibling value_type alias.
	if scope, ok := typeinfo.EnclosingScope(v.Type().Name()); ok {
		if vt, err := v.Target().Types.Resolve(scope + "::value_type"); err == nil {
			return vt, nil
		}
	}
	if st, ok := typeinfo.Strip(v.Type()).(*typeinfo.Struct); ok {
		if vt, err := st.TemplateArg(0); err == nil {
			return vt, nil
		}
	}
	return nil, fmt.Errorf("printers: cannot determine value type of iterator %s: %w",
		v.Type().Name(), typeinfo.ErrTypeNotFound)
}
