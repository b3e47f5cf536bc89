package printers

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/internal/format"
	"github.com/choiday/boost-container-pretty-printer/snapshot"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// fixture builds synthetic container images: one memory segment plus a
// type table describing the Boost.Container layouts the decoders expect.
// Offsets are relative to base; tests lay structures out by hand.
type fixture struct {
	t    *testing.T
	tgt  *inspect.Target
	mem  []byte
	base uint64

	intT    *typeinfo.Scalar
	boolT   *typeinfo.Scalar
	charT   *typeinfo.Scalar
	wcharT  *typeinfo.Scalar
	ucharT  *typeinfo.Scalar
	sizeT   *typeinfo.Scalar
}

const fixtureBase = 0x100000

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := make([]byte, 1<<16)
	img := snapshot.NewImage()
	require.NoError(t, img.AddSegment(fixtureBase, mem))

	tab := typeinfo.NewTable()
	f := &fixture{
		t:    t,
		mem:  mem,
		base: fixtureBase,
		tgt:  &inspect.Target{Mem: img, Types: tab},

		intT:   &typeinfo.Scalar{TypeName: "int", ByteSize: 4, Signed: true},
		boolT:  &typeinfo.Scalar{TypeName: "bool", ByteSize: 1, BoolLike: true},
		charT:  &typeinfo.Scalar{TypeName: "char", ByteSize: 1, Signed: true, CharLike: true},
		wcharT: &typeinfo.Scalar{TypeName: "wchar_t", ByteSize: 2, CharLike: true},
		ucharT: &typeinfo.Scalar{TypeName: "unsigned char", ByteSize: 1},
		sizeT:  &typeinfo.Scalar{TypeName: "unsigned long", ByteSize: 8},
	}
	for _, s := range []*typeinfo.Scalar{f.intT, f.boolT, f.charT, f.wcharT, f.ucharT, f.sizeT} {
		tab.Add(s)
	}
	return f
}

func (f *fixture) table() *typeinfo.Table { return f.tgt.Types }

func (f *fixture) addr(off uint64) uint64 { return f.base + off }

func (f *fixture) putU8(off uint64, v uint8)   { f.mem[off] = v }
func (f *fixture) putU16(off uint64, v uint16) { format.PutU16(f.mem, int(off), v) }
func (f *fixture) putU32(off uint64, v uint32) { format.PutU32(f.mem, int(off), v) }
func (f *fixture) putU64(off uint64, v uint64) { format.PutU64(f.mem, int(off), v) }

func (f *fixture) value(typ typeinfo.Type, off uint64) inspect.Value {
	return f.tgt.Value(typ, f.addr(off))
}

// vectorType registers vector<elem> with the standard 24-byte holder:
// m_start at +0, m_size at +8, m_capacity at +16.
func (f *fixture) vectorType(name string, elem typeinfo.Type) *typeinfo.Struct {
	tab := f.table()
	holder := &typeinfo.Struct{
		TypeName: name + "::holder",
		ByteSize: 24,
		Fields: []typeinfo.Field{
			{FieldName: "m_start", Offset: 0, Type: tab.PointerTo(elem)},
			{FieldName: "m_size", Offset: 8, Type: f.sizeT},
			{FieldName: "m_capacity", Offset: 16, Type: f.sizeT},
		},
	}
	vec := &typeinfo.Struct{
		TypeName:     name,
		ByteSize:     24,
		Fields:       []typeinfo.Field{{FieldName: "m_holder", Offset: 0, Type: holder}},
		TemplateArgs: []typeinfo.Type{elem},
	}
	tab.Add(holder)
	tab.Add(vec)
	return vec
}

// writeVector lays out a vector header at off pointing at dataOff.
func (f *fixture) writeVector(off, dataOff, size, capacity uint64) {
	f.putU64(off, f.addr(dataOff))
	f.putU64(off+8, size)
	f.putU64(off+16, capacity)
}

// stringType registers basic_string<ch> with a 24-byte representation:
// short branch {is_short, length, data[...]}, long branch (same storage)
// {pad, length at +8, start at +16} registered as the nested long_t.
func (f *fixture) stringType(name string, ch *typeinfo.Scalar) *typeinfo.Struct {
	tab := f.table()
	shortHdr := &typeinfo.Struct{
		TypeName: name + "::short_header",
		ByteSize: 2,
		Fields: []typeinfo.Field{
			{FieldName: "is_short", Offset: 0, Type: f.boolT},
			{FieldName: "length", Offset: 1, Type: f.ucharT},
		},
	}
	dataCount := (24 - 2) / ch.ByteSize
	shortT := &typeinfo.Struct{
		TypeName: name + "::short_t",
		ByteSize: 24,
		Fields: []typeinfo.Field{
			{FieldName: "h", Offset: 0, Type: shortHdr},
			{FieldName: "data", Offset: 2, Type: &typeinfo.Array{Elem: ch, Count: dataCount}},
		},
	}
	longT := &typeinfo.Struct{
		TypeName: name + "::long_t",
		ByteSize: 24,
		Fields: []typeinfo.Field{
			{FieldName: "length", Offset: 8, Type: f.sizeT},
			{FieldName: "start", Offset: 16, Type: tab.PointerTo(ch)},
		},
	}
	repr := &typeinfo.Struct{
		TypeName: name + "::repr_t",
		ByteSize: 24,
		Fields: []typeinfo.Field{
			{FieldName: "s", Offset: 0, Type: shortT},
			{FieldName: "r", Offset: 0, Type: longT},
		},
	}
	members := &typeinfo.Struct{
		TypeName: name + "::members_holder",
		ByteSize: 24,
		Fields:   []typeinfo.Field{{FieldName: "m_repr", Offset: 0, Type: repr}},
	}
	str := &typeinfo.Struct{
		TypeName:     name,
		ByteSize:     24,
		Fields:       []typeinfo.Field{{FieldName: "members_", Offset: 0, Type: members}},
		TemplateArgs: []typeinfo.Type{ch},
	}
	for _, typ := range []typeinfo.Type{shortHdr, shortT, longT, repr, members, str} {
		tab.Add(typ)
	}
	return str
}

// writeShortString lays out a short-form string at off.
func (f *fixture) writeShortString(off uint64, raw []byte) {
	f.putU8(off, 1)
	f.putU8(off+1, uint8(len(raw)))
	copy(f.mem[off+2:], raw)
}

// writeLongString lays out a long-form string header at off with its
// character data at dataOff. length counts characters, not bytes.
func (f *fixture) writeLongString(off, dataOff, length uint64, raw []byte) {
	f.putU8(off, 0)
	f.putU64(off+8, length)
	f.putU64(off+16, f.addr(dataOff))
	copy(f.mem[dataOff:], raw)
}

// listType registers list<elem> with a 16-byte node hook {next_, prev_}
// and the root_plus_size_ header {m_header at +0, size_ at +16}.
func (f *fixture) listType(name string, elem typeinfo.Type) (*typeinfo.Struct, *typeinfo.Struct) {
	tab := f.table()
	hook := &typeinfo.Struct{TypeName: name + "::node_hook", ByteSize: 16}
	hook.Fields = []typeinfo.Field{
		{FieldName: "next_", Offset: 0, Type: tab.PointerTo(hook)},
		{FieldName: "prev_", Offset: 8, Type: tab.PointerTo(hook)},
	}
	rps := &typeinfo.Struct{
		TypeName: name + "::root_plus_size",
		ByteSize: 24,
		Fields: []typeinfo.Field{
			{FieldName: "m_header", Offset: 0, Type: hook},
			{FieldName: "size_", Offset: 16, Type: f.sizeT},
		},
	}
	data := &typeinfo.Struct{
		TypeName: name + "::data_t",
		ByteSize: 24,
		Fields:   []typeinfo.Field{{FieldName: "root_plus_size_", Offset: 0, Type: rps}},
	}
	icont := &typeinfo.Struct{
		TypeName: name + "::icont_t",
		ByteSize: 24,
		Fields:   []typeinfo.Field{{FieldName: "data_", Offset: 0, Type: data}},
	}
	members := &typeinfo.Struct{
		TypeName: name + "::members_holder",
		ByteSize: 24,
		Fields:   []typeinfo.Field{{FieldName: "m_icont", Offset: 0, Type: icont}},
	}
	list := &typeinfo.Struct{
		TypeName:     name,
		ByteSize:     24,
		Fields:       []typeinfo.Field{{FieldName: "members_", Offset: 0, Type: members}},
		TemplateArgs: []typeinfo.Type{elem},
	}
	for _, typ := range []typeinfo.Type{hook, rps, data, icont, members, list} {
		tab.Add(typ)
	}
	return list, hook
}

// writeListNode lays out one list node: hook links then the element value.
func (f *fixture) writeListNode(off, nextOff, prevOff uint64, elem int32) {
	f.putU64(off, f.addr(nextOff))
	f.putU64(off+8, f.addr(prevOff))
	f.putU32(off+16, uint32(elem))
}

// pairType registers std::pair<int, int>.
func (f *fixture) pairType(name string) *typeinfo.Struct {
	pair := &typeinfo.Struct{
		TypeName: name,
		ByteSize: 8,
		Fields: []typeinfo.Field{
			{FieldName: "first", Offset: 0, Type: f.intT},
			{FieldName: "second", Offset: 4, Type: f.intT},
		},
	}
	f.table().Add(pair)
	return pair
}

// mapType registers map<int, int> with a 24-byte tree hook
// {left_, right_, parent_} and the m_icont layout {holder at +0, size_ at
// +24}. The pair record is registered as the nested value_type.
func (f *fixture) mapType(name string) (*typeinfo.Struct, *typeinfo.Struct) {
	tab := f.table()
	hook := &typeinfo.Struct{TypeName: name + "::tree_hook", ByteSize: 24}
	hook.Fields = []typeinfo.Field{
		{FieldName: "left_", Offset: 0, Type: tab.PointerTo(hook)},
		{FieldName: "right_", Offset: 8, Type: tab.PointerTo(hook)},
		{FieldName: "parent_", Offset: 16, Type: tab.PointerTo(hook)},
	}
	holder := &typeinfo.Struct{
		TypeName: name + "::holder_t",
		ByteSize: 24,
		Fields:   []typeinfo.Field{{FieldName: "root", Offset: 0, Type: hook}},
	}
	icont := &typeinfo.Struct{
		TypeName: name + "::icont_t",
		ByteSize: 32,
		Fields: []typeinfo.Field{
			{FieldName: "holder", Offset: 0, Type: holder},
			{FieldName: "size_", Offset: 24, Type: f.sizeT},
		},
	}
	members := &typeinfo.Struct{
		TypeName: name + "::members_holder",
		ByteSize: 32,
		Fields:   []typeinfo.Field{{FieldName: "m_icont", Offset: 0, Type: icont}},
	}
	m := &typeinfo.Struct{
		TypeName: name,
		ByteSize: 32,
		Fields:   []typeinfo.Field{{FieldName: "members_", Offset: 0, Type: members}},
	}
	pair := f.pairType("std::pair<int, int>")
	for _, typ := range []typeinfo.Type{hook, holder, icont, members, m} {
		tab.Add(typ)
	}
	tab.Add(&typeinfo.Typedef{TypeName: name + "::value_type", Aliased: pair})
	return m, hook
}

// writeTreeNode lays out one tree node: links then the pair record.
// Zero link offsets write null pointers; tag marks the parent link's
// low bit.
func (f *fixture) writeTreeNode(off, leftOff, rightOff, parentOff uint64, tag uint64, key, val int32) {
	link := func(o uint64) uint64 {
		if o == 0 {
			return 0
		}
		return f.addr(o)
	}
	f.putU64(off, link(leftOff))
	f.putU64(off+8, link(rightOff))
	f.putU64(off+16, link(parentOff)|tag)
	f.putU32(off+24, uint32(key))
	f.putU32(off+28, uint32(val))
}

// writeTreeHeader lays out the m_icont region at off: the header node's
// left_ holds the leftmost shortcut, right_ the rightmost, parent_ the
// root; size_ follows at +24.
func (f *fixture) writeTreeHeader(off, leftmostOff, rightmostOff, rootOff, size uint64) {
	f.putU64(off, f.addr(leftmostOff))
	f.putU64(off+8, f.addr(rightmostOff))
	f.putU64(off+16, f.addr(rootOff))
	f.putU64(off+24, size)
}

// unorderedType registers unordered_map<int, int> with an 8-byte slist
// hook and the table_ layout {buckets_, bucket_count_, size_}.
func (f *fixture) unorderedType(name string) (*typeinfo.Struct, *typeinfo.Struct) {
	tab := f.table()
	hook := &typeinfo.Struct{TypeName: name + "::slist_hook", ByteSize: 8}
	hook.Fields = []typeinfo.Field{
		{FieldName: "next_", Offset: 0, Type: tab.PointerTo(hook)},
	}
	table := &typeinfo.Struct{
		TypeName: name + "::table_t",
		ByteSize: 24,
		Fields: []typeinfo.Field{
			{FieldName: "buckets_", Offset: 0, Type: tab.PointerTo(hook)},
			{FieldName: "bucket_count_", Offset: 8, Type: f.sizeT},
			{FieldName: "size_", Offset: 16, Type: f.sizeT},
		},
	}
	um := &typeinfo.Struct{
		TypeName: name,
		ByteSize: 24,
		Fields:   []typeinfo.Field{{FieldName: "table_", Offset: 0, Type: table}},
	}
	pair := f.pairType("std::pair<int, int>")
	for _, typ := range []typeinfo.Type{hook, table, um} {
		tab.Add(typ)
	}
	tab.Add(&typeinfo.Typedef{TypeName: name + "::value_type", Aliased: pair})
	return um, hook
}

// vecIteratorType registers a vector iterator wrapping a single int
// pointer.
func (f *fixture) vecIteratorType(name string) *typeinfo.Struct {
	it := &typeinfo.Struct{
		TypeName: name,
		ByteSize: 8,
		Fields:   []typeinfo.Field{{FieldName: "m_ptr", Offset: 0, Type: f.table().PointerTo(f.intT)}},
	}
	f.table().Add(it)
	return it
}

// listIteratorType registers the node-iterator wrapper for a list plus the
// typedef name the declared iterator type carries. hook is the list's node
// hook struct.
func (f *fixture) listIteratorType(listName string, hook *typeinfo.Struct) *typeinfo.Typedef {
	tab := f.table()
	iitMembers := &typeinfo.Struct{
		TypeName: listName + "::iit_members",
		ByteSize: 8,
		Fields:   []typeinfo.Field{{FieldName: "nodeptr_", Offset: 0, Type: tab.PointerTo(hook)}},
	}
	iit := &typeinfo.Struct{
		TypeName: listName + "::iit",
		ByteSize: 8,
		Fields:   []typeinfo.Field{{FieldName: "members_", Offset: 0, Type: iitMembers}},
	}
	wrapper := &typeinfo.Struct{
		TypeName:     "boost::container::container_detail::iterator_from_iiterator<" + listName + "::iit, false>",
		ByteSize:     8,
		Fields:       []typeinfo.Field{{FieldName: "m_iit", Offset: 0, Type: iit}},
		TemplateArgs: []typeinfo.Type{f.intT},
	}
	alias := &typeinfo.Typedef{TypeName: listName + "::iterator", Aliased: wrapper}
	for _, typ := range []typeinfo.Type{iitMembers, iit, wrapper} {
		tab.Add(typ)
	}
	tab.Add(alias)
	return alias
}

// collect drains a child iterator, failing the test on iteration errors.
func collect(t *testing.T, it ChildIter) []Child {
	t.Helper()
	if it == nil {
		return nil
	}
	var out []Child
	for {
		c, err := it.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return out
		}
		out = append(out, c)
	}
}
