package printers

// The tree nodes store their red/black color in the least-significant bit
// of the parent pointer. Node addresses are at least 2-byte aligned, so the
// bit is free for the flag and must be cleared before the value is used as
// an address.
const (
	parentTagBits = 1
	parentTagMask = uint64(1)<<parentTagBits - 1
)

// ClearParentTag strips the color tag from a parent link, recovering the
// parent node's address.
func ClearParentTag(addr uint64) uint64 {
	return addr &^ parentTagMask
}
