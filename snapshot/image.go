// Package snapshot provides read-only access to a captured memory image of
// an inspected process. An image is a set of non-overlapping segments, each
// mapping an address range onto raw bytes. Reads are zero-copy views into
// the backing storage; the image is treated as a frozen snapshot and is
// never mutated by the decoding layers.
package snapshot

import (
	"fmt"
	"os"
	"sort"

	"github.com/choiday/boost-container-pretty-printer/internal/format"
)

// Read failures wrap one of these sentinels so callers outside the module
// can test for them.
var (
	ErrOutOfRange = format.ErrOutOfRange
	ErrTruncated  = format.ErrTruncated
)

// Segment maps a contiguous address range onto its captured bytes.
type Segment struct {
	Addr uint64
	Data []byte
}

// End returns the first address past the segment.
func (s Segment) End() uint64 {
	return s.Addr + uint64(len(s.Data))
}

// Image is a collection of segments, kept sorted by address.
type Image struct {
	segs []Segment

	// Set when the image is backed by a mapped or loaded file.
	f      *os.File
	mapped []byte
}

// NewImage returns an empty image. Segments are added with AddSegment.
func NewImage() *Image {
	return &Image{}
}

// AddSegment registers the byte range [addr, addr+len(data)) in the image.
// Overlapping an existing segment is rejected; adjacent segments are fine.
func (img *Image) AddSegment(addr uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	end := addr + uint64(len(data))
	if end < addr {
		return fmt.Errorf("snapshot: segment at %#x wraps the address space", addr)
	}
	for _, s := range img.segs {
		if addr < s.End() && s.Addr < end {
			return fmt.Errorf("snapshot: segment [%#x,%#x) overlaps [%#x,%#x)",
				addr, end, s.Addr, s.End())
		}
	}
	img.segs = append(img.segs, Segment{Addr: addr, Data: data})
	sort.Slice(img.segs, func(i, j int) bool { return img.segs[i].Addr < img.segs[j].Addr })
	return nil
}

// Segments returns the segments in address order.
func (img *Image) Segments() []Segment {
	return img.segs
}

// find locates the segment containing addr, if any.
func (img *Image) find(addr uint64) (Segment, bool) {
	i := sort.Search(len(img.segs), func(i int) bool { return img.segs[i].End() > addr })
	if i == len(img.segs) || addr < img.segs[i].Addr {
		return Segment{}, false
	}
	return img.segs[i], true
}

// ReadBytes returns the n bytes at addr as a view into the backing segment.
// The whole range must lie inside a single segment.
func (img *Image) ReadBytes(addr, n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	seg, ok := img.find(addr)
	if !ok {
		return nil, fmt.Errorf("snapshot: read %d bytes at %#x: %w", n, addr, format.ErrOutOfRange)
	}
	off := addr - seg.Addr
	if off+n > uint64(len(seg.Data)) {
		return nil, fmt.Errorf("snapshot: read %d bytes at %#x: %w", n, addr, format.ErrTruncated)
	}
	return seg.Data[off : off+n], nil
}

// ReadUint reads an unsigned little-endian scalar of the given byte width.
func (img *Image) ReadUint(addr, width uint64) (uint64, error) {
	b, err := img.ReadBytes(addr, width)
	if err != nil {
		return 0, err
	}
	v, ok := format.ReadUint(b, int(width))
	if !ok {
		return 0, fmt.Errorf("snapshot: scalar at %#x: %w", addr, format.ErrBadWidth)
	}
	return v, nil
}

// Contains reports whether addr falls inside a mapped segment.
func (img *Image) Contains(addr uint64) bool {
	_, ok := img.find(addr)
	return ok
}
