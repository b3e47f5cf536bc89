//go:build linux || darwin

package snapshot

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps a raw memory dump read-only and exposes it as a single segment
// based at base. The mapping is shared with the page cache, so large dumps
// cost address space rather than resident memory.
func Open(path string, base uint64) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("snapshot: empty dump file: %s", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(sz), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("snapshot: mmap failed: %w", err)
	}

	img := &Image{f: f, mapped: data}
	if err := img.AddSegment(base, data); err != nil {
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, err
	}
	return img, nil
}

// Close unmaps and releases a file-backed image. Safe on in-memory images.
func (img *Image) Close() error {
	var err error
	if img.mapped != nil {
		_ = unix.Munmap(img.mapped)
		img.mapped = nil
	}
	if img.f != nil {
		err = img.f.Close()
		img.f = nil
	}
	img.segs = nil
	return err
}
