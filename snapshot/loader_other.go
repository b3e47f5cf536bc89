//go:build !linux && !darwin

package snapshot

import (
	"fmt"
	"io"
	"os"
)

// Open loads a raw memory dump into memory on platforms without mmap support
// and exposes it as a single segment based at base.
func Open(path string, base uint64) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		f.Close()
		return nil, fmt.Errorf("snapshot: empty dump file: %s", path)
	}

	buf := make([]byte, sz)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, err
	}

	img := &Image{f: f}
	if err := img.AddSegment(base, buf); err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

// Close releases a file-backed image. Safe on in-memory images.
func (img *Image) Close() error {
	var err error
	if img.f != nil {
		err = img.f.Close()
		img.f = nil
	}
	img.segs = nil
	return err
}
