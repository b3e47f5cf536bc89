package format

import "errors"

var (
	// ErrOutOfRange indicates an address range fell outside every mapped segment.
	ErrOutOfRange = errors.New("format: address out of range")
	// ErrTruncated indicates the buffer lacked the bytes required for a read.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadWidth indicates a scalar read with an unsupported byte width.
	ErrBadWidth = errors.New("format: unsupported scalar width")
)
