package codec

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrShortBuffer is returned when a register block is shorter than its fixed layout.
	ErrShortBuffer = errors.New("short buffer")

	// ErrOutOfRange is returned when a register holds a value outside its documented range.
	ErrOutOfRange = errors.New("value out of range")
)

func checkLen(b []byte, want int, what string) error {
	if len(b) < want {
		return pkgerrors.Wrapf(ErrShortBuffer, "%s: need %d bytes, got %d", what, want, len(b))
	}
	return nil
}
