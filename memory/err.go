// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	ErrWidth = errors.New(f("access width invalid"))
)

// ErrOutOfBounds is returned for any access whose byte range exceeds the
// memory size.
type ErrOutOfBounds struct {
	Address uint32 // First byte of the access.
	Width   int    // Width of the access, in bytes.
	Size    int    // Size of the memory, in bytes.
}

func (err *ErrOutOfBounds) Error() string {
	return f("address 0x%08x width %v out of bounds (size 0x%x)", err.Address, err.Width, err.Size)
}

func (err *ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(*ErrOutOfBounds)
	return
}
