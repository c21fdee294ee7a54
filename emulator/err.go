// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"strconv"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

// ErrRuntime indicates the instruction count at a runtime error.
type ErrRuntime struct {
	Tick int // Cpu.Ticks after the fault, as reported by Emulator.Summary.
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("tick %v: %v", strconv.Itoa(err.Tick), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
