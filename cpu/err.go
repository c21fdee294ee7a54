// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrChannelMissing = errors.New(f("channel missing"))
	ErrHalted         = errors.New(f("halted"))
)

// ErrOpcode is an opcode with no instruction handler.
type ErrOpcode CodeOp

func (eo ErrOpcode) Error() string {
	return f("unknown opcode 0x%02x", int(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrRegister is a register field that names no register.
type ErrRegister CodeReg

func (er ErrRegister) Error() string {
	return f("register field %v invalid", int(er))
}

func (er ErrRegister) Is(err error) (ok bool) {
	_, ok = err.(ErrRegister)
	return
}

// ErrTrapVector is a trap vector with no handler. It is not fatal.
type ErrTrapVector CodeTrap

func (et ErrTrapVector) Error() string {
	return f("unknown trap vector 0x%02x", int(et))
}

func (et ErrTrapVector) Is(err error) (ok bool) {
	_, ok = err.(ErrTrapVector)
	return
}

// ErrInstruction locates a fault at the instruction that raised it.
type ErrInstruction struct {
	Pc   uint32 // Address of the faulting instruction.
	Code Code   // The faulting instruction.
}

func (err ErrInstruction) Error() string {
	return f("0x%08x: %v", err.Pc, err.Code.String())
}
