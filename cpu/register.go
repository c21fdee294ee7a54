// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
)

// CodeReg is a register index, as decoded from a register field.
type CodeReg int

const (
	REG_R0   = CodeReg(0)  // r0
	REG_R1   = CodeReg(1)  // r1
	REG_R2   = CodeReg(2)  // r2
	REG_R3   = CodeReg(3)  // r3
	REG_R4   = CodeReg(4)  // r4
	REG_R5   = CodeReg(5)  // r5
	REG_R6   = CodeReg(6)  // r6
	REG_R7   = CodeReg(7)  // r7
	REG_R8   = CodeReg(8)  // r8
	REG_R9   = CodeReg(9)  // r9
	REG_R10  = CodeReg(10) // r10
	REG_R11  = CodeReg(11) // r11
	REG_R12  = CodeReg(12) // r12
	REG_R13  = CodeReg(13) // r13
	REG_R14  = CodeReg(14) // r14
	REG_R15  = CodeReg(15) // r15
	REG_PC   = CodeReg(16) // pc
	REG_REM  = CodeReg(17) // rem
	REG_COND = CodeReg(18) // cond
	REG_COMP = CodeReg(19) // comp

	REGISTER_COUNT = 20
)

var _reg_names = [REGISTER_COUNT]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
	"pc", "rem", "cond", "comp",
}

// Valid returns true if the index names a register.
func (reg CodeReg) Valid() bool {
	return reg >= 0 && reg < REGISTER_COUNT
}

func (reg CodeReg) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("CodeReg(%d)", int(reg))
	}
	return _reg_names[reg]
}

// Registers iterates over all registers, by name, in index order.
func Registers() iter.Seq2[string, CodeReg] {
	return func(yield func(string, CodeReg) bool) {
		for reg := range CodeReg(REGISTER_COUNT) {
			if !yield(reg.String(), reg) {
				return
			}
		}
	}
}

// CodeFlag is a condition register value.
// Exactly one flag is set after any flag-updating instruction.
type CodeFlag uint32

const (
	FLAG_POSITIVE = CodeFlag(0b001) // positive
	FLAG_ZERO     = CodeFlag(0b010) // zero
	FLAG_NEGATIVE = CodeFlag(0b100) // negative
)

func (flag CodeFlag) String() string {
	switch flag {
	case FLAG_POSITIVE:
		return "positive"
	case FLAG_ZERO:
		return "zero"
	case FLAG_NEGATIVE:
		return "negative"
	}
	return fmt.Sprintf("CodeFlag(0b%03b)", uint32(flag))
}

// FlagOf returns the condition flag for a value, read as signed.
func FlagOf(value uint32) CodeFlag {
	switch v := int32(value); {
	case v == 0:
		return FLAG_ZERO
	case v > 0:
		return FLAG_POSITIVE
	default:
		return FLAG_NEGATIVE
	}
}

// RegisterFile is the bank of all machine registers.
type RegisterFile [REGISTER_COUNT]uint32

// Get returns the value of a register.
func (rf *RegisterFile) Get(reg CodeReg) (value uint32, err error) {
	if !reg.Valid() {
		err = ErrRegister(reg)
		return
	}

	value = rf[reg]
	return
}

// Set writes the value of a register.
func (rf *RegisterFile) Set(reg CodeReg, value uint32) (err error) {
	if !reg.Valid() {
		err = ErrRegister(reg)
		return
	}

	rf[reg] = value
	return
}

// UpdateFlags sets the condition register from the signed value of reg.
func (rf *RegisterFile) UpdateFlags(reg CodeReg) (err error) {
	value, err := rf.Get(reg)
	if err != nil {
		return
	}

	rf[REG_COND] = uint32(FlagOf(value))
	return
}

// Flag returns the condition register.
func (rf *RegisterFile) Flag() CodeFlag {
	return CodeFlag(rf[REG_COND])
}

// Reset zeroes all registers.
func (rf *RegisterFile) Reset() {
	clear(rf[:])
}
