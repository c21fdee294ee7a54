// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
)

const (
	WORD_SIZE = 4 // Instruction and data word width, in bytes.
)

// Instruction word layout.
const (
	CODE_OP_SHIFT   = 27
	CODE_OP_MASK    = 0x1f
	CODE_REG1_SHIFT = 22
	CODE_REG2_SHIFT = 17
	CODE_REG_MASK   = 0x1f
	CODE_RESERVED   = 1 << 16
	CODE_IMM_MASK   = 0xffff
	CODE_TRAP_MASK  = 0xff
)

// CodeOp is an opcode.
type CodeOp int

const (
	OP_ADD     = CodeOp(0x01) // add
	OP_SUB     = CodeOp(0x02) // sub
	OP_MUL     = CodeOp(0x03) // mul
	OP_DIV     = CodeOp(0x04) // div
	OP_AND     = CodeOp(0x05) // and
	OP_OR      = CodeOp(0x06) // or
	OP_XOR     = CodeOp(0x07) // xor
	OP_NOT     = CodeOp(0x08) // not
	OP_SHL     = CodeOp(0x09) // shl
	OP_SHR     = CodeOp(0x0a) // shr
	OP_CMP_EQ  = CodeOp(0x0b) // cmp_eq
	OP_CMP_NEQ = CodeOp(0x0c) // cmp_neq
	OP_CMP_GT  = CodeOp(0x0d) // cmp_gt
	OP_CMP_LT  = CodeOp(0x0e) // cmp_lt
	OP_LOAD    = CodeOp(0x0f) // load
	OP_STORE   = CodeOp(0x10) // store
	OP_LDI     = CodeOp(0x11) // ldi
	OP_STI     = CodeOp(0x12) // sti
	OP_LEA     = CodeOp(0x13) // lea
	OP_JMP_ABS = CodeOp(0x14) // jmp_abs
	OP_JMP_REL = CodeOp(0x15) // jmp_rel
	OP_INPUT   = CodeOp(0x16) // input
	OP_OUTPUT  = CodeOp(0x17) // output
	OP_TRAP    = CodeOp(0x18) // trap
	OP_HALT    = CodeOp(0x1f) // halt
)

var _op_names = map[CodeOp]string{
	OP_ADD:     "add",
	OP_SUB:     "sub",
	OP_MUL:     "mul",
	OP_DIV:     "div",
	OP_AND:     "and",
	OP_OR:      "or",
	OP_XOR:     "xor",
	OP_NOT:     "not",
	OP_SHL:     "shl",
	OP_SHR:     "shr",
	OP_CMP_EQ:  "cmp_eq",
	OP_CMP_NEQ: "cmp_neq",
	OP_CMP_GT:  "cmp_gt",
	OP_CMP_LT:  "cmp_lt",
	OP_LOAD:    "load",
	OP_STORE:   "store",
	OP_LDI:     "ldi",
	OP_STI:     "sti",
	OP_LEA:     "lea",
	OP_JMP_ABS: "jmp_abs",
	OP_JMP_REL: "jmp_rel",
	OP_INPUT:   "input",
	OP_OUTPUT:  "output",
	OP_TRAP:    "trap",
	OP_HALT:    "halt",
}

// Valid returns true if the opcode has an instruction handler.
func (op CodeOp) Valid() bool {
	_, ok := _op_names[op]
	return ok
}

func (op CodeOp) String() string {
	name, ok := _op_names[op]
	if !ok {
		return fmt.Sprintf("CodeOp(0x%02x)", int(op))
	}
	return name
}

// Ops iterates over all valid opcodes, by name.
func Ops() iter.Seq2[string, CodeOp] {
	return func(yield func(string, CodeOp) bool) {
		for op := CodeOp(0); op <= CODE_OP_MASK; op++ {
			if !op.Valid() {
				continue
			}
			if !yield(op.String(), op) {
				return
			}
		}
	}
}

// Code is a single 32-bit instruction word.
type Code uint32

// MakeCode creates an instruction word from its fields.
// Out of range fields are truncated to their width.
func MakeCode(op CodeOp, reg1, reg2 CodeReg, imm uint16) Code {
	return Code((uint32(op)&CODE_OP_MASK)<<CODE_OP_SHIFT |
		(uint32(reg1)&CODE_REG_MASK)<<CODE_REG1_SHIFT |
		(uint32(reg2)&CODE_REG_MASK)<<CODE_REG2_SHIFT |
		uint32(imm))
}

// MakeCodeTrap creates a trap instruction for the vector.
func MakeCodeTrap(vector CodeTrap) Code {
	return MakeCode(OP_TRAP, 0, 0, uint16(vector)&CODE_TRAP_MASK)
}

// MakeCodeHalt creates a halt instruction.
func MakeCodeHalt() Code {
	return MakeCode(OP_HALT, 0, 0, 0)
}

// Op returns the opcode field.
func (code Code) Op() CodeOp {
	return CodeOp((code >> CODE_OP_SHIFT) & CODE_OP_MASK)
}

// Reg1 returns the first register field.
func (code Code) Reg1() CodeReg {
	return CodeReg((code >> CODE_REG1_SHIFT) & CODE_REG_MASK)
}

// Reg2 returns the second register field.
func (code Code) Reg2() CodeReg {
	return CodeReg((code >> CODE_REG2_SHIFT) & CODE_REG_MASK)
}

// Imm returns the immediate field.
func (code Code) Imm() uint16 {
	return uint16(code & CODE_IMM_MASK)
}

// Vector returns the trap vector, the low 8 bits of the word.
func (code Code) Vector() CodeTrap {
	return CodeTrap(code & CODE_TRAP_MASK)
}

// Decode splits the word into its fields. It never fails.
func (code Code) Decode() (op CodeOp, reg1, reg2 CodeReg, imm uint16) {
	op = code.Op()
	reg1 = code.Reg1()
	reg2 = code.Reg2()
	imm = code.Imm()
	return
}

// String returns the disassembly of the instruction.
func (code Code) String() (out string) {
	op, reg1, reg2, imm := code.Decode()

	switch op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_AND, OP_OR, OP_XOR, OP_SHL, OP_SHR:
		out = fmt.Sprintf("%v %v, %v, #%d", op, reg1, reg2, imm)
	case OP_NOT, OP_CMP_EQ, OP_CMP_NEQ, OP_CMP_GT, OP_CMP_LT:
		out = fmt.Sprintf("%v %v, %v", op, reg1, reg2)
	case OP_LOAD, OP_STORE, OP_LDI, OP_STI, OP_LEA:
		out = fmt.Sprintf("%v %v, #%d", op, reg1, imm)
	case OP_JMP_ABS, OP_JMP_REL:
		out = fmt.Sprintf("%v #%d", op, imm)
	case OP_INPUT, OP_OUTPUT:
		out = fmt.Sprintf("%v %v", op, reg1)
	case OP_TRAP:
		out = fmt.Sprintf("%v %v", op, code.Vector())
	case OP_HALT:
		out = op.String()
	default:
		out = fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	return
}
