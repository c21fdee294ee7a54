// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"context"
	"strings"
)

type opHandler func(cpu *Cpu, ctx context.Context, code Code) error

// handlers is the opcode dispatch table. Nil entries are unknown opcodes.
var handlers = [CODE_OP_MASK + 1]opHandler{
	OP_ADD:     (*Cpu).opAdd,
	OP_SUB:     (*Cpu).opSub,
	OP_MUL:     (*Cpu).opMul,
	OP_DIV:     (*Cpu).opDiv,
	OP_AND:     (*Cpu).opAnd,
	OP_OR:      (*Cpu).opOr,
	OP_XOR:     (*Cpu).opXor,
	OP_NOT:     (*Cpu).opNot,
	OP_SHL:     (*Cpu).opShl,
	OP_SHR:     (*Cpu).opShr,
	OP_CMP_EQ:  (*Cpu).opCmpEq,
	OP_CMP_NEQ: (*Cpu).opCmpNeq,
	OP_CMP_GT:  (*Cpu).opCmpGt,
	OP_CMP_LT:  (*Cpu).opCmpLt,
	OP_LOAD:    (*Cpu).opLoad,
	OP_STORE:   (*Cpu).opStore,
	OP_LDI:     (*Cpu).opLdi,
	OP_STI:     (*Cpu).opSti,
	OP_LEA:     (*Cpu).opLea,
	OP_JMP_ABS: (*Cpu).opJmpAbs,
	OP_JMP_REL: (*Cpu).opJmpRel,
	OP_INPUT:   (*Cpu).opInput,
	OP_OUTPUT:  (*Cpu).opOutput,
	OP_TRAP:    (*Cpu).opTrap,
	OP_HALT:    (*Cpu).opHalt,
}

// Execute executes a single decoded instruction.
// The program counter must already point past the instruction.
func (cpu *Cpu) Execute(ctx context.Context, code Code) (err error) {
	handler := handlers[code.Op()]
	if handler == nil {
		return ErrOpcode(code.Op())
	}

	return handler(cpu, ctx, code)
}

// setFlagged writes dest and updates the condition flags from it.
func (cpu *Cpu) setFlagged(dest CodeReg, value uint32) (err error) {
	err = cpu.Register.Set(dest, value)
	if err != nil {
		return
	}

	return cpu.Register.UpdateFlags(dest)
}

// alu computes dest = op(src, imm) for the register-immediate instructions.
func (cpu *Cpu) alu(code Code, op func(src uint32, imm uint32) uint32) (err error) {
	src, err := cpu.Register.Get(code.Reg2())
	if err != nil {
		return
	}

	return cpu.setFlagged(code.Reg1(), op(src, uint32(code.Imm())))
}

func (cpu *Cpu) opAdd(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src + imm })
}

func (cpu *Cpu) opSub(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src - imm })
}

func (cpu *Cpu) opMul(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src * imm })
}

func (cpu *Cpu) opAnd(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src & imm })
}

func (cpu *Cpu) opOr(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src | imm })
}

func (cpu *Cpu) opXor(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src ^ imm })
}

// Shift amounts of 32 or more shift every bit out.
func (cpu *Cpu) opShl(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src << imm })
}

func (cpu *Cpu) opShr(ctx context.Context, code Code) error {
	return cpu.alu(code, func(src, imm uint32) uint32 { return src >> imm })
}

// opDiv is floored signed division; the remainder takes the sign of the
// divisor, which is never negative.
func (cpu *Cpu) opDiv(ctx context.Context, code Code) (err error) {
	dest, src := code.Reg1(), code.Reg2()
	divisor := int64(code.Imm())
	if divisor == 0 {
		return ErrDivideByZero
	}

	value, err := cpu.Register.Get(src)
	if err != nil {
		return
	}
	if !dest.Valid() {
		return ErrRegister(dest)
	}

	dividend := int64(int32(value))
	quotient := dividend / divisor
	remainder := dividend % divisor
	if remainder < 0 {
		quotient--
		remainder += divisor
	}

	cpu.Register[dest] = uint32(int32(quotient))
	cpu.Register[REG_REM] = uint32(remainder)
	return cpu.Register.UpdateFlags(dest)
}

func (cpu *Cpu) opNot(ctx context.Context, code Code) (err error) {
	src, err := cpu.Register.Get(code.Reg2())
	if err != nil {
		return
	}

	return cpu.setFlagged(code.Reg1(), ^src)
}

// compare writes the relation between two registers into comp.
// The condition flags are left alone.
func (cpu *Cpu) compare(code Code, rel func(a, b uint32) bool) (err error) {
	a, err := cpu.Register.Get(code.Reg1())
	if err != nil {
		return
	}
	b, err := cpu.Register.Get(code.Reg2())
	if err != nil {
		return
	}

	cpu.Register[REG_COMP] = 0
	if rel(a, b) {
		cpu.Register[REG_COMP] = 1
	}
	return
}

func (cpu *Cpu) opCmpEq(ctx context.Context, code Code) error {
	return cpu.compare(code, func(a, b uint32) bool { return a == b })
}

func (cpu *Cpu) opCmpNeq(ctx context.Context, code Code) error {
	return cpu.compare(code, func(a, b uint32) bool { return a != b })
}

func (cpu *Cpu) opCmpGt(ctx context.Context, code Code) error {
	return cpu.compare(code, func(a, b uint32) bool { return int32(a) > int32(b) })
}

func (cpu *Cpu) opCmpLt(ctx context.Context, code Code) error {
	return cpu.compare(code, func(a, b uint32) bool { return int32(a) < int32(b) })
}

// opLoad loads the immediate as a literal.
func (cpu *Cpu) opLoad(ctx context.Context, code Code) error {
	return cpu.setFlagged(code.Reg1(), uint32(code.Imm()))
}

// opStore stores a register at the absolute immediate address.
func (cpu *Cpu) opStore(ctx context.Context, code Code) (err error) {
	value, err := cpu.Register.Get(code.Reg1())
	if err != nil {
		return
	}

	return cpu.Memory.StoreWord(uint32(code.Imm()), value)
}

// relative returns the pc-relative address for the immediate.
func (cpu *Cpu) relative(code Code) uint32 {
	return cpu.Register[REG_PC] + uint32(code.Imm())
}

// opLdi loads through the pointer stored at pc+offset.
func (cpu *Cpu) opLdi(ctx context.Context, code Code) (err error) {
	dest := code.Reg1()
	if !dest.Valid() {
		return ErrRegister(dest)
	}

	pointer, err := cpu.Memory.LoadWord(cpu.relative(code))
	if err != nil {
		return
	}
	value, err := cpu.Memory.LoadWord(pointer)
	if err != nil {
		return
	}

	return cpu.setFlagged(dest, value)
}

// opSti stores through the pointer stored at pc+offset.
func (cpu *Cpu) opSti(ctx context.Context, code Code) (err error) {
	value, err := cpu.Register.Get(code.Reg1())
	if err != nil {
		return
	}

	pointer, err := cpu.Memory.LoadWord(cpu.relative(code))
	if err != nil {
		return
	}

	return cpu.Memory.StoreWord(pointer, value)
}

// opLea computes pc+offset without touching memory.
func (cpu *Cpu) opLea(ctx context.Context, code Code) error {
	return cpu.setFlagged(code.Reg1(), cpu.relative(code))
}

func (cpu *Cpu) opJmpAbs(ctx context.Context, code Code) (err error) {
	cpu.Register[REG_PC] = uint32(code.Imm())
	return
}

func (cpu *Cpu) opJmpRel(ctx context.Context, code Code) (err error) {
	cpu.Register[REG_PC] = cpu.relative(code)
	return
}

// opInput reads an integer into dest. Nothing is written on error.
func (cpu *Cpu) opInput(ctx context.Context, code Code) (err error) {
	dest := code.Reg1()
	if !dest.Valid() {
		return ErrRegister(dest)
	}
	if cpu.Channel == nil {
		return ErrChannelMissing
	}

	value, err := cpu.Channel.ReadValue(ctx)
	if err != nil {
		return
	}

	return cpu.setFlagged(dest, uint32(value))
}

// opOutput writes a register, labelled with its name.
func (cpu *Cpu) opOutput(ctx context.Context, code Code) (err error) {
	src := code.Reg1()
	value, err := cpu.Register.Get(src)
	if err != nil {
		return
	}
	if cpu.Channel == nil {
		return ErrChannelMissing
	}

	return cpu.Channel.WriteValue(strings.ToUpper(src.String()), int32(value))
}

func (cpu *Cpu) opTrap(ctx context.Context, code Code) error {
	return cpu.trap(ctx, code.Vector())
}

func (cpu *Cpu) opHalt(ctx context.Context, code Code) (err error) {
	cpu.Running = false
	return
}
