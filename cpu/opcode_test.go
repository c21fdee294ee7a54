package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Decode(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		word uint32
		op   CodeOp
		reg1 CodeReg
		reg2 CodeReg
		imm  uint16
	}{
		{"zero", 0x00000000, 0, 0, 0, 0},
		{"ones", 0xffffffff, 0x1f, 0x1f, 0x1f, 0xffff},
		{"load_r1_2", 0x78400002, OP_LOAD, REG_R1, REG_R0, 2},
		{"add_r0_r1_5", 0x08020005, OP_ADD, REG_R0, REG_R1, 5},
		{"reserved_ignored", 0x08030005, OP_ADD, REG_R0, REG_R1, 5},
		{"halt", 0xf8000000, OP_HALT, 0, 0, 0},
	}

	for _, entry := range table {
		op, reg1, reg2, imm := Code(entry.word).Decode()
		assert.Equal(entry.op, op, entry.name)
		assert.Equal(entry.reg1, reg1, entry.name)
		assert.Equal(entry.reg2, reg2, entry.name)
		assert.Equal(entry.imm, imm, entry.name)
	}
}

func TestCode_Make(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(0x78400002), MakeCode(OP_LOAD, REG_R1, REG_R0, 2))
	assert.Equal(Code(0x08020005), MakeCode(OP_ADD, REG_R0, REG_R1, 5))
	assert.Equal(Code(0xf8000000), MakeCodeHalt())
	assert.Equal(Code(0xc0000021), MakeCodeTrap(TRAP_OUT))
	assert.Equal(TRAP_OUT, MakeCodeTrap(TRAP_OUT).Vector())

	// Fields are truncated to their width.
	assert.Equal(CodeReg(1), MakeCode(OP_ADD, CodeReg(33), 0, 0).Reg1())
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code Code
		text string
	}{
		{MakeCode(OP_ADD, REG_R0, REG_R1, 5), "add r0, r1, #5"},
		{MakeCode(OP_DIV, REG_R3, REG_R2, 0), "div r3, r2, #0"},
		{MakeCode(OP_NOT, REG_R7, REG_R6, 0), "not r7, r6"},
		{MakeCode(OP_CMP_GT, REG_PC, REG_COMP, 0), "cmp_gt pc, comp"},
		{MakeCode(OP_LOAD, REG_R1, 0, 2), "load r1, #2"},
		{MakeCode(OP_LEA, REG_R15, 0, 8), "lea r15, #8"},
		{MakeCode(OP_JMP_ABS, 0, 0, 16), "jmp_abs #16"},
		{MakeCode(OP_OUTPUT, REG_REM, 0, 0), "output rem"},
		{MakeCodeTrap(TRAP_GETC), "trap getc"},
		{MakeCodeTrap(CodeTrap(0x99)), "trap 0x99"},
		{MakeCodeHalt(), "halt"},
		{Code(0x00000007), ".word 0x00000007"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestCodeOp_Valid(t *testing.T) {
	assert := assert.New(t)

	valid := 0
	for op := CodeOp(0); op <= CODE_OP_MASK; op++ {
		if op.Valid() {
			valid++
			assert.NotNil(handlers[op], op.String())
		} else {
			assert.Nil(handlers[op], op.String())
		}
	}
	assert.Equal(25, valid)

	assert.False(CodeOp(0).Valid())
	assert.False(CodeOp(0x19).Valid())
	assert.Equal("CodeOp(0x1e)", CodeOp(0x1e).String())
}

func TestOps(t *testing.T) {
	assert := assert.New(t)

	ops := map[string]CodeOp{}
	for name, op := range Ops() {
		ops[name] = op
	}

	assert.Len(ops, 25)
	assert.Equal(OP_HALT, ops["halt"])
	assert.Equal(OP_CMP_NEQ, ops["cmp_neq"])
}

func FuzzCode(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xffffffff))
	f.Add(uint32(0x78400002))

	f.Fuzz(func(t *testing.T, word uint32) {
		assert := assert.New(t)

		code := Code(word)
		op, reg1, reg2, imm := code.Decode()
		remade := MakeCode(op, reg1, reg2, imm)

		// Only the reserved bit is lost.
		assert.Equal(uint32(code)&^CODE_RESERVED, uint32(remade))
		assert.NotEmpty(code.String())
	})
}
