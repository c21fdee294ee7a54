package cpu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/regvm/io"
	"github.com/ezrec/regvm/memory"
)

const testMemorySize = 1024

// newTestCpu creates a running CPU with the program loaded at address 0.
func newTestCpu(t *testing.T, program ...Code) (cpu *Cpu, temp *io.Temporary) {
	t.Helper()

	mem := memory.NewMemory(testMemorySize)
	for n, code := range program {
		require.NoError(t, mem.StoreWord(uint32(n*WORD_SIZE), uint32(code)))
	}

	temp = &io.Temporary{}
	cpu = NewCpu(mem)
	cpu.Channel = temp
	cpu.Reset(0)

	return
}

// runUntilHalt ticks until the CPU stops, or max ticks have passed.
func runUntilHalt(cpu *Cpu, max int) (err error) {
	ctx := context.Background()
	for range max {
		if !cpu.Running {
			return
		}
		err = cpu.Tick(ctx)
		if err != nil {
			return
		}
	}
	return
}

func TestCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(memory.NewMemory(testMemorySize))

	assert.False(cpu.Verbose)
	assert.False(cpu.Running)
	assert.NotNil(cpu.Memory)
	assert.Nil(cpu.Channel)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t)
	cpu.Register[REG_R4] = 4
	cpu.Register[REG_COND] = uint32(FLAG_NEGATIVE)
	cpu.Ticks = 10
	cpu.Running = false

	cpu.Reset(0x40)
	assert.Equal(uint32(0), cpu.Register[REG_R4])
	assert.Equal(uint32(0), cpu.Register[REG_COND])
	assert.Equal(uint32(0x40), cpu.Register[REG_PC])
	assert.Equal(0, cpu.Ticks)
	assert.True(cpu.Running)
}

func TestCpu_LoadAddHalt(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		MakeCode(OP_LOAD, REG_R1, 0, 2),
		MakeCode(OP_ADD, REG_R0, REG_R1, 5),
		MakeCodeHalt(),
	)

	err := runUntilHalt(cpu, 10)
	assert.NoError(err)

	assert.Equal(uint32(2), cpu.Register[REG_R1])
	assert.Equal(uint32(7), cpu.Register[REG_R0])
	assert.Equal(FLAG_POSITIVE, cpu.Register.Flag())
	assert.False(cpu.Running)
	assert.Equal(uint32(12), cpu.Register[REG_PC])
	assert.Equal(3, cpu.Ticks)
}

func TestCpu_DivideByZero(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		MakeCode(OP_DIV, REG_R3, REG_R2, 0),
		MakeCodeHalt(),
	)
	cpu.Register[REG_R2] = 17
	cpu.Register[REG_R3] = 0x33
	cpu.Register[REG_REM] = 0x55
	cpu.Register[REG_COND] = uint32(FLAG_ZERO)

	err := runUntilHalt(cpu, 10)
	assert.ErrorIs(err, ErrDivideByZero)
	assert.False(cpu.Running)
	assert.Equal(uint32(0x33), cpu.Register[REG_R3])
	assert.Equal(uint32(0x55), cpu.Register[REG_REM])
	assert.Equal(FLAG_ZERO, cpu.Register.Flag())
	assert.Equal(1, cpu.Ticks)

	var at ErrInstruction
	assert.True(errors.As(err, &at))
	assert.Equal(uint32(0), at.Pc)
	assert.Equal(OP_DIV, at.Code.Op())
}

func TestCpu_UnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []CodeOp{0x00, 0x19, 0x1e} {
		cpu, _ := newTestCpu(t, MakeCode(op, REG_R1, REG_R2, 3))

		err := runUntilHalt(cpu, 10)
		assert.ErrorIs(err, ErrOpcode(0))
		assert.ErrorContains(err, "unknown opcode")

		var bad ErrOpcode
		assert.True(errors.As(err, &bad))
		assert.Equal(ErrOpcode(op), bad)
		assert.False(cpu.Running)
	}
}

func TestCpu_PcOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name    string
		pc      uint32
		running bool
	}{
		{"at_size", testMemorySize, true},
		{"past_size", 0x80000000, true},
		{"straddle", testMemorySize - 2, true},
		{"not_running", testMemorySize, false},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(t)
		cpu.Register[REG_PC] = entry.pc
		cpu.Running = entry.running

		err := cpu.Tick(context.Background())

		var oob *memory.ErrOutOfBounds
		assert.True(errors.As(err, &oob), entry.name)
		if oob != nil {
			assert.Equal(entry.pc, oob.Address, entry.name)
		}
		assert.False(cpu.Running, entry.name)
		assert.Equal(entry.pc, cpu.Register[REG_PC], entry.name)
		assert.Equal(0, cpu.Ticks, entry.name)
	}
}

func TestCpu_RunOffTheEnd(t *testing.T) {
	assert := assert.New(t)

	// A jump to the last word, which is an add, runs the pc off the end.
	cpu, _ := newTestCpu(t, MakeCode(OP_JMP_ABS, 0, 0, testMemorySize-WORD_SIZE))
	require.NoError(t, cpu.Memory.StoreWord(testMemorySize-WORD_SIZE, uint32(MakeCode(OP_ADD, REG_R1, REG_R1, 1))))

	err := runUntilHalt(cpu, 10)
	assert.ErrorIs(err, &memory.ErrOutOfBounds{})
	assert.Equal(uint32(1), cpu.Register[REG_R1])
	assert.Equal(uint32(testMemorySize), cpu.Register[REG_PC])
	assert.Equal(2, cpu.Ticks)
}

func TestCpu_Demo(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		MakeCode(OP_LOAD, REG_R1, 0, 2),
		MakeCode(OP_ADD, REG_R0, REG_R1, 5),
		MakeCode(OP_SUB, REG_R1, REG_R0, 3),
		MakeCode(OP_MUL, REG_R2, REG_R1, 2),
		MakeCode(OP_DIV, REG_R3, REG_R2, 1),
		MakeCode(OP_AND, REG_R4, REG_R2, 1),
		MakeCode(OP_OR, REG_R5, REG_R4, 1),
		MakeCode(OP_XOR, REG_R6, REG_R5, 1),
		MakeCode(OP_NOT, REG_R7, REG_R6, 0),
		MakeCode(OP_SHL, REG_R8, REG_R1, 1),
		MakeCode(OP_SHR, REG_R9, REG_R8, 1),
		MakeCodeHalt(),
	)

	assert.NoError(runUntilHalt(cpu, 100))

	expected := map[CodeReg]uint32{
		REG_R0:  7,
		REG_R1:  4,
		REG_R2:  8,
		REG_R3:  8,
		REG_R4:  0,
		REG_R5:  1,
		REG_R6:  0,
		REG_R7:  0xffffffff,
		REG_R8:  8,
		REG_R9:  4,
		REG_PC:  48,
		REG_REM: 0,
	}
	for reg, value := range expected {
		assert.Equal(value, cpu.Register[reg], reg.String())
	}
	assert.Equal(FLAG_POSITIVE, cpu.Register.Flag())
	assert.Equal(uint32(0), cpu.Register[REG_COMP])
}

func TestCpu_Verbose(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t, MakeCode(OP_LOAD, REG_R1, 0, 2), MakeCodeHalt())
	cpu.Verbose = true

	assert.NoError(runUntilHalt(cpu, 10))
	assert.Equal(uint32(2), cpu.Register[REG_R1])
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t)
	cpu.Register[REG_R0] = 7
	cpu.Register[REG_R7] = 0xffffffff
	cpu.Register[REG_COND] = uint32(FLAG_POSITIVE)

	lines := strings.Split(strings.TrimSuffix(cpu.String(), "\n"), "\n")
	assert.Len(lines, REGISTER_COUNT)
	assert.Equal("R0: 7", lines[0])
	assert.Equal("R7: -1", lines[7])
	assert.Equal("PC: 0", lines[16])
	assert.Equal("REM: 0", lines[17])
	assert.Equal("COND: 1", lines[18])
	assert.Equal("COMP: 0", lines[19])

	// Large values are not digit grouped.
	cpu.Register[REG_R0] = 1500
	assert.True(strings.HasPrefix(cpu.String(), "R0: 1500\n"))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]uint32{}
	for name, value := range Defines() {
		_, dup := defines[name]
		assert.False(dup, name)
		defines[name] = value
	}

	assert.Equal(uint32(OP_ADD), defines["ADD"])
	assert.Equal(uint32(OP_JMP_REL), defines["JMP_REL"])
	assert.Equal(uint32(REG_R15), defines["R15"])
	assert.Equal(uint32(REG_COMP), defines["COMP"])
	assert.Equal(uint32(TRAP_GETC), defines["TRAP_GETC"])
	assert.Equal(uint32(FLAG_NEGATIVE), defines["FLAG_NEGATIVE"])
}
