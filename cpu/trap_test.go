package cpu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/regvm/io"
)

func TestTrap_Getc(t *testing.T) {
	assert := assert.New(t)

	cpu, temp := newTestCpu(t,
		MakeCodeTrap(TRAP_GETC),
		MakeCode(OP_ADD, REG_R1, REG_R0, 0),
		MakeCodeTrap(TRAP_GETC),
		MakeCodeHalt(),
	)
	temp.QueueText("Aé")
	cpu.Register[REG_COND] = uint32(FLAG_NEGATIVE)

	assert.NoError(cpu.Tick(context.Background()))
	assert.Equal(uint32('A'), cpu.Register[REG_R0])
	assert.Equal(FLAG_NEGATIVE, cpu.Register.Flag())

	assert.NoError(runUntilHalt(cpu, 10))
	assert.Equal(uint32('A'), cpu.Register[REG_R1])
	assert.Equal(uint32('é'), cpu.Register[REG_R0])
}

func TestTrap_GetcEmpty(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t, MakeCodeTrap(TRAP_GETC))
	cpu.Register[REG_R0] = 0x99

	err := runUntilHalt(cpu, 10)
	assert.ErrorIs(err, io.ErrInputEmpty)
	assert.False(cpu.Running)
	assert.Equal(uint32(0x99), cpu.Register[REG_R0])
}

func TestTrap_Out(t *testing.T) {
	assert := assert.New(t)

	cpu, temp := newTestCpu(t,
		MakeCode(OP_LOAD, REG_R0, 0, 0x148), // 'H' with a high bit set
		MakeCodeTrap(TRAP_OUT),
		MakeCode(OP_LOAD, REG_R0, 0, 'i'),
		MakeCodeTrap(TRAP_OUT),
		MakeCodeHalt(),
	)

	assert.NoError(runUntilHalt(cpu, 10))
	assert.Equal("Hi", string(temp.Text))
}

func TestTrap_Halt(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		MakeCodeTrap(TRAP_HALT),
		MakeCode(OP_LOAD, REG_R1, 0, 1),
	)
	cpu.Verbose = true

	assert.NoError(runUntilHalt(cpu, 10))
	assert.False(cpu.Running)
	assert.Equal(uint32(0), cpu.Register[REG_R1])
	assert.Equal(1, cpu.Ticks)
}

func TestTrap_Unknown(t *testing.T) {
	assert := assert.New(t)

	cpu, temp := newTestCpu(t,
		MakeCodeTrap(CodeTrap(0x99)),
		MakeCode(OP_LOAD, REG_R1, 0, 1),
		MakeCodeHalt(),
	)

	var reported []error
	cpu.Diagnostic = func(err error) { reported = append(reported, err) }

	assert.NoError(runUntilHalt(cpu, 10))
	assert.Equal([]error{ErrTrapVector(0x99)}, reported)
	assert.Equal(uint32(1), cpu.Register[REG_R1])
	assert.Empty(temp.Text)
	assert.Equal(3, cpu.Ticks)
}

func TestTrap_VectorLowByte(t *testing.T) {
	assert := assert.New(t)

	// Only the low 8 bits of the word select the vector.
	code := MakeCode(OP_TRAP, REG_R3, REG_R4, 0x7f25)
	assert.Equal(TRAP_HALT, code.Vector())

	cpu, _ := newTestCpu(t, code)
	assert.NoError(cpu.Tick(context.Background()))
	assert.False(cpu.Running)
}

func TestTraps(t *testing.T) {
	assert := assert.New(t)

	vectors := map[string]CodeTrap{}
	for name, vector := range Traps() {
		vectors[name] = vector
	}

	assert.Equal(map[string]CodeTrap{
		"getc": TRAP_GETC,
		"out":  TRAP_OUT,
		"halt": TRAP_HALT,
	}, vectors)
}
