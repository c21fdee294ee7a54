// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"strings"

	"github.com/ezrec/regvm/io"
	"github.com/ezrec/regvm/memory"
)

// Channel is an I/O channel interface.
type Channel io.Channel

// Cpu is the execution context of the register machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   *memory.Memory // Reference to the memory simulation.
	Channel  Channel        // Input and output collaborator.
	Register RegisterFile   // Register bank.
	Running  bool           // Cleared by halt or by any fault.

	Ticks int // Instructions executed since reset.

	// Diagnostic receives non-fatal faults. If nil, they are logged.
	Diagnostic func(err error)
}

// NewCpu creates a new CPU attached to a memory.
func NewCpu(mem *memory.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Defines iterates over the symbolic names of opcodes, registers, trap
// vectors and condition flags, upper case.
func Defines() iter.Seq2[string, uint32] {
	return func(yield func(string, uint32) bool) {
		for name, op := range Ops() {
			if !yield(strings.ToUpper(name), uint32(op)) {
				return
			}
		}
		for name, reg := range Registers() {
			if !yield(strings.ToUpper(name), uint32(reg)) {
				return
			}
		}
		for name, vector := range Traps() {
			if !yield("TRAP_"+strings.ToUpper(name), uint32(vector)) {
				return
			}
		}
		for _, flag := range []CodeFlag{FLAG_POSITIVE, FLAG_ZERO, FLAG_NEGATIVE} {
			if !yield("FLAG_"+strings.ToUpper(flag.String()), uint32(flag)) {
				return
			}
		}
	}
}

// Reset the CPU state.
// - Clears the registers.
// - Zeros the tick counter.
// - Sets the program counter to pc.
// - Marks the CPU as running.
func (cpu *Cpu) Reset(pc uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset pc 0x%08x", pc)
	}

	cpu.Register.Reset()
	cpu.Register[REG_PC] = pc
	cpu.Ticks = 0
	cpu.Running = true
}

// diagnose reports a non-fatal fault.
func (cpu *Cpu) diagnose(err error) {
	if cpu.Diagnostic != nil {
		cpu.Diagnostic(err)
		return
	}

	log.Printf("cpu: %v", err)
}

// FetchCode fetches the instruction at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	pc := cpu.Register[REG_PC]
	if uint64(pc) >= uint64(cpu.Memory.Size()) {
		err = &memory.ErrOutOfBounds{Address: pc, Width: WORD_SIZE, Size: cpu.Memory.Size()}
		return
	}

	word, err := cpu.Memory.LoadWord(pc)
	if err != nil {
		return
	}

	code = Code(word)
	return
}

// Tick executes a single fetch-advance-decode-execute cycle.
// Any error is fatal: the CPU stops running and the error locates the
// faulting instruction.
func (cpu *Cpu) Tick(ctx context.Context) (err error) {
	pc := cpu.Register[REG_PC]

	code, err := cpu.FetchCode()
	if err != nil {
		cpu.Running = false
		return
	}

	if cpu.Verbose {
		log.Printf("%08x: %v", pc, code)
	}

	cpu.Register[REG_PC] = pc + WORD_SIZE

	err = cpu.Execute(ctx, code)
	cpu.Ticks++
	if err != nil {
		cpu.Running = false
		err = errors.Join(ErrInstruction{Pc: pc, Code: code}, err)
		return
	}

	return
}

// String returns the register bank, one `NAME: value` line per register
// in index order, values signed decimal.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder
	for name, reg := range Registers() {
		fmt.Fprintf(&sb, "%v: %d\n", strings.ToUpper(name), int32(cpu.Register[reg]))
	}

	return sb.String()
}
