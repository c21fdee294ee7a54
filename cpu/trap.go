// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"context"
	"fmt"
	"iter"
	"log"
)

// CodeTrap is a trap vector.
type CodeTrap int

const (
	TRAP_GETC = CodeTrap(0x20) // getc
	TRAP_OUT  = CodeTrap(0x21) // out
	TRAP_HALT = CodeTrap(0x25) // halt

	TRAP_COUNT = 256
)

var _trap_names = map[CodeTrap]string{
	TRAP_GETC: "getc",
	TRAP_OUT:  "out",
	TRAP_HALT: "halt",
}

func (vector CodeTrap) String() string {
	name, ok := _trap_names[vector]
	if !ok {
		return fmt.Sprintf("0x%02x", int(vector))
	}
	return name
}

// Traps iterates over all defined trap vectors, by name.
func Traps() iter.Seq2[string, CodeTrap] {
	return func(yield func(string, CodeTrap) bool) {
		for vector := range CodeTrap(TRAP_COUNT) {
			if traps[vector] == nil {
				continue
			}
			if !yield(vector.String(), vector) {
				return
			}
		}
	}
}

type trapHandler func(cpu *Cpu, ctx context.Context) error

// traps is the fixed trap dispatch table.
var traps = [TRAP_COUNT]trapHandler{
	TRAP_GETC: (*Cpu).trapGetc,
	TRAP_OUT:  (*Cpu).trapOut,
	TRAP_HALT: (*Cpu).trapHalt,
}

// trap dispatches a trap vector. Unknown vectors are reported and ignored.
func (cpu *Cpu) trap(ctx context.Context, vector CodeTrap) (err error) {
	handler := traps[vector&(TRAP_COUNT-1)]
	if handler == nil {
		cpu.diagnose(ErrTrapVector(vector))
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: trap %v", vector)
	}

	return handler(cpu, ctx)
}

// trapGetc reads one character into r0.
func (cpu *Cpu) trapGetc(ctx context.Context) (err error) {
	if cpu.Channel == nil {
		return ErrChannelMissing
	}

	char, err := cpu.Channel.ReadChar(ctx)
	if err != nil {
		return
	}

	cpu.Register[REG_R0] = uint32(char)
	return
}

// trapOut writes the low byte of r0 as a character.
func (cpu *Cpu) trapOut(ctx context.Context) (err error) {
	if cpu.Channel == nil {
		return ErrChannelMissing
	}

	return cpu.Channel.WriteChar(byte(cpu.Register[REG_R0] & 0xff))
}

// trapHalt stops the CPU.
func (cpu *Cpu) trapHalt(ctx context.Context) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: program halted")
	}

	cpu.Running = false
	return
}
