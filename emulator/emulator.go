// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"maps"
	"strconv"
	"strings"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/image"
	"github.com/ezrec/regvm/internal"
	rio "github.com/ezrec/regvm/io"
	"github.com/ezrec/regvm/memory"
)

const (
	DEFAULT_ORIGIN = 0 // Load address for images without an origin.
)

var _emulator_defines = map[string]uint32{
	"DEFAULT_ORIGIN": DEFAULT_ORIGIN,
	"WORD_SIZE":      cpu.WORD_SIZE,
}

// Emulator state. CPU + memory + IO channels.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Image *image.Image // Currently loaded image.

	Temporary rio.Temporary // Temporary buffer IO channel.
	Tape      rio.Tape      // Tape IO channel.
}

// NewEmulator creates a new emulator with size bytes of memory.
// The temporary buffer is the initial IO channel.
func NewEmulator(size uint) (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(memory.NewMemory(size)),
	}

	emu.Cpu.Channel = &emu.Temporary

	return
}

// Defines returns an iterator over all of the symbolic constants
// available to image scripts.
func (emu *Emulator) Defines() iter.Seq2[string, uint32] {
	sizes := map[string]uint32{
		"MEMORY_SIZE": uint32(emu.Cpu.Memory.Size()),
	}

	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		maps.All(sizes),
	)
}

// Script returns an image script builder using the emulator's defines.
func (emu *Emulator) Script() *image.Script {
	return &image.Script{
		Verbose: emu.Verbose,
		Defines: emu.Defines(),
	}
}

// Load clears memory, copies the image into it, and resets the CPU to
// the image origin.
func (emu *Emulator) Load(img *image.Image) (err error) {
	emu.Cpu.Memory.Reset()

	err = img.Load(emu.Cpu.Memory)
	if err != nil {
		return
	}

	emu.Image = img
	emu.Reset()

	return
}

// Reset the CPU to the origin of the loaded image, and drop any input
// the tape has buffered.
func (emu *Emulator) Reset() {
	origin := uint32(DEFAULT_ORIGIN)
	if emu.Image != nil {
		origin = emu.Image.Origin
	}

	emu.Tape.Rewind()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Memory.Verbose = emu.Verbose
	emu.Cpu.Reset(origin)
}

// Tick performs a single instruction cycle.
// Returns cpu.ErrHalted if the CPU is no longer running.
func (emu *Emulator) Tick(ctx context.Context) (err error) {
	// Set CPU and memory verbosity
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Memory.Verbose = emu.Verbose

	if !emu.Cpu.Running {
		err = cpu.ErrHalted
		return
	}

	err = emu.Cpu.Tick(ctx)
	if err != nil {
		err = &ErrRuntime{Tick: emu.Cpu.Ticks, Err: err}
		return
	}

	return
}

// Run ticks until the CPU halts or faults, or ctx is done.
// A clean halt returns nil.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for emu.Cpu.Running {
		err = ctx.Err()
		if err != nil {
			return
		}

		err = emu.Tick(ctx)
		if err != nil {
			return
		}
	}

	return
}

// Summary describes how the last run ended.
// The tick count includes a faulting instruction that was fetched.
func (emu *Emulator) Summary(err error) string {
	ticks := strconv.Itoa(emu.Cpu.Ticks)

	switch {
	case err == nil && !emu.Cpu.Running:
		return f("halted after %v ticks", ticks)
	case err == nil:
		return f("stopped after %v ticks", ticks)
	default:
		return f("faulted after %v ticks: %v", ticks, err)
	}
}

// WriteMemory writes a hex dump of count bytes of memory from addr,
// four words per line.
func (emu *Emulator) WriteMemory(w io.Writer, addr uint32, count int) (err error) {
	data, err := emu.Cpu.Memory.ReadBytes(addr, count)
	if err != nil {
		return
	}

	const perLine = 4 * cpu.WORD_SIZE
	for len(data) > 0 {
		line := data[:min(perLine, len(data))]
		data = data[len(line):]

		var sb strings.Builder
		fmt.Fprintf(&sb, "%08x:", addr)
		for n, b := range line {
			if n%cpu.WORD_SIZE == 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%02x", b)
		}
		sb.WriteByte('\n')

		_, err = io.WriteString(w, sb.String())
		if err != nil {
			return
		}
		addr += uint32(len(line))
	}

	return
}
