// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package image

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/memory"
)

// Image is a sequence of words to be placed in memory at an origin.
type Image struct {
	Origin uint32   // Address of the first word.
	Words  []uint32 // Words, in address order.
}

// ReadBinary reads a raw little-endian image.
func ReadBinary(r io.Reader, origin uint32) (img *Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data)%cpu.WORD_SIZE != 0 {
		err = ErrAlignment
		return
	}

	img = &Image{Origin: origin}
	for n := 0; n < len(data); n += cpu.WORD_SIZE {
		img.Words = append(img.Words, binary.LittleEndian.Uint32(data[n:]))
	}

	return
}

// Size returns the image size in bytes.
func (img *Image) Size() int {
	return len(img.Words) * cpu.WORD_SIZE
}

// Bytes returns the little-endian encoding of the image words.
func (img *Image) Bytes() (data []byte) {
	data = make([]byte, 0, img.Size())
	for _, word := range img.Words {
		data = binary.LittleEndian.AppendUint32(data, word)
	}

	return
}

// WriteBinary writes the raw little-endian image.
func (img *Image) WriteBinary(w io.Writer) (err error) {
	_, err = w.Write(img.Bytes())
	return
}

// Load copies the image into memory at its origin.
// Nothing is written if the image does not fit.
func (img *Image) Load(mem *memory.Memory) (err error) {
	return mem.WriteBytes(img.Origin, img.Bytes())
}

// Codes iterates over the image as instructions, by address.
func (img *Image) Codes() iter.Seq2[uint32, cpu.Code] {
	return func(yield func(addr uint32, code cpu.Code) bool) {
		for n, word := range img.Words {
			addr := img.Origin + uint32(n*cpu.WORD_SIZE)
			if !yield(addr, cpu.Code(word)) {
				return
			}
		}
	}
}

// String returns a disassembly listing of the image.
func (img *Image) String() string {
	var sb strings.Builder
	for addr, code := range img.Codes() {
		fmt.Fprintf(&sb, "%08x: %08x  %v\n", addr, uint32(code), code)
	}

	return sb.String()
}

// Demo returns the built-in demonstration program.
// It exercises each arithmetic and logic instruction once, then halts.
func Demo() *Image {
	program := []cpu.Code{
		cpu.MakeCode(cpu.OP_LOAD, cpu.REG_R1, 0, 2),
		cpu.MakeCode(cpu.OP_ADD, cpu.REG_R0, cpu.REG_R1, 5),
		cpu.MakeCode(cpu.OP_SUB, cpu.REG_R1, cpu.REG_R0, 3),
		cpu.MakeCode(cpu.OP_MUL, cpu.REG_R2, cpu.REG_R1, 2),
		cpu.MakeCode(cpu.OP_DIV, cpu.REG_R3, cpu.REG_R2, 1),
		cpu.MakeCode(cpu.OP_AND, cpu.REG_R4, cpu.REG_R2, 1),
		cpu.MakeCode(cpu.OP_OR, cpu.REG_R5, cpu.REG_R4, 1),
		cpu.MakeCode(cpu.OP_XOR, cpu.REG_R6, cpu.REG_R5, 1),
		cpu.MakeCode(cpu.OP_NOT, cpu.REG_R7, cpu.REG_R6, 0),
		cpu.MakeCode(cpu.OP_SHL, cpu.REG_R8, cpu.REG_R1, 1),
		cpu.MakeCode(cpu.OP_SHR, cpu.REG_R9, cpu.REG_R8, 1),
		cpu.MakeCodeHalt(),
	}

	img := &Image{}
	for _, code := range program {
		img.Words = append(img.Words, uint32(code))
	}

	return img
}
