// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"encoding/binary"
	"log"
)

const (
	DEFAULT_SIZE  = 256 * 1024 // Default memory size, in bytes.
	DEFAULT_WIDTH = 4          // Default access width, in bytes.
)

// Memory is a fixed size, flat byte store.
type Memory struct {
	Verbose bool // Set to log every load and store.

	data []byte
}

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size uint) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size returns the size of the memory, in bytes.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Reset zeroes the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// span returns the byte slice for an access, or an error if out of bounds.
func (mem *Memory) span(address uint32, width int) (buf []byte, err error) {
	if uint64(address)+uint64(width) > uint64(len(mem.data)) {
		err = &ErrOutOfBounds{Address: address, Width: width, Size: len(mem.data)}
		return
	}

	buf = mem.data[address : int(address)+width]
	return
}

// Load reads a width byte little-endian value at address.
// Width must be 1, 2 or 4.
func (mem *Memory) Load(address uint32, width int) (value uint32, err error) {
	switch width {
	case 1, 2, 4:
	default:
		err = ErrWidth
		return
	}

	buf, err := mem.span(address, width)
	if err != nil {
		return
	}

	switch width {
	case 1:
		value = uint32(buf[0])
	case 2:
		value = uint32(binary.LittleEndian.Uint16(buf))
	case 4:
		value = binary.LittleEndian.Uint32(buf)
	}

	if mem.Verbose {
		log.Printf("load  0x%08x/%d: 0x%08x", address, width, value)
	}

	return
}

// Store writes the low width bytes of value, little-endian, at address.
// Width must be 1, 2 or 4.
func (mem *Memory) Store(address uint32, value uint32, width int) (err error) {
	switch width {
	case 1, 2, 4:
	default:
		err = ErrWidth
		return
	}

	buf, err := mem.span(address, width)
	if err != nil {
		return
	}

	switch width {
	case 1:
		buf[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(buf, value)
	}

	if mem.Verbose {
		log.Printf("store 0x%08x/%d: 0x%08x", address, width, value)
	}

	return
}

// LoadWord reads a 32-bit word at address.
func (mem *Memory) LoadWord(address uint32) (uint32, error) {
	return mem.Load(address, DEFAULT_WIDTH)
}

// StoreWord writes a 32-bit word at address.
func (mem *Memory) StoreWord(address uint32, value uint32) error {
	return mem.Store(address, value, DEFAULT_WIDTH)
}

// WriteBytes copies data into memory starting at address.
// Nothing is written if any byte would land out of bounds.
func (mem *Memory) WriteBytes(address uint32, data []byte) (err error) {
	buf, err := mem.span(address, len(data))
	if err != nil {
		return
	}

	copy(buf, data)
	return
}

// ReadBytes returns a copy of count bytes starting at address.
func (mem *Memory) ReadBytes(address uint32, count int) (data []byte, err error) {
	buf, err := mem.span(address, count)
	if err != nil {
		return
	}

	data = make([]byte, count)
	copy(data, buf)
	return
}
