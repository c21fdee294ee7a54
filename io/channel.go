// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the I/O collaborators of the register machine.
// It includes a stream backed channel (Tape), an in-memory channel
// (Temporary), and an interactive console channel (Terminal).
package io

import (
	"context"
)

// Channel defines the interface for the machine's external input and output.
// Reads block until a value is available, the input is exhausted, or the
// context is done.
type Channel interface {
	// ReadValue reads one integer value.
	ReadValue(ctx context.Context) (value int32, err error)
	// ReadChar reads one character.
	ReadChar(ctx context.Context) (char rune, err error)
	// WriteValue writes one value, labelled with the register name.
	WriteValue(label string, value int32) error
	// WriteChar writes one raw character.
	WriteChar(char byte) error
}
