// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"context"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	KEY_INTERRUPT = 0x03 // Ctrl-C, delivered as a byte in raw mode.
	KEY_EOF       = 0x04 // Ctrl-D, delivered as a byte in raw mode.
)

// Terminal is a Tape whose character reads take a single keystroke when the
// input is an interactive terminal.
// Values are still read a line at a time.
type Terminal struct {
	Tape
	File *os.File // Input file; used for raw mode when it is a terminal.
}

var _ Channel = (*Terminal)(nil)

// NewTerminal creates a terminal channel reading from in and writing to out.
func NewTerminal(in *os.File, out io.Writer) (tc *Terminal) {
	tc = &Terminal{
		Tape: Tape{Input: in, Output: out},
		File: in,
	}

	return
}

// IsTerminal returns true if the input is an interactive terminal.
func (tc *Terminal) IsTerminal() bool {
	return tc.File != nil && term.IsTerminal(int(tc.File.Fd()))
}

// ReadChar reads one keystroke in raw mode, or falls back to the line
// oriented Tape behaviour when the input is not a terminal.
func (tc *Terminal) ReadChar(ctx context.Context) (char rune, err error) {
	if !tc.IsTerminal() {
		return tc.Tape.ReadChar(ctx)
	}

	err = ctx.Err()
	if err != nil {
		return
	}

	// Drain anything the line reader already pulled off the terminal.
	if tc.reader != nil && tc.reader.Buffered() > 0 {
		char, _, err = tc.reader.ReadRune()
		return
	}

	fd := int(tc.File.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	var buf [utf8.UTFMax]byte
	n := 0
	for n < len(buf) {
		_, err = tc.File.Read(buf[n : n+1])
		if err != nil {
			return
		}
		n++
		if utf8.FullRune(buf[:n]) {
			break
		}
	}

	char, _ = utf8.DecodeRune(buf[:n])
	switch char {
	case '\r':
		char = '\n'
	case KEY_INTERRUPT:
		err = ErrInterrupt
	case KEY_EOF:
		err = ErrInputEmpty
	}

	return
}
