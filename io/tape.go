// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ezrec/regvm/translate"
)

// Tape provides line oriented I/O over a byte stream.
// Each INPUT value and each character read consumes one line of Input.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	source io.Reader
	reader *bufio.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input.
func (tc *Tape) Rewind() {
	tc.source = nil
	tc.reader = nil
}

// buffered returns the line reader for the current Input.
func (tc *Tape) buffered() (reader *bufio.Reader, err error) {
	if tc.Input == nil {
		err = ErrChannelClosed
		return
	}

	if tc.reader == nil || tc.source != tc.Input {
		tc.source = tc.Input
		tc.reader = bufio.NewReader(tc.Input)
	}

	reader = tc.reader
	return
}

// readLine returns the next line of input, without the line terminator.
func (tc *Tape) readLine(ctx context.Context) (line string, err error) {
	err = ctx.Err()
	if err != nil {
		return
	}

	reader, err := tc.buffered()
	if err != nil {
		return
	}

	line, err = reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if len(line) == 0 {
			err = ErrInputEmpty
			return
		}
		err = nil
	}
	if err != nil {
		return
	}

	line = strings.TrimRight(line, "\r\n")
	return
}

// ParseValue parses a decimal, 0x hex, 0o octal or 0b binary integer.
// Values up to 0xffffffff are accepted and wrap to 32-bit two's complement.
func ParseValue(text string) (value int32, err error) {
	text = strings.TrimSpace(text)
	v64, err := strconv.ParseInt(text, 0, 64)
	if err != nil || v64 < math.MinInt32 || v64 > math.MaxUint32 {
		err = errors.Join(ErrInputMalformed, ErrParseNumber(text))
		return
	}

	value = int32(uint32(v64))
	return
}

// ReadValue reads a line and parses it as an integer.
func (tc *Tape) ReadValue(ctx context.Context) (value int32, err error) {
	line, err := tc.readLine(ctx)
	if err != nil {
		return
	}

	return ParseValue(line)
}

// ReadChar reads a line and returns its first character.
// An empty line reads as a newline.
func (tc *Tape) ReadChar(ctx context.Context) (char rune, err error) {
	line, err := tc.readLine(ctx)
	if err != nil {
		return
	}

	if len(line) == 0 {
		char = '\n'
		return
	}

	char, _ = utf8.DecodeRuneInString(line)
	return
}

// WriteValue writes a labelled value line.
func (tc *Tape) WriteValue(label string, value int32) (err error) {
	if tc.Output == nil {
		return ErrChannelClosed
	}

	_, err = translate.Fprintf(tc.Output, "Output from %v: %v\n", label, strconv.FormatInt(int64(value), 10))
	return
}

// WriteChar writes a single byte.
func (tc *Tape) WriteChar(char byte) (err error) {
	if tc.Output == nil {
		return ErrChannelClosed
	}

	_, err = tc.Output.Write([]byte{char})
	return
}
