// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"context"
	"strconv"
	"strings"

	"github.com/ezrec/regvm/translate"
)

// Output is a single value written to a Temporary.
type Output struct {
	Label string
	Value int32
}

// String renders the output the same way a Tape does, without the newline.
func (out Output) String() string {
	return translate.From("Output from %v: %v", out.Label, strconv.FormatInt(int64(out.Value), 10))
}

// Temporary is an in-memory channel.
// Reads consume the queued Values and Chars, FIFO; writes are recorded.
type Temporary struct {
	Capacity int // Maximum number of recorded writes; zero is unlimited.

	Values []int32 // Pending INPUT values.
	Chars  []rune  // Pending characters.

	Outputs []Output // Recorded WriteValue calls.
	Text    []byte   // Recorded WriteChar calls.
}

var _ Channel = (*Temporary)(nil)

// Rewind discards all pending input and recorded output.
func (temp *Temporary) Rewind() {
	temp.Values = nil
	temp.Chars = nil
	temp.Outputs = nil
	temp.Text = nil
}

// QueueText queues each character of text for ReadChar.
func (temp *Temporary) QueueText(text string) {
	temp.Chars = append(temp.Chars, []rune(text)...)
}

func (temp *Temporary) full() bool {
	return temp.Capacity > 0 && len(temp.Outputs)+len(temp.Text) >= temp.Capacity
}

// ReadValue pops the next queued value.
func (temp *Temporary) ReadValue(ctx context.Context) (value int32, err error) {
	err = ctx.Err()
	if err != nil {
		return
	}

	if len(temp.Values) == 0 {
		err = ErrInputEmpty
		return
	}

	value = temp.Values[0]
	temp.Values = temp.Values[1:]
	return
}

// ReadChar pops the next queued character.
func (temp *Temporary) ReadChar(ctx context.Context) (char rune, err error) {
	err = ctx.Err()
	if err != nil {
		return
	}

	if len(temp.Chars) == 0 {
		err = ErrInputEmpty
		return
	}

	char = temp.Chars[0]
	temp.Chars = temp.Chars[1:]
	return
}

// WriteValue records a labelled value.
func (temp *Temporary) WriteValue(label string, value int32) (err error) {
	if temp.full() {
		err = ErrChannelFull
		return
	}

	temp.Outputs = append(temp.Outputs, Output{Label: label, Value: value})
	return
}

// WriteChar records a character.
func (temp *Temporary) WriteChar(char byte) (err error) {
	if temp.full() {
		err = ErrChannelFull
		return
	}

	temp.Text = append(temp.Text, char)
	return
}

// String returns all recorded output, values first, one per line, followed
// by the character text.
func (temp *Temporary) String() string {
	var sb strings.Builder
	for _, out := range temp.Outputs {
		sb.WriteString(out.String())
		sb.WriteByte('\n')
	}
	sb.Write(temp.Text)
	return sb.String()
}
