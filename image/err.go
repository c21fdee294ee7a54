// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package image

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	ErrAlignment     = errors.New(f("image size not a multiple of the word size"))
	ErrScriptProgram = errors.New(f("script does not define 'program' as a sequence of words"))
	ErrScriptOrigin  = errors.New(f("script 'origin' is not a 32-bit address"))
)

// ErrScriptWord is a program entry that is not a 32-bit word.
type ErrScriptWord struct {
	Index int    // Index into the program sequence.
	Value string // Starlark representation of the entry.
}

func (err *ErrScriptWord) Error() string {
	return f("program[%d] = %v is not a 32-bit word", err.Index, err.Value)
}

func (err *ErrScriptWord) Is(target error) (ok bool) {
	_, ok = target.(*ErrScriptWord)
	return
}

// ErrField is an instruction field out of range in a word() call.
type ErrField struct {
	Field string
	Value int
}

func (err *ErrField) Error() string {
	return f("word(): %v %v out of range", err.Field, err.Value)
}

func (err *ErrField) Is(target error) (ok bool) {
	_, ok = target.(*ErrField)
	return
}
