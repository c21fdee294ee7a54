// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package image

import (
	"iter"
	"log"
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/internal"
)

// Script builds an image by executing a Starlark script.
//
// The script must set the global `program` to a sequence of 32-bit words,
// and may set `origin` to the load address. The upper case names of every
// opcode, register, trap vector and condition flag are predeclared, as is
// the builtin `word(op, r1=0, r2=0, imm=0)` which encodes one instruction.
//
//	program = [
//	    word(LOAD, R1, imm = 2),
//	    word(ADD, R0, R1, 5),
//	    word(TRAP, imm = TRAP_HALT),
//	]
type Script struct {
	Verbose bool // If set, script print() output is logged.

	// Defines are additional predeclared constants.
	Defines iter.Seq2[string, uint32]
}

// predeclared returns the script environment.
func (scr *Script) predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{
		"word": starlark.NewBuiltin("word", builtinWord),
	}

	defines := cpu.Defines()
	if scr.Defines != nil {
		defines = internal.IterSeq2Concat(defines, scr.Defines)
	}
	for name, value := range defines {
		pred[name] = starlark.MakeUint64(uint64(value))
	}

	return
}

// builtinWord encodes a single instruction word.
func builtinWord(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var op, r1, r2, imm int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "op", &op, "r1?", &r1, "r2?", &r2, "imm?", &imm)
	if err != nil {
		return
	}

	fields := []struct {
		name  string
		value int
		max   int
	}{
		{"op", op, cpu.CODE_OP_MASK},
		{"r1", r1, cpu.CODE_REG_MASK},
		{"r2", r2, cpu.CODE_REG_MASK},
		{"imm", imm, cpu.CODE_IMM_MASK},
	}
	for _, field := range fields {
		if field.value < 0 || field.value > field.max {
			err = &ErrField{Field: field.name, Value: field.value}
			return
		}
	}

	code := cpu.MakeCode(cpu.CodeOp(op), cpu.CodeReg(r1), cpu.CodeReg(r2), uint16(imm))
	value = starlark.MakeUint64(uint64(code))
	return
}

// asWord converts a Starlark integer to a word. Negative values down to
// math.MinInt32 are taken as two's complement.
func asWord(value starlark.Value) (word uint32, ok bool) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		return
	}

	v64, ok := st_int.Int64()
	if !ok || v64 < math.MinInt32 || v64 > math.MaxUint32 {
		ok = false
		return
	}

	word = uint32(v64)
	return
}

// Parse executes the script and returns the image it defines.
// src is as for starlark.ExecFileOptions: a string, []byte or io.Reader,
// or nil to read filename.
func (scr *Script) Parse(filename string, src any) (img *Image, err error) {
	thread := &starlark.Thread{Name: filename}
	thread.Print = func(_ *starlark.Thread, msg string) {
		if scr.Verbose {
			log.Printf("%v: %v", filename, msg)
		}
	}

	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, scr.predeclared())
	if err != nil {
		return
	}

	img = &Image{}

	if st_origin, ok := globals["origin"]; ok {
		origin, ok := asWord(st_origin)
		if !ok {
			img = nil
			err = ErrScriptOrigin
			return
		}
		img.Origin = origin
	}

	st_program, ok := globals["program"]
	if !ok {
		img = nil
		err = ErrScriptProgram
		return
	}

	entries := starlark.Iterate(st_program)
	if entries == nil {
		img = nil
		err = ErrScriptProgram
		return
	}
	defer entries.Done()

	var entry starlark.Value
	for index := 0; entries.Next(&entry); index++ {
		word, ok := asWord(entry)
		if !ok {
			img = nil
			err = &ErrScriptWord{Index: index, Value: entry.String()}
			return
		}
		img.Words = append(img.Words, word)
	}

	if scr.Verbose {
		log.Printf("%v: %d words at 0x%08x", filename, len(img.Words), img.Origin)
	}

	return
}
