// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the fetch-decode-execute engine of the register
// machine.
//
// The CPU has sixteen 32-bit general-purpose registers (r0-r15), a program
// counter (pc), a remainder register (rem) written by division, a condition
// register (cond) holding exactly one of the positive, zero or negative flags,
// and a comparison register (comp) written only by the compare instructions.
//
// Instructions are fixed 32-bit little-endian words: a 5-bit opcode, two
// 5-bit register fields, one reserved bit and a 16-bit immediate. The
// program counter is advanced past the instruction before it executes, so
// pc-relative operands are relative to the next instruction.
package cpu
