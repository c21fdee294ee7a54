// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package image holds memory images for the register machine: raw
// little-endian binaries, Starlark image scripts, and the built-in
// demonstration program.
package image
