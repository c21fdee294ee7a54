// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat, byte-addressable store of the register
// machine.
//
// Multi-byte values are little-endian. Every access is bounds checked against
// the configured size; an access that would run past the end of the store is
// rejected with ErrOutOfBounds rather than wrapped or truncated.
package memory
