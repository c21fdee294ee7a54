// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull    = errors.New(f("channel full"))
	ErrChannelClosed  = errors.New(f("channel closed"))
	ErrInputEmpty     = errors.New(f("input exhausted"))
	ErrInputMalformed = errors.New(f("input malformed"))
	ErrInterrupt      = errors.New(f("input interrupted"))
)

// ErrParseNumber reports input text that is not a 32-bit integer.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
