package machine

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrLoadTooLarge    = errors.New(f("program too large"))
	ErrStackOverflow   = errors.New(f("stack overflow"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrMemoryBounds    = errors.New(f("memory out of bounds"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrKeyInvalid      = errors.New(f("key invalid"))
)

// ErrLoad reports a program image that does not fit above PROGRAM_BASE.
type ErrLoad struct {
	Size  int // Size of the rejected image.
	Limit int // Bytes available for a program.
}

func (err *ErrLoad) Error() string {
	return f("program of %d bytes exceeds %d bytes available", err.Size, err.Limit)
}

func (err *ErrLoad) Unwrap() error {
	return ErrLoadTooLarge
}

// ErrAddress is a memory access outside of the machine's memory.
type ErrAddress uint16

func (ea ErrAddress) Error() string {
	return f("address 0x%03x out of bounds", uint16(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrMemoryBounds
}
