// Package io provides the host side collaborators of a CHIP-8 machine:
// reading ROM images (Rom), rendering the display to a terminal (Screen),
// mapping host keystrokes onto the keypad (Keyboard), and sounding the
// tone (Buzzer).
package io

import (
	"io"
	"io/fs"

	"github.com/ezrec/chip8/machine"
)

// ReadRom reads a program image, which must fit above PROGRAM_BASE.
func ReadRom(input io.Reader) (image []byte, err error) {
	image, err = io.ReadAll(io.LimitReader(input, machine.PROGRAM_LIMIT+1))
	if err != nil {
		return
	}

	if len(image) == 0 {
		err = ErrRomEmpty
		image = nil
		return
	}

	if len(image) > machine.PROGRAM_LIMIT {
		err = &machine.ErrLoad{Size: len(image), Limit: machine.PROGRAM_LIMIT}
		image = nil
		return
	}

	return
}

// LoadRom reads the named program image from a file system.
func LoadRom(filesys fs.FS, name string) (image []byte, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	info, err := inf.Stat()
	if err != nil {
		return
	}

	if info.Size() > machine.PROGRAM_LIMIT {
		err = &machine.ErrLoad{Size: int(info.Size()), Limit: machine.PROGRAM_LIMIT}
		return
	}

	image, err = ReadRom(inf)
	return
}
