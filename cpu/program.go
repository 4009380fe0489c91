package cpu

import (
	"iter"

	"github.com/ezrec/chip8/machine"
)

// Opcode is one assembled source line.
type Opcode struct {
	LineNo    int      // Source line number.
	Addr      uint16   // Load address of the first byte.
	Words     []string // Source words, after equate expansion.
	Data      []byte   // Assembled bytes.
	LinkLabel string   // Label whose address fills the low 12 bits, if any.
}

// Program is an assembled image, based at PROGRAM_BASE.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Offset int
}

// Debug finds the opcode that assembled the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && int(addr) < int(op.Addr)+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Offset: int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Binary returns the loadable image, starting at PROGRAM_BASE.
func (prog *Program) Binary() (image []byte) {
	for _, op := range prog.Opcodes {
		offset := int(op.Addr) - machine.PROGRAM_BASE
		if offset > len(image) {
			image = append(image, make([]byte, offset-len(image))...)
		}
		image = append(image[:offset], op.Data...)
	}

	return
}

// Codes iterates over every instruction word in the image, by address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return Disassemble(prog.Binary())
}

// Disassemble iterates over an image loaded at PROGRAM_BASE as instruction
// words. A trailing odd byte is returned as the high byte of a word.
func Disassemble(image []byte) iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for n := 0; n < len(image); n += CODE_SIZE {
			code := Code(image[n]) << 8
			if n+1 < len(image) {
				code |= Code(image[n+1])
			}
			if !yield(uint16(machine.PROGRAM_BASE+n), code) {
				return
			}
		}
	}
}
