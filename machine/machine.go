// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"fmt"
	"iter"
	"maps"
)

const (
	MEMORY_SIZE    = 0xfff // Bytes of memory, addresses 0x000..0xffe.
	PROGRAM_BASE   = 0x200 // Load address and initial program counter.
	PROGRAM_LIMIT  = MEMORY_SIZE - PROGRAM_BASE
	REGISTER_COUNT = 16
	REGISTER_FLAG  = 0xf // VF, the carry/borrow/collision flag.
	KEY_COUNT      = 16
)

var _machine_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("0x%x", MEMORY_SIZE),
	"PROGRAM_BASE":   fmt.Sprintf("0x%x", PROGRAM_BASE),
	"FONT_BASE":      fmt.Sprintf("0x%x", FONT_BASE),
	"FONT_GLYPH":     fmt.Sprintf("%d", FONT_GLYPH),
	"DISPLAY_WIDTH":  fmt.Sprintf("%d", DISPLAY_WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%d", DISPLAY_HEIGHT),
	"STACK_LIMIT":    fmt.Sprintf("%d", STACK_LIMIT),
}

// State is the mutable state of one machine.
type State struct {
	Memory     [MEMORY_SIZE]uint8    // Main memory, font at FONT_BASE.
	V          [REGISTER_COUNT]uint8 // General registers V0..VF.
	I          uint16                // Index register.
	PC         uint16                // Program counter.
	Stack      Stack                 // Return addresses.
	Display    Display               // Output bitmap.
	Keys       [KEY_COUNT]bool       // Pressed state of keys 0x0..0xF.
	DelayTimer uint8
	SoundTimer uint8
}

// NewState creates a reset machine state.
func NewState() (st *State) {
	st = &State{}
	st.Reset()
	return
}

// Defines for the machine geometry.
func (st *State) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// Reset the machine state.
// - Clears memory, registers, the stack, timers, keys and the display.
// - Loads the font at FONT_BASE.
// - Sets the program counter to PROGRAM_BASE.
func (st *State) Reset() {
	clear(st.Memory[:])
	clear(st.V[:])
	clear(st.Keys[:])
	st.I = 0
	st.Stack.Reset()
	st.Display.Clear()
	st.DelayTimer = 0
	st.SoundTimer = 0

	copy(st.Memory[FONT_BASE:], font[:])

	st.PC = PROGRAM_BASE
}

// Load copies a program image into memory at PROGRAM_BASE.
// Images larger than PROGRAM_LIMIT are rejected and memory is left untouched.
func (st *State) Load(image []byte) (err error) {
	if len(image) > PROGRAM_LIMIT {
		err = &ErrLoad{Size: len(image), Limit: PROGRAM_LIMIT}
		return
	}

	copy(st.Memory[PROGRAM_BASE:], image)
	return
}

// Peek reads the byte at addr.
func (st *State) Peek(addr uint16) (value uint8, err error) {
	if int(addr) >= MEMORY_SIZE {
		err = ErrAddress(addr)
		return
	}

	value = st.Memory[addr]
	return
}

// Poke writes the byte at addr.
func (st *State) Poke(addr uint16, value uint8) (err error) {
	if int(addr) >= MEMORY_SIZE {
		err = ErrAddress(addr)
		return
	}

	st.Memory[addr] = value
	return
}

// Span checks that count bytes starting at addr are all within memory.
func (st *State) Span(addr uint16, count int) (err error) {
	if count <= 0 {
		return
	}

	last := int(addr) + count - 1
	if last >= MEMORY_SIZE {
		err = ErrAddress(uint16(max(int(addr), MEMORY_SIZE)))
	}
	return
}

// Register returns the value of register x.
func (st *State) Register(x int) (value uint8, err error) {
	if x < 0 || x >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	value = st.V[x]
	return
}

// SetRegister sets the value of register x.
func (st *State) SetRegister(x int, value uint8) (err error) {
	if x < 0 || x >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	st.V[x] = value
	return
}

// Key reports whether key k is pressed.
func (st *State) Key(k int) (pressed bool, err error) {
	if k < 0 || k >= KEY_COUNT {
		err = ErrKeyInvalid
		return
	}

	pressed = st.Keys[k]
	return
}

// SetKeys replaces the whole keypad state.
func (st *State) SetKeys(keys [KEY_COUNT]bool) {
	st.Keys = keys
}
