package io

import (
	"io"

	"github.com/ezrec/chip8/machine"
)

// KeyMap maps host keys onto the keypad, in the usual layout:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var KeyMap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// Keyboard turns a stream of host keystrokes into keypad state.
// Terminals report no key releases, so a key stays down for Hold
// cycles after its last keystroke.
type Keyboard struct {
	Hold int // Cycles a keystroke stays pressed; at least 1.

	held [machine.KEY_COUNT]int
}

var _ io.Writer = (*Keyboard)(nil)

// Reset releases every key.
func (kb *Keyboard) Reset() {
	clear(kb.held[:])
}

// Press a host key, reporting whether it maps onto the keypad.
func (kb *Keyboard) Press(ch byte) (ok bool) {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}

	key, ok := KeyMap[ch]
	if !ok {
		return
	}

	kb.held[key] = max(kb.Hold, 1)
	return
}

// Write presses each byte of p as a host key.
func (kb *Keyboard) Write(p []byte) (n int, err error) {
	for _, ch := range p {
		kb.Press(ch)
	}

	n = len(p)
	return
}

// Keys returns the current keypad state.
func (kb *Keyboard) Keys() (keys [machine.KEY_COUNT]bool) {
	for key, cycles := range kb.held {
		keys[key] = cycles > 0
	}
	return
}

// Held reports whether any key is still down.
func (kb *Keyboard) Held() bool {
	for _, cycles := range kb.held {
		if cycles > 0 {
			return true
		}
	}
	return false
}

// Tick returns the keypad state for this cycle, then ages held keys.
func (kb *Keyboard) Tick() (keys [machine.KEY_COUNT]bool) {
	keys = kb.Keys()

	for key := range kb.held {
		if kb.held[key] > 0 {
			kb.held[key]--
		}
	}

	return
}
