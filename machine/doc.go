// Package machine holds the complete mutable state of one CHIP-8 virtual
// machine: 4095 bytes of memory with the glyph font at 0x000, sixteen 8-bit
// registers (VF doubles as the carry, borrow and collision flag), the 16-bit
// index and program counter, a 16-entry return stack, the 64x32 monochrome
// display, the 16-key keypad and the delay and sound timers.
//
// The package holds no instruction semantics; package cpu mutates a State.
package machine
