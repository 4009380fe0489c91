// Package cpu implements the instruction interpreter and assembler for the
// CHIP-8 virtual machine.
//
// Each cycle fetches a big-endian 16-bit instruction word at the program
// counter, decodes it by its top nibble (the family) and, for families 0x0 and
// 0x8 the low nibble, for 0xE and 0xF the low byte, then executes the matching
// instruction against a machine.State. After every executed instruction the
// delay and sound timers count down; the sound timer's 1 to 0 transition is
// reported as the tone signal for that cycle.
//
// The assembler accepts the conventional mnemonic syntax (ld, add, drw, ...),
// labels, equates, data directives and compile-time expressions.
package cpu
