// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/ezrec/chip8/machine"
)

const (
	CODE_SIZE = 2 // Bytes per instruction word.
)

// Cpu is the interpreter context for one machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State  *machine.State // Machine state, exclusively owned.
	Random *rand.Rand     // Source for the rnd instruction.

	Ticks   int // Completed cycles since reset.
	Unknown int // Unknown instructions skipped since reset.
}

// NewCpu creates a new CPU with a freshly reset machine state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		State:  machine.NewState(),
		Random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	return
}

// Seed makes the rnd instruction sequence reproducible.
func (cpu *Cpu) Seed(seed uint64) {
	cpu.Random = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reset the CPU state.
// - Resets the machine state, loading the font and setting PC to PROGRAM_BASE.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.State.Reset()
	cpu.Ticks = 0
	cpu.Unknown = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	st := cpu.State

	text += fmt.Sprintf("%5s: %03x\n", "pc", st.PC)
	text += fmt.Sprintf("%5s: %03x\n", "i", st.I)
	for n := 0; n < machine.REGISTER_COUNT; n += 4 {
		text += fmt.Sprintf("   v%x: %02x  v%x: %02x  v%x: %02x  v%x: %02x\n",
			n, st.V[n], n+1, st.V[n+1], n+2, st.V[n+2], n+3, st.V[n+3])
	}
	text += fmt.Sprintf("%5s: %02x\n", "dt", st.DelayTimer)
	text += fmt.Sprintf("%5s: %02x\n", "st", st.SoundTimer)

	stack := "-"
	if value, ok := st.Stack.Peek(); ok {
		stack = fmt.Sprintf("%03x (depth %d)", value, st.Stack.Pointer)
	}
	text += fmt.Sprintf("%5s: %v\n", "stack", stack)

	return
}

// Fetch reads the big-endian instruction word at the program counter.
func (cpu *Cpu) Fetch() (code Code, err error) {
	st := cpu.State

	err = st.Span(st.PC, CODE_SIZE)
	if err != nil {
		return
	}

	code = Code(st.Memory[st.PC])<<8 | Code(st.Memory[st.PC+1])
	return
}

// Tick runs one fetch, decode, execute cycle, followed by the timer
// countdown. The tone result is set on the cycle where the sound timer
// counts down from 1 to 0.
//
// Fatal errors (see IsFatal) leave the machine exactly as it was before the
// cycle. An unknown instruction is reported as a non-fatal error after PC
// has advanced past it and the timers have counted down.
func (cpu *Cpu) Tick() (tone bool, err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	if IsFatal(err) {
		return
	}

	tone = cpu.tickTimers()
	cpu.Ticks++

	return
}

// Execute executes a single decoded instruction, including its program
// counter update.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu: %03x: %v", cpu.State.PC, code)
	}

	op := code.Op()
	if op == OP_UNKNOWN {
		cpu.Unknown++
		cpu.State.PC += CODE_SIZE
		if cpu.Verbose {
			log.Printf("cpu: %03x: unknown instruction 0x%04x skipped", cpu.State.PC-CODE_SIZE, uint16(code))
		}
		err = ErrInstructionUnknown
		return
	}

	err = instructions[op](cpu, code)

	return
}

// tickTimers counts down both timers and reports the sound timer's 1 to 0
// transition.
func (cpu *Cpu) tickTimers() (tone bool) {
	st := cpu.State

	if st.DelayTimer > 0 {
		st.DelayTimer--
	}

	if st.SoundTimer > 0 {
		tone = st.SoundTimer == 1
		st.SoundTimer--
	}

	return
}
