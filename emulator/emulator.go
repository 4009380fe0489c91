// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/machine"
)

const (
	CLOCK_HZ   = 500 // Default cycles per second.
	KEY_HOLD   = 8   // Default keystroke hold, in cycles.
	FRAME_RATE = 60  // Display refreshes per second.
)

var _emulator_defines = map[string]string{
	"REGISTER_FLAG": fmt.Sprintf("0x%x", machine.REGISTER_FLAG),
	"KEY_COUNT":     fmt.Sprintf("%d", machine.KEY_COUNT),
}

// Emulator state. CPU + program listing + host collaborators.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Keyboard io.Keyboard // Keypad input.
	Buzzer   io.Buzzer   // Tone output.

	image []byte
	keyed bool // Keyboard state was applied on the previous cycle.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Keyboard.Hold = KEY_HOLD

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Seq2Concat(maps.All(_emulator_defines),
		emu.Cpu.State.Defines(),
	)
}

// Assemble a program source, and load it.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	err = emu.load(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Load a program image, without source listing.
func (emu *Emulator) Load(image []byte) (err error) {
	err = emu.load(image)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{}
	return
}

func (emu *Emulator) load(image []byte) (err error) {
	if len(image) > machine.PROGRAM_LIMIT {
		err = &machine.ErrLoad{Size: len(image), Limit: machine.PROGRAM_LIMIT}
		return
	}

	emu.image = image

	err = emu.Reset()
	return
}

// Reset the machine, and reload the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Keyboard.Reset()
	emu.keyed = false

	err = emu.Cpu.State.Load(emu.image)
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// PC returns the current program counter.
func (emu *Emulator) PC() int {
	return int(emu.Cpu.State.PC)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	code, _ := emu.Cpu.Fetch()
	return code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.State.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Display returns the machine's display.
func (emu *Emulator) Display() *machine.Display {
	return &emu.Cpu.State.Display
}

// Tick performs a single cycle of the emulator: keypad sampling, one
// instruction, and the tone. Unknown instructions are counted and reported
// as a non-fatal ErrRuntime; see cpu.IsFatal.
func (emu *Emulator) Tick() (tone bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.PC()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, PC: pc, Err: err}
		}
	}()

	// The keyboard only owns the keypad while it holds keys, plus one cycle
	// to release them. Otherwise keys set with State.SetKeys are left alone.
	if emu.Keyboard.Held() {
		emu.Cpu.State.SetKeys(emu.Keyboard.Tick())
		emu.keyed = true
	} else if emu.keyed {
		emu.Cpu.State.SetKeys(emu.Keyboard.Keys())
		emu.keyed = false
	}

	tone, err = emu.Cpu.Tick()
	if err != nil && !cpu.IsFatal(err) && emu.Verbose {
		log.Printf("emulator: %03x: unknown instruction (%d so far)", pc, emu.Cpu.Unknown)
	}

	if tone {
		buzz_err := emu.Buzzer.Sound()
		if buzz_err != nil && emu.Verbose {
			log.Printf("emulator: buzzer: %v", buzz_err)
		}
	}

	return
}
