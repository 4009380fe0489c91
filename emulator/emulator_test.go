package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/machine"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu.State)
	assert.Equal(KEY_HOLD, emu.Keyboard.Hold)
	assert.Equal(machine.PROGRAM_BASE, emu.PC())
	assert.Equal(0, emu.LineNo())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("0xf", defines["REGISTER_FLAG"])
	assert.Equal("16", defines["KEY_COUNT"])
	assert.Equal("64", defines["DISPLAY_WIDTH"])
	assert.Equal("32", defines["DISPLAY_HEIGHT"])
	assert.Equal("0x200", defines["PROGRAM_BASE"])
}

// doRunSingle runs a straight line program, one opcode per tick.
func doRunSingle(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	for _, op := range emu.Program.Opcodes {
		here := program[op.LineNo-1]
		assert.Equal(op.LineNo, emu.LineNo(), here)
		assert.Equal(int(op.Addr), emu.PC(), here)
		_, err := emu.Tick()
		assert.NoError(err, here)
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
	}
}

// doRunBranch runs a program until it reaches a jump to itself.
func doRunBranch(emu *Emulator, program []string, t *testing.T) {
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	for range 10000 {
		code := emu.Code()
		if code.Op() == cpu.OP_JP && int(code.NNN()) == emu.PC() {
			return
		}
		line := emu.LineNo()
		_, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("line %d: %v", line, err)
		}
	}

	t.Fatal("program did not halt")
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		".equ SPEED 3",
		"ld v0, SPEED",
		"ld v1, $(SPEED * 2 + 1)",
		"ld v2, v1",
		"add v2, v0",
		"ld v3, DISPLAY_WIDTH",
		"add v3, v3",
		"shl v4, v3",
	}

	doRunSingle(emu, program, t)

	st := emu.Cpu.State
	assert.Equal(uint8(3), st.V[0])
	assert.Equal(uint8(7), st.V[1])
	assert.Equal(uint8(10), st.V[2])
	assert.Equal(uint8(128), st.V[3])
	assert.Equal(uint8(0), st.V[4])
	assert.Equal(uint8(1), st.V[0xf])
	assert.Equal(7, emu.Ticks())
}

func TestEmulatorMacro(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".macro SETADD rn a b",
		"ld rn, a",
		"add rn, b",
		".endm",
		"SETADD v0 8 8",
		".equ CONST_10 0x10",
		"SETADD v1 CONST_10 CONST_10",
		"SETADD v2 $(CONST_10 + CONST_10) v0",
		"SETADD v3 v2 v0",
	}

	doRunSingle(emu, program, t)

	st := emu.Cpu.State
	assert.Equal(uint8(0x10), st.V[0])
	assert.Equal(uint8(0x20), st.V[1])
	assert.Equal(uint8(0x30), st.V[2])
	assert.Equal(uint8(0x40), st.V[3])
}

func TestEmulatorLabel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"  ld v0, 0x10",
		"  call inc",
		"  call inc",
		"  jp done",
		"inc:",
		"  add v0, 1",
		"  ret",
		"done:",
		"  ld v1, 0x20",
		"halt: jp halt",
	}

	doRunBranch(emu, program, t)

	st := emu.Cpu.State
	assert.Equal(uint8(0x12), st.V[0])
	assert.Equal(uint8(0x20), st.V[1])
	assert.True(st.Stack.Empty())
	assert.Equal(10, emu.LineNo())
}

func TestEmulatorDraw(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"  ld v0, 7",
		"  ld f, v0",
		"  ld v1, 0",
		"  drw v1, v1, FONT_GLYPH",
		"halt: jp halt",
	}

	doRunBranch(emu, program, t)

	display := emu.Display()
	assert.Equal(8, display.Lit())
	assert.True(display.Pixel(0, 0))
	assert.True(display.Pixel(3, 1))
	assert.True(display.Pixel(1, 4))
	assert.Equal(uint8(0), emu.Cpu.State.V[0xf])
}

func TestEmulatorBcd(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"  ld v5, 195",
		"  ld i, scratch",
		"  ld b, v5",
		"  ld v2, [i]",
		"halt: jp halt",
		"scratch:",
		"  db 0, 0, 0",
	}

	doRunBranch(emu, program, t)

	st := emu.Cpu.State
	assert.Equal([]uint8{1, 9, 5}, st.V[:3])
	assert.Equal(uint16(0x20d), st.I)
}

func TestEmulatorKeys(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader("ld v0, k\nhalt: jp halt\n"))
	require.NoError(t, err)

	for range 3 {
		_, err = emu.Tick()
		assert.NoError(err)
		assert.Equal(0x200, emu.PC())
	}

	assert.True(emu.Keyboard.Press('w'))
	_, err = emu.Tick()
	assert.NoError(err)
	assert.Equal(uint8(0x5), emu.Cpu.State.V[0])
	assert.Equal(0x202, emu.PC())
}

func TestEmulatorKeysDirect(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Keyboard.Hold = 1
	err := emu.Assemble(strings.NewReader("loop: skp v1\njp loop\nhalt: jp halt\n"))
	require.NoError(t, err)

	// Keys set directly on the machine survive while the keyboard is idle.
	emu.Cpu.State.V[1] = 0xa
	emu.Cpu.State.SetKeys([machine.KEY_COUNT]bool{0xa: true})
	_, err = emu.Tick()
	assert.NoError(err)
	assert.Equal(0x204, emu.PC())
	assert.True(emu.Cpu.State.Keys[0xa])

	// A keystroke takes over, then is released on the following cycle.
	require.NoError(t, emu.Reset())
	emu.Cpu.State.V[1] = 0xa
	assert.True(emu.Keyboard.Press('z'))
	_, err = emu.Tick()
	assert.NoError(err)
	assert.Equal(0x204, emu.PC())
	assert.True(emu.Cpu.State.Keys[0xa])

	_, err = emu.Tick()
	assert.NoError(err)
	assert.False(emu.Cpu.State.Keys[0xa])
}

func TestEmulatorTone(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := &bytes.Buffer{}
	emu.Buzzer.Output = output

	err := emu.Assemble(strings.NewReader("ld v0, 2\nld st, v0\nhalt: jp halt\n"))
	require.NoError(t, err)

	var tones []bool
	for range 6 {
		tone, err := emu.Tick()
		assert.NoError(err)
		tones = append(tones, tone)
	}

	assert.Equal([]bool{false, false, true, false, false, false}, tones)
	assert.Equal("\a", output.String())
	assert.Equal(1, emu.Buzzer.Count)
}

func TestEmulatorUnknown(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Load([]byte{0x01, 0x23, 0x60, 0x05})
	require.NoError(t, err)

	_, err = emu.Tick()
	assert.ErrorIs(err, cpu.ErrInstructionUnknown)
	assert.False(cpu.IsFatal(err))

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(0, rt.LineNo)
		assert.Equal(0x200, rt.PC)
		assert.Contains(rt.Error(), "pc 0x200")
	}

	_, err = emu.Tick()
	assert.NoError(err)
	assert.Equal(uint8(5), emu.Cpu.State.V[0])
	assert.Equal(1, emu.Unknown)
	assert.Equal(2, emu.Ticks())
}

func TestEmulatorFatal(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader("cls\nret\n"))
	require.NoError(t, err)

	_, err = emu.Tick()
	assert.NoError(err)

	_, err = emu.Tick()
	assert.ErrorIs(err, machine.ErrStackUnderflow)
	assert.True(cpu.IsFatal(err))

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(2, rt.LineNo)
		assert.Contains(rt.Error(), "line 2")
	}

	assert.Equal(0x202, emu.PC())
	assert.Equal(1, emu.Ticks())
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Load([]byte{0x60, 0x42})
	require.NoError(t, err)

	err = emu.Load(make([]byte, machine.PROGRAM_LIMIT+1))
	assert.ErrorIs(err, machine.ErrLoadTooLarge)

	// The previous image is still loaded.
	assert.Equal(cpu.Code(0x6042), emu.Code())

	_, err = emu.Tick()
	assert.NoError(err)
	assert.Equal(uint8(0x42), emu.Cpu.State.V[0])

	err = emu.Reset()
	assert.NoError(err)
	assert.Equal(uint8(0), emu.Cpu.State.V[0])
	assert.Equal(machine.PROGRAM_BASE, emu.PC())
	assert.Equal(cpu.Code(0x6042), emu.Code())
	assert.Equal(0, emu.Ticks())
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader("ld v0, 0x42\n"))
	require.NoError(t, err)

	err = emu.Assemble(strings.NewReader("ld v0, nowhere\n"))
	assert.ErrorIs(err, cpu.ErrParseNumber("nowhere"))

	var syn *cpu.ErrSyntax
	if assert.True(errors.As(err, &syn)) {
		assert.Equal(1, syn.LineNo)
	}

	// The previous program is still loaded.
	assert.Equal(cpu.Code(0x6042), emu.Code())
	assert.Equal(1, emu.LineNo())
}
