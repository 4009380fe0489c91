// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/translate"
)

const KEY_ESCAPE = 0x1b

func main() {
	var compile string
	var hz int
	var seed uint64
	var hold int
	var mono bool
	var list bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble and run")
	flag.IntVar(&hz, "hz", emulator.CLOCK_HZ, "Cycles per second")
	flag.Uint64Var(&seed, "seed", 0, "Random seed, 0 for a random sequence")
	flag.IntVar(&hold, "hold", emulator.KEY_HOLD, "Cycles a keystroke stays pressed")
	flag.BoolVar(&mono, "mono", false, "Plain ASCII display")
	flag.BoolVar(&list, "l", false, "List the program, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix(filepath.Base(os.Args[0]) + ": ")

	if verbose {
		log.Printf("locales: %v", strings.Join(translate.Languages(), ", "))
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Keyboard.Hold = hold
	if seed != 0 {
		emu.Cpu.Seed(seed)
	}

	var image []byte

	switch {
	case len(compile) != 0 && flag.NArg() == 0:
		// Assemble a new program.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		image = emu.Program.Binary()
	case len(compile) == 0 && flag.NArg() == 1:
		rom := flag.Arg(0)

		var err error
		image, err = io.LoadRom(os.DirFS(filepath.Dir(rom)), filepath.Base(rom))
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}

		err = emu.Load(image)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	default:
		log.Fatalf("usage: %v [options] (-c FILE.asm | FILE.ch8)", os.Args[0])
	}

	if list {
		listing(emu.Program, image)
		return
	}

	err := run(emu, hz, mono)
	if err != nil {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
		log.Fatal(err)
	}
}

// listing prints the program source listing, or a disassembly when there
// is no source.
func listing(prog *cpu.Program, image []byte) {
	if len(prog.Opcodes) == 0 {
		for addr, code := range cpu.Disassemble(image) {
			fmt.Printf("%03x: %04x  %v\n", addr, uint16(code), code)
		}
		return
	}

	for _, op := range prog.Opcodes {
		fmt.Printf("%03x: % -12x %4d: %v\n", op.Addr, op.Data, op.LineNo, strings.Join(op.Words, " "))
	}
}

// run the emulator at hz cycles per second until ESC, a signal, or a
// fatal error.
func run(emu *emulator.Emulator, hz int, mono bool) (err error) {
	err = enterRawTerm()
	if err != nil {
		if emu.Verbose {
			log.Printf("raw terminal: %v", err)
		}
		err = nil
	}
	defer exitRawTerm()

	screen := &io.Screen{Output: os.Stdout}
	if mono {
		screen.On = "#"
		screen.Off = " "
	}
	emu.Buzzer.Output = os.Stdout

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	cycle := time.NewTicker(time.Second / time.Duration(max(hz, 1)))
	defer cycle.Stop()

	frame := time.NewTicker(time.Second / emulator.FRAME_RATE)
	defer frame.Stop()

	err = screen.Clear()
	if err != nil {
		return
	}

	for {
		select {
		case <-signals:
			return
		case <-frame.C:
			err = screen.Render(emu.Display())
			if err != nil {
				return
			}
		case <-cycle.C:
			keys := readKeys()
			if bytes.IndexByte(keys, KEY_ESCAPE) >= 0 {
				return
			}
			emu.Keyboard.Write(keys)

			_, err = emu.Tick()
			if cpu.IsFatal(err) {
				screen.Render(emu.Display())
				return
			}
			err = nil
		}
	}
}
