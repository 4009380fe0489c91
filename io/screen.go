package io

import (
	"io"
	"strings"

	"github.com/ezrec/chip8/machine"
)

const (
	SCREEN_HOME  = "\033[H"  // Cursor to top left.
	SCREEN_CLEAR = "\033[2J" // Erase the terminal.
)

// Screen renders a display to a terminal, one character per pixel.
type Screen struct {
	Output io.Writer
	On     string // Lit pixel, "█" if empty.
	Off    string // Dark pixel, " " if empty.
}

// Clear erases the terminal.
func (sc *Screen) Clear() (err error) {
	_, err = io.WriteString(sc.Output, SCREEN_CLEAR+SCREEN_HOME)
	return
}

// Render draws the whole display from the top left of the terminal.
// Rows end in "\r\n", as the terminal may be in raw mode.
func (sc *Screen) Render(display *machine.Display) (err error) {
	on, off := sc.On, sc.Off
	if len(on) == 0 {
		on = "█"
	}
	if len(off) == 0 {
		off = " "
	}

	var frame strings.Builder
	frame.WriteString(SCREEN_HOME)
	for _, row := range display.Rows() {
		for _, lit := range row {
			if lit {
				frame.WriteString(on)
			} else {
				frame.WriteString(off)
			}
		}
		frame.WriteString("\r\n")
	}

	_, err = io.WriteString(sc.Output, frame.String())
	return
}
