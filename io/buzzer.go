package io

import (
	"io"
)

// Buzzer sounds the tone as a terminal bell.
type Buzzer struct {
	Output io.Writer // If nil, the buzzer is silent.
	Count  int       // Tones sounded.
}

// Sound the tone once.
func (bz *Buzzer) Sound() (err error) {
	bz.Count++

	if bz.Output == nil {
		return
	}

	_, err = bz.Output.Write([]byte{'\a'})
	return
}
