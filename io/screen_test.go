package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/machine"
)

func TestScreen_Render(t *testing.T) {
	assert := assert.New(t)

	display := &machine.Display{}
	display.Flip(0, 0)
	display.Flip(63, 31)

	output := &bytes.Buffer{}
	sc := &Screen{Output: output, On: "#", Off: "."}

	err := sc.Render(display)
	assert.NoError(err)

	text := output.String()
	assert.True(strings.HasPrefix(text, SCREEN_HOME))

	rows := strings.Split(strings.TrimPrefix(text, SCREEN_HOME), "\r\n")
	assert.Equal(machine.DISPLAY_HEIGHT+1, len(rows))
	assert.Equal("#"+strings.Repeat(".", 63), rows[0])
	assert.Equal(strings.Repeat(".", 64), rows[1])
	assert.Equal(strings.Repeat(".", 63)+"#", rows[31])
	assert.Equal("", rows[32])
}

func TestScreen_Default(t *testing.T) {
	assert := assert.New(t)

	display := &machine.Display{}
	display.Flip(1, 0)

	output := &bytes.Buffer{}
	sc := &Screen{Output: output}

	assert.NoError(sc.Clear())
	assert.Equal(SCREEN_CLEAR+SCREEN_HOME, output.String())

	output.Reset()
	assert.NoError(sc.Render(display))
	assert.Contains(output.String(), SCREEN_HOME+" █"+strings.Repeat(" ", 62)+"\r\n")
}
