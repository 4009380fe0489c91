package io

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/machine"
)

func TestKeyboard_Map(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		ch  byte
		key int
	}{
		{'1', 0x1}, {'4', 0xc}, {'q', 0x4}, {'R', 0xd},
		{'a', 0x7}, {'F', 0xe}, {'z', 0xa}, {'x', 0x0}, {'v', 0xf},
	}

	for _, entry := range table {
		kb := &Keyboard{}
		assert.True(kb.Press(entry.ch), "%c", entry.ch)

		keys := kb.Keys()
		for key := range machine.KEY_COUNT {
			assert.Equal(key == entry.key, keys[key], "%c: key %x", entry.ch, key)
		}
	}

	kb := &Keyboard{}
	assert.False(kb.Press('p'))
	assert.Equal([machine.KEY_COUNT]bool{}, kb.Keys())
}

func TestKeyboard_Hold(t *testing.T) {
	assert := assert.New(t)

	kb := &Keyboard{Hold: 3}

	n, err := kb.Write([]byte("w?"))
	assert.NoError(err)
	assert.Equal(2, n)

	for cycle := range 3 {
		assert.True(kb.Held(), "cycle %d", cycle)
		keys := kb.Tick()
		assert.True(keys[0x5], "cycle %d", cycle)
	}
	assert.False(kb.Held())

	keys := kb.Tick()
	assert.False(keys[0x5])

	// Hold of zero still presses for one cycle.
	kb.Hold = 0
	kb.Press('w')
	assert.True(kb.Tick()[0x5])
	assert.False(kb.Tick()[0x5])

	kb.Hold = 10
	kb.Press('s')
	kb.Reset()
	assert.Equal([machine.KEY_COUNT]bool{}, kb.Keys())
}
