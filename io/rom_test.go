package io

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/machine"
)

func TestReadRom(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		size int
		err  error
	}){
		{"small", 2, nil},
		{"limit", machine.PROGRAM_LIMIT, nil},
		{"empty", 0, ErrRomEmpty},
		{"large", machine.PROGRAM_LIMIT + 1, machine.ErrLoadTooLarge},
	}

	for _, entry := range table {
		data := bytes.Repeat([]byte{0xa5}, entry.size)

		image, err := ReadRom(bytes.NewReader(data))
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.name)
			assert.Nil(image, entry.name)
			continue
		}

		assert.NoError(err, entry.name)
		assert.Equal(data, image, entry.name)
	}
}

func TestLoadRom(t *testing.T) {
	assert := assert.New(t)

	filesys := fstest.MapFS{
		"pong.ch8": &fstest.MapFile{Data: []byte{0x00, 0xe0, 0x12, 0x00}},
		"huge.ch8": &fstest.MapFile{Data: make([]byte, 4096)},
	}

	image, err := LoadRom(filesys, "pong.ch8")
	assert.NoError(err)
	assert.Equal([]byte{0x00, 0xe0, 0x12, 0x00}, image)

	_, err = LoadRom(filesys, "huge.ch8")
	var errLoad *machine.ErrLoad
	if assert.ErrorAs(err, &errLoad) {
		assert.Equal(4096, errLoad.Size)
		assert.Equal(machine.PROGRAM_LIMIT, errLoad.Limit)
	}

	_, err = LoadRom(filesys, "missing.ch8")
	assert.Error(err)
}
