package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuzzer(t *testing.T) {
	assert := assert.New(t)

	silent := &Buzzer{}
	assert.NoError(silent.Sound())
	assert.Equal(1, silent.Count)

	output := &bytes.Buffer{}
	bell := &Buzzer{Output: output}
	assert.NoError(bell.Sound())
	assert.NoError(bell.Sound())
	assert.Equal("\a\a", output.String())
	assert.Equal(2, bell.Count)
}
