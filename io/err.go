package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrRomEmpty = errors.New(f("rom empty"))
)
