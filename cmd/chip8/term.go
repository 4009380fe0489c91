// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

var termRestore *unix.Termios

// enterRawTerm puts stdin in raw, non-blocking mode. Signals are still
// delivered, so ^C interrupts.
func enterRawTerm() (err error) {
	fd := int(os.Stdin.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	restore := *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate)
	if err != nil {
		return
	}

	termRestore = &restore
	return
}

// exitRawTerm restores stdin to its state before enterRawTerm.
func exitRawTerm() (err error) {
	if termRestore == nil {
		return
	}

	err = unix.IoctlSetTermios(int(os.Stdin.Fd()), ioctlSetTermios, termRestore)
	termRestore = nil
	return
}

// readKeys returns any keystrokes waiting on stdin, without blocking.
func readKeys() (keys []byte) {
	fd := int(os.Stdin.Fd())

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return
	}

	var buf [16]byte
	count, err := unix.Read(fd, buf[:])
	if err != nil || count <= 0 {
		return
	}

	keys = buf[:count]
	return
}
