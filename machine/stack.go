package machine

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack is the fixed-depth return address stack.
type Stack struct {
	Data    [STACK_LIMIT]uint16
	Pointer int // Number of pushed entries; 0 is empty.
}

// Push a return address, reporting false when the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Pointer] = value
	s.Pointer++
	return true
}

// Pop the top return address, reporting false when the stack is empty.
func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Pointer--
	}
	return
}

// Empty reports whether nothing is pushed.
func (s *Stack) Empty() bool {
	return s.Pointer == 0
}

// Full reports whether STACK_LIMIT entries are pushed.
func (s *Stack) Full() bool {
	return s.Pointer == STACK_LIMIT
}

// Peek returns the top return address without removing it.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Pointer-1], true
}

// Reset empties the stack.
func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Pointer = 0
}
