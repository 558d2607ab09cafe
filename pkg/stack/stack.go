package stack

type Stack[T any] struct {
	a []T
}

// NewStack creates a new stack instance holding elm, bottom first
func NewStack[T any](elm ...T) *Stack[T] {
	s := &Stack[T]{a: make([]T, 0, len(elm)+16)}
	s.a = append(s.a, elm...)
	return s
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) {
	s.a = append(s.a, elm)
}

// Pop removes and returns the top element of the stack.
// ok is false when the stack is empty.
func (s *Stack[T]) Pop() (elm T, ok bool) {
	if len(s.a) == 0 {
		return elm, false
	}

	elm = s.a[len(s.a)-1]
	var zero T
	s.a[len(s.a)-1] = zero
	s.a = s.a[:len(s.a)-1]

	return elm, true
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (elm T, ok bool) {
	if len(s.a) == 0 {
		return elm, false
	}

	return s.a[len(s.a)-1], true
}

// At returns the element at index i counted from the bottom
func (s *Stack[T]) At(i int) T {
	return s.a[i]
}

// Set replaces the element at index i counted from the bottom
func (s *Stack[T]) Set(i int, elm T) {
	s.a[i] = elm
}

// Size returns the number of elements on the stack
func (s *Stack[T]) Size() int {
	return len(s.a)
}

// Reset empties the stack, keeping its capacity
func (s *Stack[T]) Reset() {
	clear(s.a)
	s.a = s.a[:0]
}

// Array returns a copy of the stack contents, bottom first
func (s *Stack[T]) Array() []T {
	return append([]T(nil), s.a...)
}
