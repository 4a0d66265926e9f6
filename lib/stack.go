package lib

// stack is the LIFO used for pending operators while tokenizing and for
// operand values while evaluating.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

func (s *stack[T]) pop() (v T, ok bool) {
	v, ok = s.peek()
	if ok {
		s.items = s.items[:len(s.items)-1]
	}
	return v, ok
}

func (s *stack[T]) peek() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

func (s *stack[T]) len() int {
	return len(s.items)
}
