package codegen

// Scope tracks which names are already declared on the active chain of blocks.
// Each nested block pushes a frame; names declared in a frame are forgotten when it is popped,
// while names from enclosing frames stay visible.
type Scope struct {
	frames []map[string]struct{}
}

// NewScope returns a scope with a single, empty top-level frame
func NewScope() *Scope {
	s := &Scope{}
	s.Push()
	return s
}

func (s *Scope) Push() {
	s.frames = append(s.frames, make(map[string]struct{}))
}

// Pop discards the innermost frame. The top-level frame is never removed.
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Declared reports if name was declared in any active frame
func (s *Scope) Declared(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			return true
		}
	}
	return false
}

// Declare adds name to the innermost frame
func (s *Scope) Declare(name string) {
	s.frames[len(s.frames)-1][name] = struct{}{}
}

// depth is the number of active frames
func (s *Scope) depth() int {
	return len(s.frames)
}
