package check

import (
	"slices"

	"github.com/ardnew/fala/lang"
)

type binding struct {
	name string
	typ  lang.Type
}

// Scope is a stack of frames of name bindings. Frames are pushed on entry
// to a body and popped on exit, discarding every binding made inside.
// Lookup scans the innermost frame first. The zero value has no frames;
// binding into an empty scope opens the outermost frame.
type Scope struct {
	frames [][]binding
}

// NewScope returns a scope holding one empty outermost frame.
func NewScope() *Scope {
	return &Scope{frames: [][]binding{nil}}
}

// Push opens a new innermost frame.
func (s *Scope) Push() { s.frames = append(s.frames, nil) }

// Pop discards the innermost frame and all of its bindings. Popping the
// outermost frame is a no-op.
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of active frames.
func (s *Scope) Depth() int { return len(s.frames) }

// Bind records name with type t in the innermost frame.
func (s *Scope) Bind(name string, t lang.Type) {
	if len(s.frames) == 0 {
		s.Push()
	}

	top := len(s.frames) - 1
	s.frames[top] = append(s.frames[top], binding{name: name, typ: t})
}

// Lookup returns the type of the most recent binding of name in any active
// frame.
func (s *Scope) Lookup(name string) (lang.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		for j := len(frame) - 1; j >= 0; j-- {
			if frame[j].name == name {
				return frame[j].typ, true
			}
		}
	}

	return lang.TypeUnknown, false
}

// Names returns every distinct name visible in the active frames, sorted.
func (s *Scope) Names() []string {
	var names []string

	for _, frame := range s.frames {
		for _, b := range frame {
			names = append(names, b.name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Globals returns the latest type of every name bound in the outermost
// frame.
func (s *Scope) Globals() map[string]lang.Type {
	globals := make(map[string]lang.Type)

	if len(s.frames) > 0 {
		for _, b := range s.frames[0] {
			globals[b.name] = b.typ
		}
	}

	return globals
}
