package check

import (
	"slices"
	"testing"

	"github.com/ardnew/fala/lang"
)

func TestScope(t *testing.T) {
	s := NewScope()
	s.Bind("x", lang.TypeInt)

	s.Push()
	s.Bind("x", lang.TypeText)
	s.Bind("y", lang.TypeBool)

	if got, _ := s.Lookup("x"); got != lang.TypeText {
		t.Errorf("inner x = %v, want text", got)
	}

	if got := s.Names(); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("names = %q", got)
	}

	s.Pop()

	if got, _ := s.Lookup("x"); got != lang.TypeInt {
		t.Errorf("outer x = %v, want int", got)
	}

	if _, ok := s.Lookup("y"); ok {
		t.Error("y survived its frame")
	}

	s.Pop()

	if s.Depth() != 1 {
		t.Errorf("depth = %d, want 1", s.Depth())
	}

	if _, ok := s.Lookup("x"); !ok {
		t.Error("outermost frame was discarded")
	}
}

func TestScope_ZeroValue(t *testing.T) {
	var s Scope

	if _, ok := s.Lookup("x"); ok {
		t.Error("empty scope resolved a name")
	}

	s.Bind("x", lang.TypeReal)

	if got := s.Globals(); got["x"] != lang.TypeReal {
		t.Errorf("globals = %v", got)
	}
}
