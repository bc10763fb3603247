package profile

import "testing"

func TestStart_EmptyMode(t *testing.T) {
	p := Start(WithPath(t.TempDir()), WithQuiet(true))
	if _, ok := p.(ignore); !ok {
		t.Fatalf("Start without mode = %T, want no-op", p)
	}

	p.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	p := Start(WithMode("nonexistent"), WithPath(t.TempDir()))
	if _, ok := p.(ignore); !ok {
		t.Fatalf("Start with unknown mode = %T, want no-op", p)
	}

	p.Stop()
}
