package repl

import "testing"

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "mostra x", "", 0, false},
		{"first argument", "mostra f com ", "f", 0, true},
		{"first argument typed", "mostra f com 1", "f", 0, true},
		{"second argument", "mostra f com 1, ", "f", 1, true},
		{"real literal is one argument", "mostra f com 1,5", "f", 0, true},
		{"comma inside text", `mostra f com "a, b", `, "f", 1, true},
		{"innermost call", "mostra f com 1, g com 2, ", "g", 1, true},
		{"terminated statement", "mostra f com 1. mostra ", "", 0, false},
		{"definition header", "define f com int n", "", 0, false},
		{"keyword before com", "mostra com", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, len(tt.input))
			if got.name != tt.wantName || got.argIndex != tt.wantIndex || got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q) = %+v, want {name:%s argIndex:%d inCall:%v}",
					tt.input, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestDetectFunctionCall_Cursor(t *testing.T) {
	input := "mostra f com 1, 2. mostra g"

	got := detectFunctionCall(input, len("mostra f com 1, "))
	if !got.inCall || got.name != "f" || got.argIndex != 1 {
		t.Errorf("got %+v, want call of f at argument 1", got)
	}
}

func TestGetSignature(t *testing.T) {
	s := NewSession(nil, testLogger)
	if _, err := s.Exec(t.Context(), "define f com int n, real x como retorna n mais x. e deu"); err != nil {
		t.Fatalf("exec: %v", err)
	}

	params, ok := getSignature(s, "f")
	if !ok || len(params) != 2 || params[0] != "int n" || params[1] != "real x" {
		t.Errorf("getSignature(f) = %q, %v", params, ok)
	}

	if _, ok := getSignature(s, "g"); ok {
		t.Error("getSignature(g) found an undefined function")
	}
}

func TestRenderSignatureHint(t *testing.T) {
	got := renderSignatureHint("f", []string{"int n", "real x"}, 1)
	if got != "f com int n, real x" {
		t.Errorf("renderSignatureHint = %q", got)
	}

	if got := renderSignatureHint("g", nil, 0); got != "g" {
		t.Errorf("renderSignatureHint without params = %q", got)
	}
}
