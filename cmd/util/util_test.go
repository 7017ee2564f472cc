package util

import (
	"strings"
	"testing"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line longer than %d: %q", Wrap, line)
		}
	}
	if WrapString("") != "" {
		t.Error("empty text not empty")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{[]byte("a\x00"), `"a\x00"`},
		{float64(3), "3"},
		{[]any{1.0, "x"}, `[1,"x"]`},
		{map[string]any{"a": true}, `{"a":true}`},
		{nil, "null"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
