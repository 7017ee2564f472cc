package value

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/txKV/lib/kverr"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Wire
	}{
		{"string", "hello", Wire{Type: TypePlain, Value: "hello"}},
		{"number", 42, Wire{Type: TypePlain, Value: 42}},
		{"list", []any{1, "a"}, Wire{Type: TypePlain, Value: []any{1, "a"}}},
		{"bytes", []byte("hi"), Wire{Type: TypeBinary, Value: "aGk="}},
		{"empty bytes", []byte{}, Wire{Type: TypeBinary, Value: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Encode(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWireJSON(t *testing.T) {
	b, err := json.Marshal(Encode([]byte{0xff, 0x00}))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"type":"binary","value":"/wA="}` {
		t.Errorf("got %s", b)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	values := []any{"text", float64(3), true, nil, []byte("raw\x00bytes"), map[string]any{"a": "b"}}

	for _, v := range values {
		b, err := json.Marshal(Encode(v))
		if err != nil {
			t.Fatal(err)
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			t.Fatal(err)
		}
		got, err := Decode(generic)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", b, err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Errorf("round trip of %v returned %v", v, got)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"missing type", map[string]any{"value": "x"}},
		{"missing value", map[string]any{"type": "plain"}},
		{"not a map", "plain"},
		{"binary not a string", map[string]any{"type": "binary", "value": 12.0}},
		{"bad base64", map[string]any{"type": "binary", "value": "%%%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if !errors.Is(err, kverr.ErrUnknown) {
				t.Fatalf("expected unknown error, got %v", err)
			}
			var e *kverr.Error
			errors.As(err, &e)
			if !reflect.DeepEqual(e.Raw, tt.raw) {
				t.Errorf("Raw = %v, want %v", e.Raw, tt.raw)
			}
		})
	}
}

func TestDecodeUnknownTypeIsVerbatim(t *testing.T) {
	got, err := Decode(map[string]any{"type": "other", "value": "x"})
	if err != nil || got != "x" {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestStrToList(t *testing.T) {
	if got := StrToList("\x01\x02A"); !reflect.DeepEqual(got, []any{1.0, 2.0, 65.0}) {
		t.Errorf("got %v", got)
	}
	if got := StrToList(""); !reflect.DeepEqual(got, []any{}) {
		t.Errorf("got %v", got)
	}
	in := []any{1.0}
	if got := StrToList(in); !reflect.DeepEqual(got, in) {
		t.Errorf("non-string changed: %v", got)
	}
}
