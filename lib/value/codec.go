package value

import (
	"encoding/base64"
	"github.com/ValentinKolb/txKV/lib/kverr"
)

const (
	TypeBinary = "binary"
	TypePlain  = "plain"
)

// Wire is the tagged form of a value as sent to the store.
type Wire struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Encode converts a native value into its wire form.
func Encode(v any) Wire {
	if b, ok := v.([]byte); ok {
		return Wire{Type: TypeBinary, Value: base64.StdEncoding.EncodeToString(b)}
	}
	return Wire{Type: TypePlain, Value: v}
}

// Decode converts a wire value (as decoded from JSON, or a Wire) back into a
// native value. Both the type and the value field must be present.
func Decode(raw any) (any, error) {
	var typ, payload any
	switch w := raw.(type) {
	case Wire:
		typ, payload = w.Type, w.Value
	case *Wire:
		if w == nil {
			return nil, kverr.Unknown(raw)
		}
		typ, payload = w.Type, w.Value
	case map[string]any:
		var ok bool
		if typ, ok = w["type"]; !ok {
			return nil, kverr.Unknown(raw)
		}
		if payload, ok = w["value"]; !ok {
			return nil, kverr.Unknown(raw)
		}
	default:
		return nil, kverr.Unknown(raw)
	}

	if typ != TypeBinary {
		return payload, nil
	}

	s, ok := payload.(string)
	if !ok {
		return nil, kverr.Unknown(raw)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &kverr.Error{Kind: kverr.KindUnknown, Raw: raw, Err: err}
	}
	return b, nil
}

// StrToList converts a string into the list of its code points.
// Other values are returned unchanged. The elements are float64 so the result
// compares equal to a list decoded from JSON.
func StrToList(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	out := make([]any, 0, len(s))
	for _, r := range s {
		out = append(out, float64(r))
	}
	return out
}
