// Package value implements the wire codec for values stored in txKV.
//
// The store distinguishes two kinds of payloads on the wire:
//
//	{"type": "binary", "value": "<base64>"}  // raw bytes
//	{"type": "plain",  "value": <json>}      // everything else, verbatim
//
// Encode maps a []byte to the binary form and every other value (strings,
// numbers, booleans, nested slices and maps) to the plain form. Decode is the
// inverse and returns a []byte for binary payloads.
//
// Caveat: the store may return a plain list of small integers as a string.
// Callers that wrote such a list and need it back as a list must call
// StrToList on the decoded value; this is never done automatically.
package value
