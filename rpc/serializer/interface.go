package serializer

import "github.com/ValentinKolb/txKV/rpc/common"

// IRPCSerializer is the interface for all envelope serializers
type IRPCSerializer interface {
	// SerializeRequest serializes a request envelope into a byte array
	SerializeRequest(req *common.Request) ([]byte, error)
	// DeserializeRequest deserializes a byte array into a request envelope
	DeserializeRequest(b []byte, req *common.Request) error
	// SerializeResponse serializes a response envelope into a byte array
	SerializeResponse(resp *common.Response) ([]byte, error)
	// DeserializeResponse deserializes a byte array into a response envelope
	DeserializeResponse(b []byte, resp *common.Response) error
	// DecodeResult decodes the raw result of a response into generic values
	// (map[string]any, []any, string, float64, bool, nil)
	DecodeResult(raw []byte) (any, error)
	// EncodeResult encodes a generic value as the raw result of a response
	EncodeResult(v any) ([]byte, error)
}
