// Package serializer converts the JSON-RPC envelopes of txKV to and from
// bytes. It defines a common interface so that the client and the stub node
// used in tests share one encoding.
//
// Key Components:
//
//   - IRPCSerializer: Core interface for envelope and result encoding.
//
//   - jsonSerializerImpl: Compact JSON encoding (no whitespace between
//     tokens), the only format the endpoint understands.
//
// Results are decoded into generic values (map[string]any, []any, string,
// float64, bool, nil) because the shape of a result is only known to the
// interpreter of the operation that produced it.
//
// Thread Safety:
//
//	The serializer is stateless and safe for concurrent use.
package serializer
