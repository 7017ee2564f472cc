// Package transport defines the interfaces of the transport layer that
// carries JSON-RPC envelopes between txKV sessions and the endpoint.
//
// The package focuses on:
//   - A single blocking client primitive: send one serialized request, receive
//     one serialized response or an error
//   - A server interface used by the stub node in tests and by `txkv stub`
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations
//     that handles connection management and request sending. Transports own
//     their connection lifecycle and reconnect on demand.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receive requests and pass them to a registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
