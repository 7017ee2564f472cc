// Package http implements the HTTP transport that carries txKV's JSON-RPC
// envelopes. It provides concrete implementations of the transport interfaces
// defined in the parent package.
//
// The package focuses on:
//   - Client-side transport: every request is one HTTP POST to
//     <endpoint><path> with Content-Type "application/json; charset=utf-8"
//   - Server-side transport: routes POST requests on the rpc path to a
//     registered handler (used by the stub node)
//   - Round-robin load balancing across multiple server endpoints
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. A response with a
//     status outside 2xx is an error. A request that produced no response at
//     all is repeated up to RetryCount times (default: once, i.e. no retry).
//     Close drops idle connections; the next Send reconnects. Connecting an
//     already connected transport with a different configuration fails.
//
//   - httpServerTransport: Implements IRPCServerTransport and exposes its mux
//     via Handler so it can be mounted in an httptest.Server.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be shared by many sessions.
//	It uses atomic operations for the round-robin counter.
package http
