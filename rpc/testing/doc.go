// Package testing provides an in-memory stub of a txKV endpoint for tests
// and local experiments.
//
// The stub speaks the same JSON-RPC protocol as the store: it answers all
// methods used by the rpc/client sessions, keeps committed values in memory
// and returns an opaque transaction log with every req_list call.
// Single methods can be overridden to inject failures, and every received
// call is recorded.
//
// Example usage:
//
//	node, config := rpctesting.NewTestServer(t)
//	tx, err := client.NewTransaction(config, http.NewHttpClientTransport())
//	...
//	node.Override(common.MethodNop, func(params []any) any { return rpctesting.NoResult })
package testing
