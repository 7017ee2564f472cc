// Package rpc provides the communication layer between txKV sessions and the
// JSON-RPC endpoint of the transactional key-value store.
//
// The package is organized into several subpackages:
//
//   - common: The JSON-RPC envelope, method names, client configuration and
//     logging.
//
//   - transport: Transport abstractions with an HTTP implementation.
//
//   - serializer: Compact JSON encoding of envelopes and results.
//
//   - client: The Transaction and SingleOp sessions plus the PubSub and
//     ReplicatedDHT facades.
//
//   - testing: An in-memory stub node speaking the endpoint's protocol, used in
//     tests and by `txkv stub`.
package rpc
