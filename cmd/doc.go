// Package cmd implements the command-line interface of txKV, a client for a
// replicated, transactional key-value store. It provides a hierarchical
// command structure mirroring the client sessions.
//
// The package is organized into several subpackages:
//
//   - kv: Single operations (read, write, test-and-set, nop) and a performance test
//   - tx: Runs a list of operations as one transaction
//   - pubsub: Publish/subscribe operations
//   - dht: Non-transactional operations on the replicas (delete)
//   - stub: Serves an in-memory stub endpoint for local experiments
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See txkv -help for a list of all commands.
package cmd
