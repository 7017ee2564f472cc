// Package client implements the txKV sessions that talk to the store's
// JSON-RPC endpoint.
//
// Key Components:
//
//   - Transaction: Stateful session. Request lists are sent with method
//     req_list together with the transaction log of the previous response.
//     The log is replaced on every response, dropped after a successful commit
//     and by Abort (which sends nothing).
//
//   - SingleOp: Stateless session. Every operation commits on its own, request
//     lists are sent with req_list_commit_each and may not contain a commit.
//
//   - PubSub: publish, subscribe, unsubscribe and get_subscribers.
//
//   - ReplicatedDHT: non-transactional delete on all replicas of a key with a
//     per-replica tally of the last delete.
//
// Every session takes its transport at construction; there is no process-wide
// default connection. Several sessions may share one transport:
//
//	config := common.DefaultClientConfig()
//	t := http.NewHttpClientTransport()
//
//	tx, err := client.NewTransaction(config, t)
//	if err != nil {
//	  return err
//	}
//	defer tx.CloseConnection()
//
//	if err := tx.Write("key", "value"); err != nil {
//	  return err
//	}
//	if err := tx.Commit(); err != nil {
//	  // kverr.ErrTimeout, kverr.ErrAbort, ...
//	  return err
//	}
//
// Errors:
//
//	All errors are *kverr.Error values. A KindConnection error means no usable
//	response was received and the session state is unchanged. Nothing is
//	retried by the sessions.
//
// Metrics:
//
//	Every call updates txkv_rpc_calls_total, txkv_rpc_duration_seconds and
//	txkv_rpc_errors_total (per method and error kind) in the default
//	VictoriaMetrics set.
//
// Thread Safety:
//
//	Sessions are not safe for concurrent use. Use one session per goroutine
//	(and per logical transaction); the transport can be shared.
package client
