package client

import (
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/transport"
)

// DefaultDeleteTimeoutMillis is the time the store waits for replicas in Delete
const DefaultDeleteTimeoutMillis = 2000

// NewReplicatedDHT creates a new client for non-transactional operations on the replicas
func NewReplicatedDHT(config common.ClientConfig, t transport.IRPCClientTransport) (*ReplicatedDHT, error) {
	adapter, err := newRPCClientAdapter(config, t)
	if err != nil {
		return nil, err
	}
	return &ReplicatedDHT{rpcClientAdapter: adapter}, nil
}

// ReplicatedDHT offers non-transactional operations working directly on the replicas of a key.
type ReplicatedDHT struct {
	rpcClientAdapter
	lastDeleteResult []any
	hasLastDelete    bool
}

// Delete deletes the value at key waiting DefaultDeleteTimeoutMillis for the replicas.
// See DeleteWithTimeout.
func (d *ReplicatedDHT) Delete(key string) (int, error) {
	return d.DeleteWithTimeout(key, DefaultDeleteTimeoutMillis)
}

// DeleteWithTimeout tries to delete the value at key on all replicas and
// returns the number of replicas that deleted it. Use LastDeleteResult for
// details.
//
// If the store gave up waiting for some replicas, the partial count is
// returned together with a KindTimeout error.
//
// WARNING: This operation bypasses transactions and can lead to inconsistent
// data, e.g. deleted items can re-appear, and when re-creating an item the
// version before the delete can re-appear.
func (d *ReplicatedDHT) DeleteWithTimeout(key string, timeoutMillis int) (int, error) {
	raw, err := d.call(common.MethodDelete, key, timeoutMillis)
	if err != nil {
		return 0, err
	}

	outcome, err := result.ProcessDelete(raw)
	if err != nil {
		return 0, d.observe(common.MethodDelete, err)
	}

	d.lastDeleteResult = outcome.Results
	d.hasLastDelete = true

	if outcome.Status == result.DeleteTimeout {
		return outcome.Ok, d.observe(common.MethodDelete, kverr.Timeout(raw))
	}
	return outcome.Ok, nil
}

// LastDeleteResult tallies the per-replica results of the last delete.
// The raw list is traversed on every call, keep the returned value if it is needed more than once.
func (d *ReplicatedDHT) LastDeleteResult() (result.DeleteResult, error) {
	if !d.hasLastDelete {
		return result.DeleteResult{}, kverr.IllegalState("no delete has been issued yet")
	}
	return result.NewDeleteResult(d.lastDeleteResult)
}
