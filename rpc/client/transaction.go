package client

import (
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/reqlist"
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/transport"
)

// NewTransaction creates a new transaction session.
// The session starts idle, i.e. without a transaction log.
// The transport is connected with the given config if it is not connected yet
func NewTransaction(config common.ClientConfig, t transport.IRPCClientTransport) (*Transaction, error) {
	adapter, err := newRPCClientAdapter(config, t)
	if err != nil {
		return nil, err
	}
	return &Transaction{rpcClientAdapter: adapter}, nil
}

// Transaction issues read and write operations inside a transaction.
//
// The session holds the transaction log returned by the endpoint and sends it
// with the next request list. It is idle until the first request list is sent
// and becomes idle again after a successful commit or Abort.
//
// A Transaction must not be used concurrently.
type Transaction struct {
	rpcClientAdapter
	tlog   any
	active bool
}

// --------------------------------------------------------------------------
// Request Lists
// --------------------------------------------------------------------------

// NewReqList returns an empty request list for this session.
func (tx *Transaction) NewReqList() *reqlist.List {
	return reqlist.New()
}

// ReqList sends all operations of list in one round trip and returns one
// result entry per operation. Entries can be interpreted with
// ProcessResultRead and ProcessResultWrite.
//
// The transaction log of the response always replaces the one held by the
// session, even if some entries failed. If list ends with a commit, the last
// entry is checked: on success the session becomes idle, on failure the
// commit error is returned together with the entries and the session keeps
// the new transaction log.
func (tx *Transaction) ReqList(list *reqlist.List) ([]any, error) {
	if list == nil {
		return nil, kverr.IllegalState("no request list given")
	}

	ops := list.Requests()
	var raw any
	var err error
	if tx.active {
		raw, err = tx.call(common.MethodReqList, tx.tlog, ops)
	} else {
		raw, err = tx.call(common.MethodReqList, ops)
	}
	if err != nil {
		return nil, err
	}

	tlog, results, err := result.ProcessReqListTx(raw)
	if err != nil {
		return nil, tx.observe(common.MethodReqList, err)
	}

	// Adopt the new transaction log (it reflects whatever the endpoint recorded)
	tx.tlog = tlog
	tx.active = true

	if len(results) != len(ops) {
		return nil, tx.observe(common.MethodReqList,
			kverr.Unknownf(raw, "expected %d results, got %d", len(ops), len(results)))
	}

	if list.IsCommit() {
		if err := result.ProcessCommit(results[len(results)-1]); err != nil {
			return results, tx.observe(common.MethodReqList, err)
		}
		// transaction was successful: reset the transaction log
		tx.reset()
	}

	return results, nil
}

// ProcessResultRead interprets an entry returned by ReqList that originated from a read.
// Beware: lists of (small) integers may be returned as a string, see value.StrToList.
func (tx *Transaction) ProcessResultRead(entry any) (any, error) {
	return result.ProcessRead(entry)
}

// ProcessResultWrite interprets an entry returned by ReqList that originated from a write.
func (tx *Transaction) ProcessResultWrite(entry any) error {
	return result.ProcessWrite(entry)
}

// --------------------------------------------------------------------------
// Single Operations
// --------------------------------------------------------------------------

// Read reads the value at key inside the transaction.
// Beware: lists of (small) integers may be returned as a string, see value.StrToList.
func (tx *Transaction) Read(key string) (any, error) {
	list := tx.NewReqList()
	if err := list.AddRead(key); err != nil {
		return nil, err
	}
	results, err := tx.ReqList(list)
	if err != nil {
		return nil, err
	}
	v, err := result.ProcessRead(results[0])
	return v, tx.observe(common.MethodReqList, err)
}

// Write writes value to key inside the transaction. Nothing is committed.
func (tx *Transaction) Write(key string, v any) error {
	list := tx.NewReqList()
	if err := list.AddWrite(key, v); err != nil {
		return err
	}
	results, err := tx.ReqList(list)
	if err != nil {
		return err
	}
	return tx.observe(common.MethodReqList, result.ProcessWrite(results[0]))
}

// Commit commits all operations of the transaction.
// On success the session becomes idle.
func (tx *Transaction) Commit() error {
	list := tx.NewReqList()
	if err := list.AddCommit(); err != nil {
		return err
	}
	_, err := tx.ReqList(list)
	return err
}

// Abort drops the transaction log. No request is sent, the endpoint discards
// abandoned transactions on its own.
func (tx *Transaction) Abort() {
	tx.reset()
}

// IsActive reports whether the session holds a transaction log.
func (tx *Transaction) IsActive() bool {
	return tx.active
}

// TLog returns the transaction log held by the session (nil if idle).
func (tx *Transaction) TLog() any {
	return tx.tlog
}

// reset returns the session to idle
func (tx *Transaction) reset() {
	tx.tlog = nil
	tx.active = false
}
