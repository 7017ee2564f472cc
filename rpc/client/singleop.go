package client

import (
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/reqlist"
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/lib/value"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/transport"
)

// NewSingleOp creates a new session for single operations.
// Every operation is committed by the endpoint on its own.
func NewSingleOp(config common.ClientConfig, t transport.IRPCClientTransport) (*SingleOp, error) {
	adapter, err := newRPCClientAdapter(config, t)
	if err != nil {
		return nil, err
	}
	return &SingleOp{rpcClientAdapter: adapter}, nil
}

// SingleOp issues read and write operations that are committed individually.
// It holds no transaction state and is safe for concurrent use.
type SingleOp struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Request Lists
// --------------------------------------------------------------------------

// NewReqList returns an empty request list that does not accept commits.
func (s *SingleOp) NewReqList() *reqlist.List {
	return reqlist.NewSingleOp()
}

// ReqList sends all operations of list in one round trip; each one is
// committed on its own. The raw entries are returned in order and can be
// interpreted with ProcessResultRead and ProcessResultWrite.
func (s *SingleOp) ReqList(list *reqlist.List) ([]any, error) {
	if list == nil {
		return nil, kverr.IllegalState("no request list given")
	}
	if list.IsCommit() {
		return nil, kverr.IllegalState("no commit allowed in a single-op request list")
	}

	ops := list.Requests()
	raw, err := s.call(common.MethodReqListCommitEach, ops)
	if err != nil {
		return nil, err
	}

	results, err := result.ProcessReqListSingleOp(raw)
	if err != nil {
		return nil, s.observe(common.MethodReqListCommitEach, err)
	}
	if len(results) != len(ops) {
		return nil, s.observe(common.MethodReqListCommitEach,
			kverr.Unknownf(raw, "expected %d results, got %d", len(ops), len(results)))
	}
	return results, nil
}

// ProcessResultRead interprets an entry returned by ReqList that originated from a read.
// Beware: lists of (small) integers may be returned as a string, see value.StrToList.
func (s *SingleOp) ProcessResultRead(entry any) (any, error) {
	return result.ProcessRead(entry)
}

// ProcessResultWrite interprets an entry returned by ReqList that originated from a write.
// The write has been committed, so the commit mapping applies.
func (s *SingleOp) ProcessResultWrite(entry any) error {
	return result.ProcessCommit(entry)
}

// --------------------------------------------------------------------------
// Single Operations
// --------------------------------------------------------------------------

// Read reads the value at key.
// Beware: lists of (small) integers may be returned as a string, see value.StrToList.
func (s *SingleOp) Read(key string) (any, error) {
	raw, err := s.call(common.MethodRead, key)
	if err != nil {
		return nil, err
	}
	v, err := result.ProcessRead(raw)
	return v, s.observe(common.MethodRead, err)
}

// Write writes value to key and commits it.
func (s *SingleOp) Write(key string, v any) error {
	raw, err := s.call(common.MethodWrite, key, value.Encode(v))
	if err != nil {
		return err
	}
	return s.observe(common.MethodWrite, result.ProcessCommit(raw))
}

// TestAndSet atomically writes newValue to key if its current value is oldValue.
// If the value differs, a KindKeyChanged error carrying the current value is returned.
func (s *SingleOp) TestAndSet(key string, oldValue, newValue any) error {
	raw, err := s.call(common.MethodTestAndSet, key, value.Encode(oldValue), value.Encode(newValue))
	if err != nil {
		return err
	}
	return s.observe(common.MethodTestAndSet, result.ProcessTestAndSet(raw))
}
