package client

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/rpc/common"
	rpctesting "github.com/ValentinKolb/txKV/rpc/testing"
	transporthttp "github.com/ValentinKolb/txKV/rpc/transport/http"
)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func newTransaction(t *testing.T) (*Transaction, *rpctesting.StubNode) {
	t.Helper()
	node, config := rpctesting.NewTestServer(t)
	tx, err := NewTransaction(config, transporthttp.NewHttpClientTransport())
	if err != nil {
		t.Fatalf("NewTransaction failed: %v", err)
	}
	t.Cleanup(func() { _ = tx.CloseConnection() })
	return tx, node
}

func newSingleOp(t *testing.T) (*SingleOp, *rpctesting.StubNode) {
	t.Helper()
	node, config := rpctesting.NewTestServer(t)
	s, err := NewSingleOp(config, transporthttp.NewHttpClientTransport())
	if err != nil {
		t.Fatalf("NewSingleOp failed: %v", err)
	}
	t.Cleanup(func() { _ = s.CloseConnection() })
	return s, node
}

func expectKind(t *testing.T, err error, sentinel error) {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
}

// --------------------------------------------------------------------------
// Transaction
// --------------------------------------------------------------------------

func TestTransactionLifecycle(t *testing.T) {
	tx, node := newTransaction(t)

	if tx.IsActive() || tx.TLog() != nil {
		t.Fatal("new session must be idle")
	}

	if err := tx.Write("k", "v1"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !tx.IsActive() || tx.TLog() == nil {
		t.Fatal("session must be active after the first request list")
	}

	// the write is visible inside the transaction only
	v, err := tx.Read("k")
	if err != nil || v != "v1" {
		t.Fatalf("Read = %v, %v", v, err)
	}
	if _, found := node.Get("k"); found {
		t.Fatal("write visible before commit")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if tx.IsActive() || tx.TLog() != nil {
		t.Fatal("session must be idle after commit")
	}
	if _, found := node.Get("k"); !found {
		t.Fatal("write not committed")
	}

	// the first request list of a session carries no tlog, later ones do
	calls := node.Calls()
	if len(calls[0].Params) != 1 {
		t.Errorf("first req_list params = %v", calls[0].Params)
	}
	for _, c := range calls[1:] {
		if c.Method != common.MethodReqList || len(c.Params) != 2 {
			t.Errorf("unexpected call %v", c)
		}
	}
}

func TestTransactionReqList(t *testing.T) {
	tx, node := newTransaction(t)
	node.Put("a", map[string]any{"type": "plain", "value": "old"})

	list := tx.NewReqList()
	_ = list.AddRead("a")
	_ = list.AddWrite("b", []byte{1, 2, 3})
	_ = list.AddRead("missing")
	_ = list.AddCommit()

	results, err := tx.ReqList(list)
	if err != nil {
		t.Fatalf("ReqList failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}

	if v, err := tx.ProcessResultRead(results[0]); err != nil || v != "old" {
		t.Errorf("read a = %v, %v", v, err)
	}
	if err := tx.ProcessResultWrite(results[1]); err != nil {
		t.Errorf("write b: %v", err)
	}
	_, err = tx.ProcessResultRead(results[2])
	expectKind(t, err, kverr.ErrNotFound)

	if tx.IsActive() {
		t.Error("session must be idle after a committing list")
	}

	s, err := NewSingleOp(tx.Config(), transporthttp.NewHttpClientTransport())
	if err != nil {
		t.Fatal(err)
	}
	v, err := s.Read("b")
	if err != nil || !reflect.DeepEqual(v, []byte{1, 2, 3}) {
		t.Errorf("committed binary value = %v, %v", v, err)
	}
}

func TestTransactionAbort(t *testing.T) {
	tx, node := newTransaction(t)

	if err := tx.Write("k", 1); err != nil {
		t.Fatal(err)
	}
	before := node.CallCount()

	tx.Abort()
	if tx.IsActive() || tx.TLog() != nil {
		t.Fatal("session must be idle after abort")
	}
	if node.CallCount() != before {
		t.Fatal("abort must not send a request")
	}

	// next transaction starts fresh
	if _, err := tx.Read("k"); !errors.Is(err, kverr.ErrNotFound) {
		t.Errorf("aborted write visible: %v", err)
	}
	calls := node.Calls()
	if len(calls[len(calls)-1].Params) != 1 {
		t.Error("request after abort carries a tlog")
	}
}

func TestTransactionCommitFailureKeepsActive(t *testing.T) {
	tx, node := newTransaction(t)

	if err := tx.Write("k", 1); err != nil {
		t.Fatal(err)
	}

	node.Override(common.MethodReqList, func(params []any) any {
		return map[string]any{
			"tlog":    "failed-tlog",
			"results": []any{map[string]any{"status": "fail", "reason": "abort"}},
		}
	})

	err := tx.Commit()
	expectKind(t, err, kverr.ErrAbort)
	if !tx.IsActive() {
		t.Fatal("failed commit must keep the session active")
	}
	if tx.TLog() != "failed-tlog" {
		t.Errorf("tlog not adopted: %v", tx.TLog())
	}
}

func TestTransactionConnectionErrorKeepsState(t *testing.T) {
	tx, node := newTransaction(t)

	if err := tx.Write("k", 1); err != nil {
		t.Fatal(err)
	}
	tlog := tx.TLog()

	node.FailHTTP(true)
	expectKind(t, tx.Write("k", 2), kverr.ErrConnection)
	node.FailHTTP(false)

	if !tx.IsActive() || !reflect.DeepEqual(tx.TLog(), tlog) {
		t.Fatal("connection error changed the session state")
	}

	node.Override(common.MethodReqList, func(params []any) any { return rpctesting.NoResult })
	expectKind(t, tx.Write("k", 3), kverr.ErrConnection)
	if !reflect.DeepEqual(tx.TLog(), tlog) {
		t.Fatal("missing result changed the session state")
	}
}

func TestTransactionMalformedResult(t *testing.T) {
	tx, node := newTransaction(t)

	node.Override(common.MethodReqList, func(params []any) any {
		return map[string]any{"results": []any{}}
	})
	expectKind(t, tx.Write("k", 1), kverr.ErrUnknown)
	if tx.IsActive() {
		t.Error("malformed result must not activate the session")
	}

	node.Override(common.MethodReqList, func(params []any) any {
		return map[string]any{"tlog": "t", "results": []any{}}
	})
	expectKind(t, tx.Write("k", 1), kverr.ErrUnknown)
}

func TestTransactionNilList(t *testing.T) {
	tx, _ := newTransaction(t)
	_, err := tx.ReqList(nil)
	expectKind(t, err, kverr.ErrIllegalState)
}

// --------------------------------------------------------------------------
// Single Operations
// --------------------------------------------------------------------------

func TestSingleOp(t *testing.T) {
	s, _ := newSingleOp(t)

	_, err := s.Read("k")
	expectKind(t, err, kverr.ErrNotFound)

	if err := s.Write("k", "v"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if v, err := s.Read("k"); err != nil || v != "v" {
		t.Fatalf("Read = %v, %v", v, err)
	}

	// test and set
	if err := s.TestAndSet("k", "v", "w"); err != nil {
		t.Fatalf("TestAndSet failed: %v", err)
	}
	err = s.TestAndSet("k", "v", "x")
	expectKind(t, err, kverr.ErrKeyChanged)
	var e *kverr.Error
	errors.As(err, &e)
	if e.OldValue != "w" {
		t.Errorf("OldValue = %v", e.OldValue)
	}
	expectKind(t, s.TestAndSet("missing", "a", "b"), kverr.ErrNotFound)

	if err := s.Nop("value"); err != nil {
		t.Errorf("Nop failed: %v", err)
	}
}

func TestSingleOpReqList(t *testing.T) {
	s, _ := newSingleOp(t)

	// an empty list is allowed
	results, err := s.ReqList(s.NewReqList())
	if err != nil || len(results) != 0 {
		t.Fatalf("empty list: %v, %v", results, err)
	}

	list := s.NewReqList()
	_ = list.AddWrite("a", "1")
	_ = list.AddRead("a")
	_ = list.AddRead("b")
	results, err = s.ReqList(list)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ProcessResultWrite(results[0]); err != nil {
		t.Errorf("write: %v", err)
	}
	if v, err := s.ProcessResultRead(results[1]); err != nil || v != "1" {
		t.Errorf("read a = %v, %v", v, err)
	}
	_, err = s.ProcessResultRead(results[2])
	expectKind(t, err, kverr.ErrNotFound)

	if err := list.AddCommit(); !errors.Is(err, kverr.ErrIllegalState) {
		t.Errorf("single-op list accepted a commit: %v", err)
	}
}

func TestNopMissingResult(t *testing.T) {
	s, node := newSingleOp(t)
	node.Override(common.MethodNop, func(params []any) any { return rpctesting.NoResult })
	expectKind(t, s.Nop(1), kverr.ErrConnection)

	node.Override(common.MethodNop, func(params []any) any { return "not ok" })
	expectKind(t, s.Nop(1), kverr.ErrUnknown)
}

func TestSharedTransport(t *testing.T) {
	_, config := rpctesting.NewTestServer(t)
	transport := transporthttp.NewHttpClientTransport()

	s, err := NewSingleOp(config, transport)
	if err != nil {
		t.Fatal(err)
	}
	tx, err := NewTransaction(config, transport)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write("k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := tx.Read("k"); err != nil || v != "v" {
		t.Errorf("Read = %v, %v", v, err)
	}
}

func TestSharedTransportDifferentConfig(t *testing.T) {
	nodeA, configA := rpctesting.NewTestServer(t)
	nodeB, configB := rpctesting.NewTestServer(t)
	transport := transporthttp.NewHttpClientTransport()

	a, err := NewSingleOp(configA, transport)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewSingleOp(configB, transport)
	expectKind(t, err, kverr.ErrConnection)

	// the transport still serves the first session only
	if err := a.Write("k", "v"); err != nil {
		t.Fatal(err)
	}
	if nodeA.CallCount() != 1 || nodeB.CallCount() != 0 {
		t.Errorf("calls: a=%d, b=%d", nodeA.CallCount(), nodeB.CallCount())
	}
}

func TestNilTransport(t *testing.T) {
	_, err := NewSingleOp(common.ClientConfig{}, nil)
	expectKind(t, err, kverr.ErrIllegalState)
}

// --------------------------------------------------------------------------
// PubSub
// --------------------------------------------------------------------------

func TestPubSub(t *testing.T) {
	_, config := rpctesting.NewTestServer(t)
	ps, err := NewPubSub(config, transporthttp.NewHttpClientTransport())
	if err != nil {
		t.Fatal(err)
	}

	subs, err := ps.GetSubscribers("topic")
	if err != nil || subs == nil || len(subs) != 0 {
		t.Fatalf("unknown topic: %v, %v", subs, err)
	}

	if err := ps.Subscribe("topic", "http://a"); err != nil {
		t.Fatal(err)
	}
	if err := ps.Subscribe("topic", "http://b"); err != nil {
		t.Fatal(err)
	}
	if err := ps.Publish("topic", "content"); err != nil {
		t.Fatal(err)
	}

	subs, err = ps.GetSubscribers("topic")
	if err != nil || !reflect.DeepEqual(subs, []string{"http://a", "http://b"}) {
		t.Fatalf("got %v, %v", subs, err)
	}

	if err := ps.Unsubscribe("topic", "http://a"); err != nil {
		t.Fatal(err)
	}
	expectKind(t, ps.Unsubscribe("topic", "http://a"), kverr.ErrNotFound)
	expectKind(t, ps.Unsubscribe("other", "http://a"), kverr.ErrNotFound)

	subs, _ = ps.GetSubscribers("topic")
	if !reflect.DeepEqual(subs, []string{"http://b"}) {
		t.Errorf("got %v", subs)
	}
}

// --------------------------------------------------------------------------
// Replicated DHT
// --------------------------------------------------------------------------

func TestDelete(t *testing.T) {
	node, config := rpctesting.NewTestServer(t)
	dht, err := NewReplicatedDHT(config, transporthttp.NewHttpClientTransport())
	if err != nil {
		t.Fatal(err)
	}

	_, err = dht.LastDeleteResult()
	expectKind(t, err, kverr.ErrIllegalState)

	// missing key
	n, err := dht.Delete("k")
	if err != nil || n != 0 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	tally, err := dht.LastDeleteResult()
	if err != nil || tally != (result.DeleteResult{Undefined: rpctesting.Replicas}) {
		t.Errorf("tally = %v, %v", tally, err)
	}

	// existing key
	node.Put("k", map[string]any{"type": "plain", "value": "v"})
	n, err = dht.DeleteWithTimeout("k", 100)
	if err != nil || n != rpctesting.Replicas {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	tally, _ = dht.LastDeleteResult()
	if tally != (result.DeleteResult{Ok: rpctesting.Replicas}) {
		t.Errorf("tally = %v", tally)
	}

	calls := node.Calls()
	if !reflect.DeepEqual(calls[0].Params, []any{"k", float64(DefaultDeleteTimeoutMillis)}) {
		t.Errorf("params = %v", calls[0].Params)
	}
}

func TestDeleteTimeout(t *testing.T) {
	node, config := rpctesting.NewTestServer(t)
	dht, err := NewReplicatedDHT(config, transporthttp.NewHttpClientTransport())
	if err != nil {
		t.Fatal(err)
	}

	node.Override(common.MethodDelete, func(params []any) any {
		return map[string]any{"ok": 3, "results": []any{"ok", "ok", "ok", "undef"}, "failure": "timeout"}
	})

	n, err := dht.Delete("k")
	expectKind(t, err, kverr.ErrTimeout)
	if n != 3 {
		t.Errorf("partial count = %d", n)
	}
	tally, err := dht.LastDeleteResult()
	if err != nil || tally != (result.DeleteResult{Ok: 3, Undefined: 1}) {
		t.Errorf("tally = %v, %v", tally, err)
	}
}
