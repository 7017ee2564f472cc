package result

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/txKV/lib/kverr"
)

var (
	ok       = map[string]any{"status": "ok"}
	timeout  = map[string]any{"status": "fail", "reason": "timeout"}
	abort    = map[string]any{"status": "fail", "reason": "abort"}
	notFound = map[string]any{"status": "fail", "reason": "not_found"}
)

// expectKind checks that err has the given kind and carries raw unmodified
func expectKind(t *testing.T, err error, kind kverr.Kind, raw any) {
	t.Helper()
	var e *kverr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *kverr.Error, got %v", err)
	}
	if e.Kind != kind {
		t.Fatalf("kind = %s, want %s (%v)", e.Kind, kind, err)
	}
	if !reflect.DeepEqual(e.Raw, raw) {
		t.Errorf("Raw = %v, want %v", e.Raw, raw)
	}
}

func TestProcessRead(t *testing.T) {
	v, err := ProcessRead(map[string]any{"status": "ok", "value": map[string]any{"type": "plain", "value": "v"}})
	if err != nil || v != "v" {
		t.Fatalf("got %v, %v", v, err)
	}

	v, err = ProcessRead(map[string]any{"status": "ok", "value": map[string]any{"type": "binary", "value": "AAE="}})
	if err != nil || !reflect.DeepEqual(v, []byte{0, 1}) {
		t.Fatalf("got %v, %v", v, err)
	}

	tests := []struct {
		name string
		raw  any
		kind kverr.Kind
	}{
		{"timeout", timeout, kverr.KindTimeout},
		{"not found", notFound, kverr.KindNotFound},
		{"abort is not a read reason", abort, kverr.KindUnknown},
		{"status only", ok, kverr.KindUnknown},
		{"extra field", map[string]any{"status": "ok", "value": "x", "more": 1}, kverr.KindUnknown},
		{"value not wire", map[string]any{"status": "ok", "value": "x"}, kverr.KindUnknown},
		{"not a map", "ok", kverr.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProcessRead(tt.raw)
			expectKind(t, err, tt.kind, tt.raw)
		})
	}
}

func TestProcessWriteAndCommit(t *testing.T) {
	for name, fn := range map[string]func(any) error{"write": ProcessWrite, "commit": ProcessCommit, "subscribe": ProcessSubscribe} {
		t.Run(name, func(t *testing.T) {
			if err := fn(ok); err != nil {
				t.Errorf("ok: %v", err)
			}
			expectKind(t, fn(timeout), kverr.KindTimeout, timeout)
			expectKind(t, fn(abort), kverr.KindAbort, abort)
			expectKind(t, fn(notFound), kverr.KindUnknown, notFound)
			expectKind(t, fn(nil), kverr.KindUnknown, nil)
		})
	}
}

func TestProcessTestAndSet(t *testing.T) {
	if err := ProcessTestAndSet(ok); err != nil {
		t.Errorf("ok: %v", err)
	}
	expectKind(t, ProcessTestAndSet(notFound), kverr.KindNotFound, notFound)
	expectKind(t, ProcessTestAndSet(timeout), kverr.KindTimeout, timeout)
	expectKind(t, ProcessTestAndSet(abort), kverr.KindAbort, abort)

	changed := map[string]any{"status": "fail", "reason": "key_changed", "value": map[string]any{"type": "plain", "value": "current"}}
	err := ProcessTestAndSet(changed)
	expectKind(t, err, kverr.KindKeyChanged, changed)
	var e *kverr.Error
	errors.As(err, &e)
	if e.OldValue != "current" {
		t.Errorf("OldValue = %v", e.OldValue)
	}

	// key_changed without value is malformed
	missing := map[string]any{"status": "fail", "reason": "key_changed"}
	expectKind(t, ProcessTestAndSet(missing), kverr.KindUnknown, missing)
}

func TestProcessPubSub(t *testing.T) {
	if err := ProcessPublish(ok); err != nil {
		t.Errorf("publish: %v", err)
	}
	expectKind(t, ProcessPublish(timeout), kverr.KindUnknown, timeout)

	if err := ProcessUnsubscribe(ok); err != nil {
		t.Errorf("unsubscribe: %v", err)
	}
	expectKind(t, ProcessUnsubscribe(notFound), kverr.KindNotFound, notFound)

	subs, err := ProcessGetSubscribers([]any{})
	if err != nil || subs == nil || len(subs) != 0 {
		t.Errorf("empty: %v, %v", subs, err)
	}
	subs, err = ProcessGetSubscribers([]any{"http://a", "http://b"})
	if err != nil || !reflect.DeepEqual(subs, []string{"http://a", "http://b"}) {
		t.Errorf("got %v, %v", subs, err)
	}
	bad := []any{"http://a", 1.0}
	_, err = ProcessGetSubscribers(bad)
	expectKind(t, err, kverr.KindUnknown, bad)
}

func TestProcessNop(t *testing.T) {
	if err := ProcessNop("ok"); err != nil {
		t.Errorf("nop: %v", err)
	}
	expectKind(t, ProcessNop(ok), kverr.KindUnknown, ok)
}

func TestProcessReqList(t *testing.T) {
	raw := map[string]any{"tlog": "token", "results": []any{ok, notFound}}
	tlog, results, err := ProcessReqListTx(raw)
	if err != nil || tlog != "token" || len(results) != 2 {
		t.Fatalf("got %v, %v, %v", tlog, results, err)
	}

	for _, bad := range []any{[]any{ok}, map[string]any{"results": []any{}}, map[string]any{"tlog": "t", "results": "x"}} {
		_, _, err := ProcessReqListTx(bad)
		expectKind(t, err, kverr.KindUnknown, bad)
	}

	results, err = ProcessReqListSingleOp([]any{})
	if err != nil || len(results) != 0 {
		t.Errorf("got %v, %v", results, err)
	}
	_, err = ProcessReqListSingleOp(raw)
	expectKind(t, err, kverr.KindUnknown, raw)
}
