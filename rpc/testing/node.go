package testing

import (
	"fmt"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/serializer"
	"github.com/ValentinKolb/txKV/rpc/transport"
	transporthttp "github.com/ValentinKolb/txKV/rpc/transport/http"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
)

var Logger = logger.GetLogger("stub")

// Replicas is the number of replicas the stub reports for every key
const Replicas = 4

// HandlerFunc computes the result of a method from its params.
// Return NoResult to send a response envelope without result field
type HandlerFunc func(params []any) any

// NoResult makes the stub node answer with an envelope that has no result field
var NoResult any = noResult{}

type noResult struct{}

// Call is a request received by the stub node
type Call struct {
	Method common.Method
	Params []any
}

// StubNode is an in-memory endpoint speaking the store's JSON-RPC protocol.
// It keeps one copy of every key, answers deletes as if every key had Replicas
// replicas and does not deliver pubsub notifications.
// Single methods can be overridden to inject failures.
type StubNode struct {
	data        *xsync.MapOf[string, any]
	subscribers *xsync.MapOf[string, []string]
	overrides   *xsync.MapOf[common.Method, HandlerFunc]
	serializer  serializer.IRPCSerializer
	server      transport.IRPCServerTransport

	callsMu sync.Mutex
	calls   []Call

	failHTTP atomic.Bool
}

// NewStubNode creates an empty stub node
func NewStubNode() *StubNode {
	n := &StubNode{
		data:        xsync.NewMapOf[string, any](),
		subscribers: xsync.NewMapOf[string, []string](),
		overrides:   xsync.NewMapOf[common.Method, HandlerFunc](),
		serializer:  serializer.NewJSONSerializer(),
		server:      transporthttp.NewHttpServerTransport(),
	}
	n.server.RegisterHandler(n.Handle)
	return n
}

// --------------------------------------------------------------------------
// Control
// --------------------------------------------------------------------------

// Handler returns the http.Handler serving the stub on path
func (n *StubNode) Handler(path string) http.Handler {
	return n.server.Handler(path)
}

// Listen serves the stub node on endpoint (blocking)
func (n *StubNode) Listen(endpoint, path string) error {
	return n.server.Listen(endpoint, path)
}

// Override replaces the handler of a method
func (n *StubNode) Override(method common.Method, fn HandlerFunc) {
	n.overrides.Store(method, fn)
}

// ClearOverrides restores the default handlers of all methods
func (n *StubNode) ClearOverrides() {
	n.overrides.Clear()
}

// FailHTTP makes every request fail with status 500 while enabled
func (n *StubNode) FailHTTP(enabled bool) {
	n.failHTTP.Store(enabled)
}

// Calls returns all requests received so far
func (n *StubNode) Calls() []Call {
	n.callsMu.Lock()
	defer n.callsMu.Unlock()
	return append([]Call(nil), n.calls...)
}

// CallCount returns the number of requests received so far
func (n *StubNode) CallCount() int {
	n.callsMu.Lock()
	defer n.callsMu.Unlock()
	return len(n.calls)
}

// Get returns the stored wire value of key
func (n *StubNode) Get(key string) (any, bool) {
	return n.data.Load(key)
}

// Put stores a wire value for key
func (n *StubNode) Put(key string, wire any) {
	n.data.Store(key, wire)
}

// --------------------------------------------------------------------------
// Request Handling
// --------------------------------------------------------------------------

// Handle implements transport.ServerHandleFunc
func (n *StubNode) Handle(body []byte) ([]byte, error) {
	if n.failHTTP.Load() {
		return nil, fmt.Errorf("stub node: injected failure")
	}

	var req common.Request
	if err := n.serializer.DeserializeRequest(body, &req); err != nil {
		return nil, fmt.Errorf("stub node: invalid request: %w", err)
	}

	n.callsMu.Lock()
	n.calls = append(n.calls, Call{Method: req.Method, Params: req.Params})
	n.callsMu.Unlock()

	Logger.Debugf("%s %v", req.Method, req.Params)

	var res any
	if fn, ok := n.overrides.Load(req.Method); ok {
		res = fn(req.Params)
	} else {
		res = n.dispatch(req.Method, req.Params)
	}

	resp := &common.Response{ProtocolVersion: common.ProtocolVersion, ID: req.ID}
	if res != NoResult {
		raw, err := n.serializer.EncodeResult(res)
		if err != nil {
			return nil, err
		}
		resp.Result = raw
	}
	return n.serializer.SerializeResponse(resp)
}

// dispatch routes a request to the default handler of its method
func (n *StubNode) dispatch(method common.Method, params []any) any {
	switch method {
	case common.MethodRead:
		return n.read(str(params, 0), nil)
	case common.MethodWrite:
		n.data.Store(str(params, 0), param(params, 1))
		return ok()
	case common.MethodTestAndSet:
		return n.testAndSet(str(params, 0), param(params, 1), param(params, 2))
	case common.MethodNop:
		return "ok"
	case common.MethodReqList:
		return n.reqList(params)
	case common.MethodReqListCommitEach:
		return n.reqListCommitEach(params)
	case common.MethodPublish:
		return ok()
	case common.MethodSubscribe:
		n.subscribe(str(params, 0), str(params, 1))
		return ok()
	case common.MethodUnsubscribe:
		return n.unsubscribe(str(params, 0), str(params, 1))
	case common.MethodGetSubscribers:
		subs, _ := n.subscribers.Load(str(params, 0))
		out := make([]any, 0, len(subs))
		for _, s := range subs {
			out = append(out, s)
		}
		return out
	case common.MethodDelete:
		return n.delete(str(params, 0))
	default:
		return fail("unknown_method")
	}
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// read looks up key, preferring uncommitted writes of a transaction
func (n *StubNode) read(key string, pending map[string]any) any {
	if w, found := pending[key]; found {
		return map[string]any{"status": "ok", "value": w}
	}
	if w, found := n.data.Load(key); found {
		return map[string]any{"status": "ok", "value": w}
	}
	return fail("not_found")
}

func (n *StubNode) testAndSet(key string, oldValue, newValue any) any {
	var res any
	n.data.Compute(key, func(current any, loaded bool) (any, bool) {
		switch {
		case !loaded:
			res = fail("not_found")
			return nil, true
		case !reflect.DeepEqual(current, oldValue):
			res = map[string]any{"status": "fail", "reason": "key_changed", "value": current}
			return current, false
		default:
			res = ok()
			return newValue, false
		}
	})
	return res
}

// reqList executes a transactional request list.
// The transaction log is {"writes": {key: wire}} holding the uncommitted writes
func (n *StubNode) reqList(params []any) any {
	var tlog any
	var ops []any
	switch len(params) {
	case 1:
		ops, _ = params[0].([]any)
	case 2:
		tlog = params[0]
		ops, _ = params[1].([]any)
	}

	pending := map[string]any{}
	if m, isMap := tlog.(map[string]any); isMap {
		if writes, isMap := m["writes"].(map[string]any); isMap {
			for k, v := range writes {
				pending[k] = v
			}
		}
	}

	results := make([]any, 0, len(ops))
	for _, op := range ops {
		o, _ := op.(map[string]any)
		switch {
		case o["read"] != nil:
			key, _ := o["read"].(string)
			results = append(results, n.read(key, pending))
		case o["write"] != nil:
			w, _ := o["write"].(map[string]any)
			for k, v := range w {
				pending[k] = v
			}
			results = append(results, ok())
		case hasKey(o, "commit"):
			for k, v := range pending {
				n.data.Store(k, v)
			}
			pending = map[string]any{}
			results = append(results, ok())
		default:
			results = append(results, fail("abort"))
		}
	}

	return map[string]any{
		"tlog":    map[string]any{"writes": pending},
		"results": results,
	}
}

// reqListCommitEach executes a request list committing every operation on its own
func (n *StubNode) reqListCommitEach(params []any) any {
	ops, _ := param(params, 0).([]any)
	results := make([]any, 0, len(ops))
	for _, op := range ops {
		o, _ := op.(map[string]any)
		switch {
		case o["read"] != nil:
			key, _ := o["read"].(string)
			results = append(results, n.read(key, nil))
		case o["write"] != nil:
			w, _ := o["write"].(map[string]any)
			for k, v := range w {
				n.data.Store(k, v)
			}
			results = append(results, ok())
		default:
			results = append(results, fail("abort"))
		}
	}
	return results
}

func (n *StubNode) subscribe(topic, url string) {
	n.subscribers.Compute(topic, func(subs []string, _ bool) ([]string, bool) {
		for _, s := range subs {
			if s == url {
				return subs, false
			}
		}
		return append(append([]string(nil), subs...), url), false
	})
}

func (n *StubNode) unsubscribe(topic, url string) any {
	res := fail("not_found")
	n.subscribers.Compute(topic, func(subs []string, loaded bool) ([]string, bool) {
		if !loaded {
			return nil, true
		}
		kept := make([]string, 0, len(subs))
		for _, s := range subs {
			if s == url {
				res = ok()
				continue
			}
			kept = append(kept, s)
		}
		return kept, false
	})
	return res
}

func (n *StubNode) delete(key string) any {
	token := "undef"
	count := 0
	if _, found := n.data.LoadAndDelete(key); found {
		token = "ok"
		count = Replicas
	}
	results := make([]any, Replicas)
	for i := range results {
		results[i] = token
	}
	return map[string]any{"ok": count, "results": results}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func ok() map[string]any {
	return map[string]any{"status": "ok"}
}

func fail(reason string) map[string]any {
	return map[string]any{"status": "fail", "reason": reason}
}

func param(params []any, i int) any {
	if i < len(params) {
		return params[i]
	}
	return nil
}

func str(params []any, i int) string {
	s, _ := param(params, i).(string)
	return s
}

func hasKey(m map[string]any, key string) bool {
	_, found := m[key]
	return found
}
