package client

import (
	"fmt"
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/lib/result"
	"github.com/ValentinKolb/txKV/lib/value"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/serializer"
	"github.com/ValentinKolb/txKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by all sessions and facades with composition pattern
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// newRPCClientAdapter connects the transport and creates the adapter
func newRPCClientAdapter(config common.ClientConfig, t transport.IRPCClientTransport) (rpcClientAdapter, error) {
	if t == nil {
		return rpcClientAdapter{}, kverr.IllegalState("no transport given")
	}

	config = config.WithDefaults()

	// Connect the transport (fails if it is shared and connected with another config)
	if err := t.Connect(config); err != nil {
		return rpcClientAdapter{}, kverr.Connection(err)
	}

	return rpcClientAdapter{
		config:     config,
		transport:  t,
		serializer: serializer.NewJSONSerializer(),
	}, nil
}

// call sends one request to the endpoint and returns the decoded result.
// Every failure before a result is available is returned as a KindConnection error
func (a *rpcClientAdapter) call(method common.Method, params ...any) (any, error) {
	start := time.Now()
	metrics.GetOrCreateCounter(fmt.Sprintf(`txkv_rpc_calls_total{method=%q}`, method)).Inc()
	defer metrics.GetOrCreateHistogram(fmt.Sprintf(`txkv_rpc_duration_seconds{method=%q}`, method)).UpdateDuration(start)

	// Serialize the request
	reqBytes, err := a.serializer.SerializeRequest(common.NewRequest(method, params...))
	if err != nil {
		return nil, a.observe(method, kverr.Connection(fmt.Errorf("failed to serialize request: %w", err)))
	}

	// Send the request
	respBytes, err := a.transport.Send(reqBytes)
	if err != nil {
		return nil, a.observe(method, kverr.Connection(err))
	}

	// Deserialize the response
	resp := &common.Response{}
	if err = a.serializer.DeserializeResponse(respBytes, resp); err != nil {
		return nil, a.observe(method, kverr.Connection(fmt.Errorf("failed to deserialize response: %w", err)))
	}

	// A response without result is treated like a transport failure
	if !resp.HasResult() {
		return nil, a.observe(method, kverr.Connectionf("response to %s carries no result: %s", method, respBytes))
	}

	res, err := a.serializer.DecodeResult(resp.Result)
	if err != nil {
		return nil, a.observe(method, kverr.Connection(fmt.Errorf("failed to decode result: %w", err)))
	}

	Logger.Debugf("%s took %s", method, time.Since(start))
	return res, nil
}

// observe counts err (if any) by method and kind and returns it unchanged
func (a *rpcClientAdapter) observe(method common.Method, err error) error {
	if err == nil {
		return nil
	}
	kind, _ := kverr.KindOf(err)
	metrics.GetOrCreateCounter(fmt.Sprintf(`txkv_rpc_errors_total{method=%q,kind=%q}`, method, kind)).Inc()
	if kind == kverr.KindConnection {
		Logger.Warningf("%s failed: %v", method, err)
	} else {
		Logger.Debugf("%s failed: %v", method, err)
	}
	return err
}

// Nop sends a value to the endpoint and back without touching the store.
// It may be used to measure the overhead of the JSON-RPC layer
func (a *rpcClientAdapter) Nop(v any) error {
	raw, err := a.call(common.MethodNop, value.Encode(v))
	if err != nil {
		return err
	}
	return a.observe(common.MethodNop, result.ProcessNop(raw))
}

// CloseConnection releases the idle connections of the transport.
// The transport reconnects automatically on the next request
func (a *rpcClientAdapter) CloseConnection() error {
	if a.transport == nil {
		return nil
	}
	return a.transport.Close()
}

// Config returns the configuration the session was created with
func (a *rpcClientAdapter) Config() common.ClientConfig {
	return a.config
}
