package common

import (
	"encoding/json"
)

// --------------------------------------------------------------------------
// RPC Envelope
// --------------------------------------------------------------------------

// ProtocolVersion is sent with every request
const ProtocolVersion = "2.0"

// Request is the envelope of a single RPC call.
// Params are positional.
type Request struct {
	ProtocolVersion string `json:"protocolVersion"`
	Method          Method `json:"method"`
	Params          []any  `json:"params"`
	ID              int    `json:"id"`
}

// Response is the envelope returned by the endpoint.
// Result is kept raw so that a missing field can be told apart from a null result.
type Response struct {
	ProtocolVersion string          `json:"protocolVersion,omitempty"`
	Result          json.RawMessage `json:"result,omitempty"`
	Error           json.RawMessage `json:"error,omitempty"`
	ID              any             `json:"id,omitempty"`
}

// HasResult reports whether the response carried a result field
func (r *Response) HasResult() bool {
	return len(r.Result) > 0
}

// NewRequest creates a new request envelope for the given method
func NewRequest(method Method, params ...any) *Request {
	if params == nil {
		params = []any{}
	}
	return &Request{
		ProtocolVersion: ProtocolVersion,
		Method:          method,
		Params:          params,
		ID:              0,
	}
}

// --------------------------------------------------------------------------
// Methods
// --------------------------------------------------------------------------

// Method is the name of a remote procedure.
type Method string

const (
	MethodRead              Method = "read"
	MethodWrite             Method = "write"
	MethodTestAndSet        Method = "test_and_set"
	MethodNop               Method = "nop"
	MethodReqList           Method = "req_list"
	MethodReqListCommitEach Method = "req_list_commit_each"
	MethodPublish           Method = "publish"
	MethodSubscribe         Method = "subscribe"
	MethodUnsubscribe       Method = "unsubscribe"
	MethodGetSubscribers    Method = "get_subscribers"
	MethodDelete            Method = "delete"
)

// String returns the method name.
func (m Method) String() string {
	return string(m)
}
