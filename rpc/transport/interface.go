package transport

import (
	"github.com/ValentinKolb/txKV/rpc/common"
	"net/http"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the serialized request envelope and returns the serialized response.
// A non-nil error is reported to the client as an HTTP failure
type ServerHandleFunc func(req []byte) (resp []byte, err error)

// IRPCServerTransport is the interface for the server side of the transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Handler returns the http.Handler serving the given rpc path
	Handler(path string) http.Handler
	// Listen starts the transport layer and listens for incoming requests
	Listen(endpoint string, path string) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration.
	// Calling Connect on a connected transport with the same configuration is a no-op, so one transport
	// can be shared by many sessions. A different configuration is rejected with an error
	Connect(config common.ClientConfig) error
	// Send sends a serialized request to the endpoint and returns the serialized response.
	// Any error means that no usable response was received
	Send(req []byte) (resp []byte, err error)
	// Close releases idle connections. The transport reconnects on the next Send
	Close() error
}
