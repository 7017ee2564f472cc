package testing

import (
	"github.com/ValentinKolb/txKV/rpc/common"
	"net/http/httptest"
	"testing"
)

// NewTestServer starts a stub node on a local port and returns it together
// with a client config pointing at it. The server is closed when the test ends.
func NewTestServer(tb testing.TB) (*StubNode, common.ClientConfig) {
	tb.Helper()

	node := NewStubNode()
	server := httptest.NewServer(node.Handler(common.DefaultPath))
	tb.Cleanup(server.Close)

	config := common.ClientConfig{
		Endpoints:     []string{server.URL},
		Path:          common.DefaultPath,
		TimeoutSecond: 2,
		RetryCount:    1,
	}
	return node, config
}
