package http

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/txKV/rpc/common"
	"github.com/ValentinKolb/txKV/rpc/transport"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ContentType is sent with every request
const ContentType = "application/json; charset=utf-8"

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	mu         sync.RWMutex
	serverURLs []string
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (transport *httpClientTransport) Connect(config common.ClientConfig) error {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	config = config.WithDefaults()

	// Parse each server URL and append the rpc path
	serverURLs := make([]string, len(config.Endpoints))
	for i, server := range config.Endpoints {
		parsedURL, err := url.Parse(server)
		if err != nil {
			return err
		}
		if parsedURL.Scheme == "" || parsedURL.Host == "" {
			return fmt.Errorf("invalid endpoint url: %q", server)
		}
		serverURLs[i] = strings.TrimSuffix(parsedURL.String(), "/") + "/" + strings.TrimPrefix(config.Path, "/")
	}

	timeout := time.Duration(config.TimeoutSecond) * time.Second

	// Already connected (e.g. shared by multiple sessions): the config must match
	if transport.client != nil {
		if !slices.Equal(transport.serverURLs, serverURLs) ||
			transport.client.Timeout != timeout ||
			transport.retryCount != config.RetryCount {
			return fmt.Errorf("http transport already connected to %s with a different configuration",
				strings.Join(transport.serverURLs, ", "))
		}
		return nil
	}

	// Create client with default transport
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Set the client and server URLs
	transport.client = client
	transport.serverURLs = serverURLs
	transport.counter = 0
	transport.retryCount = config.RetryCount

	Logger.Debugf("Connected http transport to %s", strings.Join(serverURLs, ", "))

	// No error
	return nil
}

func (transport *httpClientTransport) Send(req []byte) (resp []byte, err error) {
	transport.mu.RLock()
	client, serverURLs, retryCount := transport.client, transport.serverURLs, transport.retryCount
	transport.mu.RUnlock()

	// Check if the transport is initialized
	if client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	// Select the next server via round-robin
	idx := atomic.AddUint32(&transport.counter, 1) % uint32(len(serverURLs))
	requestURL := serverURLs[idx]

	// Send the request (with retries if no response was received at all)
	var httpResponse *http.Response
	defer func() {
		if httpResponse != nil {
			if err := httpResponse.Body.Close(); err != nil {
				Logger.Errorf("Failed to close response body: %v", err)
			}
		}
	}()
	for i := 0; i < retryCount; i++ {
		var httpRequest *http.Request
		httpRequest, err = http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(req))
		if err != nil {
			return nil, err
		}
		httpRequest.Header.Set("Content-Type", ContentType)

		httpResponse, err = client.Do(httpRequest)
		if err == nil {
			break
		}
		Logger.Warningf("Request attempt %d/%d to %s failed: %v", i+1, retryCount, requestURL, err)
	}
	if err != nil {
		return nil, err
	}

	// Check if the response status code is 2xx
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return nil, fmt.Errorf("http error: %s", httpResponse.Status)
	}

	// Read the response body
	return io.ReadAll(httpResponse.Body)
}

func (transport *httpClientTransport) Close() error {
	transport.mu.RLock()
	defer transport.mu.RUnlock()

	// Drop idle connections, new ones are opened on demand
	if transport.client != nil {
		transport.client.CloseIdleConnections()
	}

	return nil
}
