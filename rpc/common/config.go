package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	// EnvDefaultURL names the environment variable that overrides DefaultURL
	EnvDefaultURL = "TXKV_JSON_URL"
	// DefaultURL is used if EnvDefaultURL is not set
	DefaultURL = "http://localhost:8000"
	// DefaultPath is the path of the JSON-RPC page on the endpoint
	DefaultPath = "/jsonrpc.yaws"
	// DefaultTimeoutSecond is the socket timeout
	DefaultTimeoutSecond = 5
	// DefaultRetryCount is the number of attempts of the transport (1 = no retry)
	DefaultRetryCount = 1
)

// DefaultEndpoint returns the endpoint URL from the environment or DefaultURL
func DefaultEndpoint() string {
	if url := os.Getenv(EnvDefaultURL); url != "" {
		return url
	}
	return DefaultURL
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the connection parameters of a session.
type ClientConfig struct {
	// Endpoints are the base URLs of the JSON-RPC endpoints (e.g. http://localhost:8000).
	// Requests are distributed round-robin if more than one is given.
	Endpoints []string
	// Path is appended to every endpoint URL
	Path string
	// TimeoutSecond is the timeout of a single HTTP request
	TimeoutSecond int
	// RetryCount is how often the transport tries to send a request that got no response
	RetryCount int
}

// DefaultClientConfig returns the configuration used when nothing is overridden
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoints:     []string{DefaultEndpoint()},
		Path:          DefaultPath,
		TimeoutSecond: DefaultTimeoutSecond,
		RetryCount:    DefaultRetryCount,
	}
}

// WithDefaults returns a copy of the config where all unset fields hold their default
func (c ClientConfig) WithDefaults() ClientConfig {
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{DefaultEndpoint()}
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.TimeoutSecond <= 0 {
		c.TimeoutSecond = DefaultTimeoutSecond
	}
	if c.RetryCount < 1 {
		c.RetryCount = DefaultRetryCount
	}
	return c
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Path", c.Path)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
