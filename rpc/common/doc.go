// Package common provides the data structures shared by the txKV RPC
// packages: the JSON-RPC envelope, the method names of the endpoint, the
// client configuration and the logger setup.
//
// Key Components:
//
//   - Request/Response: The JSON-RPC envelope. Requests are always sent as
//     {"protocolVersion":"2.0","method":...,"params":[...],"id":0}. The result
//     of a response is kept raw so that a missing result can be detected.
//
//   - Method: Enumeration of all remote procedures (read, write, req_list, ...).
//
//   - ClientConfig: Endpoint URLs, RPC path, timeout and retry count. The
//     default endpoint is taken from the TXKV_JSON_URL environment variable.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger registry and provides consistent formatting across the application.
package common
