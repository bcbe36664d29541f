package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol version constant stamped on every request.
const Version = "1.1"

// DescribeMethod is the reserved procedure every self-describing service
// answers with its service description.
const DescribeMethod = "system.describe"

const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeServer         = -32000
)

// Request is the wire envelope for one call. The ID is always serialized as
// null: this client is strictly synchronous and never pipelines.
type Request struct {
	ID      json.RawMessage `json:"id"`
	Version string          `json:"version"`
	Method  string          `json:"method"`
	Params  []interface{}   `json:"params"`
}

// Response is the wire envelope for one reply. At most one of Result and
// Error is meaningful; a populated Error always wins.
type Response struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Version string          `json:"version,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RemoteError    `json:"error,omitempty"`
}

// RemoteError carries a server-side error payload, unmodified.
type RemoteError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (err *RemoteError) Error() string {
	return fmt.Sprintf("%d: %s", err.Code, err.Message)
}

func (err *RemoteError) ErrorCode() int {
	return err.Code
}
