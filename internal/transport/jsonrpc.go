package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/gigboard/internal/mcp"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	// ErrApplication carries a domain error; data holds the API error body.
	ErrApplication = -32000
)

const version = "2.0"

var (
	errParse   = errors.New("parse error")
	errInvalid = errors.New("invalid request")
)

// Request is a single JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response carries either Result or Error, never both.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is the JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// codedError is implemented by errors that carry an API error code.
type codedError interface {
	error
	CodeValue() string
	MessageValue() string
}

// ParseRequest decodes one request. The error wraps errParse for malformed
// JSON and errInvalid for a structurally wrong call.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}
	if req.JSONRPC != version || req.Method == "" {
		return Request{}, errInvalid
	}
	return req, nil
}

// ErrorFor converts a handler error into the error object sent for method.
// Errors that match no known class map to ErrInternal.
func ErrorFor(method string, err error) *Error {
	var coded codedError
	switch {
	case errors.Is(err, errParse):
		return &Error{Code: ErrParseCode, Message: "parse error"}
	case errors.Is(err, errInvalid):
		return &Error{Code: ErrInvalidReq, Message: "invalid request"}
	case errors.Is(err, mcp.ErrUnknownMethod):
		return &Error{Code: ErrMethodNotFound, Message: "method not found", Data: method}
	case errors.Is(err, mcp.ErrInvalidParams):
		return &Error{Code: ErrInvalidParams, Message: "invalid params", Data: err.Error()}
	case errors.As(err, &coded):
		return &Error{Code: ErrApplication, Message: coded.MessageValue(), Data: coded}
	default:
		return &Error{Code: ErrInternal, Message: err.Error()}
	}
}

// WriteResult writes a success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, Response{JSONRPC: version, Result: result, ID: id})
}

// WriteError writes an error response. JSON-RPC errors still use HTTP 200.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeJSON(w, Response{
		JSONRPC: version,
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

func writeJSON(w http.ResponseWriter, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
