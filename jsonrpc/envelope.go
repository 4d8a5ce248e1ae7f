package jsonrpc

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Version is the protocol version sent in every request.
const Version = "2.0"

// RPCErrorCode is the outcome label of calls that fail with an error object.
const RPCErrorCode = "RPC_ERROR"

// Request is the outgoing envelope.
//
//	{"jsonrpc":"2.0","id":"6ba7...","method":"users.get","params":{"id":1}}
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Error is the error object of a response. It is returned as is from calls
// whose response carries one.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// ErrorCode labels the error in logs and spans.
func (e *Error) ErrorCode() string { return RPCErrorCode }

// response is a parsed envelope with exactly one of result or error.
type response struct {
	id     any
	result any
	err    *Error
	data   any
}

// parseResponse checks the envelope shape of raw, a parsed JSON body.
func parseResponse(raw any) (*response, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not an object")
	}
	r := &response{id: obj["id"]}
	result, hasResult := obj["result"]
	errObj := obj["error"]
	if errObj != nil && result == nil {
		// "result": null beside an error object is the JSON-RPC 1.0 shape.
		hasResult = false
	}
	switch {
	case hasResult && errObj != nil:
		return nil, fmt.Errorf("response carries both result and error")
	case !hasResult && errObj == nil:
		return nil, fmt.Errorf("response carries neither result nor error")
	case hasResult:
		r.result = result
		return r, nil
	}

	fields, ok := errObj.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error member is not an object")
	}
	code, err := intCode(fields["code"])
	if err != nil {
		return nil, err
	}
	msg, ok := fields["message"].(string)
	if !ok {
		return nil, fmt.Errorf("error message must be a string")
	}
	r.err = &Error{Code: code, Message: msg}
	r.data = fields["data"]
	return r, nil
}

func intCode(v any) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("error code must be a number, got %T", v)
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("error code must be an integer: %w", err)
	}
	return i, nil
}

// normalizeID returns id as a string or an int64, the two id types the
// envelope correlates.
func normalizeID(id any) (any, error) {
	switch v := id.(type) {
	case string, int64:
		return v, nil
	}
	rv := reflect.ValueOf(id)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), nil
		}
	case reflect.String:
		return rv.String(), nil
	}
	return nil, fmt.Errorf("request id must be a string or an integer, got %T", id)
}

// sameID compares a sent id with the id of a parsed response, where numbers
// arrive as json.Number.
func sameID(sent, got any) bool {
	switch s := sent.(type) {
	case string:
		g, ok := got.(string)
		return ok && g == s
	case int64:
		n, ok := got.(json.Number)
		if !ok {
			return false
		}
		i, err := n.Int64()
		return err == nil && i == s
	}
	return false
}
