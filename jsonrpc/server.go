package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// Server hosts procedures for self-describing services. It contains the
// method registry and answers the reserved system.describe procedure with a
// description synthesized from it.
type Server struct {
	// Name is reported in the service description.
	Name string

	registry map[string]Method
}

// Register adds valid methods from the receiver to the registry with the
// given prefix. The first letter of each method name is lowercased.
func (s *Server) Register(prefix string, receiver interface{}) error {
	if s.registry == nil {
		s.registry = map[string]Method{}
	}

	methods, err := Methods(receiver)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for name, m := range methods {
		buf.WriteString(prefix)
		buf.WriteRune(unicode.ToLower(rune(name[0])))
		buf.WriteString(name[1:])
		s.registry[buf.String()] = m
		buf.Reset()
	}
	return nil
}

// Handle decodes one request string, dispatches it and encodes the reply
// string. It never fails: malformed input produces an error envelope.
func (s *Server) Handle(ctx context.Context, requestStr string) string {
	dec := json.NewDecoder(strings.NewReader(requestStr))
	dec.UseNumber()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return encodeResponse(&Response{
			Version: Version,
			Error: &RemoteError{
				Code:    ErrCodeParse,
				Message: fmt.Sprintf("failed to parse request: %s", err),
			},
		})
	}
	resp := s.handle(ctx, &req)
	resp.ID = req.ID
	resp.Version = Version
	return encodeResponse(resp)
}

func (s *Server) handle(ctx context.Context, req *Request) *Response {
	if req.Method == DescribeMethod && len(req.Params) == 0 {
		return resultResponse(s.describe())
	}
	m, ok := s.registry[req.Method]
	if !ok {
		return &Response{
			Error: &RemoteError{
				Code:    ErrCodeMethodNotFound,
				Message: fmt.Sprintf("method not found: %s", req.Method),
			},
		}
	}
	if len(req.Params) != len(m.ArgTypes) {
		return &Response{
			Error: &RemoteError{
				Code:    ErrCodeInvalidParams,
				Message: fmt.Sprintf("invalid params for %s: expected %d, got %d", req.Method, len(m.ArgTypes), len(req.Params)),
			},
		}
	}
	res, err := m.CallParams(ctx, req.Params)
	if err != nil {
		return &Response{
			Error: &RemoteError{
				Code:    ErrCodeInternal,
				Message: err.Error(),
			},
		}
	}
	return resultResponse(res)
}

func resultResponse(res interface{}) *Response {
	raw, err := json.Marshal(res)
	if err != nil {
		return &Response{
			Error: &RemoteError{
				Code:    ErrCodeServer,
				Message: fmt.Sprintf("failed to encode response: %s", err),
			},
		}
	}
	return &Response{Result: raw}
}

func encodeResponse(resp *Response) string {
	buf, err := json.Marshal(resp)
	if err != nil {
		// Response fields are all marshalable, so this only triggers on a
		// broken custom error payload.
		return fmt.Sprintf(`{"version":%q,"error":{"code":%d,"message":"failed to encode response"}}`, Version, ErrCodeServer)
	}
	return string(buf)
}

// describe synthesizes the service description from the registry.
func (s *Server) describe() map[string]interface{} {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)

	procs := make([]interface{}, 0, len(names))
	for _, name := range names {
		m := s.registry[name]
		params := make([]interface{}, 0, len(m.ArgTypes))
		for i, argType := range m.ArgTypes {
			params = append(params, map[string]interface{}{
				"name": fmt.Sprintf("arg%d", i+1),
				"type": tagForType(argType),
			})
		}
		procs = append(procs, map[string]interface{}{
			"name":       name,
			"params":     params,
			"return":     tagForType(m.ResultType()),
			"idempotent": false,
		})
	}
	return map[string]interface{}{
		"name":    s.Name,
		"version": Version,
		"procs":   procs,
	}
}

// tagForType maps a Go type onto the description type-tag vocabulary.
func tagForType(t reflect.Type) string {
	if t == nil {
		return TypeNil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBit
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNum
	case reflect.String:
		return TypeStr
	case reflect.Slice, reflect.Array:
		return TypeArr
	case reflect.Map, reflect.Struct:
		return TypeObj
	default:
		return TypeAny
	}
}
