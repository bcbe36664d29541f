package jsonrpc

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Mapper converts request envelopes to wire strings, and parses reply
// strings against the type tag the service description declares for the
// called procedure.
type Mapper interface {
	Write(req *Request) (string, error)
	// Parse decodes a reply envelope and, when the envelope carries a
	// result, the result value against the expected type tag.
	Parse(reply string, expected string) (*Response, interface{}, error)
}

// DefaultMapper is the Mapper used when a Client is constructed without one.
type DefaultMapper struct{}

var _ Mapper = DefaultMapper{}

func (DefaultMapper) Write(req *Request) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (DefaultMapper) Parse(reply string, expected string) (*Response, interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(reply))
	dec.UseNumber()
	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, nil, err
	}
	if resp.Error != nil || len(resp.Result) == 0 {
		return &resp, nil, nil
	}
	result, err := decodeTagged(resp.Result, expected)
	if err != nil {
		return nil, nil, err
	}
	return &resp, result, nil
}

// decodeTagged decodes a raw result value against a declared type tag.
func decodeTagged(raw json.RawMessage, tag string) (interface{}, error) {
	if isNull(raw) {
		return nil, nil
	}
	switch tag {
	case TypeNil:
		return nil, nil
	case TypeBit:
		var v bool
		err := json.Unmarshal(raw, &v)
		return v, err
	case TypeNum:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return numberValue(n)
	case TypeStr:
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case TypeArr:
		var a []interface{}
		err := decodeGeneric(raw, &a)
		return a, err
	case TypeObj:
		var m map[string]interface{}
		err := decodeGeneric(raw, &m)
		return m, err
	default:
		// TypeAny, and whatever tags a server invents.
		var v interface{}
		err := decodeGeneric(raw, &v)
		return v, err
	}
}

// decodeGeneric decodes with json.Number preserved for nested numbers.
func decodeGeneric(raw json.RawMessage, into interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(into)
}

// numberValue returns an int64 when the number is integral, a float64
// otherwise.
func numberValue(n json.Number) (interface{}, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
