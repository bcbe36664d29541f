package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Coerce converts a string into the typed value a description type tag
// declares.
//
// Deprecated: this ad-hoc coercion does not deal correctly with complex
// types. Use the typed Call path with real values instead. It is retained
// for callers that only have stringified arguments, such as command lines.
func Coerce(val, typ string) (interface{}, error) {
	switch typ {
	case TypeBit:
		return strconv.ParseBool(val)
	case TypeNum:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, nil
		}
		return nil, NumberFormatError{Value: val}
	case TypeStr:
		return val, nil
	case TypeArr, TypeObj, TypeAny:
		dec := json.NewDecoder(strings.NewReader(val))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeNil:
		return nil, nil
	default:
		return nil, BadTypeError{Type: typ}
	}
}

// CallStrings is like Call, but takes the method name from the first entry
// of args and coerces the remaining entries against the parameter types the
// service description declares. The procedure lookup happens before any
// network exchange.
//
// Deprecated: see Coerce. Prefer Call with typed values.
func (c *Client) CallStrings(ctx context.Context, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, errors.New("first argument must be the method name")
	}

	method := args[0]
	actuals := args[1:]
	proc, err := c.lookup(method, len(actuals))
	if err != nil {
		return nil, err
	}

	params := make([]interface{}, len(actuals))
	for i, param := range proc.Params {
		params[i], err = Coerce(actuals[i], param.Type)
		if err != nil {
			return nil, err
		}
	}
	return c.Call(ctx, method, params...)
}
