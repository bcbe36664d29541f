package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"unicode"
)

// Proxy fills the func-typed fields of target, a pointer to a struct, with
// forwarders that invoke the matching remote procedure through Call. The
// method name is the field name with its first letter lowercased, the same
// derivation Server.Register applies. This lets calling code treat the
// remote service like a local value:
//
//	var calc struct {
//		Add func(ctx context.Context, a, b float64) (float64, error)
//	}
//	if err := client.Proxy(&calc); err != nil { ... }
//	sum, err := calc.Add(ctx, 2, 3)
//
// Supported field layouts are func(ctx, args...) error and
// func(ctx, args...) (T, error). Non-func fields are skipped; whether a
// procedure actually exists is only checked when a forwarder is invoked.
func (c *Client) Proxy(target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return InvalidProxyError{Reason: fmt.Sprintf("target must be a pointer to a struct, got %T", target)}
	}
	elem := v.Elem()
	kind := elem.Type()
	for i := 0; i < elem.NumField(); i++ {
		field := kind.Field(i)
		value := elem.Field(i)
		if field.Type.Kind() != reflect.Func {
			continue
		}
		if !value.CanSet() {
			return InvalidProxyError{Reason: fmt.Sprintf("field not settable: %s", field.Name)}
		}
		fn, err := c.forwarder(field)
		if err != nil {
			return err
		}
		value.Set(fn)
	}
	return nil
}

// forwarder builds a func value that forwards its arguments to Call.
func (c *Client) forwarder(field reflect.StructField) (reflect.Value, error) {
	ft := field.Type
	if ft.NumIn() == 0 || ft.In(0) != typeOfContext {
		return reflect.Value{}, InvalidProxyError{Reason: fmt.Sprintf("%s: first argument must be context.Context", field.Name)}
	}
	if ft.IsVariadic() {
		return reflect.Value{}, InvalidProxyError{Reason: fmt.Sprintf("%s: variadic fields are not supported", field.Name)}
	}
	numOut := ft.NumOut()
	if numOut == 0 || numOut > 2 || ft.Out(numOut-1) != typeOfError {
		return reflect.Value{}, InvalidProxyError{Reason: fmt.Sprintf("%s: last return value must be error", field.Name)}
	}
	method := methodNameForField(field.Name)

	fn := reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		ctx := args[0].Interface().(context.Context)
		params := make([]interface{}, 0, len(args)-1)
		for _, arg := range args[1:] {
			params = append(params, arg.Interface())
		}
		result, err := c.Call(ctx, method, params...)
		return forwardResults(ft, result, err)
	})
	return fn, nil
}

// forwardResults shapes a Call result into the return values of a forwarder
// func type.
func forwardResults(ft reflect.Type, result interface{}, err error) []reflect.Value {
	if ft.NumOut() == 1 {
		return []reflect.Value{errValue(err)}
	}
	out := reflect.Zero(ft.Out(0))
	if err == nil {
		out, err = convertResult(result, ft.Out(0))
	}
	return []reflect.Value{out, errValue(err)}
}

// convertResult converts a decoded result value into the forwarder's return
// type, falling back to a JSON round trip for composite values.
func convertResult(result interface{}, typ reflect.Type) (reflect.Value, error) {
	if result == nil {
		return reflect.Zero(typ), nil
	}
	rv := reflect.ValueOf(result)
	if rv.Type().AssignableTo(typ) {
		return rv, nil
	}
	buf, err := json.Marshal(result)
	if err != nil {
		return reflect.Zero(typ), err
	}
	out := reflect.New(typ)
	if err := json.Unmarshal(buf, out.Interface()); err != nil {
		return reflect.Zero(typ), fmt.Errorf("cannot convert result %T to %s: %s", result, typ, err)
	}
	return out.Elem(), nil
}

// errValue returns an error-typed value, nil included.
func errValue(err error) reflect.Value {
	v := reflect.New(typeOfError).Elem()
	if err != nil {
		v.Set(reflect.ValueOf(err))
	}
	return v
}

// methodNameForField derives the wire method name from a proxy field name.
func methodNameForField(name string) string {
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
