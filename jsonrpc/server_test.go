package jsonrpc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func handleOne(t *testing.T, srv *Server, request string) *Response {
	t.Helper()
	reply := srv.Handle(context.Background(), request)
	var resp Response
	if err := json.Unmarshal([]byte(reply), &resp); err != nil {
		t.Fatalf("invalid reply %q: %s", reply, err)
	}
	return &resp
}

func TestServerHandle(t *testing.T) {
	srv := &Server{Name: "arith"}
	if err := srv.Register("", Arith{}); err != nil {
		t.Fatal(err)
	}

	resp := handleOne(t, srv, `{"id":null,"version":"1.1","method":"add","params":[2,3]}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	var sum float64
	if err := json.Unmarshal(resp.Result, &sum); err != nil {
		t.Fatal(err)
	}
	if got, want := sum, 5.0; got != want {
		t.Errorf("got: %v; want %v", got, want)
	}
}

func TestServerErrors(t *testing.T) {
	srv := &Server{Name: "arith"}
	if err := srv.Register("", Arith{}); err != nil {
		t.Fatal(err)
	}

	resp := handleOne(t, srv, `not json`)
	if resp.Error == nil || resp.Error.Code != ErrCodeParse {
		t.Errorf("got: %v; want parse error", resp.Error)
	}

	resp = handleOne(t, srv, `{"version":"1.1","method":"missing","params":[]}`)
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("got: %v; want method not found", resp.Error)
	}

	resp = handleOne(t, srv, `{"version":"1.1","method":"add","params":[1]}`)
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
		t.Errorf("got: %v; want invalid params", resp.Error)
	}

	resp = handleOne(t, srv, `{"version":"1.1","method":"fail","params":["boom"]}`)
	if resp.Error == nil || resp.Error.Code != ErrCodeInternal {
		t.Fatalf("got: %v; want internal error", resp.Error)
	}
	if got, want := resp.Error.Message, "boom"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}
}

func TestServerDescribe(t *testing.T) {
	srv := &Server{Name: "arith"}
	if err := srv.Register("", Arith{}); err != nil {
		t.Fatal(err)
	}

	resp := handleOne(t, srv, `{"id":null,"version":"1.1","method":"system.describe","params":[]}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", resp.Error)
	}

	desc, err := ParseServiceDescription(string(resp.Result))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := desc.Name, "arith"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	proc, err := desc.Procedure("add", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := proc.Return, TypeNum; got != want {
		t.Errorf("got: return %q; want %q", got, want)
	}
	for _, param := range proc.Params {
		if got, want := param.Type, TypeNum; got != want {
			t.Errorf("got: param %q; want %q", got, want)
		}
	}

	proc, err = desc.Procedure("flip", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := proc.Return, TypeBit; got != want {
		t.Errorf("got: return %q; want %q", got, want)
	}

	// Error-only methods declare a nil return.
	proc, err = desc.Procedure("fail", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := proc.Return, TypeNil; got != want {
		t.Errorf("got: return %q; want %q", got, want)
	}
}

func TestServerRegisterPrefix(t *testing.T) {
	srv := &Server{}
	if err := srv.Register("calc_", Arith{}); err != nil {
		t.Fatal(err)
	}
	resp := handleOne(t, srv, `{"version":"1.1","method":"calc_add","params":[2,3]}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if !strings.Contains(string(resp.Result), "5") {
		t.Errorf("got: %s; want 5", resp.Result)
	}
}
