package jsonrpc

import (
	"context"
	"errors"
	"testing"
)

func TestProxy(t *testing.T) {
	client := localClient(t)

	var calc struct {
		Add    func(ctx context.Context, a, b float64) (float64, error)
		Greet  func(ctx context.Context, name string) (string, error)
		Divide func(ctx context.Context, a, b float64) (float64, error)
		Fail   func(ctx context.Context, message string) error
	}
	if err := client.Proxy(&calc); err != nil {
		t.Fatal(err)
	}

	sum, err := calc.Add(context.Background(), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := sum, 5.0; got != want {
		t.Errorf("got: %v; want %v", got, want)
	}

	greeting, err := calc.Greet(context.Background(), "proxy")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := greeting, "hello, proxy"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	if _, err := calc.Divide(context.Background(), 1, 0); err == nil {
		t.Error("expected remote error for division by zero")
	}

	err = calc.Fail(context.Background(), "boom")
	remoteErr := &RemoteError{}
	if !errors.As(err, &remoteErr) {
		t.Fatalf("got: %T (%v); want *RemoteError", err, err)
	}
}

func TestProxyUndeclaredMethod(t *testing.T) {
	client := localClient(t)

	// Filling succeeds even for procedures the service never declared;
	// the mismatch surfaces at invocation.
	var bogus struct {
		Nope func(ctx context.Context) (string, error)
	}
	if err := client.Proxy(&bogus); err != nil {
		t.Fatal(err)
	}
	if _, err := bogus.Nope(context.Background()); err == nil {
		t.Error("expected failure when invoking an undeclared procedure")
	}
}

func TestProxyInvalidTargets(t *testing.T) {
	client := localClient(t)

	var notStruct int
	if err := client.Proxy(&notStruct); err == nil {
		t.Error("expected error for non-struct target")
	}
	if err := client.Proxy(struct{}{}); err == nil {
		t.Error("expected error for non-pointer target")
	}

	var missingCtx struct {
		Add func(a, b float64) (float64, error)
	}
	err := client.Proxy(&missingCtx)
	if _, ok := err.(InvalidProxyError); !ok {
		t.Errorf("got: %T (%v); want InvalidProxyError", err, err)
	}

	var badReturns struct {
		Add func(ctx context.Context, a, b float64) float64
	}
	err = client.Proxy(&badReturns)
	if _, ok := err.(InvalidProxyError); !ok {
		t.Errorf("got: %T (%v); want InvalidProxyError", err, err)
	}

	// Non-func fields are skipped, not rejected.
	var mixed struct {
		Label string
		Add   func(ctx context.Context, a, b float64) (float64, error)
	}
	if err := client.Proxy(&mixed); err != nil {
		t.Fatal(err)
	}
	if mixed.Add == nil {
		t.Error("expected Add to be filled")
	}
}
