package gorilla

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/descry/descry/internal/fakeservice"
	"github.com/descry/descry/jsonrpc"
)

func serveCalculator(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv := &jsonrpc.Server{Name: "descry.calculator"}
	if err := srv.Register("", fakeservice.New()); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(Handler(srv))
	return ts, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func TestWebsocketRoundtrip(t *testing.T) {
	ts, url := serveCalculator(t)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	transport, err := Dial(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer transport.Close()

	client, err := jsonrpc.NewClient(ctx, transport, jsonrpc.Timeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.ServiceDescription().Procedure("add", 2); err != nil {
		t.Fatalf("expected add/2 in description: %s", err)
	}

	result, err := client.Call(ctx, "add", 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := result, int64(5); got != want {
		t.Errorf("got: %v (%T); want %v", got, got, want)
	}
}

func TestWebsocketConcurrentCalls(t *testing.T) {
	ts, url := serveCalculator(t)
	defer ts.Close()

	ctx := context.Background()
	transport, err := Dial(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer transport.Close()

	client, err := jsonrpc.NewClient(ctx, transport, jsonrpc.Timeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}

	// The transport serializes exchanges, so one client is safe to share.
	var g errgroup.Group
	for i := 0; i < 5; i++ {
		i := i
		g.Go(func() error {
			result, err := client.Call(ctx, "add", i, i)
			if err != nil {
				return err
			}
			if got, want := result, int64(2*i); got != want {
				t.Errorf("got: %v; want %v", got, want)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestWebsocketClosed(t *testing.T) {
	ts, url := serveCalculator(t)
	defer ts.Close()

	ctx := context.Background()
	transport, err := Dial(ctx, url)
	if err != nil {
		t.Fatal(err)
	}

	client, err := jsonrpc.NewClient(ctx, transport, jsonrpc.Timeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}

	transport.Close()
	_, err = client.Call(ctx, "add", 2, 3)
	if _, ok := err.(jsonrpc.IOError); !ok {
		t.Fatalf("got: %T (%v); want jsonrpc.IOError", err, err)
	}
}
