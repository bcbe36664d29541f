package jsonrpc

import "context"

// Transport performs one blocking, correlated request/reply round trip.
// Correlation, delivery guarantees and connection lifecycle are the
// transport's concern; implementations should honor the context deadline and
// return ErrClosed (or wrap it) when the underlying channel shuts down
// mid-call.
type Transport interface {
	Exchange(ctx context.Context, request string) (string, error)
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, request string) (string, error)

func (f TransportFunc) Exchange(ctx context.Context, request string) (string, error) {
	return f(ctx, request)
}
