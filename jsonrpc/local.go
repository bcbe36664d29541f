package jsonrpc

import "context"

var _ Transport = &Local{}

// Local is a Transport that dispatches directly to an in-process Server,
// without a wire. Useful for testing and embedding.
type Local struct {
	Server *Server
}

func (l *Local) Exchange(ctx context.Context, request string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return l.Server.Handle(ctx, request), nil
}
