/*
	Package ws glues websocket connections to the JSON-RPC request/reply
	contract. The gorilla and gobwas subpackages provide interchangeable
	implementations; this package holds the pieces shared between them.
*/
package ws

import (
	"context"
	"net/http"

	"github.com/descry/descry/jsonrpc"
)

// Conn is one upgraded websocket connection carrying JSON-RPC request and
// reply strings.
type Conn interface {
	ReadRequest() (string, error)
	WriteReply(reply string) error
	Close() error
}

// Upgrader takes an HTTP request and upgrades it to a websocket connection.
// This allows switching between different websocket implementations.
type Upgrader interface {
	Upgrade(*http.Request, http.ResponseWriter, http.Header) (Conn, error)
}

// Serve answers incoming JSON-RPC requests on conn through srv until the
// connection fails or closes.
func Serve(ctx context.Context, srv *jsonrpc.Server, conn Conn) error {
	for {
		request, err := conn.ReadRequest()
		if err != nil {
			return err
		}
		if err := conn.WriteReply(srv.Handle(ctx, request)); err != nil {
			return err
		}
	}
}
