// Websocket implementation using Gorilla's Websocket library
package gorilla

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/descry/descry/jsonrpc"
	"github.com/descry/descry/ws"
)

// Dial returns a Transport exchanging JSON-RPC strings over a client-side
// websocket connection.
func Dial(ctx context.Context, url string) (*Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn}, nil
}

var _ jsonrpc.Transport = &Transport{}

// Transport performs synchronous round trips over a websocket connection.
// Exchanges are serialized, so the connection only ever has one request in
// flight; the context deadline bounds each round trip.
type Transport struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (t *Transport) Exchange(ctx context.Context, request string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return "", err
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, []byte(request)); err != nil {
		return "", connError(err)
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	_, reply, err := t.conn.ReadMessage()
	if err != nil {
		return "", connError(err)
	}
	return string(reply), nil
}

func (t *Transport) Close() error {
	return t.conn.Close()
}

// connError normalizes connection failures: I/O deadline expiry surfaces as
// context.DeadlineExceeded and closed connections as jsonrpc.ErrClosed, so
// the client maps them onto its own taxonomy.
func connError(err error) error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return context.DeadlineExceeded
	}
	if _, ok := err.(*websocket.CloseError); ok {
		return jsonrpc.ErrClosed
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return jsonrpc.ErrClosed
	}
	if strings.Contains(err.Error(), "use of closed network connection") {
		return jsonrpc.ErrClosed
	}
	return err
}

// Handler returns an http.HandlerFunc that upgrades requests to websocket
// connections and answers JSON-RPC calls through srv.
func Handler(srv *jsonrpc.Server) http.HandlerFunc {
	upgrader := &Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(r, w, nil)
		if err != nil {
			logger.Printf("websocket upgrade error from %s: %s", r.RemoteAddr, err)
			return
		}
		defer conn.Close()
		if err := ws.Serve(r.Context(), srv, conn); err != nil && err != io.EOF {
			if _, closed := err.(*websocket.CloseError); !closed {
				logger.Printf("websocket serve error from %s: %s", r.RemoteAddr, err)
			}
		}
	}
}

var _ ws.Upgrader = &Upgrader{}

// Upgrader upgrades an HTTP request to a websocket connection using the
// gorilla implementation.
type Upgrader struct {
	Upgrader websocket.Upgrader
}

func (u *Upgrader) Upgrade(r *http.Request, w http.ResponseWriter, h http.Header) (ws.Conn, error) {
	conn, err := u.Upgrader.Upgrade(w, r, h)
	if err != nil {
		return nil, err
	}
	return &serverConn{conn: conn}, nil
}

var _ ws.Conn = &serverConn{}

type serverConn struct {
	muWrite sync.Mutex
	muRead  sync.Mutex
	conn    *websocket.Conn
}

func (c *serverConn) ReadRequest() (string, error) {
	c.muRead.Lock()
	defer c.muRead.Unlock()
	// Connections idle between requests.
	if err := c.conn.SetReadDeadline(time.Time{}); err != nil {
		return "", err
	}
	_, request, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(request), nil
}

func (c *serverConn) WriteReply(reply string) error {
	c.muWrite.Lock()
	defer c.muWrite.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(reply))
}

func (c *serverConn) Close() error {
	return c.conn.Close()
}
