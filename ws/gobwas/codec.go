// Websocket implementation using the gobwas/ws library
package gobwas

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/descry/descry/jsonrpc"
	descryws "github.com/descry/descry/ws"
)

// Dial returns a Transport exchanging JSON-RPC strings over a client-side
// websocket connection.
func Dial(ctx context.Context, url string) (*Transport, error) {
	conn, _, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn}, nil
}

var _ jsonrpc.Transport = &Transport{}

// Transport performs synchronous round trips over a websocket connection.
// Exchanges are serialized; the context deadline bounds each round trip.
type Transport struct {
	mu   sync.Mutex
	conn net.Conn
}

func (t *Transport) Exchange(ctx context.Context, request string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := t.conn.SetDeadline(deadline); err != nil {
		return "", err
	}
	if err := wsutil.WriteClientText(t.conn, []byte(request)); err != nil {
		return "", connError(err)
	}
	reply, err := wsutil.ReadServerText(t.conn)
	if err != nil {
		return "", connError(err)
	}
	return string(reply), nil
}

func (t *Transport) Close() error {
	return t.conn.Close()
}

// connError normalizes connection failures the same way the gorilla flavor
// does: deadline expiry becomes context.DeadlineExceeded, closed connections
// become jsonrpc.ErrClosed.
func connError(err error) error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return context.DeadlineExceeded
	}
	if _, ok := err.(wsutil.ClosedError); ok {
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
		if err := descryws.Serve(r.Context(), srv, conn); err != nil && err != io.EOF {
			if _, closed := err.(wsutil.ClosedError); !closed {
				logger.Printf("websocket serve error from %s: %s", r.RemoteAddr, err)
			}
		}
	}
}

var _ descryws.Upgrader = &Upgrader{}

// Upgrader upgrades an HTTP request to a websocket connection using the
// gobwas implementation.
type Upgrader struct {
	Upgrader ws.HTTPUpgrader
}

func (u *Upgrader) Upgrade(r *http.Request, w http.ResponseWriter, h http.Header) (descryws.Conn, error) {
	conn, _, _, err := u.Upgrader.Upgrade(r, w)
	if err != nil {
		return nil, err
	}
	return &serverConn{conn: conn}, nil
}

var _ descryws.Conn = &serverConn{}

type serverConn struct {
	muWrite sync.Mutex
	muRead  sync.Mutex
	conn    net.Conn
}

func (c *serverConn) ReadRequest() (string, error) {
	c.muRead.Lock()
	defer c.muRead.Unlock()
	// Connections idle between requests.
	if err := c.conn.SetReadDeadline(time.Time{}); err != nil {
		return "", err
	}
	request, err := wsutil.ReadClientText(c.conn)
	if err != nil {
		return "", err
	}
	return string(request), nil
}

func (c *serverConn) WriteReply(reply string) error {
	c.muWrite.Lock()
	defer c.muWrite.Unlock()
	return wsutil.WriteServerText(c.conn, []byte(reply))
}

func (c *serverConn) Close() error {
	return c.conn.Close()
}
