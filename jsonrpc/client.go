package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NoTimeout disables the per-call deadline.
const NoTimeout = time.Duration(0)

// Client calls procedures on a self-describing remote service over a
// Transport. It holds no mutable state after construction beyond the
// read-only service description, so a single Client may be shared across
// goroutines if its transport supports concurrent round trips.
type Client struct {
	transport Transport
	mapper    Mapper
	timeout   time.Duration

	description *ServiceDescription
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// Timeout bounds each call, construction included. Zero means no timeout.
func Timeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMapper overrides the envelope mapper.
func WithMapper(m Mapper) ClientOption {
	return func(c *Client) {
		c.mapper = m
	}
}

func newClient(transport Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport: transport,
		mapper:    DefaultMapper{},
		timeout:   NoTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient constructs a client and immediately issues the reserved
// zero-argument system.describe call to retrieve the service description.
// Construction is therefore a blocking network operation: it can fail with a
// remote, timeout or transport condition, but a returned client is always
// ready, with the description guaranteed present for every subsequent call.
func NewClient(ctx context.Context, transport Transport, opts ...ClientOption) (*Client, error) {
	c := newClient(transport, opts...)
	raw, err := c.Call(ctx, DescribeMethod)
	if err != nil {
		return nil, err
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid service description reply: %T", raw)
	}
	desc, err := NewServiceDescription(fields)
	if err != nil {
		return nil, err
	}
	c.description = desc
	return c, nil
}

// NewClientWithDescription constructs a client bound to a previously
// retrieved service description, skipping the system.describe round trip.
func NewClientWithDescription(transport Transport, desc *ServiceDescription, opts ...ClientOption) *Client {
	c := newClient(transport, opts...)
	c.description = desc
	return c
}

// ServiceDescription returns the description retrieved at construction.
func (c *Client) ServiceDescription() *ServiceDescription {
	return c.description
}

// Call builds, encodes and sends a request, then blocks until the reply
// arrives or the configured timeout elapses. The reply's result is decoded
// against the return type the service description declares for the method
// at the given arity. A reply carrying an error fails with *RemoteError; a
// transport shutdown fails with IOError.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	if params == nil {
		params = []interface{}{}
	}
	req := &Request{
		Version: Version,
		Method:  method,
		Params:  params,
	}
	requestStr, err := c.mapper.Write(req)
	if err != nil {
		return nil, err
	}

	if c.timeout > NoTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	replyStr, err := c.transport.Exchange(ctx, requestStr)
	if err != nil {
		return nil, exchangeError(method, err)
	}
	logger.Printf("reply for %s: %s", method, replyStr)

	expected := TypeObj
	if method != DescribeMethod || len(params) != 0 {
		proc, err := c.lookup(method, len(params))
		if err != nil {
			return nil, err
		}
		expected = proc.Return
	}
	resp, result, err := c.mapper.Parse(replyStr, expected)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return result, nil
}

func (c *Client) lookup(method string, arity int) (*ProcedureDescription, error) {
	if c.description == nil {
		return nil, ProcedureNotFoundError{Method: method, Arity: arity}
	}
	return c.description.Procedure(method, arity)
}

// exchangeError folds transport failures into the client's error taxonomy:
// deadline expiry becomes TimeoutError, everything else (shutdown signals
// included) becomes IOError. Caller-initiated cancellation passes through.
func exchangeError(method string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError{Method: method}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return IOError{cause: err}
}
