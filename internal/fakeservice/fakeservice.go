package fakeservice

import (
	"errors"
	"strings"
	"sync"
)

type call struct {
	Method string
	Args   []interface{}
}

type Calls []call

func Call(method string, args ...interface{}) call {
	return call{method, args}
}

// New returns a deterministic Calculator fixture.
func New() *Calculator {
	return &Calculator{}
}

// Calculator is a small arithmetic service used in tests and demos. It
// records every call it receives.
type Calculator struct {
	mu    sync.Mutex
	calls Calls
}

func (c *Calculator) record(method string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call(method, args...))
}

// Calls returns a snapshot of the recorded calls.
func (c *Calculator) Calls() Calls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(Calls{}, c.calls...)
}

func (c *Calculator) Add(a, b float64) float64 {
	c.record("Add", a, b)
	return a + b
}

func (c *Calculator) Concat(parts []interface{}) string {
	c.record("Concat", parts)
	var b strings.Builder
	for _, part := range parts {
		if s, ok := part.(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

func (c *Calculator) Flip(v bool) bool {
	c.record("Flip", v)
	return !v
}

func (c *Calculator) Greet(name string) string {
	c.record("Greet", name)
	return "hello, " + name
}

// Fail always returns a server-side error carrying the given message.
func (c *Calculator) Fail(message string) error {
	c.record("Fail", message)
	return errors.New(message)
}
