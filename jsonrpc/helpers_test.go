package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Arith is a receiver fixture covering each return layout.
type Arith struct{}

func (Arith) Add(a, b float64) float64 { return a + b }

func (Arith) Greet(name string) string { return "hello, " + name }

func (Arith) Flip(v bool) bool { return !v }

func (Arith) Fail(message string) error { return errors.New(message) }

func (Arith) Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

const testManifest = `{"name":"arith","version":"1.1","procs":[` +
	`{"name":"add","params":[{"name":"a","type":"num"},{"name":"b","type":"num"}],"return":"num"},` +
	`{"name":"greet","params":[{"name":"name","type":"str"}],"return":"str"},` +
	`{"name":"flip","params":[{"name":"v","type":"bit"}],"return":"bit"}]}`

func resultReply(result string) string {
	return fmt.Sprintf(`{"version":%q,"id":null,"result":%s}`, Version, result)
}

// fakeTransport records requests and plays back queued replies.
type fakeTransport struct {
	requests []string
	replies  []string
}

func (t *fakeTransport) Exchange(ctx context.Context, request string) (string, error) {
	t.requests = append(t.requests, request)
	if len(t.replies) == 0 {
		return "", io.EOF
	}
	reply := t.replies[0]
	t.replies = t.replies[1:]
	return reply, nil
}

func testDescription() *ServiceDescription {
	desc, err := ParseServiceDescription(testManifest)
	if err != nil {
		panic(err)
	}
	return desc
}
