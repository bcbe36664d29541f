package jsonrpc

import (
	"context"
	"reflect"
	"testing"
)

func TestCoerce(t *testing.T) {
	testcases := []struct {
		val  string
		typ  string
		want interface{}
	}{
		{"42", TypeNum, int64(42)},
		{"-7", TypeNum, int64(-7)},
		{"3.14", TypeNum, float64(3.14)},
		{"true", TypeBit, true},
		{"false", TypeBit, false},
		{"hello", TypeStr, "hello"},
		{`"quoted"`, TypeStr, `"quoted"`},
		{"anything", TypeNil, nil},
	}
	for _, tc := range testcases {
		got, err := Coerce(tc.val, tc.typ)
		if err != nil {
			t.Errorf("Coerce(%q, %q): %s", tc.val, tc.typ, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Coerce(%q, %q): got %v (%T); want %v (%T)", tc.val, tc.typ, got, got, tc.want, tc.want)
		}
	}
}

func TestCoerceComposite(t *testing.T) {
	got, err := Coerce(`[1, "two"]`, TypeArr)
	if err != nil {
		t.Fatal(err)
	}
	arr, ok := got.([]interface{})
	if !ok || len(arr) != 2 {
		t.Errorf("got: %v (%T); want 2-element array", got, got)
	}

	got, err = Coerce(`{"a": 1}`, TypeObj)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(map[string]interface{}); !ok {
		t.Errorf("got: %v (%T); want object", got, got)
	}

	got, err = Coerce(`"str"`, TypeAny)
	if err != nil {
		t.Fatal(err)
	}
	if got != "str" {
		t.Errorf("got: %v; want %q", got, "str")
	}
}

func TestCoerceFailures(t *testing.T) {
	_, err := Coerce("x", TypeNum)
	if _, ok := err.(NumberFormatError); !ok {
		t.Errorf("got: %T (%v); want NumberFormatError", err, err)
	}

	_, err = Coerce("v", "zap")
	badType, ok := err.(BadTypeError)
	if !ok {
		t.Fatalf("got: %T (%v); want BadTypeError", err, err)
	}
	if got, want := badType.Type, "zap"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}
}

func TestCallStringsLookupBeforeExchange(t *testing.T) {
	transport := &fakeTransport{}
	client := NewClientWithDescription(transport, testDescription())

	_, err := client.CallStrings(context.Background(), []string{"nope", "1"})
	if _, ok := err.(ProcedureNotFoundError); !ok {
		t.Fatalf("got: %T (%v); want ProcedureNotFoundError", err, err)
	}
	if got, want := len(transport.requests), 0; got != want {
		t.Errorf("got: %d requests; want %d (lookup must precede exchange)", got, want)
	}
}

func TestCallStrings(t *testing.T) {
	transport := &fakeTransport{
		replies: []string{resultReply("5")},
	}
	client := NewClientWithDescription(transport, testDescription())

	result, err := client.CallStrings(context.Background(), []string{"add", "2", "3"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := result, int64(5); got != want {
		t.Errorf("got: %v; want %v", got, want)
	}

	if _, err := client.CallStrings(context.Background(), nil); err == nil {
		t.Error("expected error for empty args")
	}
}
