package memory

import (
	"testing"

	"github.com/descry/descry/cache"
)

func TestMemoryStore(t *testing.T) {
	store := New()
	defer store.Close()

	if _, err := store.Get("ws://nowhere"); err != cache.ErrNotFound {
		t.Errorf("got: %v; want cache.ErrNotFound", err)
	}

	if err := store.Set("ws://somewhere", `{"procs":[]}`); err != nil {
		t.Fatal(err)
	}
	raw, err := store.Get("ws://somewhere")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := raw, `{"procs":[]}`; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	// Overwrites replace.
	if err := store.Set("ws://somewhere", `{}`); err != nil {
		t.Fatal(err)
	}
	raw, _ = store.Get("ws://somewhere")
	if got, want := raw, `{}`; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}
}
