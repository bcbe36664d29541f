package badger

import (
	"time"

	"github.com/dgraph-io/badger/v2"

	"github.com/descry/descry/cache"
)

// DefaultTTL bounds how long a cached manifest is trusted before the service
// must be described again.
const DefaultTTL = 24 * time.Hour

// Open returns a cache.Store implementation using Badger as the storage
// driver. The store should be .Close()'d after use.
func Open(opts badger.Options) (*badgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerStore{db: db, ttl: DefaultTTL}, nil
}

// Assert Store implementation
var _ cache.Store = &badgerStore{}

type badgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

func manifestKey(endpoint string) []byte {
	return append([]byte("manifest:"), endpoint...)
}

func (s *badgerStore) Get(endpoint string) (string, error) {
	var raw string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(manifestKey(endpoint))
		if err == badger.ErrKeyNotFound {
			return cache.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = string(val)
			return nil
		})
	})
	return raw, err
}

func (s *badgerStore) Set(endpoint string, raw string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(manifestKey(endpoint), []byte(raw)).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
