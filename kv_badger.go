package ledger

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
)

// badgerKV is the durable substrate, a local badger database. Each Put
// is a single-key commit; there is deliberately no multi-key batching,
// the store contract assumes none.
type badgerKV struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the key-value store at path.
func OpenBadger(path string) (KV, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty for a CLI
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open store at %q: %w", path, err)
	}
	return &badgerKV{db: db}, nil
}

func (b *badgerKV) Get(key string) (value []byte, ok bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (b *badgerKV) Put(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *badgerKV) Del(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *badgerKV) Close() error { return b.db.Close() }
