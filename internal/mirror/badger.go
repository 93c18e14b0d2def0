package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/mykitchen/kitchen/pkg/logger"
)

var _ Backend = (*BadgerBackend)(nil)

// BadgerBackend stores mirror values in an embedded badger database on disk.
type BadgerBackend struct {
	db     *badger.DB
	prefix string
}

// OpenBadger opens (or creates) a badger database at dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir, prefix string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	logger.Info("Opening badger mirror", map[string]interface{}{
		"dir":       dir,
		"in_memory": dir == "",
	})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("mirror: open badger at %q: %w", dir, err)
	}
	return &BadgerBackend{db: db, prefix: prefix}, nil
}

func (b *BadgerBackend) key(k string) []byte {
	return []byte(b.prefix + k)
}

func (b *BadgerBackend) Put(ctx context.Context, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key(key), value)
	})
}

func (b *BadgerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BadgerBackend) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.key(key))
	})
}

func (b *BadgerBackend) Close() error {
	logger.Info("Closing badger mirror", nil)
	return b.db.Close()
}
