package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v2"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

var snapshotKey = []byte("session/snapshot")

// Badger keeps the latest session snapshot in an embedded badger database.
type Badger struct {
	db *badger.DB
}

func Open(dir string) (*Badger, error) {
	// badger v2 does not create parent directories
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Load(ctx context.Context) (entity.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return entity.Snapshot{}, false, err
	}
	var snap entity.Snapshot
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return entity.Snapshot{}, false, nil
	}
	if err != nil {
		return entity.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, true, nil
}

func (b *Badger) Save(ctx context.Context, snap entity.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, val)
	}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
