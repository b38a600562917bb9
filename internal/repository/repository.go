package repository

import (
	"context"
	"database/sql"
)

// KVStore is the host key/value bridge: synchronous string get/set by key.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Repository bundles the raw store with the typed snapshot layer on top of it.
type Repository struct {
	KV        KVStore
	Snapshots *Snapshots
}

// NewRepository wires the SQLite-backed store.
func NewRepository(db *sql.DB) *Repository {
	return NewRepositoryWithStore(NewKVSQLite(db))
}

// NewRepositoryWithStore wires an arbitrary store, e.g. a MemoryStore.
func NewRepositoryWithStore(kv KVStore) *Repository {
	return &Repository{
		KV:        kv,
		Snapshots: NewSnapshots(kv),
	}
}
