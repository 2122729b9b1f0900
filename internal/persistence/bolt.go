package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bolt wraps an embedded bbolt file.
type Bolt struct {
	DB *bolt.DB
}

// OpenBolt opens (or creates) the bolt file at path.
func OpenBolt(path string) (*Bolt, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("bolt path is required")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	return &Bolt{DB: db}, nil
}

// Close closes the file.
func (b *Bolt) Close() error {
	if b == nil || b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// Ping opens a read transaction, which fails once the file is closed.
func (b *Bolt) Ping(_ context.Context) error {
	if b == nil || b.DB == nil {
		return errors.New("bolt not configured")
	}
	return b.DB.View(func(*bolt.Tx) error { return nil })
}
