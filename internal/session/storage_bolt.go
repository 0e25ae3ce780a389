// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// sessionBucket holds the CLI's persisted session keys.
var sessionBucket = []byte("session")

// BoltStorage is a file-backed [Storage] used by the command-line client.
type BoltStorage struct {
	db *bbolt.DB
}

// OpenBoltStorage opens (or creates) the session file at path.
//
// The file is created with owner-only permissions since it holds a bearer token.
func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: init bucket: %w", err)
	}

	return &BoltStorage{db: db}, nil
}

// Close releases the file lock.
func (storage *BoltStorage) Close() error {
	return storage.db.Close()
}

// Get implements [Storage].
func (storage *BoltStorage) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := storage.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get([]byte(key))
		if data != nil {
			value, found = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("session: bolt get %s: %w", key, err)
	}
	return value, found, nil
}

// Set implements [Storage].
func (storage *BoltStorage) Set(_ context.Context, key, value string) error {
	err := storage.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("session: bolt set %s: %w", key, err)
	}
	return nil
}

// Delete implements [Storage].
func (storage *BoltStorage) Delete(_ context.Context, key string) error {
	err := storage.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("session: bolt delete %s: %w", key, err)
	}
	return nil
}
