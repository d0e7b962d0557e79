// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a store when a key does not exist or has expired.
var ErrNotFound = errors.New("key not found")

// Store is the handle of a key-value store.
//
// Every method maps to a single atomic store command. Sequences of calls are
// not atomic as a unit.
type Store interface {
	// Set stores the value under the key, without expiration.
	Set(ctx context.Context, key string, value []byte) error
	// SetEx stores the value under the key with the given expiration.
	SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value of the key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Incr increments the integer value of the key by one and returns it.
	Incr(ctx context.Context, key string) (int64, error)
	// RPush appends the value to the list stored at the key and returns the
	// new list length.
	RPush(ctx context.Context, key string, value []byte) (int64, error)
	// LRange returns the list elements between start and stop included.
	// Negative indexes count from the end of the list.
	LRange(ctx context.Context, key string, start int64, stop int64) ([][]byte, error)
	// Flush removes all keys.
	Flush(ctx context.Context) error
	// Close releases the store connection.
	Close() error
}

// StoreModule is the interface of a store backend module.
type StoreModule interface {
	Module
	Store
}
