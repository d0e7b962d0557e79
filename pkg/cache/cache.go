// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bhuisgen/recall/pkg/core"
	"github.com/bhuisgen/recall/pkg/log"
)

// Cache stores scalar values under generated keys.
type Cache struct {
	store         core.Store
	logger        *slog.Logger
	uuidNewString func() string
	storeFunc     Func[Value, string]
}

// Options are the cache options.
type Options struct {
	// Logger is the cache logger. Defaults to a stderr logger.
	Logger *slog.Logger
	// KeepData disables the store flush on construction.
	KeepData bool
}

const (
	// StoreName is the qualified name under which Store calls are counted
	// and recorded.
	StoreName string = "Cache.Store"

	cacheLogger string = "cache"
)

// New returns a cache using the store handle. The store is flushed unless
// opts.KeepData is set.
func New(ctx context.Context, store core.Store, opts *Options) (*Cache, error) {
	if opts == nil {
		opts = &Options{}
	}
	c := &Cache{
		store:         store,
		logger:        opts.Logger,
		uuidNewString: uuid.NewString,
	}
	if c.logger == nil {
		c.logger = log.New(cacheLogger)
	}
	c.storeFunc = CallHistory(store, StoreName, CountCalls(store, StoreName, c.set))

	if !opts.KeepData {
		c.logger.Debug("Flushing store")
		if err := store.Flush(ctx); err != nil {
			c.logger.Error("Failed to flush store", "err", err)
			return nil, fmt.Errorf("flush store: %w", err)
		}
	}

	return c, nil
}

// Store writes the value under a new random key and returns the key.
//
// Calls are counted under StoreName and recorded in its history lists.
func (c *Cache) Store(ctx context.Context, v Value) (string, error) {
	return c.storeFunc(ctx, v)
}

// set writes the value under a new key.
func (c *Cache) set(ctx context.Context, v Value) (string, error) {
	key := c.uuidNewString()

	c.logger.Debug("Storing value", "key", key, "kind", v.Kind())

	if err := c.store.Set(ctx, key, v.Encode()); err != nil {
		return "", fmt.Errorf("store value: %w", err)
	}

	return key, nil
}

// Get returns the value of the key converted by fn, or the raw data as a
// KindBytes value when fn is nil.
//
// The boolean is false when the key is absent or fn fails to convert the
// data. Store errors are returned.
func (c *Cache) Get(ctx context.Context, key string, fn Transform) (Value, bool, error) {
	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, core.ErrNotFound) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("get value: %w", err)
	}

	if fn == nil {
		fn = AsBytes
	}
	v, ok := fn(raw)
	if !ok {
		c.logger.Debug("Failed to convert value", "key", key)
		return Value{}, false, nil
	}

	return v, true, nil
}

// GetAs returns the value of the key decoded to the kind.
func (c *Cache) GetAs(ctx context.Context, key string, kind Kind) (Value, bool, error) {
	fn := kind.Transform()
	if fn == nil {
		return Value{}, false, fmt.Errorf("invalid kind '%s'", kind)
	}
	return c.Get(ctx, key, fn)
}

// GetString returns the value of the key as text.
func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := c.Get(ctx, key, AsString)
	if err != nil || !ok {
		return "", false, err
	}
	s, _ := v.Text()
	return s, true, nil
}

// GetInt returns the value of the key as an integer.
func (c *Cache) GetInt(ctx context.Context, key string) (int64, bool, error) {
	v, ok, err := c.Get(ctx, key, AsInt)
	if err != nil || !ok {
		return 0, false, err
	}
	i, _ := v.Int64()
	return i, true, nil
}

// GetFloat returns the value of the key as a floating point number.
func (c *Cache) GetFloat(ctx context.Context, key string) (float64, bool, error) {
	v, ok, err := c.Get(ctx, key, AsFloat)
	if err != nil || !ok {
		return 0, false, err
	}
	f, _ := v.Float64()
	return f, true, nil
}

// Calls returns the number of counted calls of the named operation.
func (c *Cache) Calls(ctx context.Context, name string) (int64, error) {
	n, _, err := c.GetInt(ctx, name)
	return n, err
}
