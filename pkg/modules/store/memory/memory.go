// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package memory

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/bhuisgen/recall/pkg/core"
	"github.com/bhuisgen/recall/pkg/module"
)

// memoryStore implements an in-process store.
//
// All commands hold the store lock, which makes each of them atomic like the
// commands of a single-threaded server.
type memoryStore struct {
	config  *memoryStoreConfig
	logger  *slog.Logger
	m       map[string]*entry
	q       expireQueue
	mu      sync.Mutex
	done    chan struct{}
	timeNow func() time.Time
}

// memoryStoreConfig implements the memory store configuration.
type memoryStoreConfig struct {
	CleanupInterval *int
}

// entry implements a stored key. Exactly one of value or list is used.
type entry struct {
	value  []byte
	list   [][]byte
	isList bool
	expire time.Time
}

const (
	memoryModuleID module.ModuleID = "store.memory"

	memoryConfigDefaultCleanupInterval int = 60
)

var (
	errWrongType  = errors.New("operation against a key holding the wrong kind of value")
	errNotInteger = errors.New("value is not an integer or out of range")
)

// init initializes the module.
func init() {
	module.Register(memoryStore{})
}

// ModuleInfo returns the module information.
func (s memoryStore) ModuleInfo() module.ModuleInfo {
	return module.ModuleInfo{
		ID: memoryModuleID,
		NewInstance: func() module.Module {
			return &memoryStore{
				timeNow: time.Now,
			}
		},
	}
}

// Init initializes the store.
func (s *memoryStore) Init(config map[string]interface{}, logger *slog.Logger) error {
	s.logger = logger

	if err := mapstructure.Decode(config, &s.config); err != nil {
		s.logger.Error("Failed to parse configuration", "err", err)
		return fmt.Errorf("parse config: %w", err)
	}
	if s.config == nil {
		s.config = &memoryStoreConfig{}
	}
	if s.config.CleanupInterval == nil {
		defaultValue := memoryConfigDefaultCleanupInterval
		s.config.CleanupInterval = &defaultValue
	}
	if *s.config.CleanupInterval <= 0 {
		s.logger.Error("Invalid value", "option", "CleanupInterval", "value", *s.config.CleanupInterval)
		return errors.New("config")
	}
	if s.timeNow == nil {
		s.timeNow = time.Now
	}

	s.m = make(map[string]*entry)
	s.q = newExpireQueue()
	s.done = make(chan struct{})

	go func(done <-chan struct{}, interval time.Duration) {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				s.cleanup()
			}
		}
	}(s.done, time.Duration(*s.config.CleanupInterval)*time.Second)

	return nil
}

// Set stores the value under the key, without expiration.
func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = &entry{value: clone(value)}

	return nil
}

// SetEx stores the value under the key with the given expiration.
func (s *memoryStore) SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("invalid expire time %s", ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expire := s.timeNow().Add(ttl)
	s.m[key] = &entry{value: clone(value), expire: expire}
	heap.Push(&s.q, &expireItem{key: key, expire: expire})

	return nil
}

// Get returns the value of the key.
func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil {
		return nil, core.ErrNotFound
	}
	if e.isList {
		return nil, errWrongType
	}

	return clone(e.value), nil
}

// Incr increments the integer value of the key.
func (s *memoryStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil {
		e = &entry{value: []byte("0")}
		s.m[key] = e
	}
	if e.isList {
		return 0, errWrongType
	}
	n, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return 0, errNotInteger
	}
	n++
	e.value = strconv.AppendInt(e.value[:0], n, 10)

	return n, nil
}

// RPush appends the value to the list stored at the key.
func (s *memoryStore) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil {
		e = &entry{isList: true}
		s.m[key] = e
	}
	if !e.isList {
		return 0, errWrongType
	}
	e.list = append(e.list, clone(value))

	return int64(len(e.list)), nil
}

// LRange returns the list elements between start and stop included.
func (s *memoryStore) LRange(ctx context.Context, key string, start int64, stop int64) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil {
		return [][]byte{}, nil
	}
	if !e.isList {
		return nil, errWrongType
	}

	n := int64(len(e.list))
	if start < 0 {
		start = max(n+start, 0)
	}
	if stop < 0 {
		stop = n + stop
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return [][]byte{}, nil
	}

	items := make([][]byte, 0, stop-start+1)
	for _, v := range e.list[start : stop+1] {
		items = append(items, clone(v))
	}

	return items, nil
}

// Flush removes all keys.
func (s *memoryStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()

	return nil
}

// Close releases the store internal resources.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return nil
	}
	close(s.done)
	s.done = nil
	s.clear()

	return nil
}

// lookup returns the live entry of the key, dropping it if expired.
func (s *memoryStore) lookup(key string) *entry {
	e, ok := s.m[key]
	if !ok {
		return nil
	}
	if !e.expire.IsZero() && !s.timeNow().Before(e.expire) {
		delete(s.m, key)
		return nil
	}
	return e
}

// clear removes all entries.
func (s *memoryStore) clear() {
	for key := range s.m {
		delete(s.m, key)
	}
	s.q = newExpireQueue()
}

// cleanup removes all expired entries.
func (s *memoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeNow()
	for {
		i := s.q.peek()
		if i == nil || i.expire.After(now) {
			break
		}
		heap.Pop(&s.q)
		e, ok := s.m[i.key]
		if ok && e.expire.Equal(i.expire) {
			delete(s.m, i.key)
		}
	}
}

// clone returns a copy of the byte slice.
func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

var _ core.StoreModule = (*memoryStore)(nil)
