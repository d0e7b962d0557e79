// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bhuisgen/recall/pkg/core"
	"github.com/bhuisgen/recall/pkg/module"
)

// redisStore implements a store backed by a Redis server.
type redisStore struct {
	config         *redisStoreConfig
	logger         *slog.Logger
	client         *goredis.Client
	redisNewClient func(opt *goredis.Options) *goredis.Client
}

// redisStoreConfig implements the redis store configuration.
type redisStoreConfig struct {
	URL          *string
	Addr         *string
	Username     *string
	Password     *string
	DB           *int
	DialTimeout  *int
	ReadTimeout  *int
	WriteTimeout *int
	PoolSize     *int
}

const (
	redisModuleID module.ModuleID = "store.redis"

	redisConfigDefaultAddr         string = "localhost:6379"
	redisConfigDefaultDB           int    = 0
	redisConfigDefaultDialTimeout  int    = 5
	redisConfigDefaultReadTimeout  int    = 3
	redisConfigDefaultWriteTimeout int    = 3
)

// redisRedisNewClient redirects to redis.NewClient.
func redisRedisNewClient(opt *goredis.Options) *goredis.Client {
	return goredis.NewClient(opt)
}

// init initializes the module.
func init() {
	module.Register(redisStore{})
}

// ModuleInfo returns the module information.
func (s redisStore) ModuleInfo() module.ModuleInfo {
	return module.ModuleInfo{
		ID: redisModuleID,
		NewInstance: func() module.Module {
			return &redisStore{
				redisNewClient: redisRedisNewClient,
			}
		},
	}
}

// Init opens the connection and checks the server is reachable.
func (s *redisStore) Init(config map[string]interface{}, logger *slog.Logger) error {
	s.logger = logger

	if err := mapstructure.Decode(config, &s.config); err != nil {
		s.logger.Error("Failed to parse configuration", "err", err)
		return fmt.Errorf("parse config: %w", err)
	}
	if s.config == nil {
		s.config = &redisStoreConfig{}
	}

	opts, err := s.options()
	if err != nil {
		s.logger.Error("Invalid configuration", "err", err)
		return fmt.Errorf("check config: %w", err)
	}

	if s.redisNewClient == nil {
		s.redisNewClient = redisRedisNewClient
	}
	s.client = s.redisNewClient(opts)

	if err := s.client.Ping(context.Background()).Err(); err != nil {
		s.logger.Error("Failed to connect to server", "addr", opts.Addr, "err", err)
		_ = s.client.Close()
		s.client = nil
		return fmt.Errorf("ping: %w", err)
	}

	s.logger.Debug("Connected to server", "addr", opts.Addr, "db", opts.DB)

	return nil
}

// options builds the client options from the configuration.
func (s *redisStore) options() (*goredis.Options, error) {
	var opts *goredis.Options
	if s.config.URL != nil && *s.config.URL != "" {
		o, err := goredis.ParseURL(*s.config.URL)
		if err != nil {
			return nil, err
		}
		opts = o
	} else {
		opts = &goredis.Options{
			Addr: redisConfigDefaultAddr,
			DB:   redisConfigDefaultDB,
		}
	}

	if s.config.Addr != nil {
		if *s.config.Addr == "" {
			return nil, fmt.Errorf("option '%s', invalid value '%s'", "Addr", *s.config.Addr)
		}
		opts.Addr = *s.config.Addr
	}
	if s.config.Username != nil {
		opts.Username = *s.config.Username
	}
	if s.config.Password != nil {
		opts.Password = *s.config.Password
	}
	if s.config.DB != nil {
		if *s.config.DB < 0 {
			return nil, fmt.Errorf("option '%s', invalid value '%d'", "DB", *s.config.DB)
		}
		opts.DB = *s.config.DB
	}
	if s.config.PoolSize != nil {
		if *s.config.PoolSize < 0 {
			return nil, fmt.Errorf("option '%s', invalid value '%d'", "PoolSize", *s.config.PoolSize)
		}
		opts.PoolSize = *s.config.PoolSize
	}

	timeouts := []struct {
		name   string
		value  *int
		def    int
		target *time.Duration
	}{
		{"DialTimeout", s.config.DialTimeout, redisConfigDefaultDialTimeout, &opts.DialTimeout},
		{"ReadTimeout", s.config.ReadTimeout, redisConfigDefaultReadTimeout, &opts.ReadTimeout},
		{"WriteTimeout", s.config.WriteTimeout, redisConfigDefaultWriteTimeout, &opts.WriteTimeout},
	}
	for _, t := range timeouts {
		v := t.def
		if t.value != nil {
			v = *t.value
		}
		if v < 0 {
			return nil, fmt.Errorf("option '%s', invalid value '%d'", t.name, v)
		}
		*t.target = time.Duration(v) * time.Second
	}

	return opts, nil
}

// Set stores the value under the key, without expiration.
func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// SetEx stores the value under the key with the given expiration.
func (s *redisStore) SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("setex: %w", err)
	}
	return nil
}

// Get returns the value of the key.
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return data, nil
}

// Incr increments the integer value of the key.
func (s *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr: %w", err)
	}
	return n, nil
}

// RPush appends the value to the list stored at the key.
func (s *redisStore) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	n, err := s.client.RPush(ctx, key, value).Result()
	if err != nil {
		return 0, fmt.Errorf("rpush: %w", err)
	}
	return n, nil
}

// LRange returns the list elements between start and stop included.
func (s *redisStore) LRange(ctx context.Context, key string, start int64, stop int64) ([][]byte, error) {
	items, err := s.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}
	data := make([][]byte, 0, len(items))
	for _, item := range items {
		data = append(data, []byte(item))
	}
	return data, nil
}

// Flush removes all keys of the selected database.
func (s *redisStore) Flush(ctx context.Context) error {
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("flushdb: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *redisStore) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

var _ core.StoreModule = (*redisStore)(nil)
