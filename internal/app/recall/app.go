// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package recall

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/bhuisgen/recall/pkg/cache"
	"github.com/bhuisgen/recall/pkg/core"
	"github.com/bhuisgen/recall/pkg/log"
	"github.com/bhuisgen/recall/pkg/web"
)

// App wires the store, the cache and the page getter together.
type App struct {
	logger  *slog.Logger
	store   core.StoreModule
	cache   *cache.Cache
	fetcher *web.Fetcher
	pages   web.PageFunc
}

// logConfig implements the log configuration.
type logConfig struct {
	Level *string
}

const (
	appLogger string = "app"

	// Name is the application name.
	Name string = "Recall"
)

var (
	// Version is the application version.
	Version string = "dev"
)

// New opens the store and builds the application components.
func New(ctx context.Context, config *Config, e *Env) (*App, error) {
	if err := configureLog(config.Log, e); err != nil {
		return nil, err
	}

	a := &App{
		logger: log.New(appLogger),
	}

	sc, err := parseStoreConfig(config.Store)
	if err != nil {
		a.logger.Error("Invalid store configuration", "err", err)
		return nil, fmt.Errorf("store config: %w", err)
	}
	a.store, err = openStore(sc, a.logger)
	if err != nil {
		return nil, err
	}

	a.cache, err = cache.New(ctx, a.store, &cache.Options{
		Logger:   log.New("cache"),
		KeepData: !*sc.Flush,
	})
	if err != nil {
		_ = a.store.Close()
		return nil, err
	}

	a.fetcher, err = web.NewFetcher(config.Fetcher, log.New("web.fetcher"))
	if err != nil {
		_ = a.store.Close()
		return nil, fmt.Errorf("fetcher config: %w", err)
	}
	a.pages = web.NewPageGetter(a.store, a.fetcher)

	a.logger.Debug("Application ready")

	return a, nil
}

// configureLog applies the log configuration to the program level.
func configureLog(config map[string]interface{}, e *Env) error {
	var c logConfig
	if err := mapstructure.Decode(config, &c); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	level := slog.LevelInfo
	if c.Level != nil {
		l, err := log.ParseLevel(*c.Level)
		if err != nil {
			return fmt.Errorf("log config: %w", err)
		}
		level = l
	}
	if e != nil && e.Debug {
		level = slog.LevelDebug
	}
	log.ProgramLevel.Set(level)
	return nil
}

// Cache returns the value cache.
func (a *App) Cache() *cache.Cache {
	return a.cache
}

// Store returns the store handle.
func (a *App) Store() core.Store {
	return a.store
}

// Page returns the content of the page at the URL, counting the access and
// caching the content.
func (a *App) Page(ctx context.Context, url string) (string, error) {
	return a.pages(ctx, url)
}

// AccessCount returns the number of accesses of the URL.
func (a *App) AccessCount(ctx context.Context, url string) (int64, error) {
	return web.AccessCount(ctx, a.store, url)
}

// Replay writes the recorded calls of the named operation.
func (a *App) Replay(ctx context.Context, name string, w io.Writer) error {
	return cache.Replay(ctx, a.store, name, w)
}

// Close closes the store.
func (a *App) Close() error {
	a.logger.Debug("Closing store")
	return a.store.Close()
}
