package web

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bhuisgen/recall/pkg/core"
)

// PageFunc returns the content of the page at the URL.
type PageFunc func(ctx context.Context, url string) (string, error)

// CacheTTL is the expiration of cached pages.
const CacheTTL = 10 * time.Second

// CountKey returns the key of the access counter of the URL.
func CountKey(url string) string {
	return "count:" + url
}

// CacheKey returns the key of the cached content of the URL.
func CacheKey(url string) string {
	return "cache:" + url
}

// CountAccess returns fn wrapped to increment the access counter of the URL
// on every call.
func CountAccess(store core.Store, fn PageFunc) PageFunc {
	return func(ctx context.Context, url string) (string, error) {
		if _, err := store.Incr(ctx, CountKey(url)); err != nil {
			return "", fmt.Errorf("count access: %w", err)
		}
		return fn(ctx, url)
	}
}

// CachePage returns fn wrapped to return the cached content of the URL when
// present, and otherwise to call fn and cache its result for CacheTTL.
//
// The lookup and the write are separate commands: concurrent misses on the
// same URL all call fn and the last write wins.
func CachePage(store core.Store, fn PageFunc) PageFunc {
	return func(ctx context.Context, url string) (string, error) {
		key := CacheKey(url)

		data, err := store.Get(ctx, key)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return "", fmt.Errorf("get cached page: %w", err)
		}

		content, err := fn(ctx, url)
		if err != nil {
			return "", err
		}
		if err := store.SetEx(ctx, key, []byte(content), CacheTTL); err != nil {
			return "", fmt.Errorf("cache page: %w", err)
		}

		return content, nil
	}
}

// NewPageGetter returns the page getter counting accesses and caching the
// pages fetched by the fetcher.
func NewPageGetter(store core.Store, fetcher *Fetcher) PageFunc {
	return CountAccess(store, CachePage(store, fetcher.Fetch))
}

// AccessCount returns the number of accesses of the URL.
func AccessCount(ctx context.Context, store core.Store, url string) (int64, error) {
	data, err := store.Get(ctx, CountKey(url))
	if errors.Is(err, core.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get access count: %w", err)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse access count: %w", err)
	}
	return n, nil
}
