// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewFetcher(t *testing.T) {
	type args struct {
		config map[string]interface{}
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "default",
		},
		{
			name: "custom values",
			args: args{
				config: map[string]interface{}{
					"Timeout":             10,
					"MaxConnsPerHost":     10,
					"MaxIdleConns":        10,
					"MaxIdleConnsPerHost": 10,
					"IdleConnTimeout":     10,
					"Retry":               3,
					"RetryDelay":          0,
					"UserAgent":           "test",
					"Headers": map[string]string{
						"Accept": "text/html",
					},
				},
			},
		},
		{
			name: "error invalid timeout",
			args: args{
				config: map[string]interface{}{
					"Timeout": -1,
				},
			},
			wantErr: true,
		},
		{
			name: "error invalid retry",
			args: args{
				config: map[string]interface{}{
					"Retry": -1,
				},
			},
			wantErr: true,
		},
		{
			name: "error invalid configuration",
			args: args{
				config: map[string]interface{}{
					"Timeout": "invalid",
				},
			},
			wantErr: true,
		},
		{
			name: "error missing CA file",
			args: args{
				config: map[string]interface{}{
					"TLSCAFiles": []string{"/nonexistent/ca.pem"},
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFetcher(tt.args.config, slog.Default())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFetcher() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetcherFetch(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]interface{}
		statuses []int
		want     string
		wantHits int32
		wantErr  bool
	}{
		{
			name:     "default",
			statuses: []int{http.StatusOK},
			want:     "page 1",
			wantHits: 1,
		},
		{
			name:     "error not found",
			statuses: []int{http.StatusNotFound},
			wantHits: 1,
			wantErr:  true,
		},
		{
			name:     "error server without retry",
			statuses: []int{http.StatusServiceUnavailable, http.StatusOK},
			wantHits: 1,
			wantErr:  true,
		},
		{
			name:     "retry server error",
			config:   map[string]interface{}{"Retry": 2, "RetryDelay": 1},
			statuses: []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK},
			want:     "page 3",
			wantHits: 3,
		},
		{
			name:     "error retries exhausted",
			config:   map[string]interface{}{"Retry": 1, "RetryDelay": 0},
			statuses: []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusOK},
			wantHits: 2,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := hits.Add(1)
				if ua := r.Header.Get("User-Agent"); ua != fetcherConfigDefaultUserAgent {
					t.Errorf("User-Agent = %q, want %q", ua, fetcherConfigDefaultUserAgent)
				}
				w.WriteHeader(tt.statuses[n-1])
				fmt.Fprintf(w, "page %d", n)
			}))
			defer ts.Close()

			f, err := NewFetcher(tt.config, slog.Default())
			if err != nil {
				t.Fatalf("NewFetcher() error = %v", err)
			}
			var slept time.Duration
			f.timeSleep = func(d time.Duration) { slept += d }

			got, err := f.Fetch(context.Background(), ts.URL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetcher.Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Fetcher.Fetch() = %q, want %q", got, tt.want)
			}
			if n := hits.Load(); n != tt.wantHits {
				t.Errorf("server hits = %d, want %d", n, tt.wantHits)
			}
			if tt.name == "retry server error" && slept != 2*time.Second {
				t.Errorf("retry delay = %v, want %v", slept, 2*time.Second)
			}
		})
	}
}

func TestFetcherFetchHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s|%s", r.Header.Get("User-Agent"), r.Header.Get("Accept"))
	}))
	defer ts.Close()

	f, err := NewFetcher(map[string]interface{}{
		"UserAgent": "agent",
		"Headers": map[string]string{
			"Accept": "text/html",
		},
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	got, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetcher.Fetch() error = %v", err)
	}
	if got != "agent|text/html" {
		t.Errorf("Fetcher.Fetch() = %q, want %q", got, "agent|text/html")
	}
}

func TestFetcherFetchErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch func(f *Fetcher)
	}{
		{
			name: "error request",
			patch: func(f *Fetcher) {
				f.httpNewRequestWithContext = func(ctx context.Context, method string, url string,
					body io.Reader) (*http.Request, error) {
					return nil, errors.New("test error")
				}
			},
		},
		{
			name: "error send",
			patch: func(f *Fetcher) {
				f.httpClientDo = func(client *http.Client, req *http.Request) (*http.Response, error) {
					return nil, errors.New("test error")
				}
			},
		},
		{
			name: "error read",
			patch: func(f *Fetcher) {
				f.ioReadAll = func(r io.Reader) ([]byte, error) {
					return nil, errors.New("test error")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "ok")
			}))
			defer ts.Close()

			f, err := NewFetcher(nil, slog.Default())
			if err != nil {
				t.Fatalf("NewFetcher() error = %v", err)
			}
			tt.patch(f)

			if _, err := f.Fetch(context.Background(), ts.URL); err == nil {
				t.Errorf("Fetcher.Fetch() error = %v, want error", err)
			}
		})
	}
}

func TestFetcherFetchCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	f, err := NewFetcher(nil, slog.Default())
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, ts.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetcher.Fetch() error = %v, want %v", err, context.Canceled)
	}
}
