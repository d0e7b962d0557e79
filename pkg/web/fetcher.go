// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package web

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/bhuisgen/recall/pkg/log"
)

// Fetcher fetches web pages over HTTP.
type Fetcher struct {
	config                    *fetcherConfig
	logger                    *slog.Logger
	client                    http.Client
	osReadFile                func(name string) ([]byte, error)
	httpNewRequestWithContext func(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error)
	httpClientDo              func(client *http.Client, req *http.Request) (*http.Response, error)
	ioReadAll                 func(r io.Reader) ([]byte, error)
	timeSleep                 func(d time.Duration)
}

// fetcherConfig implements the fetcher configuration.
type fetcherConfig struct {
	TLSCAFiles          *[]string
	Timeout             *int
	MaxConnsPerHost     *int
	MaxIdleConns        *int
	MaxIdleConnsPerHost *int
	IdleConnTimeout     *int
	Retry               *int
	RetryDelay          *int
	UserAgent           *string
	Headers             map[string]string
}

const (
	fetcherLogger string = "web.fetcher"

	fetcherConfigDefaultTimeout             int    = 30
	fetcherConfigDefaultMaxConnsPerHost     int    = 100
	fetcherConfigDefaultMaxIdleConns        int    = 100
	fetcherConfigDefaultMaxIdleConnsPerHost int    = 100
	fetcherConfigDefaultIdleConnTimeout     int    = 60
	fetcherConfigDefaultRetry               int    = 0
	fetcherConfigDefaultRetryDelay          int    = 1
	fetcherConfigDefaultUserAgent           string = "recall"
)

// fetcherOsReadFile redirects to os.ReadFile.
func fetcherOsReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// fetcherHttpNewRequestWithContext redirects to http.NewRequestWithContext.
func fetcherHttpNewRequestWithContext(ctx context.Context, method string, url string,
	body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, url, body)
}

// fetcherHttpClientDo redirects to http.Client.Do.
func fetcherHttpClientDo(client *http.Client, req *http.Request) (*http.Response, error) {
	return client.Do(req)
}

// fetcherIoReadAll redirects to io.ReadAll.
func fetcherIoReadAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}

// NewFetcher creates a fetcher from its configuration. A nil configuration
// selects the defaults.
func NewFetcher(config map[string]interface{}, logger *slog.Logger) (*Fetcher, error) {
	f := &Fetcher{
		logger:                    logger,
		osReadFile:                fetcherOsReadFile,
		httpNewRequestWithContext: fetcherHttpNewRequestWithContext,
		httpClientDo:              fetcherHttpClientDo,
		ioReadAll:                 fetcherIoReadAll,
		timeSleep:                 time.Sleep,
	}
	if f.logger == nil {
		f.logger = log.New(fetcherLogger)
	}

	if err := f.init(config); err != nil {
		return nil, err
	}

	return f, nil
}

// init parses the configuration and builds the HTTP client.
func (f *Fetcher) init(config map[string]interface{}) error {
	var c fetcherConfig
	if err := mapstructure.Decode(config, &c); err != nil {
		f.logger.Error("Failed to parse configuration", "err", err)
		return fmt.Errorf("parse config: %w", err)
	}
	f.config = &c

	defaults := []struct {
		name  string
		value **int
		def   int
	}{
		{"Timeout", &c.Timeout, fetcherConfigDefaultTimeout},
		{"MaxConnsPerHost", &c.MaxConnsPerHost, fetcherConfigDefaultMaxConnsPerHost},
		{"MaxIdleConns", &c.MaxIdleConns, fetcherConfigDefaultMaxIdleConns},
		{"MaxIdleConnsPerHost", &c.MaxIdleConnsPerHost, fetcherConfigDefaultMaxIdleConnsPerHost},
		{"IdleConnTimeout", &c.IdleConnTimeout, fetcherConfigDefaultIdleConnTimeout},
		{"Retry", &c.Retry, fetcherConfigDefaultRetry},
		{"RetryDelay", &c.RetryDelay, fetcherConfigDefaultRetryDelay},
	}
	for _, d := range defaults {
		if *d.value == nil {
			defaultValue := d.def
			*d.value = &defaultValue
		}
		if **d.value < 0 {
			f.logger.Error("Invalid value", "option", d.name, "value", **d.value)
			return fmt.Errorf("option '%s', invalid value '%d'", d.name, **d.value)
		}
	}
	if c.UserAgent == nil {
		defaultValue := fetcherConfigDefaultUserAgent
		c.UserAgent = &defaultValue
	}

	tlsConfig := &tls.Config{}
	if c.TLSCAFiles != nil {
		pool := x509.NewCertPool()
		for _, name := range *c.TLSCAFiles {
			ca, err := f.osReadFile(name)
			if err != nil {
				f.logger.Error("Failed to read CA file", "file", name, "err", err)
				return fmt.Errorf("read CA file: %w", err)
			}
			if !pool.AppendCertsFromPEM(ca) {
				return fmt.Errorf("option '%s', invalid certificate file '%s'", "TLSCAFiles", name)
			}
		}
		tlsConfig.RootCAs = pool
	}

	timeout := time.Duration(*c.Timeout) * time.Second
	transport := http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: timeout,
		ForceAttemptHTTP2:     true,
		MaxConnsPerHost:       *c.MaxConnsPerHost,
		MaxIdleConns:          *c.MaxIdleConns,
		MaxIdleConnsPerHost:   *c.MaxIdleConnsPerHost,
		IdleConnTimeout:       time.Duration(*c.IdleConnTimeout) * time.Second,
	}
	f.client = http.Client{
		Transport: &transport,
		Timeout:   timeout,
	}

	return nil
}

// Fetch returns the body of the page at the URL.
//
// Responses 429 and 5xx are retried up to the configured number of retries;
// any other non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var attempt int
	for {
		attempt++

		body, status, err := f.fetch(ctx, url)
		if err != nil {
			return "", err
		}

		switch status {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if attempt > *f.config.Retry {
				return "", fmt.Errorf("request error %d", status)
			}
			f.logger.Warn("Retrying request", "url", url, "status", status, "attempt", attempt,
				"retry", *f.config.Retry)
			if *f.config.RetryDelay > 0 {
				f.timeSleep(time.Duration(*f.config.RetryDelay) * time.Second)
			}
			continue
		}

		if status < 200 || status > 299 {
			return "", fmt.Errorf("request error %d", status)
		}

		return string(body), nil
	}
}

// fetch sends one request and returns the response body and status.
func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, int, error) {
	req, err := f.httpNewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Error("Failed to create request", "url", url, "err", err)
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", *f.config.UserAgent)
	for key, value := range f.config.Headers {
		req.Header.Set(key, value)
	}

	response, err := f.httpClientDo(&f.client, req)
	if err != nil {
		f.logger.Error("Failed to send request", "url", url, "err", err)
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer response.Body.Close()

	body, err := f.ioReadAll(response.Body)
	if err != nil {
		f.logger.Error("Failed to read response", "url", url, "err", err)
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	f.logger.Debug("Fetch request", "method", req.Method, "url", req.URL.String(), "code", response.StatusCode)

	return body, response.StatusCode, nil
}
