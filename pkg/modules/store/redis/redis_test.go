package redis

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/bhuisgen/recall/pkg/core"
	"github.com/bhuisgen/recall/pkg/module"
)

func newTestStore(t *testing.T) (*redisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	s := &redisStore{}
	if err := s.Init(map[string]interface{}{"Addr": server.Addr()}, slog.Default()); err != nil {
		t.Fatalf("redisStore.Init() error = %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s, server
}

func TestRedisStoreModuleInfo(t *testing.T) {
	s := redisStore{}
	got := s.ModuleInfo()
	if got.ID != redisModuleID {
		t.Errorf("redisStore.ModuleInfo() = %v, want %v", got.ID, redisModuleID)
	}
	if instance := got.NewInstance(); instance == nil {
		t.Errorf("redisStore.NewInstance() = %v, want %v", instance, "not nil")
	}
	if _, err := module.Lookup(redisModuleID); err != nil {
		t.Errorf("module.Lookup() error = %v", err)
	}
}

func TestRedisStoreInit(t *testing.T) {
	server := miniredis.RunT(t)

	type args struct {
		config map[string]interface{}
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "address",
			args: args{
				config: map[string]interface{}{
					"Addr": server.Addr(),
				},
			},
		},
		{
			name: "url",
			args: args{
				config: map[string]interface{}{
					"URL": "redis://" + server.Addr() + "/0",
				},
			},
		},
		{
			name: "full configuration",
			args: args{
				config: map[string]interface{}{
					"Addr":         server.Addr(),
					"DB":           1,
					"DialTimeout":  1,
					"ReadTimeout":  1,
					"WriteTimeout": 1,
					"PoolSize":     2,
				},
			},
		},
		{
			name: "error invalid url",
			args: args{
				config: map[string]interface{}{
					"URL": "http://invalid",
				},
			},
			wantErr: true,
		},
		{
			name: "error empty address",
			args: args{
				config: map[string]interface{}{
					"Addr": "",
				},
			},
			wantErr: true,
		},
		{
			name: "error invalid db",
			args: args{
				config: map[string]interface{}{
					"Addr": server.Addr(),
					"DB":   -1,
				},
			},
			wantErr: true,
		},
		{
			name: "error invalid timeout",
			args: args{
				config: map[string]interface{}{
					"Addr":        server.Addr(),
					"ReadTimeout": -1,
				},
			},
			wantErr: true,
		},
		{
			name: "error invalid configuration",
			args: args{
				config: map[string]interface{}{
					"DB": "invalid",
				},
			},
			wantErr: true,
		},
		{
			name: "error connection refused",
			args: args{
				config: map[string]interface{}{
					"Addr":        "127.0.0.1:1",
					"DialTimeout": 1,
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &redisStore{}
			err := s.Init(tt.args.config, slog.Default())
			if (err != nil) != tt.wantErr {
				t.Errorf("redisStore.Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			_ = s.Close()
		})
	}
}

func TestRedisStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s, server := newTestStore(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("redisStore.Get() error = %v, want %v", err, core.ErrNotFound)
	}

	if err := s.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("redisStore.Set() error = %v", err)
	}
	got, err := s.Get(ctx, "key")
	if err != nil {
		t.Fatalf("redisStore.Get() error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("redisStore.Get() = %s, want %s", got, "value")
	}
	if ttl := server.TTL("key"); ttl != 0 {
		t.Errorf("TTL = %v, want %v", ttl, 0)
	}
}

func TestRedisStoreSetEx(t *testing.T) {
	ctx := context.Background()
	s, server := newTestStore(t)

	if err := s.SetEx(ctx, "key", []byte("value"), 10*time.Second); err != nil {
		t.Fatalf("redisStore.SetEx() error = %v", err)
	}
	if ttl := server.TTL("key"); ttl != 10*time.Second {
		t.Errorf("TTL = %v, want %v", ttl, 10*time.Second)
	}

	server.FastForward(11 * time.Second)
	if _, err := s.Get(ctx, "key"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("redisStore.Get() error = %v, want %v", err, core.ErrNotFound)
	}
}

func TestRedisStoreIncr(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := int64(1); i <= 3; i++ {
		got, err := s.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("redisStore.Incr() error = %v", err)
		}
		if got != i {
			t.Errorf("redisStore.Incr() = %d, want %d", got, i)
		}
	}

	_ = s.Set(ctx, "text", []byte("abc"))
	if _, err := s.Incr(ctx, "text"); err == nil {
		t.Errorf("redisStore.Incr() error = %v, want error", err)
	}
}

func TestRedisStoreLists(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i, v := range []string{"a", "b", "c"} {
		n, err := s.RPush(ctx, "list", []byte(v))
		if err != nil {
			t.Fatalf("redisStore.RPush() error = %v", err)
		}
		if n != int64(i+1) {
			t.Errorf("redisStore.RPush() = %d, want %d", n, i+1)
		}
	}

	got, err := s.LRange(ctx, "list", 0, -1)
	if err != nil {
		t.Fatalf("redisStore.LRange() error = %v", err)
	}
	want := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("redisStore.LRange() = %q, want %q", got, want)
	}

	got, err = s.LRange(ctx, "missing", 0, -1)
	if err != nil {
		t.Fatalf("redisStore.LRange() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("redisStore.LRange() = %q, want empty", got)
	}
}

func TestRedisStoreFlush(t *testing.T) {
	ctx := context.Background()
	s, server := newTestStore(t)

	_ = s.Set(ctx, "a", []byte("1"))
	_, _ = s.RPush(ctx, "b", []byte("2"))

	if err := s.Flush(ctx); err != nil {
		t.Fatalf("redisStore.Flush() error = %v", err)
	}
	if keys := server.Keys(); len(keys) != 0 {
		t.Errorf("Keys() = %v, want empty", keys)
	}
}

func TestRedisStoreConnectionError(t *testing.T) {
	ctx := context.Background()
	s, server := newTestStore(t)

	server.Close()

	if err := s.Set(ctx, "key", []byte("value")); err == nil {
		t.Errorf("redisStore.Set() error = %v, want error", err)
	}
	if _, err := s.Get(ctx, "key"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Errorf("redisStore.Get() error = %v, want connection error", err)
	}
}
