// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package recall

import (
	"errors"
	"os"
	"path"
	"reflect"
	"testing"
)

func writeConfigFile(t *testing.T, name string, data string) string {
	t.Helper()
	p := path.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(data), 0600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	want := &Config{
		Store: map[string]interface{}{
			"storage": map[string]interface{}{
				"memory": map[string]interface{}{},
			},
			"flush": false,
		},
		Log: map[string]interface{}{
			"level": "debug",
		},
	}

	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "yaml",
			file: "recall.yaml",
			data: `
store:
  storage:
    memory: {}
  flush: false
log:
  level: debug
`,
		},
		{
			name: "toml",
			file: "recall.toml",
			data: `
[store]
flush = false

[store.storage.memory]

[log]
level = "debug"
`,
		},
		{
			name: "json",
			file: "recall.json",
			data: `{
  "store": {
    "storage": {
      "memory": {}
    },
    "flush": false
  },
  "log": {
    "level": "debug"
  }
}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Env{ConfigFile: writeConfigFile(t, tt.file, tt.data)}
			got, err := LoadConfig(e)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("LoadConfig() = %v, want %v", got, want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	e := &Env{ConfigFile: path.Join(t.TempDir(), "recall.yaml")}
	got, err := LoadConfig(e)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if want := DefaultConfig(); !reflect.DeepEqual(got, want) {
		t.Errorf("LoadConfig() = %v, want %v", got, want)
	}
}

func TestLoadConfigRedisURL(t *testing.T) {
	e := &Env{
		ConfigFile: writeConfigFile(t, "recall.yaml", "store:\n  storage:\n    memory: {}\n  flush: false\n"),
		RedisURL:   "redis://localhost:6380/1",
	}
	got, err := LoadConfig(e)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := map[string]interface{}{
		"storage": map[string]interface{}{
			"redis": map[string]interface{}{
				"URL": "redis://localhost:6380/1",
			},
		},
		"flush": false,
	}
	if !reflect.DeepEqual(got.Store, want) {
		t.Errorf("LoadConfig() store = %v, want %v", got.Store, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		read func(name string) ([]byte, error)
	}{
		{
			name: "error invalid extension",
			file: "recall.ini",
			data: "",
		},
		{
			name: "error invalid yaml",
			file: "recall.yaml",
			data: "store: [",
		},
		{
			name: "error invalid toml",
			file: "recall.toml",
			data: "[store",
		},
		{
			name: "error invalid json",
			file: "recall.json",
			data: "{",
		},
		{
			name: "error read",
			file: "recall.yaml",
			data: "",
			read: func(name string) ([]byte, error) {
				return nil, errors.New("test error")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.read != nil {
				saved := configOsReadFile
				configOsReadFile = tt.read
				defer func() { configOsReadFile = saved }()
			}
			e := &Env{ConfigFile: writeConfigFile(t, tt.file, tt.data)}
			if _, err := LoadConfig(e); err == nil {
				t.Errorf("LoadConfig() error = %v, want error", err)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("RECALL_CONFIG_FILE", "test.toml")
	t.Setenv("RECALL_DEBUG", "true")
	t.Setenv("RECALL_REDIS_URL", "redis://test:6379/0")

	got, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	want := &Env{
		ConfigFile: "test.toml",
		Debug:      true,
		RedisURL:   "redis://test:6379/0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadEnv() = %v, want %v", got, want)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("RECALL_CONFIG_FILE", "")
	os.Unsetenv("RECALL_CONFIG_FILE")

	got, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got.ConfigFile != "recall.yaml" {
		t.Errorf("LoadEnv() ConfigFile = %q, want %q", got.ConfigFile, "recall.yaml")
	}
}

func TestLoadEnvError(t *testing.T) {
	t.Setenv("RECALL_DEBUG", "maybe")

	if _, err := LoadEnv(); err == nil {
		t.Errorf("LoadEnv() error = %v, want error", err)
	}
}
