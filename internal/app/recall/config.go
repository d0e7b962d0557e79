// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package recall

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config implements the configuration.
type Config struct {
	Store   map[string]interface{}
	Fetcher map[string]interface{}
	Log     map[string]interface{}
}

// Env implements the process settings read from the environment.
type Env struct {
	ConfigFile string `env:"RECALL_CONFIG_FILE" envDefault:"recall.yaml"`
	Debug      bool   `env:"RECALL_DEBUG"`
	RedisURL   string `env:"RECALL_REDIS_URL"`
}

// configParser parses configuration data.
type configParser interface {
	parse(data []byte, c *Config) error
}

// configParserYAML implements the YAML configuration parser.
type configParserYAML struct {
	yamlUnmarshal func(in []byte, out interface{}) error
}

// parse parses the YAML data.
func (p *configParserYAML) parse(data []byte, c *Config) error {
	var y struct {
		Store   map[string]interface{} `yaml:"store"`
		Fetcher map[string]interface{} `yaml:"fetcher"`
		Log     map[string]interface{} `yaml:"log"`
	}
	if err := p.yamlUnmarshal(data, &y); err != nil {
		return err
	}
	c.Store, c.Fetcher, c.Log = y.Store, y.Fetcher, y.Log
	return nil
}

// configParserTOML implements the TOML configuration parser.
type configParserTOML struct {
	tomlUnmarshal func(in []byte, out interface{}) error
}

// parse parses the TOML data.
func (p *configParserTOML) parse(data []byte, c *Config) error {
	var t struct {
		Store   map[string]interface{} `toml:"store"`
		Fetcher map[string]interface{} `toml:"fetcher"`
		Log     map[string]interface{} `toml:"log"`
	}
	if err := p.tomlUnmarshal(data, &t); err != nil {
		return err
	}
	c.Store, c.Fetcher, c.Log = t.Store, t.Fetcher, t.Log
	return nil
}

// configParserJSON implements the JSON configuration parser.
type configParserJSON struct {
	jsonUnmarshal func(in []byte, out interface{}) error
}

// parse parses the JSON data.
func (p *configParserJSON) parse(data []byte, c *Config) error {
	var j struct {
		Store   map[string]interface{} `json:"store"`
		Fetcher map[string]interface{} `json:"fetcher"`
		Log     map[string]interface{} `json:"log"`
	}
	if err := p.jsonUnmarshal(data, &j); err != nil {
		return err
	}
	c.Store, c.Fetcher, c.Log = j.Store, j.Fetcher, j.Log
	return nil
}

var (
	_ configParser = (*configParserYAML)(nil)
	_ configParser = (*configParserTOML)(nil)
	_ configParser = (*configParserJSON)(nil)
)

// configOsReadFile redirects to os.ReadFile.
var configOsReadFile = os.ReadFile

// newConfigParser returns the parser matching the file extension.
func newConfigParser(name string) (configParser, error) {
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return &configParserYAML{yamlUnmarshal: yaml.Unmarshal}, nil
	case ".toml":
		return &configParserTOML{tomlUnmarshal: toml.Unmarshal}, nil
	case ".json":
		return &configParserJSON{jsonUnmarshal: json.Unmarshal}, nil
	}
	return nil, fmt.Errorf("invalid file extension '%s'", filepath.Ext(name))
}

// LoadEnv reads the process settings.
func LoadEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}

// DefaultConfig returns the configuration used without configuration file: a
// local Redis server flushed on start.
func DefaultConfig() *Config {
	return &Config{
		Store: map[string]interface{}{
			"storage": map[string]interface{}{
				"redis": map[string]interface{}{},
			},
		},
	}
}

// LoadConfig loads the configuration file named in the environment. A
// missing file yields the default configuration.
func LoadConfig(e *Env) (*Config, error) {
	parser, err := newConfigParser(e.ConfigFile)
	if err != nil {
		return nil, err
	}

	var c *Config
	data, err := configOsReadFile(e.ConfigFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c = DefaultConfig()
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		c = &Config{}
		if err := parser.parse(data, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if e.RedisURL != "" {
		c.Store = map[string]interface{}{
			"storage": map[string]interface{}{
				"redis": map[string]interface{}{
					"URL": e.RedisURL,
				},
			},
			"flush": c.Store["flush"],
		}
	}

	return c, nil
}
