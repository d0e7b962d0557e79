package recall

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/bhuisgen/recall/pkg/core"
	"github.com/bhuisgen/recall/pkg/log"
	"github.com/bhuisgen/recall/pkg/module"
)

// storeConfig implements the store configuration.
type storeConfig struct {
	Storage map[string]map[string]interface{} `mapstructure:"storage"`
	Flush   *bool                             `mapstructure:"flush"`
}

const (
	storeLogger    string = "store"
	storeNamespace string = "store"

	storeConfigDefaultFlush bool = true
)

// parseStoreConfig decodes the store configuration and applies the defaults.
func parseStoreConfig(config map[string]interface{}) (*storeConfig, error) {
	var c *storeConfig
	if err := mapstructure.Decode(config, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c == nil {
		c = &storeConfig{}
	}
	if c.Flush == nil {
		defaultValue := storeConfigDefaultFlush
		c.Flush = &defaultValue
	}
	if len(c.Storage) == 0 {
		return nil, errors.New("no storage defined")
	}
	if len(c.Storage) > 1 {
		return nil, errors.New("multiple storages defined")
	}
	return c, nil
}

// openStore opens the store backend selected by the configuration.
func openStore(c *storeConfig, logger *slog.Logger) (core.StoreModule, error) {
	names := make([]string, 0, len(c.Storage))
	for name := range c.Storage {
		names = append(names, name)
	}
	sort.Strings(names)
	name := names[0]

	moduleInfo, err := module.Lookup(module.ModuleID(storeNamespace + "." + name))
	if err != nil {
		logger.Error("Unregistered storage module", "module", name, "err", err)
		return nil, err
	}
	store, ok := moduleInfo.NewInstance().(core.StoreModule)
	if !ok {
		err := errors.New("module instance not valid")
		logger.Error("Invalid storage module", "module", name, "err", err)
		return nil, err
	}

	storageConfig := c.Storage[name]
	if storageConfig == nil {
		storageConfig = map[string]interface{}{}
	}
	if err := store.Init(storageConfig, log.New(storeLogger).With("storage", name)); err != nil {
		logger.Error("Failed to init storage module", "module", name, "err", err)
		return nil, fmt.Errorf("init storage: %w", err)
	}

	return store, nil
}

// Storages returns the names of the available storage modules.
func Storages() []string {
	var names []string
	for _, id := range module.List(storeNamespace) {
		names = append(names, id.Name())
	}
	return names
}
