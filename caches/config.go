/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package caches

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/commonskit/go-commons/commonerr"
	"github.com/commonskit/go-commons/config"
)

const cfgDefaultKeyPrefix = "cache"

const (
	cfgKeyDefaultMaxEntries = "defaultMaxEntries"
	cfgKeyMaxEntries        = "maxEntries"
)

// DefaultMaxEntries is the capacity of a cache registered without an explicit or configured one.
const DefaultMaxEntries = 1000

// Config represents a set of configuration parameters for the cache registry.
// Configuration can be loaded in different formats (YAML, JSON) using config.Loader, viper,
// or with json.Unmarshal/yaml.Unmarshal functions directly.
//
//	cache:
//	  defaultMaxEntries: 1000
//	  maxEntries:
//	    user: 500
type Config struct {
	// DefaultMaxEntries is the capacity of caches for types without an entry in MaxEntries.
	DefaultMaxEntries int `mapstructure:"defaultMaxEntries" yaml:"defaultMaxEntries" json:"defaultMaxEntries"`

	// MaxEntries maps a type name (case-insensitive) to the capacity of its cache.
	MaxEntries map[string]int `mapstructure:"maxEntries" yaml:"maxEntries" json:"maxEntries"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ConfigOption is a type for functional options for the Config.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix returns a ConfigOption that sets a key prefix for parsing configuration parameters.
// This prefix will be used by config.Loader.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(o *configOptions) {
		o.keyPrefix = keyPrefix
	}
}

// NewConfig creates a new instance of the Config.
func NewConfig(options ...ConfigOption) *Config {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return &Config{keyPrefix: opts.keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	cfg := NewConfig(options...)
	cfg.DefaultMaxEntries = DefaultMaxEntries
	cfg.MaxEntries = make(map[string]int)
	return cfg
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for the cache registry in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyDefaultMaxEntries, DefaultMaxEntries)
}

// Set sets the cache registry configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.DefaultMaxEntries, err = dp.GetInt(cfgKeyDefaultMaxEntries); err != nil {
		return err
	}
	if c.DefaultMaxEntries <= 0 {
		return dp.WrapKeyErr(cfgKeyDefaultMaxEntries, invalidCapacityErr(c.DefaultMaxEntries))
	}

	maxEntries, err := dp.GetStringMapInt(cfgKeyMaxEntries)
	if err != nil {
		return err
	}
	for typeName, n := range maxEntries {
		if n <= 0 {
			return dp.WrapKeyErr(cfgKeyMaxEntries+"."+typeName, invalidCapacityErr(n))
		}
	}
	c.MaxEntries = maxEntries

	return nil
}

// Validate checks that all configured capacities are positive.
// It is useful when the Config is filled without config.Loader (e.g. with yaml.Unmarshal).
func (c *Config) Validate() error {
	if c.DefaultMaxEntries <= 0 {
		return commonerr.Wrap(invalidCapacityErr(c.DefaultMaxEntries), "invalid cache config",
			commonerr.Arg("key", cfgKeyDefaultMaxEntries))
	}
	typeNames := lo.Keys(c.MaxEntries)
	sort.Strings(typeNames)
	seen := make(map[string]string, len(typeNames))
	for _, typeName := range typeNames {
		if n := c.MaxEntries[typeName]; n <= 0 {
			return commonerr.Wrap(invalidCapacityErr(n), "invalid cache config",
				commonerr.Arg("key", cfgKeyMaxEntries+"."+typeName))
		}
		lowerName := strings.ToLower(typeName)
		if prevName, ok := seen[lowerName]; ok {
			return commonerr.Wrap(ErrDuplicateType, "invalid cache config",
				commonerr.Arg("key", cfgKeyMaxEntries+"."+typeName), commonerr.Arg("prev_key", cfgKeyMaxEntries+"."+prevName))
		}
		seen[lowerName] = typeName
	}
	return nil
}

// MaxEntriesFor returns the capacity configured for the type with the given name.
// Type names are matched case-insensitively. Validate rejects names that differ only in case.
func (c *Config) MaxEntriesFor(typeName string) int {
	if n, ok := c.MaxEntries[strings.ToLower(typeName)]; ok {
		return n
	}
	for name, n := range c.MaxEntries {
		if strings.EqualFold(name, typeName) {
			return n
		}
	}
	if c.DefaultMaxEntries > 0 {
		return c.DefaultMaxEntries
	}
	return DefaultMaxEntries
}

func invalidCapacityErr(maxEntries int) error {
	return commonerr.Wrap(ErrInvalidCapacity, "", commonerr.Arg("max_entries", maxEntries))
}
