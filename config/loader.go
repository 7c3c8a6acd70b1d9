/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import "io"

// Loader reads configuration data into a DataProvider and fills Config objects from it.
// Defaults of all objects are registered before any of them reads its values.
type Loader struct {
	DataProvider DataProvider
}

// NewLoader creates a new Loader reading from dp.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{DataProvider: dp}
}

// NewDefaultLoader creates a Loader backed by viper.
// Environment variables named <ENVVARSPREFIX>_<KEY> override values from the loaded data.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// LoadFromFile reads the file and fills cfg and cfgs.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	return l.load(func() error {
		return l.DataProvider.SetFromFile(path, dataType)
	}, append([]Config{cfg}, cfgs...))
}

// LoadFromReader reads the data from reader and fills cfg and cfgs.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	return l.load(func() error {
		return l.DataProvider.SetFromReader(reader, dataType)
	}, append([]Config{cfg}, cfgs...))
}

func (l *Loader) load(read func() error, cfgs []Config) error {
	if err := read(); err != nil {
		return err
	}
	dps := make([]DataProvider, len(cfgs))
	for i, cfg := range cfgs {
		dps[i] = dataProviderFor(cfg, l.DataProvider)
		cfg.SetProviderDefaults(dps[i])
	}
	for i, cfg := range cfgs {
		if err := cfg.Set(dps[i]); err != nil {
			return err
		}
	}
	return nil
}
