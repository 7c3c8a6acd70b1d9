/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package config provides loading of configuration values (YAML, JSON, environment variables)
// into configuration objects. Values are read via the DataProvider interface,
// which is implemented on top of the viper library.
package config
