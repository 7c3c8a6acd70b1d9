/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
)

// DataType is a format of configuration data.
type DataType string

// Formats accepted by Loader.
const (
	DataTypeYAML DataType = "yaml"
	DataTypeJSON DataType = "json"
)

// DataProvider is a source of configuration values read by Config implementations.
type DataProvider interface {
	UseEnvVars(prefix string)
	SetDefault(key string, value interface{})

	SetFromFile(path string, dataType DataType) error
	SetFromReader(reader io.Reader, dataType DataType) error

	GetBool(key string) (bool, error)
	GetInt(key string) (int, error)
	GetString(key string) (string, error)
	GetStringFromSet(key string, set []string, ignoreCase bool) (string, error)
	GetStringMapInt(key string) (map[string]int, error)
	GetByteSize(key string) (ByteSize, error)

	UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error

	WrapKeyErr(key string, err error) error
}

// DecoderConfigOption configures mapstructure decoding in DataProvider.UnmarshalKey.
type DecoderConfigOption func(*mapstructure.DecoderConfig)

// WrapKeyErr prefixes err with the configuration key it relates to.
// Nil error is returned as is.
func WrapKeyErr(key string, err error) error {
	return errors.WrapWithDepth(1, err, key)
}
