/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ViperAdapter is DataProvider implementation that uses viper library under the hood.
type ViperAdapter struct {
	viper *viper.Viper
}

var _ DataProvider = (*ViperAdapter)(nil)

// NewViperAdapter creates a new ViperAdapter.
func NewViperAdapter() *ViperAdapter {
	return &ViperAdapter{viper.New()}
}

// UseEnvVars enables the ability to use environment variables for configuration parameters.
// Prefix defines what environment variables will be looked.
// E.g., if your prefix is "app", the cache default capacity may be set via the
// APP_CACHE_DEFAULTMAXENTRIES variable.
func (va *ViperAdapter) UseEnvVars(prefix string) {
	va.viper.AutomaticEnv()
	va.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	va.viper.SetEnvPrefix(prefix)
}

// Set overrides the value for the key. It takes precedence over loaded data and environment variables.
func (va *ViperAdapter) Set(key string, value interface{}) {
	va.viper.Set(key, value)
}

// SetDefault sets the default value for this key.
// Default only used when no value is provided by the user via config or ENV.
func (va *ViperAdapter) SetDefault(key string, value interface{}) {
	va.viper.SetDefault(key, value)
}

func (va *ViperAdapter) get(key string) interface{} {
	return va.viper.Get(key)
}

// SetFromFile reads configuration data from the file.
func (va *ViperAdapter) SetFromFile(path string, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	va.viper.SetConfigFile(path)
	return va.viper.ReadInConfig()
}

// SetFromReader reads configuration data from the reader.
func (va *ViperAdapter) SetFromReader(reader io.Reader, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	return va.viper.ReadConfig(reader)
}

// GetInt tries to retrieve the value associated with the key as an integer.
func (va *ViperAdapter) GetInt(key string) (int, error) {
	return getAs(va, key, cast.ToIntE)
}

// GetString tries to retrieve the value associated with the key as a string.
func (va *ViperAdapter) GetString(key string) (string, error) {
	return getAs(va, key, cast.ToStringE)
}

// GetBool tries to retrieve the value associated with the key as a bool.
func (va *ViperAdapter) GetBool(key string) (bool, error) {
	return getAs(va, key, cast.ToBoolE)
}

// GetStringFromSet tries to retrieve the value associated with the key as a string from the specified set.
func (va *ViperAdapter) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	str, err := va.GetString(key)
	if err != nil {
		return "", err
	}
	if lo.ContainsBy(set, func(s string) bool { return str == s || (ignoreCase && strings.EqualFold(str, s)) }) {
		return str, nil
	}
	return "", WrapKeyErr(key, fmt.Errorf("unknown value %q, should be one of %v", str, set))
}

// getAs converts the value associated with the key and adds the key to the conversion error.
func getAs[T any](va *ViperAdapter, key string, convert func(interface{}) (T, error)) (T, error) {
	res, err := convert(va.get(key))
	return res, WrapKeyErr(key, err)
}

// GetStringMapInt tries to retrieve the value associated with the key as a map of integers.
// Map keys are lower-cased, as all keys in viper are case-insensitive.
// Empty map is returned if the key is not set.
func (va *ViperAdapter) GetStringMapInt(key string) (map[string]int, error) {
	val := va.get(key)
	if val == nil {
		return make(map[string]int), nil
	}
	res, err := cast.ToStringMapIntE(val)
	if err != nil {
		return nil, WrapKeyErr(key, err)
	}
	return lo.MapKeys(res, func(_ int, k string) string { return strings.ToLower(k) }), nil
}

// GetByteSize tries to retrieve the value associated with the key as a size in bytes.
// Both integers and human-readable strings (e.g. "100M", "1Gi") are supported.
func (va *ViperAdapter) GetByteSize(key string) (ByteSize, error) {
	switch v := va.get(key).(type) {
	case nil:
		return 0, nil
	case ByteSize:
		return v, nil
	case string:
		bs, err := parseByteSizeFromString(v)
		return bs, WrapKeyErr(key, err)
	default:
		num, err := cast.ToInt64E(v)
		if err != nil {
			return 0, WrapKeyErr(key, fmt.Errorf("unsupported type for byte size: %T", v))
		}
		if num < 0 {
			return 0, WrapKeyErr(key, fmt.Errorf("negative value is not allowed: %d", num))
		}
		return ByteSize(num), nil
	}
}

// UnmarshalKey takes a single key and unmarshals it into a Struct.
func (va *ViperAdapter) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	return WrapKeyErr(key, va.viper.UnmarshalKey(key, rawVal, toViperDecoderOptions(opts)...))
}

// WrapKeyErr wraps error adding information about a key where this error occurs.
func (va *ViperAdapter) WrapKeyErr(key string, err error) error {
	return WrapKeyErr(key, err)
}

func toViperDecoderOptions(opts []DecoderConfigOption) []viper.DecoderConfigOption {
	return lo.Map(opts, func(opt DecoderConfigOption, _ int) viper.DecoderConfigOption {
		return viper.DecoderConfigOption(opt)
	})
}
