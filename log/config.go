/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/commonskit/go-commons/config"
)

const cfgDefaultKeyPrefix = "log"

const (
	cfgKeyLevel                        = "level"
	cfgKeyFormat                       = "format"
	cfgKeyOutput                       = "output"
	cfgKeyNoColor                      = "nocolor"
	cfgKeyFilePath                     = "file.path"
	cfgKeyFileRotationCompress         = "file.rotation.compress"
	cfgKeyFileRotationMaxSize          = "file.rotation.maxSize"
	cfgKeyFileRotationMaxBackups       = "file.rotation.maxBackups"
	cfgKeyFileRotationMaxAgeDays       = "file.rotation.maxAgeDays"
	cfgKeyFileRotationLocalTimeInNames = "file.rotation.localTimeInNames"
	cfgKeyAddCaller                    = "addCaller"
	cfgKeyErrorNoVerbose               = "error.noVerbose"
	cfgKeyErrorVerboseSuffix           = "error.verboseSuffix"
)

// Default and restriction values.
const (
	DefaultFileRotationMaxSizeBytes = 1024 * 1024 * 250
	MinFileRotationMaxSizeBytes     = 1024 * 1024

	DefaultFileRotationMaxBackups = 10
	MinFileRotationMaxBackups     = 1

	defaultErrorVerboseSuffix = "_verbose"
)

// Level defines possible values for log levels.
type Level string

// Logging levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format defines possible values for log formats.
type Format string

// Logging formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Output defines possible values for log outputs.
type Output string

// Logging outputs.
const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
	OutputFile   Output = "file"
)

var (
	availableLevels  = enumValues(LevelError, LevelWarn, LevelInfo, LevelDebug)
	availableFormats = enumValues(FormatJSON, FormatText)
	availableOutputs = enumValues(OutputStdout, OutputStderr, OutputFile)
)

func enumValues[T ~string](values ...T) []string {
	return lo.Map(values, func(v T, _ int) string { return string(v) })
}

// Config represents a set of configuration parameters for logging.
// It may be loaded from YAML or JSON using config.Loader.
type Config struct {
	Level   Level            `mapstructure:"level" yaml:"level" json:"level"`
	Format  Format           `mapstructure:"format" yaml:"format" json:"format"`
	Output  Output           `mapstructure:"output" yaml:"output" json:"output"`
	NoColor bool             `mapstructure:"nocolor" yaml:"nocolor" json:"nocolor"`
	File    FileOutputConfig `mapstructure:"file" yaml:"file" json:"file"`
	Error   ErrorConfig      `mapstructure:"error" yaml:"error" json:"error"`

	// AddCaller determines whether the caller (in package/file:line format) will be added to each logged message.
	AddCaller bool `mapstructure:"addCaller" yaml:"addCaller" json:"addCaller"`

	keyPrefix string
}

// FileOutputConfig is a configuration for file log output.
type FileOutputConfig struct {
	// Path may contain {{starttime}} and {{pid}} placeholders.
	Path     string             `mapstructure:"path" yaml:"path" json:"path"`
	Rotation FileRotationConfig `mapstructure:"rotation" yaml:"rotation" json:"rotation"`
}

// FileRotationConfig is a configuration for file log rotation.
type FileRotationConfig struct {
	Compress         bool            `mapstructure:"compress" yaml:"compress" json:"compress"`
	MaxSize          config.ByteSize `mapstructure:"maxSize" yaml:"maxSize" json:"maxSize"`
	MaxBackups       int             `mapstructure:"maxBackups" yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays       int             `mapstructure:"maxAgeDays" yaml:"maxAgeDays" json:"maxAgeDays"`
	LocalTimeInNames bool            `mapstructure:"localTimeInNames" yaml:"localTimeInNames" json:"localTimeInNames"`
}

// ErrorConfig is a configuration for logging of error fields.
type ErrorConfig struct {
	// NoVerbose disables the additional verbose field ("error" + VerboseSuffix)
	// that is added for errors implementing fmt.Formatter (e.g. with stack traces).
	NoVerbose     bool   `mapstructure:"noVerbose" yaml:"noVerbose" json:"noVerbose"`
	VerboseSuffix string `mapstructure:"verboseSuffix" yaml:"verboseSuffix" json:"verboseSuffix"`
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
	opts := makeConfigOptions(options)
	return &Config{keyPrefix: opts.keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	opts := makeConfigOptions(options)
	return &Config{
		keyPrefix: opts.keyPrefix,
		Level:     LevelInfo,
		Format:    FormatJSON,
		Output:    OutputStdout,
		File: FileOutputConfig{
			Rotation: FileRotationConfig{
				MaxSize:    DefaultFileRotationMaxSizeBytes,
				MaxBackups: DefaultFileRotationMaxBackups,
			},
		},
		Error: ErrorConfig{
			VerboseSuffix: defaultErrorVerboseSuffix,
		},
	}
}

func makeConfigOptions(options []ConfigOption) configOptions {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for logger in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	for key, val := range map[string]interface{}{
		cfgKeyLevel:                  string(LevelInfo),
		cfgKeyFormat:                 string(FormatJSON),
		cfgKeyOutput:                 string(OutputStdout),
		cfgKeyErrorVerboseSuffix:     defaultErrorVerboseSuffix,
		cfgKeyFileRotationMaxSize:    config.ByteSize(DefaultFileRotationMaxSizeBytes),
		cfgKeyFileRotationMaxBackups: DefaultFileRotationMaxBackups,
	} {
		dp.SetDefault(key, val)
	}
}

// Set sets logger configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) (err error) {
	if c.Level, err = getEnum[Level](dp, cfgKeyLevel, availableLevels); err != nil {
		return err
	}
	if c.Format, err = getEnum[Format](dp, cfgKeyFormat, availableFormats); err != nil {
		return err
	}
	if c.Output, err = getEnum[Output](dp, cfgKeyOutput, availableOutputs); err != nil {
		return err
	}
	if err = c.setFileOutputConfig(dp); err != nil {
		return err
	}

	for key, dst := range map[string]*bool{
		cfgKeyAddCaller:      &c.AddCaller,
		cfgKeyNoColor:        &c.NoColor,
		cfgKeyErrorNoVerbose: &c.Error.NoVerbose,
	} {
		if *dst, err = dp.GetBool(key); err != nil {
			return err
		}
	}
	c.Error.VerboseSuffix, err = dp.GetString(cfgKeyErrorVerboseSuffix)
	return err
}

// getEnum reads a case-insensitive value that must be one of the available ones.
func getEnum[T ~string](dp config.DataProvider, key string, available []string) (T, error) {
	val, err := dp.GetStringFromSet(key, available, true)
	if err != nil {
		return "", err
	}
	return T(strings.ToLower(val)), nil
}

func (c *Config) setFileOutputConfig(dp config.DataProvider) (err error) {
	if c.File.Path, err = dp.GetString(cfgKeyFilePath); err != nil {
		return err
	}
	if c.File.Path == "" && c.Output == OutputFile {
		return dp.WrapKeyErr(cfgKeyFilePath, fmt.Errorf("cannot be empty when %q output is used", OutputFile))
	}

	rotation := &c.File.Rotation
	if rotation.Compress, err = dp.GetBool(cfgKeyFileRotationCompress); err != nil {
		return err
	}
	if rotation.LocalTimeInNames, err = dp.GetBool(cfgKeyFileRotationLocalTimeInNames); err != nil {
		return err
	}
	if rotation.MaxSize, err = dp.GetByteSize(cfgKeyFileRotationMaxSize); err != nil {
		return err
	}
	if rotation.MaxSize < MinFileRotationMaxSizeBytes {
		return dp.WrapKeyErr(cfgKeyFileRotationMaxSize,
			fmt.Errorf("should be >= %s", config.ByteSize(MinFileRotationMaxSizeBytes)))
	}

	for _, limit := range []struct {
		key string
		dst *int
		min int
	}{
		{cfgKeyFileRotationMaxBackups, &rotation.MaxBackups, MinFileRotationMaxBackups},
		{cfgKeyFileRotationMaxAgeDays, &rotation.MaxAgeDays, 0},
	} {
		if *limit.dst, err = dp.GetInt(limit.key); err != nil {
			return err
		}
		if *limit.dst < limit.min {
			return dp.WrapKeyErr(limit.key, fmt.Errorf("should be >= %d", limit.min))
		}
	}
	return nil
}
