package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/arloliu/canz/blob"
	"github.com/arloliu/canz/format"
)

// Config contains every option of the canz command line tool.
type Config struct {
	// Number of samples per block, a positive multiple of 20.
	BlockSize int `mapstructure:"block_size"`
	// Block encoding. Options: canadian, raw
	Encoding string `mapstructure:"encoding"`
	// Second-stage payload compression. Options: none, zstd, s2, lz4
	Compression string `mapstructure:"compression"`
	// Write trace headers big-endian instead of little-endian.
	BigEndian bool `mapstructure:"big_endian"`
	// Channel name recorded in new traces, e.g. IU.ANMO.00.BHZ.
	Channel string `mapstructure:"channel"`
	// Sampling rate in hertz recorded in new traces. 0 leaves it unknown.
	SampleRate float64 `mapstructure:"sample_rate"`
	// Full path to file to which logs will be written. Blank will write to stderr.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	Archive struct {
		// Path of the SQLite archive database.
		Path string `mapstructure:"path"`
		// How long decoded traces stay cached.
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
		// Print every SQL statement.
		QueryLogging bool `mapstructure:"query_logging"`
	} `mapstructure:"archive"`
}

const envVarPrefix = "CANZ"

var defaults = map[string]any{
	"block_size":            blob.DefaultBlockSize,
	"encoding":              "canadian",
	"compression":           "none",
	"big_endian":            false,
	"channel":               "",
	"sample_rate":           0.0,
	"log_file_path":         "",
	"log_level":             "info",
	"archive.path":          "canz.db",
	"archive.cache_ttl":     "5m",
	"archive.query_logging": false,
}

// LoadConfig reads configFile, or canz.yaml in the current directory when configFile is
// empty, on top of the built-in defaults. A missing canz.yaml is not an error.
//
// Every key can be overridden through the environment; nested keys use underscores,
// so archive.path is set with CANZ_ARCHIVE_PATH.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("canz")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}

	return config, nil
}

// EncoderOptions converts the trace settings into encoder options.
func (c *Config) EncoderOptions() ([]blob.TraceEncoderOption, error) {
	enc, err := format.ParseEncoding(c.Encoding)
	if err != nil {
		return nil, err
	}
	comp, err := format.ParseCompression(c.Compression)
	if err != nil {
		return nil, err
	}

	opts := []blob.TraceEncoderOption{
		blob.WithBlockSize(c.BlockSize),
		blob.WithEncoding(enc),
		blob.WithCompression(comp),
		blob.WithSampleRate(c.SampleRate),
	}
	if c.BigEndian {
		opts = append(opts, blob.WithBigEndian())
	}
	if c.Channel != "" {
		opts = append(opts, blob.WithChannel(c.Channel))
	}

	return opts, nil
}
