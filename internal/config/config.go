// Package config loads producer, server, client, and logging options from
// environment variables and an optional YAML file via github.com/spf13/viper,
// the same loader the teacher uses for its downloader config
// (internal/config/config.go in the example pack), with the "GEXBOT" env
// prefix replaced by "ILLEX" and the section names replaced to match this
// system's components.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from configPath (if non-empty) or from
// ./configs/default.yaml / ./default.yaml (if present), overlays
// ILLEX_-prefixed environment variables, and validates the result.
//
// Schema deserialization from disk is a supplied non-goal (spec.md §1): the
// schema tree itself is never part of this config and is built in code by
// the caller (see cmd/illexd's schema presets).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("producer.seed", 1)
	v.SetDefault("producer.pretty", false)
	v.SetDefault("producer.whitespace", true)
	v.SetDefault("producer.whitespace_char", "\n")
	v.SetDefault("producer.num_jsons", 1000)
	v.SetDefault("producer.num_batches", 1)
	v.SetDefault("producer.batching", false)
	v.SetDefault("producer.num_threads", 1)
	v.SetDefault("producer.queue_size", 32)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 10197)
	v.SetDefault("server.verbose", false)
	v.SetDefault("server.repeat_times", 1)
	v.SetDefault("server.repeat_interval_ms", 0)
	v.SetDefault("server.stats_addr", "")

	v.SetDefault("client.host", "127.0.0.1")
	v.SetDefault("client.port", 10197)
	v.SetDefault("client.mode", "buffer")
	v.SetDefault("client.num_buffers", 4)
	v.SetDefault("client.buffer_capacity", 1<<20)
	v.SetDefault("client.record_queue_len", 1024)
	v.SetDefault("client.num_samples", 1000)
	v.SetDefault("client.num_stages", 2)
	v.SetDefault("client.sample_interval", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.to_file", false)

	v.SetEnvPrefix("ILLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// WhitespaceByte returns the configured separator byte, defaulting to a
// space when the config value is not exactly one byte long (empty, or
// more than one byte, including a single multi-byte rune).
func (c ProducerConfig) WhitespaceByte() byte {
	if len(c.WhitespaceChar) != 1 {
		return ' '
	}
	return c.WhitespaceChar[0]
}
