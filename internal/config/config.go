// Package config provides the configuration structure for the ssml-service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/book-expert/ssml-service/internal/ssml"
	"github.com/pelletier/go-toml/v2"
)

const defaultLogsDirName = "ssml-service-logs"

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                   string `toml:"url"`
	TextProcessedSubject  string `toml:"text_processed_subject"`
	TextObjectStoreBucket string `toml:"text_object_store_bucket"`
	SSMLObjectStoreBucket string `toml:"ssml_object_store_bucket"`
}

// SSMLConfig holds the cast defaults. Empty silences and lexicon mean the
// element is not emitted.
type SSMLConfig struct {
	Speaker         string `toml:"speaker"`
	LeadingSilence  string `toml:"leading_silence"`
	TrailingSilence string `toml:"trailing_silence"`
	LexiconURI      string `toml:"lexicon_uri"`
	SentencePattern string `toml:"sentence_pattern"`
	Indent          bool   `toml:"indent"`
	Normalize       bool   `toml:"normalize"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS  NATSConfig  `toml:"nats"`
	SSML  SSMLConfig  `toml:"ssml"`
	Paths PathsConfig `toml:"paths"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:                   "nats://127.0.0.1:4222",
			TextProcessedSubject:  "text.processed",
			TextObjectStoreBucket: "TEXT_FILES",
			SSMLObjectStoreBucket: "SSML_FILES",
		},
		SSML: SSMLConfig{
			Speaker:         ssml.DefaultSpeaker,
			LeadingSilence:  ssml.DefaultLeadingSilence,
			TrailingSilence: ssml.DefaultTrailingSilence,
			LexiconURI:      "",
			SentencePattern: ssml.DefaultSentencePattern,
			Indent:          false,
			Normalize:       false,
		},
		Paths: PathsConfig{
			BaseLogsDir: filepath.Join(os.TempDir(), defaultLogsDirName),
		},
	}
}

// Load loads the configuration for the ssml-service through the central
// configurator. Values it does not set keep their defaults.
func Load(log *logger.Logger) (*Config, error) {
	cfg := Default()

	err := configurator.Load(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return cfg, nil
}

// LoadFile decodes the TOML file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes TOML data over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	err := toml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// CastOptions converts the [ssml] section into validated cast options.
func (c *Config) CastOptions() (ssml.Options, error) {
	opts := ssml.DefaultOptions()
	opts.Speaker = c.SSML.Speaker
	opts.LeadingSilence = c.SSML.LeadingSilence
	opts.TrailingSilence = c.SSML.TrailingSilence
	opts.LexiconURI = c.SSML.LexiconURI
	opts.Indent = c.SSML.Indent

	if c.SSML.SentencePattern != "" && c.SSML.SentencePattern != ssml.DefaultSentencePattern {
		var err error

		opts, err = opts.WithPattern(c.SSML.SentencePattern)
		if err != nil {
			return opts, fmt.Errorf("invalid [ssml] sentence_pattern: %w", err)
		}
	}

	err := opts.Validate()
	if err != nil {
		return opts, fmt.Errorf("invalid [ssml] section: %w", err)
	}

	return opts, nil
}
