// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dvloznov/finbot/internal/currency"
)

// Config represents the top-level finbot.yaml configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Currency   CurrencyConfig   `yaml:"currency"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Queue      QueueConfig      `yaml:"queue"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Driver is "mysql" or "memory".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

// ClassifierConfig controls the LLM fallback.
type ClassifierConfig struct {
	Enabled bool          `yaml:"enabled"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// CurrencyConfig sets the base currency and static conversion rates.
type CurrencyConfig struct {
	Base string `yaml:"base"`
	// Rates maps a currency code to its value in the base currency.
	Rates map[string]string `yaml:"rates"`
}

// ResolverConfig tunes the category fallback chain.
type ResolverConfig struct {
	DictionaryThreshold float64 `yaml:"dictionary_threshold"`
	MaxExamples         int     `yaml:"max_examples"`
}

// QueueConfig controls the asynchronous ingestion queue.
type QueueConfig struct {
	BufferSize int `yaml:"buffer_size"`
	Workers    int `yaml:"workers"`
}

// Load reads a finbot.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new deployment.
func Default() *Config {
	cfg := &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info"},
		Storage: StorageConfig{Driver: "memory"},
		Classifier: ClassifierConfig{
			Enabled: true,
			Model:   "gemini-2.0-flash",
			Timeout: 15 * time.Second,
		},
		Currency: CurrencyConfig{
			Base:  currency.DefaultBase,
			Rates: currency.DefaultRates(),
		},
		Resolver: ResolverConfig{
			DictionaryThreshold: 0.7,
			MaxExamples:         10,
		},
		Queue: QueueConfig{
			BufferSize: 100,
			Workers:    5,
		},
	}
	return cfg
}

// applyDefaults fills in zero values after loading a partial file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = def.Classifier.Model
	}
	if c.Classifier.Timeout <= 0 {
		c.Classifier.Timeout = def.Classifier.Timeout
	}
	if c.Currency.Base == "" {
		c.Currency.Base = def.Currency.Base
	}
	if len(c.Currency.Rates) == 0 {
		c.Currency.Rates = def.Currency.Rates
	}
	if c.Resolver.DictionaryThreshold <= 0 {
		c.Resolver.DictionaryThreshold = def.Resolver.DictionaryThreshold
	}
	if c.Resolver.MaxExamples <= 0 {
		c.Resolver.MaxExamples = def.Resolver.MaxExamples
	}
	if c.Queue.BufferSize <= 0 {
		c.Queue.BufferSize = def.Queue.BufferSize
	}
	if c.Queue.Workers <= 0 {
		c.Queue.Workers = def.Queue.Workers
	}
}
