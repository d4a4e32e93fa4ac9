// Package config loads the bayesnet configuration file.
//
// The file is YAML. It is first read into a generic map and then decoded onto
// Config with mapstructure, so scalar types are coerced ("10000" is a valid
// sample count) and durations accept Go syntax ("10m").
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/bayesnet/pkg/adapters/file"
	"github.com/aretw0/bayesnet/pkg/persistence/middleware"
	"github.com/aretw0/bayesnet/pkg/sampling"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheFile   = "file"
	CacheNone   = "none"
)

// Config is the full runtime configuration.
type Config struct {
	Algorithm  string `mapstructure:"algorithm"`
	Samples    int    `mapstructure:"samples"`
	MaxSamples int    `mapstructure:"max_samples"`
	Seed       uint64 `mapstructure:"seed"`
	Workers    int    `mapstructure:"workers"`
	BurnIn     int    `mapstructure:"burn_in"`
	LogLevel   string `mapstructure:"log_level"`

	HTTP  HTTPConfig  `mapstructure:"http"`
	Cache CacheConfig `mapstructure:"cache"`
}

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// CacheConfig selects and configures the posterior cache.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
	File    FileConfig    `mapstructure:"file"`

	// EncryptionKey, hex-encoded, seals cached posteriors at rest with AES-256-GCM.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// FileConfig holds the directory of the file cache.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Algorithm:  string(sampling.AlgorithmLikelihoodWeighting),
		Samples:    10000,
		MaxSamples: 1_000_000,
		Seed:       42,
		Workers:    1,
		LogLevel:   "info",
		HTTP:       HTTPConfig{Port: 8080},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Redis:   RedisConfig{Addr: "localhost:6379"},
			File:    FileConfig{Dir: file.DefaultDir},
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := sampling.ParseAlgorithm(c.Algorithm); err != nil {
		errs = append(errs, err)
	}
	if c.Samples <= 0 {
		errs = append(errs, fmt.Errorf("samples must be positive, got %d", c.Samples))
	}
	if c.MaxSamples <= 0 {
		errs = append(errs, fmt.Errorf("max_samples must be positive, got %d", c.MaxSamples))
	} else if c.Samples > c.MaxSamples {
		errs = append(errs, fmt.Errorf("samples %d exceed max_samples %d", c.Samples, c.MaxSamples))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.BurnIn < 0 {
		errs = append(errs, fmt.Errorf("burn_in must not be negative, got %d", c.BurnIn))
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheFile:
		if c.Cache.File.Dir == "" {
			errs = append(errs, errors.New("cache.file.dir is required for the file backend"))
		}
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if c.Cache.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Cache.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("cache.encryption_key: %w", err))
		}
	}
	return errors.Join(errs...)
}
