package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet/pkg/adapters/file"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, cfg.Validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
algorithm: gibbs
samples: "5000"
max_samples: 20000
workers: 4
burn_in: 100
log_level: debug
http:
  port: 9090
cache:
  backend: redis
  ttl: 10m
  redis:
    addr: redis:6379
    prefix: "test:"
`))
	require.NoError(t, err)

	want := Default()
	want.Algorithm = "gibbs"
	want.Samples = 5000
	want.MaxSamples = 20000
	want.Workers = 4
	want.BurnIn = 100
	want.LogLevel = "debug"
	want.HTTP.Port = 9090
	want.Cache = CacheConfig{
		Backend: CacheRedis,
		TTL:     10 * time.Minute,
		Redis:   RedisConfig{Addr: "redis:6379", Prefix: "test:"},
		File:    FileConfig{Dir: file.DefaultDir},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PartialNestedKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("cache:\n  ttl: 30s\n"))
	require.NoError(t, err)

	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 10000, cfg.Samples)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "samples: [1, 2"},
		{"unknown key", "sampels: 10"},
		{"unknown algorithm", "algorithm: exact"},
		{"zero samples", "samples: 0"},
		{"zero max samples", "max_samples: 0"},
		{"samples over max", "samples: 5000\nmax_samples: 100"},
		{"zero workers", "workers: 0"},
		{"negative burn-in", "burn_in: -1"},
		{"bad backend", "cache:\n  backend: disk"},
		{"redis without addr", "cache:\n  backend: redis\n  redis:\n    addr: \"\""},
		{"bad duration", "cache:\n  ttl: soon"},
		{"file without dir", "cache:\n  backend: file\n  file:\n    dir: \"\""},
		{"short encryption key", "cache:\n  encryption_key: abcd"},
		{"non-hex encryption key", "cache:\n  encryption_key: not-hex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_FileCacheWithEncryption(t *testing.T) {
	key := strings.Repeat("0f", 32)
	cfg, err := Parse([]byte("cache:\n  backend: file\n  encryption_key: " + key + "\n  file:\n    dir: /tmp/bn\n"))
	require.NoError(t, err)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, "/tmp/bn", cfg.Cache.File.Dir)
	assert.Equal(t, key, cfg.Cache.EncryptionKey)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Samples = -1
	cfg.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samples")
	assert.Contains(t, err.Error(), "workers")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bayesnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
