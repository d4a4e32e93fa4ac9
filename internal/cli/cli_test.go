package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet"
	"github.com/aretw0/bayesnet/internal/config"
	"github.com/aretw0/bayesnet/internal/logging"
	"github.com/aretw0/bayesnet/pkg/domain"
)

func newEngine(t *testing.T, cfg config.Config, reg prometheus.Registerer) *bayesnet.Engine {
	t.Helper()
	engine, closer, err := NewEngine(context.Background(), cfg, logging.NewNop(), reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })
	return engine
}

func TestNewEngine_Backends(t *testing.T) {
	ask := AskOptions{Network: "rain-umbrella", Query: "Rain", Evidence: "Umbrella=true"}

	t.Run("memory", func(t *testing.T) {
		e := newEngine(t, config.Default(), nil)
		var first, second domain.Posterior
		askJSON(t, e, ask, &first)
		askJSON(t, e, ask, &second)
		assert.True(t, second.Cached)
	})

	t.Run("none", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheNone
		e := newEngine(t, cfg, nil)
		var first, second domain.Posterior
		askJSON(t, e, ask, &first)
		askJSON(t, e, ask, &second)
		assert.False(t, second.Cached)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheRedis
		cfg.Cache.Redis.Addr = mr.Addr()
		cfg.Cache.Redis.Prefix = "test:"
		e := newEngine(t, cfg, nil)

		var first, second domain.Posterior
		askJSON(t, e, ask, &first)
		askJSON(t, e, ask, &second)
		assert.True(t, second.Cached)
		assert.Equal(t, first.ID, second.ID)

		keys := mr.Keys()
		require.NotEmpty(t, keys)
		for _, k := range keys {
			assert.Contains(t, k, "test:")
		}
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheFile
		cfg.Cache.File.Dir = t.TempDir()
		e := newEngine(t, cfg, nil)
		var first domain.Posterior
		askJSON(t, e, ask, &first)

		// A second engine over the same directory sees the cached result.
		again := newEngine(t, cfg, nil)
		var second domain.Posterior
		askJSON(t, again, ask, &second)
		assert.True(t, second.Cached)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("encrypted redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheRedis
		cfg.Cache.Redis.Addr = mr.Addr()
		cfg.Cache.EncryptionKey = strings.Repeat("ab", 32)
		e := newEngine(t, cfg, nil)

		var first, second domain.Posterior
		askJSON(t, e, ask, &first)
		askJSON(t, e, ask, &second)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Entries, second.Entries)

		for _, k := range mr.Keys() {
			if v, err := mr.Get(k); err == nil {
				assert.NotContains(t, v, "Umbrella")
			}
		}
	})

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheRedis
		cfg.Cache.Redis.Addr = "127.0.0.1:1"
		_, _, err := NewEngine(context.Background(), cfg, logging.NewNop(), nil)
		assert.Error(t, err)
	})
}

func TestNewEngine_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEngine(t, config.Default(), reg)

	var p domain.Posterior
	askJSON(t, e, AskOptions{Network: "toothache", Query: "Cavity"}, &p)

	n, err := testutil.GatherAndCount(reg, "bayesnet_inference_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewEngine_BadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Algorithm = "exact"
	_, _, err := NewEngine(context.Background(), cfg, logging.NewNop(), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func askJSON(t *testing.T, e *bayesnet.Engine, opts AskOptions, into *domain.Posterior) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunAsk(context.Background(), e, opts, &buf, FormatJSON))
	require.NoError(t, json.Unmarshal(buf.Bytes(), into))
}

func TestRunAsk_Markdown(t *testing.T) {
	e := newEngine(t, config.Default(), nil)

	var buf bytes.Buffer
	err := RunAsk(context.Background(), e, AskOptions{
		Network:   "sprinkler",
		Query:     "Rain",
		Evidence:  "Sprinkler=true, WetGrass=true",
		Algorithm: "gibbs",
		Samples:   2000,
	}, &buf, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "## P(Rain | Sprinkler=true, WetGrass=true)")
	assert.Contains(t, buf.String(), "*gibbs, 2000 samples, seed 42*")
}

func TestRunAsk_Errors(t *testing.T) {
	e := newEngine(t, config.Default(), nil)

	err := RunAsk(context.Background(), e, AskOptions{Network: "sprinkler", Query: "Rain", Evidence: "Sprinkler"}, io.Discard, FormatJSON)
	assert.ErrorContains(t, err, "--evidence")

	err = RunAsk(context.Background(), e, AskOptions{Network: "sprinkler", Query: "Hail"}, io.Discard, FormatJSON)
	assert.ErrorIs(t, err, domain.ErrUnknownVariable)
}

func TestNewEngine_MaxSamples(t *testing.T) {
	cfg := config.Default()
	cfg.Samples = 100
	cfg.MaxSamples = 1000
	e := newEngine(t, cfg, nil)

	err := RunAsk(context.Background(), e, AskOptions{Network: "sprinkler", Query: "Rain", Samples: 5000}, io.Discard, FormatJSON)
	assert.ErrorIs(t, err, domain.ErrInvalidSampleCount)

	require.NoError(t, RunAsk(context.Background(), e, AskOptions{Network: "sprinkler", Query: "Rain", Samples: 1000}, io.Discard, FormatJSON))
}

func TestRunSample_And_Networks(t *testing.T) {
	e := newEngine(t, config.Default(), nil)

	var buf bytes.Buffer
	require.NoError(t, RunSample(context.Background(), e, "burglary", &buf, FormatJSON))
	var event map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Len(t, event, 5)

	buf.Reset()
	require.NoError(t, RunNetworks(e, "", &buf, FormatMarkdown))
	assert.Contains(t, buf.String(), "| umbrella-dbn (dynamic) |")

	buf.Reset()
	require.NoError(t, RunNetworks(e, "burglary", &buf, FormatJSON))
	var info domain.NetworkInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "burglary", info.Name)

	assert.ErrorIs(t, RunNetworks(e, "nope", io.Discard, FormatJSON), domain.ErrNetworkNotFound)
}

func TestRunGraph(t *testing.T) {
	e := newEngine(t, config.Default(), nil)

	var buf bytes.Buffer
	require.NoError(t, RunGraph(e, AskOptions{Network: "burglary"}, &buf))
	assert.Contains(t, buf.String(), "Burglary --> Alarm")
	assert.NotContains(t, buf.String(), "classDef")

	buf.Reset()
	require.NoError(t, RunGraph(e, AskOptions{Network: "burglary", Query: "Burglary", Evidence: "JohnCalls=true"}, &buf))
	assert.Contains(t, buf.String(), "class JohnCalls evidence;")
	assert.Contains(t, buf.String(), "class Burglary query;")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "md": FormatMarkdown, "markdown": FormatMarkdown, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	done := make(chan error, 1)
	var out bytes.Buffer
	go func() { done <- Serve(ctx, ln, handler, logging.NewNop(), &out) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(nil))
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.Error(t, HandleExecutionError(domain.ErrEmptyQuery))
}

func TestAskOptions_ToQuery(t *testing.T) {
	q, err := AskOptions{
		Network:   "sprinkler",
		Query:     "Rain, WetGrass",
		Evidence:  "Cloudy=true",
		Algorithm: "gibbs",
		Samples:   500,
	}.ToQuery()
	require.NoError(t, err)
	assert.Equal(t, domain.Query{
		Network:   "sprinkler",
		Query:     []string{"Rain", "WetGrass"},
		Evidence:  map[string]string{"Cloudy": "true"},
		Algorithm: "gibbs",
		Samples:   500,
	}, q)

	_, err = AskOptions{Network: "sprinkler", Query: "Rain", Evidence: "Cloudy"}.ToQuery()
	assert.ErrorContains(t, err, "--evidence")
}
