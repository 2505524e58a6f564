package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/llm"
)

// isolate clears every variable Load reads so the host environment
// cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	for _, name := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.User)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.FeedTTL)
	assert.Equal(t, feed.DefaultWeights(), cfg.Feed.Weights)
	assert.Equal(t, 3*time.Second, cfg.SRS.FastThreshold)
	assert.Equal(t, 3, cfg.Review.MaxRetries)
	assert.Equal(t, llm.ProviderNone, cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeFile(t, `
user: maria
log:
  level: debug
  format: json
cache:
  feed_ttl: 10m
feed:
  min_score: 0.25
  weights:
    interest: 0.5
srs:
  slow_threshold: 12s
llm:
  provider: mock
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "maria", cfg.User)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Minute, cfg.Cache.FeedTTL)
	assert.Equal(t, 0.25, cfg.Feed.MinScore)
	assert.Equal(t, 0.5, cfg.Feed.Weights.Interest)
	assert.Equal(t, 0.40, cfg.Feed.Weights.Difficulty, "unset siblings keep defaults")
	assert.Equal(t, 12*time.Second, cfg.SRS.SlowThreshold)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "user: maria\ncache:\n  backend: memory\n")
	t.Setenv(PathEnvVar, path)
	t.Setenv("PALABRA_USER", "jon")
	t.Setenv("PALABRA_LOG_LEVEL", "error")
	t.Setenv("PALABRA_FEED__MAX_NEW_WORDS", "5")
	t.Setenv("PALABRA_LLM__RETRY__MAX_ATTEMPTS", "1")
	t.Setenv("PALABRA_UNRELATED", "ignored")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "jon", cfg.User)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Feed.MaxNewWords)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_DiscoversProviderFromAPIKey(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	isolate(t)
	path := writeFile(t, "cache:\n  backend: memcached\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "cache.backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty user", func(c *Config) { c.User = " " }, "user"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.Redis.Addr = "" }, "cache.redis.addr"},
		{"negative ttl", func(c *Config) { c.Cache.FeedTTL = -time.Second }, "TTL"},
		{"negative weight", func(c *Config) { c.Feed.Weights.SRS = -1 }, "weights"},
		{"min score one", func(c *Config) { c.Feed.MinScore = 1 }, "min_score"},
		{"zero candidates", func(c *Config) { c.Feed.CandidateLimit = 0 }, "candidate_limit"},
		{"inverted thresholds", func(c *Config) { c.SRS.SlowThreshold = time.Second }, "srs"},
		{"no retries", func(c *Config) { c.Review.MaxRetries = 0 }, "max_retries"},
		{"llm without key", func(c *Config) { c.LLM.Provider = llm.ProviderGemini }, "api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestRankerAndThresholds(t *testing.T) {
	cfg := Default()
	cfg.Feed.MinScore = 0.1
	cfg.Feed.MaxNewWords = 3
	cfg.SRS.FastThreshold = 2 * time.Second

	r := cfg.Ranker()
	assert.Equal(t, 0.1, r.MinScore)
	assert.Equal(t, 3, r.MaxNewWords)
	assert.NotNil(t, r.Variety)
	assert.Equal(t, 2*time.Second, cfg.Thresholds().Fast)
	assert.Equal(t, "warn", cfg.Logging().Level)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.path", envKey("PALABRA_DB"))
	assert.Equal(t, "cache.redis.addr", envKey("PALABRA_REDIS_ADDR"))
	assert.Equal(t, "llm.anthropic.api_key", envKey("PALABRA_LLM__ANTHROPIC__API_KEY"))
	assert.Equal(t, "", envKey("PALABRA_CONFIG"))
}
