// Package config loads palabra settings from defaults, an optional YAML
// file and PALABRA_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/llm"
	"github.com/abhisek/palabra/internal/logging"
	"github.com/abhisek/palabra/internal/srs"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "PALABRA_CONFIG"

const envPrefix = "PALABRA_"

type Config struct {
	// User is the learner all commands act on.
	User string `koanf:"user"`

	DB     DBConfig     `koanf:"db"`
	Log    LogConfig    `koanf:"log"`
	Cache  CacheConfig  `koanf:"cache"`
	Feed   FeedConfig   `koanf:"feed"`
	SRS    SRSConfig    `koanf:"srs"`
	Review ReviewConfig `koanf:"review"`
	LLM    llm.Config   `koanf:"llm"`
}

type DBConfig struct {
	// Path is the SQLite file. Empty means the XDG data directory.
	Path string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type CacheConfig struct {
	// Backend is memory or redis.
	Backend        string            `koanf:"backend"`
	Redis          cache.RedisConfig `koanf:"redis"`
	FeedTTL        time.Duration     `koanf:"feed_ttl"`
	TranslationTTL time.Duration     `koanf:"translation_ttl"`
}

type FeedConfig struct {
	Weights     feed.Weights `koanf:"weights"`
	Tolerance   float64      `koanf:"tolerance"`
	MinScore    float64      `koanf:"min_score"`
	MaxNewWords int          `koanf:"max_new_words"`

	// CandidateLimit caps how many items are loaded per ranking pass.
	CandidateLimit int `koanf:"candidate_limit"`

	// HistorySize is how many consumed items feed the variety signal.
	HistorySize int `koanf:"history_size"`
}

type SRSConfig struct {
	FastThreshold time.Duration `koanf:"fast_threshold"`
	SlowThreshold time.Duration `koanf:"slow_threshold"`
}

type ReviewConfig struct {
	// MaxRetries bounds reload-and-retry on concurrent card updates.
	MaxRetries int `koanf:"max_retries"`
}

// Default returns the built-in settings.
func Default() *Config {
	thresholds := srs.DefaultThresholds()
	lc := llm.DefaultConfig()
	// Empty means "discover from the usual API key variables".
	lc.Provider = ""

	return &Config{
		User: "local",
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Cache: CacheConfig{
			Backend:        "memory",
			Redis:          cache.RedisConfig{Addr: "localhost:6379", Prefix: "palabra:"},
			FeedTTL:        time.Hour,
			TranslationTTL: 24 * time.Hour,
		},
		Feed: FeedConfig{
			Weights:        feed.DefaultWeights(),
			Tolerance:      feed.DefaultTolerance,
			MinScore:       feed.DefaultMinScore,
			MaxNewWords:    feed.DefaultMaxNewWords,
			CandidateLimit: 500,
			HistorySize:    20,
		},
		SRS: SRSConfig{
			FastThreshold: thresholds.Fast,
			SlowThreshold: thresholds.Slow,
		},
		Review: ReviewConfig{MaxRetries: 3},
		LLM:    lc,
	}
}

// Load layers defaults, the YAML file at path and the environment. An
// empty path falls back to PALABRA_CONFIG, then DefaultPath if that file
// exists. A path that was asked for explicitly must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.Provider == "" && !cfg.LLM.Discover() {
		cfg.LLM.Provider = llm.ProviderNone
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/palabra/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "palabra", "config.yaml"), nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}

	def, err := DefaultPath()
	if err != nil {
		return "", nil
	}
	if _, err := os.Stat(def); err == nil {
		return def, nil
	}
	return "", nil
}

// envAliases are the short variable names. Anything else uses a double
// underscore as the section separator: PALABRA_FEED__MIN_SCORE sets
// feed.min_score.
var envAliases = map[string]string{
	"user":         "user",
	"db":           "db.path",
	"log_level":    "log.level",
	"log_format":   "log.format",
	"cache":        "cache.backend",
	"redis_addr":   "cache.redis.addr",
	"redis_pass":   "cache.redis.password",
	"llm_provider": "llm.provider",
}

// envKey maps a PALABRA_* variable to a config key. Returning "" skips it.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if alias, ok := envAliases[key]; ok {
		return alias
	}
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(c.User) == "" {
		add("user must not be empty")
	}
	if !logging.ValidLevel(c.Log.Level) {
		add("log.level %q is not a known level", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		add("log.format must be json or console, got %q", c.Log.Format)
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			add("cache.redis.addr is required for the redis backend")
		}
	default:
		add("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.FeedTTL < 0 || c.Cache.TranslationTTL < 0 {
		add("cache TTLs must not be negative")
	}

	if err := c.Feed.Weights.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Feed.Tolerance < 0 {
		add("feed.tolerance must not be negative")
	}
	if c.Feed.MinScore < 0 || c.Feed.MinScore >= 1 {
		add("feed.min_score must be in [0, 1), got %v", c.Feed.MinScore)
	}
	if c.Feed.MaxNewWords < 0 {
		add("feed.max_new_words must not be negative")
	}
	if c.Feed.CandidateLimit <= 0 {
		add("feed.candidate_limit must be positive")
	}
	if c.Feed.HistorySize < 0 {
		add("feed.history_size must not be negative")
	}

	if c.SRS.FastThreshold <= 0 || c.SRS.SlowThreshold <= c.SRS.FastThreshold {
		add("srs thresholds must satisfy 0 < fast < slow, got %s and %s", c.SRS.FastThreshold, c.SRS.SlowThreshold)
	}
	if c.Review.MaxRetries < 1 {
		add("review.max_retries must be at least 1")
	}

	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Ranker builds a feed ranker from the feed section.
func (c *Config) Ranker() *feed.Ranker {
	r := feed.NewRanker()
	r.Weights = c.Feed.Weights
	r.Tolerance = c.Feed.Tolerance
	r.MinScore = c.Feed.MinScore
	r.MaxNewWords = c.Feed.MaxNewWords
	return r
}

// Thresholds returns the latency bands for quality inference.
func (c *Config) Thresholds() srs.Thresholds {
	return srs.Thresholds{Fast: c.SRS.FastThreshold, Slow: c.SRS.SlowThreshold}
}

// Logging converts the log section for logging.Init.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Caller: c.Log.Caller,
		Output: os.Stderr,
	}
}
