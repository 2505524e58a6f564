package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/config"
	"github.com/abhisek/palabra/internal/llm"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.LLM.Provider = llm.ProviderNone
	cfg.User = "ana"
	return cfg
}

func TestOpen_MemoryBackendWithoutLLM(t *testing.T) {
	a, err := Open(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &cache.Memory{}, a.Cache)
	assert.Nil(t, a.Provider)
	assert.NotNil(t, a.Reviews)
	assert.NotNil(t, a.Feed)
	assert.NotNil(t, a.Translator)
	assert.Equal(t, "ana", a.User())

	p, err := a.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ana", p.UserID)
	assert.Equal(t, "es", p.TargetLanguage)
}

func TestOpen_MockProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = llm.ProviderMock

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &llm.MockProvider{}, a.Provider)
}

func TestOpen_FileDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Path = t.TempDir() + "/nested/palabra.db"

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.FileExists(t, cfg.DB.Path)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = "127.0.0.1:1"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
