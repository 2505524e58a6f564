package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every command at a fresh database and keeps the host
// config and API keys out of the run.
func isolate(t *testing.T) string {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "PALABRA_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	for _, name := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PALABRA_LLM_PROVIDER", "none")
	t.Setenv("PALABRA_LOG_LEVEL", "error")
	return filepath.Join(t.TempDir(), "palabra.db")
}

// resetFlags restores defaults since the command tree is shared between
// test runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db, "--user", "ana"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := execute(t, db, args...)
	require.NoError(t, err, out)
	return out
}

const catalog = `[
  {"id": "v1", "title": "Mi perro", "language": "es", "cefr_level": "A1", "topic": "pets",
   "text": "mi perro come pan", "dopamine_score": 0.8, "published_at": "2026-05-01T10:00:00Z"},
  {"id": "v2", "title": "La playa", "language": "es", "cefr_level": "A2", "topic": "travel",
   "words": [{"word": "la", "frequency": 3}, {"word": "playa", "frequency": 1}], "dopamine_score": 0.6}
]`

func writeCatalog(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(p, []byte(catalog), 0o600))
	return p
}

func TestVersion(t *testing.T) {
	db := isolate(t)
	out := mustExecute(t, db, "version")
	assert.Equal(t, "palabra (devel)\n", out)

	out = mustExecute(t, db, "version", "--verbose")
	assert.Contains(t, out, "go      go")
}

func TestProfileSetAndShow(t *testing.T) {
	db := isolate(t)

	out := mustExecute(t, db, "profile", "show")
	assert.Contains(t, out, "User:        ana")
	assert.Contains(t, out, "Level:       A1")

	out = mustExecute(t, db, "profile", "set", "--level", "b1", "--engagement", "0.9")
	assert.Contains(t, out, "Level:       B1")
	assert.Contains(t, out, "Engagement:  0.90")

	out = mustExecute(t, db, "profile", "show")
	assert.Contains(t, out, "Level:       B1")

	_, err := execute(t, db, "profile", "set", "--level", "Z9")
	assert.Error(t, err)
}

func TestContentImportAndList(t *testing.T) {
	db := isolate(t)
	file := writeCatalog(t)

	out := mustExecute(t, db, "content", "import", file)
	assert.Contains(t, out, "Imported 2 item(s), skipped 0 existing")

	out = mustExecute(t, db, "content", "import", file)
	assert.Contains(t, out, "Imported 0 item(s), skipped 2 existing")

	out = mustExecute(t, db, "content", "list")
	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "La playa")
}

func TestContentImport_MissingFile(t *testing.T) {
	db := isolate(t)
	_, err := execute(t, db, "content", "import", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSaveGradeStats(t *testing.T) {
	db := isolate(t)

	out := mustExecute(t, db, "save", "Perro")
	assert.Contains(t, out, `Saved "perro"`)
	out = mustExecute(t, db, "save", "perro")
	assert.Contains(t, out, "already in your deck")

	out = mustExecute(t, db, "grade", "perro", "--correct", "--ms", "1200")
	assert.Contains(t, out, "perro: quality 5, next review in 1 day(s)")
	assert.Contains(t, out, "+14 XP, streak 1")

	out = mustExecute(t, db, "stats", "--json")
	var ov struct {
		Stats struct {
			XP     int `json:"xp"`
			Streak int `json:"streak"`
		} `json:"stats"`
		Cards map[string]int `json:"cards"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ov))
	assert.Equal(t, 14, ov.Stats.XP)
	assert.Equal(t, 1, ov.Stats.Streak)
	assert.Equal(t, 1, ov.Cards["LEARNING"])
}

func TestGrade_FlagValidation(t *testing.T) {
	db := isolate(t)

	_, err := execute(t, db, "grade", "perro", "--ms", "1000")
	assert.Error(t, err, "one of --correct or --wrong is required")

	_, err = execute(t, db, "grade", "perro", "--correct", "--wrong", "--ms", "1000")
	assert.Error(t, err)

	_, err = execute(t, db, "grade", "perro", "--wrong")
	assert.Error(t, err, "--ms is required")
}

func TestFeedAndSeen(t *testing.T) {
	db := isolate(t)
	mustExecute(t, db, "content", "import", writeCatalog(t))

	out := mustExecute(t, db, "feed", "--json")
	var page struct {
		Items []struct {
			Content struct {
				ID string `json:"id"`
			} `json:"content"`
		} `json:"items"`
		Total    int  `json:"total"`
		Fallback bool `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	// Nothing is known yet, so the beginner pool (A0/A1 only) is served.
	assert.True(t, page.Fallback)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "v1", page.Items[0].Content.ID)

	out = mustExecute(t, db, "seen", "v1")
	assert.Contains(t, out, `Marked "Mi perro" (pets) as seen`)

	_, err := execute(t, db, "seen", "missing")
	assert.Error(t, err)

	_, err = execute(t, db, "feed", "--limit", "0")
	assert.Error(t, err)
}

func TestFeed_Empty(t *testing.T) {
	db := isolate(t)
	out := mustExecute(t, db, "feed")
	assert.Contains(t, out, "No content yet")
}

func TestTranslate_NoProvider(t *testing.T) {
	db := isolate(t)
	_, err := execute(t, db, "translate", "perro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider is configured")
}

func TestLLMList_Empty(t *testing.T) {
	db := isolate(t)
	out := mustExecute(t, db, "llm", "list")
	assert.Contains(t, out, "No LLM events found.")
}

func TestReview_NothingDue(t *testing.T) {
	db := isolate(t)
	out := mustExecute(t, db, "review")
	assert.Contains(t, out, "Nothing due.")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "b", "a", "b"}))
}
