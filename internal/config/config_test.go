package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "gemini", cfg.GetLLM().Provider)
	assert.Equal(t, "sqlite", cfg.GetStore().Type)
	assert.True(t, cfg.GetStore().Seed)
	assert.Equal(t, 20, cfg.GetClassifier().BatchSize)

	labeling := cfg.GetLabeling()
	assert.Equal(t, 100, labeling.DomainWindow)
	assert.Equal(t, 20, labeling.BatchSize)
	assert.Equal(t, []string{"Personal"}, labeling.SkipCategories)
	assert.Empty(t, labeling.IgnoredDomains)

	drafter, err := cfg.GetDrafter()
	require.NoError(t, err)
	assert.Equal(t, "@gmail.com", drafter.SenderFilter)
	assert.Equal(t, 24*time.Hour, drafter.MaxAge)
	assert.Equal(t, 200, drafter.PreviewLength)

	breaker, err := cfg.GetBreaker()
	require.NoError(t, err)
	assert.True(t, breaker.Enabled)
	assert.Equal(t, 5, breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, breaker.Timeout)

	assert.InDelta(t, 0.2, cfg.GetGemini().Temperature, 1e-6)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
store:
  type: memory
labeling:
  skip_categories: [Personal, Newsletter]
  ignored_domains: [mycompany.example]
drafter:
  max_age: 12h
`), 0600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "memory", cfg.GetStore().Type)
	assert.Equal(t, []string{"Personal", "Newsletter"}, cfg.GetLabeling().SkipCategories)
	assert.Equal(t, []string{"mycompany.example"}, cfg.GetLabeling().IgnoredDomains)

	drafter, err := cfg.GetDrafter()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, drafter.MaxAge)
	assert.Equal(t, "@gmail.com", drafter.SenderFilter)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("INBOX_LABELER_STORE_TYPE", "postgres")
	t.Setenv("GOOGLE_API_KEY", "key-from-sdk-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  type: sqlite\n"), 0600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.GetStore().Type)
	assert.Equal(t, "key-from-sdk-env", cfg.GetGemini().APIKey)
}

func TestInvalidDurations(t *testing.T) {
	v := NewEmptyViper()
	v.Set("drafter.max_age", "a day")
	v.Set("breaker.timeout", "soon")
	cfg := NewFromViper(v)

	_, err := cfg.GetDrafter()
	assert.Error(t, err)
	_, err = cfg.GetBreaker()
	assert.Error(t, err)
}
