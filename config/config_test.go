package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DriverBadger, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Index.TitleWeight)
	assert.Equal(t, 10, cfg.Search.MaxHits)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Setenv("COURSESEARCH_DB", "/var/lib/catalog")

	data := []byte(`
storage:
  driver: sqlite
  path: ${COURSESEARCH_DB}/catalog.sqlite
index:
  title_weight: 5
  pool_size: 2
  skip_invalid: true
  vocabulary_file: ${VOCAB_FILE:-./vocab.bin}
search:
  max_hits: 25
logging:
  level: debug
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/catalog/catalog.sqlite", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Index.TitleWeight)
	assert.Equal(t, "./vocab.bin", cfg.Index.VocabularyFile)
	assert.Equal(t, 25, cfg.Search.MaxHits)
	assert.Equal(t, 100, cfg.Index.BatchSize)

	ic := cfg.IndexerConfig()
	assert.Equal(t, 5, ic.TitleWeight)
	assert.Equal(t, 2, ic.PoolSize)
	assert.True(t, ic.SkipInvalid)
	assert.Equal(t, "./vocab.bin", ic.ArtifactPath)
	assert.Equal(t, 100*time.Millisecond, ic.RetryDelay)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown driver", "storage:\n  driver: postgres\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"negative pool", "index:\n  pool_size: -1\n"},
		{"not yaml", "storage: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "coursesearch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":9090\"\n"), 0o644))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.HTTP.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
