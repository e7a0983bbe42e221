package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptional(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := LoadOptional(filepath.Join(t.TempDir(), "bench.yaml"))
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("file overrides set fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("widths: [2, 4]\nupdater: immediate\n"), 0644))

		cfg, err := LoadOptional(path)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4}, cfg.Widths)
		assert.Equal(t, defaultConfig().Heights, cfg.Heights)
		assert.Equal(t, 100, cfg.Iterations)
		assert.Equal(t, "immediate", cfg.Updater)
	})

	t.Run("bad updater", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("updater: eager\n"), 0644))

		_, err := LoadOptional(path)
		assert.ErrorContains(t, err, "updater must be queue or immediate")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.yaml")
		require.NoError(t, os.WriteFile(path, []byte("widths: [1,\n"), 0644))

		_, err := LoadOptional(path)
		assert.ErrorContains(t, err, "failed to parse")
	})
}

func TestTreesCompose(t *testing.T) {
	for name, build := range map[string]treeBuilder{"ticking": tickingGrid, "memo": memoGrid} {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{Widths: []int{3}, Heights: []int{2}, Iterations: 5, Updater: "queue"}
			require.NoError(t, benchmarkTrees(context.Background(), cfg, name, build, false))
		})
	}
}
