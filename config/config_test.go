package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promofeed/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[channel]
title = "AMD Gaming Promotions"
link = "https://www.amdgaming.com/promotions"
description = "Free game giveaways and promotions from AMD Gaming"

[source]
url = "https://www.amdgaming.com/promotions"

[output]
pages_dir = "site"
feed_file = "promotions.rss"

[images]
enabled = true
base_url = "https://example.github.io/rss-feeds"

[database]
path = "store.db"

[normalize]
volatile_patterns = ["updated [0-9]+ minutes ago"]
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "AMD Gaming Promotions", cfg.Channel.Title)
	assert.Equal(t, "https://www.amdgaming.com/promotions", cfg.Source.URL)
	assert.Equal(t, "site", cfg.Output.PagesDir)
	assert.Equal(t, "promotions.rss", cfg.Output.FeedFile)
	assert.True(t, cfg.Images.Enabled)
	assert.Equal(t, "store.db", cfg.Database.Path)
	assert.Equal(t, []string{"updated [0-9]+ minutes ago"}, cfg.Normalize.VolatilePatterns)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[channel]
title = "T"
link = "https://x"
description = "D"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pages", cfg.Output.PagesDir)
	assert.Equal(t, "amd_gaming_promotions.rss", cfg.Output.FeedFile)
	assert.Equal(t, "promofeed.db", cfg.Database.Path)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &config.TomlConfig{
		Channel: config.TomlChannel{Title: "T", Link: "https://x", Description: "D"},
		Source:  config.TomlSource{URL: "https://x"},
	}

	require.NoError(t, config.WriteConfig(path, cfg))

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "T", loaded.Channel.Title)
	assert.Equal(t, "https://x", loaded.Source.URL)
}
