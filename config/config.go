package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlChannel holds the RSS channel metadata
type TomlChannel struct {
	Title       string `toml:"title"`
	Link        string `toml:"link"`
	Description string `toml:"description"`
}

// TomlSource holds the promotions endpoint configuration
type TomlSource struct {
	URL       string `toml:"url"`
	UserAgent string `toml:"user_agent,omitempty"`
}

// TomlOutput holds the published artifact locations. Everything under
// PagesDir is what gets published, e.g. via GitHub Pages.
type TomlOutput struct {
	PagesDir string `toml:"pages_dir"`
	FeedFile string `toml:"feed_file"`
}

// TomlImages holds the thumbnail cache configuration
type TomlImages struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// TomlDatabase holds the snapshot store configuration
type TomlDatabase struct {
	Path string `toml:"path"`
}

// TomlNormalize lists extra volatile patterns stripped before comparing a
// fresh feed against the published one
type TomlNormalize struct {
	VolatilePatterns []string `toml:"volatile_patterns,omitempty"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Channel   TomlChannel   `toml:"channel"`
	Source    TomlSource    `toml:"source"`
	Output    TomlOutput    `toml:"output"`
	Images    TomlImages    `toml:"images"`
	Database  TomlDatabase  `toml:"database"`
	Normalize TomlNormalize `toml:"normalize"`
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *TomlConfig) {
	if config.Output.PagesDir == "" {
		config.Output.PagesDir = "pages"
	}
	if config.Output.FeedFile == "" {
		config.Output.FeedFile = "amd_gaming_promotions.rss"
	}
	if config.Database.Path == "" {
		config.Database.Path = "promofeed.db"
	}
}

// WriteConfig writes the configuration as TOML, used by the init command.
func WriteConfig(path string, config *TomlConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("error encoding config file: %w", err)
	}
	return nil
}
