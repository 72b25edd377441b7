package cmd

import (
	"fmt"
	"os"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"

	"promofeed/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a configuration file interactively",
		Description: `Asks for the channel metadata and source endpoint and writes a TOML
configuration file. Refuses to overwrite an existing file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to write the configuration file to",
				EnvVars: []string{"PROMOFEED_CONFIG"},
			},
		},
		Action: func(ctx *cli.Context) error {
			path := ctx.String("config")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file %s already exists", path)
			}

			title, err := prompt.New().Ask("Channel title:").Input("AMD Gaming Promotions")
			if err != nil {
				return err
			}

			link, err := prompt.New().Ask("Channel link:").Input("https://www.amdgaming.com/promotions")
			if err != nil {
				return err
			}

			description, err := prompt.New().Ask("Channel description:").Input("Free game giveaways and promotions from AMD Gaming")
			if err != nil {
				return err
			}

			sourceURL, err := prompt.New().Ask("Source URL:").Input("https://www.amdgaming.com/promotions")
			if err != nil {
				return err
			}

			imagesBase, err := prompt.New().Ask("Image base URL (GitHub Pages):").Input("https://example.github.io/rss-feeds")
			if err != nil {
				return err
			}

			cfg := &config.TomlConfig{
				Channel: config.TomlChannel{
					Title:       title,
					Link:        link,
					Description: description,
				},
				Source: config.TomlSource{
					URL: sourceURL,
				},
				Output: config.TomlOutput{
					PagesDir: "pages",
					FeedFile: "amd_gaming_promotions.rss",
				},
				Images: config.TomlImages{
					Enabled: imagesBase != "",
					BaseURL: imagesBase,
				},
				Database: config.TomlDatabase{
					Path: "promofeed.db",
				},
			}

			if err := config.WriteConfig(path, cfg); err != nil {
				return err
			}
			fmt.Println("Wrote config to: ", path)
			return nil
		},
	}
}
