package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"promofeed/amd"
	"promofeed/config"
	"promofeed/db"
	"promofeed/feed"
	"promofeed/images"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Fetch promotions and regenerate the RSS feed",
		Description: `Fetches the current promotions, synthesizes the RSS feed and writes
it to the pages directory.

The freshly generated feed is compared against the previously published one
with volatile content stripped (lastBuildDate, fluctuating key counts). If
nothing substantive changed the file is left untouched, so lastBuildDate
always marks the last real change.

Also stores a key-availability snapshot per promotion and caches promotion
thumbnails locally so the feed can reference them.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to configuration file",
				EnvVars: []string{"PROMOFEED_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "skip-images",
				Usage:   "Skip downloading promotion thumbnails",
				EnvVars: []string{"PROMOFEED_SKIP_IMAGES"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return err
			}

			generator, err := feed.NewGenerator(cfg.Channel.Title, cfg.Channel.Link, cfg.Channel.Description)
			if err != nil {
				return fmt.Errorf("invalid channel configuration: %w", err)
			}

			normalizer, err := feed.NewNormalizer(cfg.Normalize.VolatilePatterns)
			if err != nil {
				return fmt.Errorf("invalid normalize configuration: %w", err)
			}

			client := amd.NewClient(amd.ClientConfig{
				URL:       cfg.Source.URL,
				UserAgent: cfg.Source.UserAgent,
			})

			response, err := client.FetchPromotions(ctx.Context)
			if err != nil {
				return err
			}

			dataDir := filepath.Join(cfg.Output.PagesDir, "data")
			if _, err := amd.SaveResponse(response, dataDir); err != nil {
				return err
			}

			recordSnapshots(ctx, cfg, response)

			if cfg.Images.Enabled && !ctx.Bool("skip-images") {
				downloadImages(cfg, response)
			}

			xmlText, err := generator.Generate(feed.Entries(response.Items), amd.BuildDescription, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("generating feed: %w", err)
			}

			if err := os.MkdirAll(cfg.Output.PagesDir, 0755); err != nil {
				return fmt.Errorf("creating pages dir: %w", err)
			}

			feedPath := filepath.Join(cfg.Output.PagesDir, cfg.Output.FeedFile)
			logPriorBuildDate(feedPath)

			published, err := normalizer.WriteIfChanged(feedPath, xmlText)
			if err != nil {
				return err
			}

			if published {
				fmt.Printf("Feed published: %s\n", feedPath)
			} else {
				fmt.Println("Feed unchanged, nothing published")
			}
			return nil
		},
	}
}

// recordSnapshots stores one availability snapshot per promotion. The feed is
// the primary artifact, so store failures are logged rather than aborting the
// run.
func recordSnapshots(ctx *cli.Context, cfg *config.TomlConfig, response *amd.PromotionsResponse) {
	if err := db.Migrate(cfg.Database.Path); err != nil {
		log.Warn("Could not migrate snapshot store: ", err)
		return
	}

	store, err := db.NewDB(cfg.Database.Path)
	if err != nil {
		log.Warn("Could not open snapshot store: ", err)
		return
	}
	defer store.Close()

	if err := store.RecordPromotions(ctx.Context, time.Now().UTC(), response.Items); err != nil {
		log.Warn("Could not record snapshots: ", err)
	}
}

// downloadImages caches each promotion thumbnail and rewrites the entry to
// point at the published copy. A failed download just leaves the entry
// without an image.
func downloadImages(cfg *config.TomlConfig, response *amd.PromotionsResponse) {
	downloader := images.NewDownloader(filepath.Join(cfg.Output.PagesDir, "images"), cfg.Source.UserAgent)

	for _, promo := range response.Items {
		localPath, err := downloader.Download(promo.ThumbnailImageURL, promo.ID)
		if err != nil {
			log.WithFields(log.Fields{
				"promotion": promo.ID,
			}).Warn("Could not download thumbnail: ", err)
			continue
		}
		promo.ImageURL = images.PagesURL(localPath, cfg.Output.PagesDir, cfg.Images.BaseURL)
	}
}

func logPriorBuildDate(feedPath string) {
	prior, err := os.ReadFile(feedPath)
	if err != nil {
		return
	}
	if t, ok := feed.ExtractLastBuildDate(string(prior)); ok {
		log.WithFields(log.Fields{
			"last_build_date": t.Format(time.RFC3339),
		}).Info("Prior feed found")
	}
}
