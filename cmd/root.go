package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "promofeed",
		Usage: "Republish AMD Gaming promotions as an RSS feed",
		Description: `Promofeed fetches the game giveaways listed on amdgaming.com and
		republishes them as a standards-compliant RSS 2.0 feed.

		The feed file is only rewritten when something substantive changed
		between runs, so a cron job committing the pages directory to git
		produces no churn on quiet days. Key availability is recorded to an
		SQLite store on every run and can be exported as a CSV time series.

		Flags can generally be set via environment variables, e.g.:

		--config => PROMOFEED_CONFIG=config.toml
		--database => PROMOFEED_DATABASE=promofeed.db
		`,
		Commands: []*cli.Command{
			generateCmd(),
			migrateCmd(),
			backfillCmd(),
			exportCmd(),
			serveCmd(),
			initCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
