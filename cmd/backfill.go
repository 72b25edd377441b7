package cmd

import (
	"github.com/urfave/cli/v2"

	"promofeed/backfill"
	"promofeed/db"
)

func backfillCmd() *cli.Command {
	return &cli.Command{
		Name:  "backfill",
		Usage: "Backfill availability history from git",
		Description: `Walks the git history of the raw response file and records one
availability snapshot set per commit, using the commit author timestamp.

Useful when the pages directory has been committed on every run for a while
before the snapshot store existed. Re-running is safe: rows that already
exist are skipped.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "promofeed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PROMOFEED_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Value:   ".",
				Usage:   "Path to the git repository holding the pages directory",
				EnvVars: []string{"PROMOFEED_REPO"},
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   "pages/data/amd_response.json",
				Usage:   "Repo-relative path of the raw response file",
				EnvVars: []string{"PROMOFEED_RESPONSE_FILE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			if err := db.Migrate(ctx.String("database")); err != nil {
				return err
			}

			store, err := db.NewDB(ctx.String("database"))
			if err != nil {
				return err
			}
			defer store.Close()

			return backfill.Run(ctx.Context, store, ctx.String("repo"), ctx.String("file"))
		},
	}
}
