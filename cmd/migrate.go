package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"promofeed/db"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run snapshot store migrations",
		Description: `Runs database migrations on the snapshot store. Will create the database if it does not exist.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "promofeed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PROMOFEED_DATABASE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			fmt.Println("Database configured: ", database)
			return db.Migrate(database)
		},
	}
}
