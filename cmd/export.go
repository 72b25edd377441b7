package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"promofeed/db"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the availability series as CSV",
		Description: `Writes the full key-availability time series from the snapshot store
to a CSV file with one row per promotion per observation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "promofeed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PROMOFEED_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "pages/data/amd_gaming_keys_available.csv",
				Usage:   "CSV output file location",
				EnvVars: []string{"PROMOFEED_CSV"},
			},
		},
		Action: func(ctx *cli.Context) error {
			store, err := db.NewDB(ctx.String("database"))
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ExportCSV(ctx.Context, ctx.String("output")); err != nil {
				return err
			}
			fmt.Println("Exported to: ", ctx.String("output"))
			return nil
		},
	}
}
