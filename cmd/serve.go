package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"promofeed/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the pages directory for local preview",
		Description: `Starts an HTTP server over the pages directory so the published feed,
cached images and raw data can be inspected locally before pushing.

Also exposes /healthz and Prometheus metrics on /metrics.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "pages",
				Aliases: []string{"p"},
				Value:   "pages",
				Usage:   "Directory holding the published artifacts",
				EnvVars: []string{"PROMOFEED_PAGES"},
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"PROMOFEED_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			app := server.Server(&server.ServerConfig{
				PagesDir: ctx.String("pages"),
			})

			fmt.Printf("Serving %s on port %d\n", ctx.String("pages"), ctx.Int("port"))
			return app.Listen(fmt.Sprintf(":%d", ctx.Int("port")))
		},
	}
}
