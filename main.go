package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/web-to-notion/internal/convert"
	"github.com/dtnitsch/web-to-notion/internal/publish"
)

// Version is set at build time via ldflags.
var Version = "dev"

func newApp() *cli.App {
	return &cli.App{
		Name:      "web-to-notion",
		Usage:     "convert web articles and Markdown files into Notion blocks",
		Version:   Version,
		ArgsUsage: "<input> <outputPath>",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug output",
			},
		}, convert.Flags()...),
		Action: convert.ConvertAction,
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert a URL, HTML file or Markdown file into a JSON file",
				ArgsUsage: "<input> <outputPath>",
				Flags:     convert.Flags(),
				Action:    convert.ConvertAction,
			},
			{
				Name:      "publish",
				Usage:     "convert URLs and create them as pages in a Notion database",
				ArgsUsage: "<url> [url...]",
				Flags: []cli.Flag{
					publish.ConfigFlag,
					&cli.BoolFlag{
						Name:  "force",
						Usage: "publish again even if the URL was published before",
					},
					&cli.BoolFlag{
						Name:  "render",
						Usage: "render pages in headless Chrome before extraction",
					},
				},
				Action: publish.PublishAction,
			},
			{
				Name:  "history",
				Usage: "list published pages, newest first",
				Flags: []cli.Flag{
					publish.ConfigFlag,
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "number of publications to show (0 = all)",
					},
				},
				Action: publish.HistoryAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(convert.ExitGeneral)
	}
}
