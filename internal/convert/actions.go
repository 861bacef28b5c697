// Package convert implements the convert command: one input, one JSON file.
package convert

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/web-to-notion/internal/common"
	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/loader"
	"github.com/dtnitsch/web-to-notion/pkg/pipeline"
)

// Flags are shared by the root command and the convert subcommand.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Value:   string(models.ModeAuto),
			Usage:   "output shape: auto, blocks, document, full or article",
		},
		&cli.BoolFlag{
			Name:  "strict-image-urls",
			Usage: "fail on images without an absolute http(s) URL",
		},
		&cli.BoolFlag{
			Name:  "fail-on-empty",
			Usage: "fail when no readable content is found instead of writing an empty document",
		},
		&cli.BoolFlag{
			Name:  "render",
			Usage: "render URL inputs in headless Chrome before extraction",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "overall time limit, e.g. 30s (0 = none)",
		},
	}
}

// ArgsFromContext reads the positional arguments and flags once.
func ArgsFromContext(c *cli.Context) (models.ConvertArgs, error) {
	if c.NArg() != 2 {
		return models.ConvertArgs{}, fmt.Errorf("%w: expected <input> <outputPath>, got %d argument(s)", models.ErrUsage, c.NArg())
	}
	args := models.ConvertArgs{
		Input:           c.Args().Get(0),
		OutputPath:      c.Args().Get(1),
		Mode:            models.OutputMode(FlagContext(c, "mode").String("mode")),
		StrictImageURLs: FlagContext(c, "strict-image-urls").Bool("strict-image-urls"),
		FailOnEmpty:     FlagContext(c, "fail-on-empty").Bool("fail-on-empty"),
		Render:          FlagContext(c, "render").Bool("render"),
		Timeout:         FlagContext(c, "timeout").Duration("timeout"),
	}
	return args, args.Validate()
}

// FlagContext returns the nearest context where name was set explicitly, so
// `web-to-notion --mode blocks convert ...` honors the root-level flag. The
// flags are defined on both levels and the nearest definition would
// otherwise shadow it with its default.
func FlagContext(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return c
}

func ConvertAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))

	args, err := ArgsFromContext(c)
	if err != nil {
		logger.Error("Invalid arguments", "error", err)
		return cli.Exit(err.Error(), ExitCodeFor(err))
	}

	var getter loader.HTMLGetter = fetcher.NewFetcher()
	if args.Render {
		getter = fetcher.NewRodFetcher()
	}

	if err := pipeline.New(getter, logger).Run(c.Context, args); err != nil {
		logger.Error("Conversion failed", "stage", pipeline.Describe(err), "input", args.Input, "error", err)
		return cli.Exit(err.Error(), ExitCodeFor(err))
	}
	return nil
}
