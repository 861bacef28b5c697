package publish

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/web-to-notion/internal/common"
	"github.com/dtnitsch/web-to-notion/internal/convert"
	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/analytics"
	"github.com/dtnitsch/web-to-notion/pkg/caching"
	dbpkg "github.com/dtnitsch/web-to-notion/pkg/db"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/loader"
	"github.com/dtnitsch/web-to-notion/pkg/mapreduce"
	"github.com/dtnitsch/web-to-notion/pkg/pipeline"
	"github.com/dtnitsch/web-to-notion/pkg/publisher"
	"github.com/dtnitsch/web-to-notion/pkg/tagger"
)

// historyKeywords is how many stored keywords history shows per page.
const historyKeywords = 3

// ConfigFlag is shared by publish and history.
var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Value:   models.DefaultConfigFile,
	Usage:   "YAML config file (Notion credentials, history database, candidate labels)",
}

func loadConfig(c *cli.Context) (*models.PublishConfig, error) {
	cfg, err := models.LoadPublishConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUsage, err)
	}
	return cfg, nil
}

func PublishAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := loadConfig(c)
	if err == nil {
		err = cfg.RequireNotion()
	}
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return cli.Exit(err.Error(), convert.ExitCodeFor(err))
	}

	urls, invalid := common.SanitizeAndValidateURLs(c.Args().Slice())
	for _, u := range invalid {
		logger.Warn("Skipping invalid URL", "url", u)
	}
	if len(urls) == 0 {
		err := fmt.Errorf("%w: no valid URLs given", models.ErrUsage)
		return cli.Exit(err.Error(), convert.ExitUsage)
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open database: %v", err), convert.ExitIO)
	}
	defer database.Close()

	var getter loader.HTMLGetter = fetcher.NewFetcher()
	if convert.FlagContext(c, "render").Bool("render") {
		getter = fetcher.NewRodFetcher()
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return cli.Exit(err.Error(), convert.ExitIO)
		}
		getter = caching.NewGetter(cache, getter, logger)
	}

	runner := &Runner{
		Pipeline:  pipeline.New(getter, logger),
		Client:    publisher.New(cfg.NotionToken, publisher.WithLogger(logger)),
		DB:        database,
		Tagger:    tagger.New(logger),
		Analytics: &analytics.Analytics{},
		Config:    cfg,
		Logger:    logger,
		Force:     c.Bool("force"),
	}

	outcomes := runner.PublishAll(c.Context, urls)

	failed := 0
	w := c.App.Writer
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL  %s  %v\n", o.URL, o.Err)
		case o.Skipped:
			fmt.Fprintf(w, "SKIP  %s\n", o.URL)
		default:
			fmt.Fprintf(w, "OK    %s  %s  [%s]\n", o.URL, o.PageID, strings.Join(o.Tags, ", "))
		}
	}

	if failed > 0 || len(invalid) > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d URL(s) failed", failed+len(invalid), len(outcomes)+len(invalid)), convert.ExitGeneral)
	}
	return nil
}

func HistoryAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), convert.ExitUsage)
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open database: %v", err), convert.ExitIO)
	}
	defer database.Close()

	pubs, err := database.ListPublications(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list publications: %w", err)
	}

	w := c.App.Writer
	if len(pubs) == 0 {
		fmt.Fprintln(w, "No publications found")
		return nil
	}

	fmt.Fprintf(w, "%-20s %-36s %-6s %-30s %-30s %s\n", "Published", "Page", "Blocks", "Tags", "Keywords", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 150))
	for _, p := range pubs {
		keywords, err := database.GetTopKeywords(p.URLID)
		if err != nil {
			return fmt.Errorf("failed to read keywords for %s: %w", p.URL, err)
		}
		fmt.Fprintf(w, "%-20s %-36s %-6d %-30s %-30s %s\n",
			p.PublishedAt.Format("2006-01-02 15:04:05"),
			p.PageID,
			p.BlockCount,
			strings.Join(p.Tags, ", "),
			strings.Join(mapreduce.TopKeywords(keywords, historyKeywords), " "),
			p.URL,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d publications\n", len(pubs))
	return nil
}
