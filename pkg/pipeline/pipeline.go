// Package pipeline runs the conversion stages in order: load, extract,
// Markdown, front matter, blocks, and finally the JSON write.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/frontmatter"
	"github.com/dtnitsch/web-to-notion/pkg/loader"
	"github.com/dtnitsch/web-to-notion/pkg/markdown"
	"github.com/dtnitsch/web-to-notion/pkg/notion"
	"github.com/dtnitsch/web-to-notion/pkg/parser"
	"github.com/dtnitsch/web-to-notion/pkg/storage"
)

// Options controls a single document conversion.
type Options struct {
	StrictImageURLs bool
	FailOnEmpty     bool
}

// Result holds every intermediate product of one conversion.
type Result struct {
	Source      string
	Format      models.DocumentFormat
	Article     *models.Article
	Markdown    string
	FrontMatter frontmatter.FrontMatter
	Body        string
	Blocks      []notion.Block
}

// Output returns the record written for mode. ModeAuto is resolved against
// the document format first.
func (r *Result) Output(mode models.OutputMode) any {
	switch mode.Resolve(r.Format) {
	case models.ModeBlocks:
		return r.Blocks
	case models.ModeDocument:
		out := models.DocumentOutput{Blocks: r.Blocks}
		if len(r.FrontMatter) > 0 {
			out.FrontMatter = r.FrontMatter
		}
		return out
	case models.ModeArticle:
		return r.article()
	default:
		return models.FullOutput{
			Article:  r.article(),
			Markdown: r.Markdown,
			Blocks:   r.Blocks,
		}
	}
}

// article is never nil in output; Markdown input has no extraction step.
func (r *Result) article() *models.Article {
	if r.Article != nil {
		return r.Article
	}
	return &models.Article{}
}

type Pipeline struct {
	loader   *loader.Loader
	parser   *parser.Parser
	markdown *markdown.Converter
	storage  *storage.Storage
	logger   *slog.Logger
}

// New wires the stages. getter fetches URL inputs; nil selects the plain
// HTTP fetcher.
func New(getter loader.HTMLGetter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if getter == nil {
		getter = fetcher.NewFetcher()
	}
	return &Pipeline{
		loader:   loader.New(getter, logger),
		parser:   parser.New(logger),
		markdown: markdown.NewConverter(),
		storage:  &storage.Storage{},
		logger:   logger,
	}
}

// Process converts one input without writing anything.
func (p *Pipeline) Process(ctx context.Context, input string, opts Options) (*Result, error) {
	in := models.ClassifyInput(input)
	start := time.Now()

	doc, err := p.loader.Load(ctx, in)
	if err != nil {
		return nil, err
	}

	res := &Result{Source: doc.Source, Format: doc.Format}

	switch doc.Format {
	case models.FormatMarkdown:
		res.Markdown = doc.Text
	default:
		article, err := p.parser.Extract(doc)
		switch {
		case errors.Is(err, parser.ErrExtractionEmpty) && !opts.FailOnEmpty:
			p.logger.Warn("No readable content, continuing with an empty document", "source", doc.Source)
			article = &models.Article{}
		case err != nil:
			return nil, err
		}
		res.Article = article

		md, err := p.markdown.Convert(article.Content, doc.BaseURL)
		if err != nil {
			return nil, err
		}
		res.Markdown = md
	}

	fm, body, err := frontmatter.Split(res.Markdown)
	if err != nil {
		return nil, err
	}
	res.FrontMatter, res.Body = fm, body

	blocks, err := notion.NewConverter(notion.Options{StrictImageURLs: opts.StrictImageURLs}).Convert(body)
	if err != nil {
		return nil, err
	}
	res.Blocks = blocks

	p.logger.Info("Converted document",
		"source", doc.Source,
		"format", string(doc.Format),
		"blocks", len(blocks),
		"duration", time.Since(start).String(),
	)
	return res, nil
}

// Run validates args, converts the input and writes the record for the
// selected mode. Nothing is written unless every stage succeeds.
func (p *Pipeline) Run(ctx context.Context, args models.ConvertArgs) error {
	if err := args.Validate(); err != nil {
		return err
	}

	if args.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, args.Timeout)
		defer cancel()
	}

	res, err := p.Process(ctx, args.Input, Options{
		StrictImageURLs: args.StrictImageURLs,
		FailOnEmpty:     args.FailOnEmpty,
	})
	if err != nil {
		return err
	}

	mode, _ := models.ParseOutputMode(string(args.Mode))
	if err := p.storage.WriteJSON(args.OutputPath, res.Output(mode)); err != nil {
		return err
	}
	p.logger.Info("Wrote output", "path", args.OutputPath, "mode", string(mode.Resolve(res.Format)))
	return nil
}

// Describe is a short label for logging a failed stage.
func Describe(err error) string {
	switch {
	case errors.Is(err, models.ErrUsage):
		return "usage"
	case errors.Is(err, fetcher.ErrFetch):
		return "fetch"
	case errors.Is(err, loader.ErrFileRead):
		return "read"
	case errors.Is(err, parser.ErrExtractionEmpty):
		return "extract"
	case errors.Is(err, markdown.ErrConversion):
		return "markdown"
	case errors.Is(err, frontmatter.ErrParse):
		return "frontmatter"
	case errors.Is(err, notion.ErrConversion):
		return "blocks"
	case errors.Is(err, storage.ErrWrite):
		return "write"
	}
	return "unknown"
}
