// Package publish implements the publish and history commands: articles are
// converted, tagged and created as pages in a Notion database, and every
// attempt is kept in the local history database.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/web-to-notion/internal/common"
	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/analytics"
	"github.com/dtnitsch/web-to-notion/pkg/db"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/mapreduce"
	"github.com/dtnitsch/web-to-notion/pkg/pipeline"
	"github.com/dtnitsch/web-to-notion/pkg/publisher"
	"github.com/dtnitsch/web-to-notion/pkg/tagger"
)

const topKeywordCount = 10

// Outcome is the result of publishing one URL.
type Outcome struct {
	URL      string
	PageID   string
	Tags     []string
	Keywords map[string]int
	Skipped  bool
	Err      error
}

// Runner publishes URLs one after the other.
type Runner struct {
	Pipeline  *pipeline.Pipeline
	Client    *publisher.Client
	DB        *db.DB
	Tagger    *tagger.Tagger
	Analytics *analytics.Analytics
	Config    *models.PublishConfig
	Logger    *slog.Logger
	Force     bool
}

// PublishAll publishes urls in order and returns one outcome per URL. A
// failed URL does not stop the rest.
func (r *Runner) PublishAll(ctx context.Context, urls []string) []Outcome {
	outcomes := make([]Outcome, 0, len(urls))
	var counts []map[string]int

	for _, u := range urls {
		if ctx.Err() != nil {
			outcomes = append(outcomes, Outcome{URL: u, Err: ctx.Err()})
			continue
		}
		o := r.Publish(ctx, u)
		if o.Err != nil {
			r.Logger.Error("Failed to publish", "url", u, "error", o.Err)
		}
		if o.Keywords != nil {
			counts = append(counts, o.Keywords)
		}
		outcomes = append(outcomes, o)
	}

	if len(counts) > 1 {
		r.Logger.Info("Top keywords across batch", "keywords", mapreduce.TopKeywords(mapreduce.Reduce(counts), topKeywordCount))
	}
	return outcomes
}

// Publish converts, tags and publishes a single URL and records the attempt.
func (r *Runner) Publish(ctx context.Context, rawURL string) Outcome {
	out := Outcome{URL: rawURL}

	if !r.Force {
		published, err := r.DB.HasPublished(rawURL)
		if err != nil {
			out.Err = err
			return out
		}
		if published {
			r.Logger.Info("Already published, skipping", "url", rawURL)
			out.Skipped = true
			return out
		}
	}

	urlID, err := r.DB.InsertURL(rawURL)
	if err != nil {
		out.Err = err
		return out
	}

	res, err := r.Pipeline.Process(ctx, rawURL, pipeline.Options{
		StrictImageURLs: r.Config.StrictImageURLs,
		FailOnEmpty:     true,
	})
	if err != nil {
		r.recordAccess(urlID, statusCode(err), pipeline.Describe(err), false)
		out.Err = err
		return out
	}
	r.recordAccess(urlID, 200, "", true)

	text := r.Analytics.CleanseText(res.Markdown)
	out.Tags = r.Tagger.Label(text, r.Config.CandidateLabels, r.Config.TagThreshold)
	out.Keywords = mapreduce.TopCounts(mapreduce.Map(text, r.Analytics), topKeywordCount)
	if err := r.DB.SetTopKeywords(urlID, out.Keywords); err != nil {
		r.Logger.Warn("Failed to store keywords", "url", rawURL, "error", err)
	}

	title := pageTitle(res, rawURL)
	pageID, err := r.Client.CreatePage(ctx, r.Config.DatabaseID, publisher.Page{
		Title:  title,
		URL:    rawURL,
		Tags:   out.Tags,
		Blocks: res.Blocks,
	})
	out.PageID = pageID
	if err != nil {
		out.Err = err
		return out
	}

	if _, err := r.DB.RecordPublication(db.Publication{
		URL:         rawURL,
		PageID:      pageID,
		Title:       title,
		ContentHash: common.ContentHash([]byte(res.Markdown)),
		Tags:        out.Tags,
		BlockCount:  len(res.Blocks),
	}); err != nil {
		out.Err = fmt.Errorf("page %s created but not recorded: %w", pageID, err)
		return out
	}

	r.Logger.Info("Published", "url", rawURL, "page_id", pageID, "tags", out.Tags, "blocks", len(res.Blocks))
	return out
}

func (r *Runner) recordAccess(urlID int64, status int, errorType string, success bool) {
	if err := r.DB.RecordAccess(urlID, status, errorType, success); err != nil {
		r.Logger.Warn("Failed to record access", "url_id", urlID, "error", err)
	}
}

// pageTitle prefers the article title, then a front matter title, then the URL.
func pageTitle(res *pipeline.Result, rawURL string) string {
	if res.Article != nil && strings.TrimSpace(res.Article.Title) != "" {
		return strings.TrimSpace(res.Article.Title)
	}
	if t, ok := res.FrontMatter["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return rawURL
}

func statusCode(err error) int {
	var se *fetcher.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
