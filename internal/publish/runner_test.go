package publish

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/analytics"
	"github.com/dtnitsch/web-to-notion/pkg/db"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/pipeline"
	"github.com/dtnitsch/web-to-notion/pkg/publisher"
	"github.com/dtnitsch/web-to-notion/pkg/tagger"
)

const paragraph = `Go is an open source programming language that makes it simple to build secure, scalable systems. ` +
	`It was designed at Google to improve programming productivity in an era of multicore, networked machines and large codebases. ` +
	`The designers wanted to address criticism of other languages in use at Google while keeping their useful characteristics.`

func articleHTML() string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><title>Why Go Works</title></head><body><article><h1>Why Go Works</h1>`)
	for i := 0; i < 5; i++ {
		b.WriteString("<p>" + paragraph + "</p>")
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

type fixture struct {
	runner      *Runner
	db          *db.DB
	site        *httptest.Server
	notionCalls *atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/post" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(articleHTML()))
	}))
	t.Cleanup(site.Close)

	calls := &atomic.Int32{}
	notionAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"object":"page","id":"page-1"}`))
	}))
	t.Cleanup(notionAPI.Close)

	database, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		runner: &Runner{
			Pipeline:  pipeline.New(nil, logger),
			Client:    publisher.New("secret", publisher.WithBaseURL(notionAPI.URL), publisher.WithLogger(logger)),
			DB:        database,
			Tagger:    tagger.New(logger),
			Analytics: &analytics.Analytics{},
			Config: &models.PublishConfig{
				DatabaseID:      "0f4a4a5c-8e2b-4d8f-9a1b-2c3d4e5f6a7b",
				CandidateLabels: []string{"google", "docker", "kubernetes"},
				TagThreshold:    models.DefaultTagThreshold,
			},
			Logger: logger,
		},
		db:          database,
		site:        site,
		notionCalls: calls,
	}
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	u := f.site.URL + "/post"

	o := f.runner.Publish(context.Background(), u)
	require.NoError(t, o.Err)
	assert.False(t, o.Skipped)
	assert.Equal(t, "page-1", o.PageID)
	assert.Equal(t, []string{"google"}, o.Tags)
	assert.Contains(t, o.Keywords, "google")
	assert.Equal(t, int32(1), f.notionCalls.Load())

	pubs, err := f.db.ListPublications(0)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, u, pubs[0].URL)
	assert.Contains(t, pubs[0].Title, "Why Go Works")
	assert.Equal(t, []string{"google"}, pubs[0].Tags)
	assert.NotEmpty(t, pubs[0].ContentHash)
	assert.Positive(t, pubs[0].BlockCount)

	urlID, err := f.db.GetURLID(u)
	require.NoError(t, err)
	last, err := f.db.GetLastAccess(urlID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Success)
}

func TestPublish_SkipsUnlessForced(t *testing.T) {
	f := newFixture(t)
	u := f.site.URL + "/post"

	require.NoError(t, f.runner.Publish(context.Background(), u).Err)

	o := f.runner.Publish(context.Background(), u)
	require.NoError(t, o.Err)
	assert.True(t, o.Skipped)
	assert.Equal(t, int32(1), f.notionCalls.Load())

	f.runner.Force = true
	o = f.runner.Publish(context.Background(), u)
	require.NoError(t, o.Err)
	assert.False(t, o.Skipped)
	assert.Equal(t, int32(2), f.notionCalls.Load())

	pubs, err := f.db.ListPublications(0)
	require.NoError(t, err)
	assert.Len(t, pubs, 2)
}

func TestPublish_FetchFailureIsRecorded(t *testing.T) {
	f := newFixture(t)
	u := f.site.URL + "/missing"

	o := f.runner.Publish(context.Background(), u)
	require.Error(t, o.Err)
	assert.ErrorIs(t, o.Err, fetcher.ErrFetch)
	assert.Zero(t, f.notionCalls.Load())

	urlID, err := f.db.GetURLID(u)
	require.NoError(t, err)
	last, err := f.db.GetLastAccess(urlID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.False(t, last.Success)
	assert.Equal(t, http.StatusNotFound, last.StatusCode)
	assert.Equal(t, "fetch", last.ErrorType)

	published, err := f.db.HasPublished(u)
	require.NoError(t, err)
	assert.False(t, published)
}

func TestPublishAll_ContinuesAfterFailure(t *testing.T) {
	f := newFixture(t)

	outcomes := f.runner.PublishAll(context.Background(), []string{
		f.site.URL + "/missing",
		f.site.URL + "/post",
	})
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Article", pageTitle(&pipeline.Result{Article: &models.Article{Title: " Article "}}, "u"))
	assert.Equal(t, "From FM", pageTitle(&pipeline.Result{FrontMatter: map[string]any{"title": "From FM"}}, "u"))
	assert.Equal(t, "https://x.io", pageTitle(&pipeline.Result{}, "https://x.io"))
}
