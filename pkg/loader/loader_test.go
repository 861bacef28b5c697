package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
)

type recordingGetter struct {
	calls []string
	body  []byte
	err   error
}

func (r *recordingGetter) GetHTMLBytes(_ context.Context, url string) ([]byte, error) {
	r.calls = append(r.calls, url)
	return r.body, r.err
}

func TestLoad_RoutesByPrefix(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "httpcache.html")
	require.NoError(t, os.WriteFile(filePath, []byte("<p>local</p>"), 0o644))

	getter := &recordingGetter{body: []byte("<p>remote</p>")}
	l := New(getter, nil)

	doc, err := l.Load(context.Background(), models.ClassifyInput(filePath))
	require.NoError(t, err)
	assert.Empty(t, getter.calls, "a path containing http mid-string must not hit the network")
	assert.Equal(t, "<p>local</p>", doc.Text)
	assert.Equal(t, models.FormatHTML, doc.Format)
	assert.Empty(t, doc.BaseURL)

	doc, err = l.Load(context.Background(), models.ClassifyInput("https://example.com/post"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/post"}, getter.calls)
	assert.Equal(t, "<p>remote</p>", doc.Text)
	assert.Equal(t, "https://example.com/post", doc.BaseURL)
}

func TestLoad_MarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0o644))

	doc, err := New(&recordingGetter{}, nil).Load(context.Background(), models.ClassifyInput(path))
	require.NoError(t, err)
	assert.Equal(t, models.FormatMarkdown, doc.Format)
	assert.Equal(t, "# Title\n", doc.Text)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New(&recordingGetter{}, nil).Load(context.Background(), models.ClassifyInput(filepath.Join(t.TempDir(), "nope.html")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidUTF8IsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.html")
	require.NoError(t, os.WriteFile(path, []byte{'<', 'p', '>', 0xff, '<', '/', 'p', '>'}, 0o644))

	doc, err := New(&recordingGetter{}, nil).Load(context.Background(), models.ClassifyInput(path))
	require.NoError(t, err)
	assert.Equal(t, "<p>�</p>", doc.Text)
}

func TestLoad_HTTPNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	l := New(fetcher.NewFetcherWithClient(ts.Client()), nil)
	_, err := l.Load(context.Background(), models.ClassifyInput(ts.URL+"/missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fetcher.ErrFetch)
}

func TestLoad_MalformedURL(t *testing.T) {
	getter := &recordingGetter{}
	_, err := New(getter, nil).Load(context.Background(), models.ClassifyInput("httpfoo/bar"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fetcher.ErrFetch)
	assert.Empty(t, getter.calls)
}
