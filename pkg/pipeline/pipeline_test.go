package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
	"github.com/dtnitsch/web-to-notion/pkg/loader"
	"github.com/dtnitsch/web-to-notion/pkg/notion"
	"github.com/dtnitsch/web-to-notion/pkg/parser"
)

const paragraph = `Go is an open source programming language that makes it simple to build secure, scalable systems. ` +
	`It was designed at Google to improve programming productivity in an era of multicore, networked machines and large codebases. ` +
	`The designers wanted to address criticism of other languages in use at Google while keeping their useful characteristics.`

func articleHTML() string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><title>Why Go Works</title></head><body>`)
	b.WriteString(`<nav><a href="/">Home</a></nav><article><h1>Why Go Works</h1>`)
	for i := 0; i < 5; i++ {
		b.WriteString("<p>" + paragraph + "</p>")
	}
	b.WriteString(`<p><img src="/img/gopher.png" alt="gopher"></p>`)
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readJSON(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func decodeBlocks(t *testing.T, raw json.RawMessage) []notion.Block {
	t.Helper()
	var blocks []notion.Block
	require.NoError(t, json.Unmarshal(raw, &blocks))
	return blocks
}

func hasBlockType(blocks []notion.Block, bt notion.BlockType) bool {
	for _, b := range blocks {
		if b.Type == bt {
			return true
		}
	}
	return false
}

func TestRun_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML()))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "out.json")
	err := New(nil, nil).Run(context.Background(), models.ConvertArgs{
		Input:      srv.URL + "/posts/go",
		OutputPath: out,
		Mode:       models.ModeAuto,
	})
	require.NoError(t, err)

	got := readJSON(t, out)
	require.Contains(t, got, "article")
	require.Contains(t, got, "markdown")
	require.Contains(t, got, "blocks")

	var article models.Article
	require.NoError(t, json.Unmarshal(got["article"], &article))
	assert.Contains(t, article.Title, "Why Go Works")

	var md string
	require.NoError(t, json.Unmarshal(got["markdown"], &md))
	assert.Contains(t, md, "open source programming language")

	blocks := decodeBlocks(t, got["blocks"])
	require.NotEmpty(t, blocks)
	assert.True(t, hasBlockType(blocks, notion.TypeImage), "absolute image URL should become an image block")
}

func TestRun_LocalHTMLFile(t *testing.T) {
	in := writeFile(t, "page.html", articleHTML())
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, New(nil, nil).Run(context.Background(), models.ConvertArgs{
		Input:      in,
		OutputPath: out,
	}))

	got := readJSON(t, out)
	blocks := decodeBlocks(t, got["blocks"])
	require.NotEmpty(t, blocks)
	assert.False(t, hasBlockType(blocks, notion.TypeImage), "relative image without base stays text")
}

func TestRun_MarkdownWithFrontMatter(t *testing.T) {
	in := writeFile(t, "post.md", "---\ntitle: Hello\ntags: [go, notion]\n---\n# Heading\n\nBody text\n")
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, New(nil, nil).Run(context.Background(), models.ConvertArgs{
		Input:      in,
		OutputPath: out,
	}))

	got := readJSON(t, out)
	assert.NotContains(t, got, "article")

	var fm map[string]any
	require.NoError(t, json.Unmarshal(got["frontMatter"], &fm))
	assert.Equal(t, "Hello", fm["title"])
	assert.Equal(t, []any{"go", "notion"}, fm["tags"])

	blocks := decodeBlocks(t, got["blocks"])
	require.Len(t, blocks, 2)
	assert.Equal(t, notion.TypeHeading1, blocks[0].Type)
	assert.Equal(t, "Body text", blocks[1].Text())
}

func TestRun_MarkdownWithoutFrontMatter(t *testing.T) {
	in := writeFile(t, "post.md", "Just a paragraph.\n")
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, New(nil, nil).Run(context.Background(), models.ConvertArgs{
		Input:      in,
		OutputPath: out,
	}))

	got := readJSON(t, out)
	assert.NotContains(t, got, "frontMatter")
	assert.Len(t, decodeBlocks(t, got["blocks"]), 1)
}

func TestRun_BlocksMode(t *testing.T) {
	in := writeFile(t, "post.md", "- a\n- b\n")
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, New(nil, nil).Run(context.Background(), models.ConvertArgs{
		Input:      in,
		OutputPath: out,
		Mode:       models.ModeBlocks,
	}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var blocks []notion.Block
	require.NoError(t, json.Unmarshal(data, &blocks))
	assert.Len(t, blocks, 2)
}

func TestRun_Failures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	emptyPage := "<html><head><title>x</title></head><body></body></html>"

	tests := []struct {
		name    string
		args    func(t *testing.T) models.ConvertArgs
		wantErr error
	}{
		{
			name: "404",
			args: func(t *testing.T) models.ConvertArgs {
				return models.ConvertArgs{Input: srv.URL + "/missing"}
			},
			wantErr: fetcher.ErrFetch,
		},
		{
			name: "missing file",
			args: func(t *testing.T) models.ConvertArgs {
				return models.ConvertArgs{Input: filepath.Join(t.TempDir(), "nope.html")}
			},
			wantErr: loader.ErrFileRead,
		},
		{
			name: "strict image URLs",
			args: func(t *testing.T) models.ConvertArgs {
				return models.ConvertArgs{
					Input:           writeFile(t, "img.md", "![x](images/x.png)\n"),
					StrictImageURLs: true,
				}
			},
			wantErr: notion.ErrInvalidImageURL,
		},
		{
			name: "fail on empty",
			args: func(t *testing.T) models.ConvertArgs {
				return models.ConvertArgs{Input: writeFile(t, "empty.html", emptyPage), FailOnEmpty: true}
			},
			wantErr: parser.ErrExtractionEmpty,
		},
		{
			name: "unknown mode",
			args: func(t *testing.T) models.ConvertArgs {
				return models.ConvertArgs{Input: "in.md", Mode: "xml"}
			},
			wantErr: models.ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args(t)
			args.OutputPath = filepath.Join(t.TempDir(), "out.json")

			err := New(nil, nil).Run(context.Background(), args)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			_, statErr := os.Stat(args.OutputPath)
			assert.True(t, os.IsNotExist(statErr), "output must not be written on failure")
		})
	}
}

func TestRun_EmptyExtractionIsEmptyDocument(t *testing.T) {
	in := writeFile(t, "empty.html", "<html><head><title>x</title></head><body></body></html>")
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, New(nil, nil).Run(context.Background(), models.ConvertArgs{Input: in, OutputPath: out}))

	got := readJSON(t, out)
	assert.JSONEq(t, "[]", string(got["blocks"]))
	assert.JSONEq(t, `""`, string(got["markdown"]))
}

func TestRun_StrictOffKeepsRelativeImageAsText(t *testing.T) {
	in := writeFile(t, "img.md", "![x](images/x.png)\n")
	out := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, New(nil, nil).Run(context.Background(), models.ConvertArgs{Input: in, OutputPath: out}))

	blocks := decodeBlocks(t, readJSON(t, out)["blocks"])
	require.Len(t, blocks, 1)
	assert.Equal(t, notion.TypeParagraph, blocks[0].Type)
	assert.Equal(t, "images/x.png", blocks[0].Text())
}

func TestProcess_HTMLPunctuationIsNotEscaped(t *testing.T) {
	page := strings.Replace(articleHTML(), "</article>",
		"<p>Call my_function_name with [options] and #tags, then 1. st</p></article>", 1)
	in := writeFile(t, "page.html", page)

	res, err := New(nil, nil).Process(context.Background(), in, Options{})
	require.NoError(t, err)

	var found bool
	for _, b := range res.Blocks {
		text := b.Text()
		assert.NotContains(t, text, `\`)
		if strings.HasPrefix(text, "Call ") {
			found = true
			assert.Equal(t, "Call my_function_name with [options] and #tags, then 1. st", text)
		}
	}
	assert.True(t, found, "paragraph missing from %d blocks", len(res.Blocks))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "fetch", Describe(fetcher.ErrFetch))
	assert.Equal(t, "blocks", Describe(notion.ErrInvalidImageURL))
	assert.Equal(t, "unknown", Describe(assert.AnError))
}
