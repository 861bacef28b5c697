// Package loader turns the input argument into a RawDocument, either by
// fetching a URL or by reading a local file.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/fetcher"
)

// ErrFileRead is returned when a local input cannot be read.
var ErrFileRead = errors.New("file read failed")

// HTMLGetter is satisfied by fetcher.Fetcher and fetcher.RodFetcher.
type HTMLGetter interface {
	GetHTMLBytes(ctx context.Context, url string) ([]byte, error)
}

type Loader struct {
	getter HTMLGetter
	logger *slog.Logger
}

func New(getter HTMLGetter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{getter: getter, logger: logger}
}

// Load fetches or reads the input. URLs always produce HTML; files are
// Markdown or HTML depending on their extension.
func (l *Loader) Load(ctx context.Context, in models.RawInput) (*models.RawDocument, error) {
	switch in.Kind {
	case models.InputURL:
		return l.loadURL(ctx, in.Value)
	default:
		return l.loadFile(in.Value)
	}
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (*models.RawDocument, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: malformed URL %q", fetcher.ErrFetch, rawURL)
	}

	l.logger.Info("Fetching URL", "url", rawURL)
	body, err := l.getter.GetHTMLBytes(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Fetched URL", "url", rawURL, "bytes", len(body))

	return &models.RawDocument{
		Text:    l.toUTF8(body, rawURL),
		Format:  models.FormatHTML,
		Source:  rawURL,
		BaseURL: rawURL,
	}, nil
}

func (l *Loader) loadFile(path string) (*models.RawDocument, error) {
	l.logger.Info("Reading file", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}

	return &models.RawDocument{
		Text:   l.toUTF8(data, path),
		Format: models.FormatForPath(path),
		Source: path,
	}, nil
}

func (l *Loader) toUTF8(data []byte, source string) string {
	if utf8.Valid(data) {
		return string(data)
	}
	l.logger.Warn("Input is not valid UTF-8, replacing invalid bytes", "source", source)
	return strings.ToValidUTF8(string(data), "�")
}
