package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-to-notion/models"
	"github.com/dtnitsch/web-to-notion/pkg/detector"
	"github.com/go-shiori/go-readability"
)

// ErrExtractionEmpty is returned when readability finds no main content.
var ErrExtractionEmpty = errors.New("no readable content found")

type Parser struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Extract runs readability over an HTML document and returns the article with
// its content HTML cleaned up for Markdown conversion.
func (p *Parser) Extract(doc *models.RawDocument) (*models.Article, error) {
	var pageURL *url.URL
	if doc.BaseURL != "" {
		parsed, err := url.Parse(doc.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", doc.BaseURL, err)
		}
		pageURL = parsed
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(doc.Text), pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionEmpty, err)
	}
	if strings.TrimSpace(article.Content) == "" || strings.TrimSpace(article.TextContent) == "" {
		return nil, ErrExtractionEmpty
	}

	content, err := cleanContent(article.Content, pageURL)
	if err != nil {
		return nil, err
	}

	result := &models.Article{
		Title:       normalizeText(article.Title),
		Byline:      normalizeText(article.Byline),
		Content:     content,
		TextContent: article.TextContent,
		Length:      article.Length,
		Excerpt:     normalizeText(article.Excerpt),
		SiteName:    article.SiteName,
		Lang:        documentLang(doc.Text),
		Image:       article.Image,
		Favicon:     article.Favicon,
	}
	if article.PublishedTime != nil {
		result.PublishedTime = article.PublishedTime.Format("2006-01-02")
	}

	result.Language = primarySubtag(result.Lang)
	if result.Language == "" {
		result.Language = detector.DetectLanguage(article.TextContent)
	}

	p.logger.Debug("Extracted article", "source", doc.Source, "title", result.Title, "length", result.Length, "language", result.Language)
	return result, nil
}

// cleanContent strips leftovers readability keeps and makes link and image
// targets absolute so they survive as Notion URLs.
func cleanContent(content string, base *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	doc.Find("script,style,noscript,template").Remove()

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.TrimSpace(src) == "" {
			for _, attr := range []string{"data-src", "data-original", "data-lazy-src"} {
				if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
					src = v
					break
				}
			}
		}
		if src == "" {
			s.Remove()
			return
		}
		s.SetAttr("src", resolve(base, src))
	})

	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Find("img").Length() == 0 {
			s.Remove()
			return
		}
		if href, ok := s.Attr("href"); ok {
			s.SetAttr("href", resolve(base, href))
		}
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render article content: %w", err)
	}
	return strings.TrimSpace(html), nil
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil || ref == "" || strings.HasPrefix(ref, "#") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func documentLang(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	lang, _ := doc.Find("html").First().Attr("lang")
	return strings.TrimSpace(lang)
}

// primarySubtag turns "en-US" into "en".
func primarySubtag(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
