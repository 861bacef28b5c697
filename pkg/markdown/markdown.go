// Package markdown converts extracted article HTML into Markdown.
package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ErrConversion is returned when the HTML cannot be converted.
var ErrConversion = errors.New("markdown conversion failed")

// Converter turns HTML fragments into CommonMark with GFM tables and
// strikethrough.
type Converter struct {
	conv *converter.Converter
}

func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithCodeBlockFence("```"),
				commonmark.WithBulletListMarker("-"),
			),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert converts html to Markdown. baseURL, when set, makes relative links
// absolute.
func (c *Converter) Convert(html, baseURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	var opts []converter.ConvertOptionFunc
	if baseURL != "" {
		opts = append(opts, converter.WithDomain(baseURL))
	}

	md, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return strings.TrimSpace(md), nil
}
