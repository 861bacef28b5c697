package models

import "github.com/dtnitsch/web-to-notion/pkg/notion"

// OutputMode selects the JSON shape written by the convert command.
type OutputMode string

const (
	ModeAuto     OutputMode = "auto"
	ModeBlocks   OutputMode = "blocks"   // Block[]
	ModeDocument OutputMode = "document" // {blocks}
	ModeFull     OutputMode = "full"     // {article, markdown, blocks}
	ModeArticle  OutputMode = "article"  // Article
)

// ParseOutputMode validates a --mode flag value.
func ParseOutputMode(s string) (OutputMode, bool) {
	switch m := OutputMode(s); m {
	case ModeAuto, ModeBlocks, ModeDocument, ModeFull, ModeArticle:
		return m, true
	case "":
		return ModeAuto, true
	}
	return "", false
}

// Resolve picks the concrete mode for a document format when the mode is auto.
func (m OutputMode) Resolve(format DocumentFormat) OutputMode {
	if m != ModeAuto {
		return m
	}
	if format == FormatMarkdown {
		return ModeDocument
	}
	return ModeFull
}

// DocumentOutput is written for Markdown-only input.
type DocumentOutput struct {
	FrontMatter map[string]any `json:"frontMatter,omitempty"`
	Blocks      []notion.Block `json:"blocks"`
}

// FullOutput is written for the URL/HTML-to-blocks pipeline.
type FullOutput struct {
	Article  *Article       `json:"article"`
	Markdown string         `json:"markdown"`
	Blocks   []notion.Block `json:"blocks"`
}
