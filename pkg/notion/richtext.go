package notion

import (
	"net/url"
	"strings"
)

// Limits enforced by the Notion API.
const (
	MaxTextLength    = 2000
	MaxRichTextItems = 100
)

type RichText struct {
	Type        string      `json:"type"`
	Text        Text        `json:"text"`
	Annotations Annotations `json:"annotations"`
}

type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// PlainText concatenates the content of rich text items.
func PlainText(rt []RichText) string {
	var sb strings.Builder
	for _, r := range rt {
		sb.WriteString(r.Text.Content)
	}
	return sb.String()
}

// splitContent builds rich text runs for content, cutting it into pieces of at
// most MaxTextLength characters.
func splitContent(content string, ann Annotations, link string) []RichText {
	out := []RichText{}
	runes := []rune(content)
	for start := 0; start < len(runes); start += MaxTextLength {
		end := min(start+MaxTextLength, len(runes))
		rt := RichText{
			Type:        "text",
			Text:        Text{Content: string(runes[start:end])},
			Annotations: ann,
		}
		if link != "" {
			rt.Text.Link = &Link{URL: link}
		}
		out = append(out, rt)
	}
	return out
}

// isLinkable reports whether Notion accepts u as a link target.
func isLinkable(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	switch parsed.Scheme {
	case "http", "https":
		return parsed.Host != ""
	case "mailto":
		return parsed.Opaque != ""
	}
	return false
}

// isValidImageURL reports whether u is an absolute, well-formed http(s) URL.
func isValidImageURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// richTextBuilder accumulates styled text, merging neighbours that share the
// same style.
type richTextBuilder struct {
	runs []run
}

type run struct {
	text string
	ann  Annotations
	link string
}

func (b *richTextBuilder) add(text string, ann Annotations, link string) {
	if text == "" {
		return
	}
	if n := len(b.runs); n > 0 && b.runs[n-1].ann == ann && b.runs[n-1].link == link {
		b.runs[n-1].text += text
		return
	}
	b.runs = append(b.runs, run{text: text, ann: ann, link: link})
}

// build trims surrounding whitespace of the whole text and applies the
// Notion length limits.
func (b *richTextBuilder) build() []RichText {
	runs := b.runs
	for len(runs) > 0 {
		runs[0].text = strings.TrimLeft(runs[0].text, " \t\n")
		if runs[0].text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 {
		last := len(runs) - 1
		runs[last].text = strings.TrimRight(runs[last].text, " \t\n")
		if runs[last].text != "" {
			break
		}
		runs = runs[:last]
	}

	out := []RichText{}
	for _, r := range runs {
		out = append(out, splitContent(r.text, r.ann, r.link)...)
	}
	if len(out) > MaxRichTextItems {
		out = out[:MaxRichTextItems]
	}
	return out
}
