package notion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	// ErrConversion is returned when Markdown cannot be mapped to blocks.
	ErrConversion = errors.New("block conversion failed")
	// ErrInvalidImageURL is returned in strict mode for images whose URL is
	// not an absolute http(s) URL.
	ErrInvalidImageURL = fmt.Errorf("%w: invalid image URL", ErrConversion)
)

// Options tunes the conversion.
type Options struct {
	// StrictImageURLs fails the conversion on images without an absolute
	// http(s) URL. When false such images are kept as a paragraph holding the
	// URL as plain text.
	StrictImageURLs bool
}

// Converter parses Markdown with GitHub Flavored Markdown extensions and maps
// the syntax tree onto Notion blocks in document order.
type Converter struct {
	opts Options
	md   goldmark.Markdown
}

func NewConverter(opts Options) *Converter {
	return &Converter{
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM), // tables, strikethrough, task lists, autolinks
		),
	}
}

// Convert parses body and returns its blocks. Unsupported constructs map to
// the closest block type; raw HTML blocks are dropped.
func (c *Converter) Convert(body string) ([]Block, error) {
	source := []byte(body)
	doc := c.md.Parser().Parse(text.NewReader(source))

	w := &walker{source: source, opts: c.opts}
	blocks, err := w.blocks(doc)
	if err != nil {
		return nil, err
	}
	if blocks == nil {
		blocks = []Block{}
	}
	return blocks, nil
}

type walker struct {
	source []byte
	opts   Options
}

var defaultAnnotations = Annotations{Color: "default"}

func (w *walker) blocks(parent ast.Node) ([]Block, error) {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		bs, err := w.block(n)
		if err != nil {
			return nil, err
		}
		out = append(out, bs...)
	}
	return out, nil
}

func (w *walker) block(n ast.Node) ([]Block, error) {
	switch n := n.(type) {
	case *ast.Heading:
		rt, images := w.inline(n)
		out := []Block{}
		if len(rt) > 0 {
			out = append(out, Heading(n.Level, rt))
		}
		return w.appendImages(out, images)

	case *ast.Paragraph, *ast.TextBlock:
		return w.paragraph(n)

	case *ast.List:
		var out []Block
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			li, ok := item.(*ast.ListItem)
			if !ok {
				continue
			}
			b, err := w.listItem(li, n.IsOrdered())
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		return out, nil

	case *ast.FencedCodeBlock:
		return []Block{Code(w.lines(n), Language(string(n.Language(w.source))))}, nil

	case *ast.CodeBlock:
		return []Block{Code(w.lines(n), PlainTextLanguage)}, nil

	case *ast.Blockquote:
		children, err := w.blocks(n)
		if err != nil {
			return nil, err
		}
		rt := []RichText{}
		if len(children) > 0 && children[0].Paragraph != nil {
			rt = children[0].Paragraph.RichText
			children = children[1:]
		}
		return []Block{Quote(rt, children)}, nil

	case *ast.ThematicBreak:
		return []Block{Divider()}, nil

	case *ast.HTMLBlock:
		return nil, nil

	case *extast.Table:
		return []Block{w.table(n)}, nil
	}

	if n.Type() == ast.TypeBlock && n.HasChildren() {
		return w.blocks(n)
	}
	return nil, nil
}

// paragraph emits the text of a paragraph followed by its images, each as
// its own block.
func (w *walker) paragraph(n ast.Node) ([]Block, error) {
	rt, images := w.inline(n)
	out := []Block{}
	if len(rt) > 0 {
		out = append(out, Paragraph(rt))
	}
	return w.appendImages(out, images)
}

func (w *walker) appendImages(out []Block, images []string) ([]Block, error) {
	for _, src := range images {
		b, err := w.image(src)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (w *walker) image(src string) (Block, error) {
	if isValidImageURL(src) {
		return Image(src), nil
	}
	if w.opts.StrictImageURLs {
		return Block{}, fmt.Errorf("%w: %q", ErrInvalidImageURL, src)
	}
	return Paragraph(splitContent(src, defaultAnnotations, "")), nil
}

func (w *walker) listItem(li *ast.ListItem, ordered bool) (Block, error) {
	rt := []RichText{}
	var children []Block
	checked, isTask := false, false

	first := li.FirstChild()
	if first != nil && (first.Kind() == ast.KindParagraph || first.Kind() == ast.KindTextBlock) {
		if box, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
			isTask, checked = true, box.IsChecked
		}
		var images []string
		rt, images = w.inline(first)
		imgs, err := w.appendImages(nil, images)
		if err != nil {
			return Block{}, err
		}
		children = append(children, imgs...)
		first = first.NextSibling()
	}

	for n := first; n != nil; n = n.NextSibling() {
		bs, err := w.block(n)
		if err != nil {
			return Block{}, err
		}
		children = append(children, bs...)
	}

	switch {
	case isTask:
		return ToDo(rt, checked, children), nil
	case ordered:
		return NumberedListItem(rt, children), nil
	default:
		return BulletedListItem(rt, children), nil
	}
}

func (w *walker) table(t *extast.Table) Block {
	var rows [][][]RichText
	width, hasHeader := 0, false

	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*extast.TableHeader); ok {
			hasHeader = true
		}
		var cells [][]RichText
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			rt, images := w.inline(cell)
			for _, src := range images {
				link := ""
				if isLinkable(src) {
					link = src
				}
				rt = append(rt, splitContent(src, defaultAnnotations, link)...)
			}
			cells = append(cells, rt)
		}
		width = max(width, len(cells))
		rows = append(rows, cells)
	}
	return Table(width, hasHeader, rows)
}

func (w *walker) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(w.source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// inline collects the rich text of n's inline children and the destinations
// of any images among them.
func (w *walker) inline(n ast.Node) ([]RichText, []string) {
	b := &richTextBuilder{}
	var images []string
	w.inlines(n, defaultAnnotations, "", b, &images)
	return b.build(), images
}

func (w *walker) inlines(parent ast.Node, ann Annotations, link string, b *richTextBuilder, images *[]string) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			b.add(unescape(n.Segment.Value(w.source)), ann, link)
			switch {
			case n.HardLineBreak():
				b.add("\n", ann, link)
			case n.SoftLineBreak():
				b.add(" ", ann, link)
			}

		case *ast.String:
			b.add(unescape(n.Value), ann, link)

		case *ast.CodeSpan:
			code := ann
			code.Code = true
			b.add(w.rawText(n), code, link)

		case *ast.Emphasis:
			styled := ann
			if n.Level >= 2 {
				styled.Bold = true
			} else {
				styled.Italic = true
			}
			w.inlines(n, styled, link, b, images)

		case *extast.Strikethrough:
			styled := ann
			styled.Strikethrough = true
			w.inlines(n, styled, link, b, images)

		case *ast.Link:
			dest := unescape(n.Destination)
			if !isLinkable(dest) {
				dest = link
			}
			w.inlines(n, ann, dest, b, images)

		case *ast.AutoLink:
			dest := string(n.URL(w.source))
			if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(dest, "mailto:") {
				dest = "mailto:" + dest
			}
			if !isLinkable(dest) {
				dest = link
			}
			b.add(string(n.Label(w.source)), ann, dest)

		case *ast.Image:
			*images = append(*images, unescape(n.Destination))

		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				b.add(string(seg.Value(w.source)), ann, link)
			}

		case *extast.TaskCheckBox:
			// rendered as the to_do checked flag

		default:
			w.inlines(n, ann, link, b, images)
		}
	}
}

// unescape resolves backslash escapes and entities the way a renderer would.
// Segments hold raw source, and HTML converted to Markdown escapes freely.
func unescape(v []byte) string {
	return html.UnescapeString(string(util.UnescapePunctuations(v)))
}

// rawText returns the literal text below n without unescaping.
func (w *walker) rawText(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(w.source))
		case *ast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(w.rawText(c))
		}
	}
	return sb.String()
}
