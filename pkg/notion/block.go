// Package notion converts Markdown into Notion API block objects.
package notion

// BlockType is the "type" discriminator of a Notion block.
type BlockType string

const (
	TypeParagraph        BlockType = "paragraph"
	TypeHeading1         BlockType = "heading_1"
	TypeHeading2         BlockType = "heading_2"
	TypeHeading3         BlockType = "heading_3"
	TypeBulletedListItem BlockType = "bulleted_list_item"
	TypeNumberedListItem BlockType = "numbered_list_item"
	TypeToDo             BlockType = "to_do"
	TypeQuote            BlockType = "quote"
	TypeCode             BlockType = "code"
	TypeImage            BlockType = "image"
	TypeDivider          BlockType = "divider"
	TypeTable            BlockType = "table"
	TypeTableRow         BlockType = "table_row"
)

// Block is one Notion block. Exactly one of the payload fields is set,
// matching Type.
type Block struct {
	Object string    `json:"object"`
	Type   BlockType `json:"type"`

	Paragraph        *TextBlock     `json:"paragraph,omitempty"`
	Heading1         *TextBlock     `json:"heading_1,omitempty"`
	Heading2         *TextBlock     `json:"heading_2,omitempty"`
	Heading3         *TextBlock     `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock     `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock     `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock     `json:"to_do,omitempty"`
	Quote            *TextBlock     `json:"quote,omitempty"`
	Code             *CodeBlock     `json:"code,omitempty"`
	Image            *ImageBlock    `json:"image,omitempty"`
	Divider          *struct{}      `json:"divider,omitempty"`
	Table            *TableBlock    `json:"table,omitempty"`
	TableRow         *TableRowBlock `json:"table_row,omitempty"`
}

type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color,omitempty"`
	Children []Block    `json:"children,omitempty"`
}

type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Children []Block    `json:"children,omitempty"`
}

type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

type ImageBlock struct {
	Type     string       `json:"type"`
	External ExternalFile `json:"external"`
}

type ExternalFile struct {
	URL string `json:"url"`
}

type TableBlock struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Children        []Block `json:"children"`
}

type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

// Text returns the concatenated plain text of a block's rich text, or "" for
// blocks without any.
func (b Block) Text() string {
	var rt []RichText
	switch {
	case b.Paragraph != nil:
		rt = b.Paragraph.RichText
	case b.Heading1 != nil:
		rt = b.Heading1.RichText
	case b.Heading2 != nil:
		rt = b.Heading2.RichText
	case b.Heading3 != nil:
		rt = b.Heading3.RichText
	case b.BulletedListItem != nil:
		rt = b.BulletedListItem.RichText
	case b.NumberedListItem != nil:
		rt = b.NumberedListItem.RichText
	case b.ToDo != nil:
		rt = b.ToDo.RichText
	case b.Quote != nil:
		rt = b.Quote.RichText
	case b.Code != nil:
		rt = b.Code.RichText
	}
	return PlainText(rt)
}

func newBlock(t BlockType) Block {
	return Block{Object: "block", Type: t}
}

func Paragraph(rt []RichText) Block {
	b := newBlock(TypeParagraph)
	b.Paragraph = &TextBlock{RichText: rt}
	return b
}

// Heading maps Markdown levels onto Notion's three heading sizes; levels 4-6
// become heading_3.
func Heading(level int, rt []RichText) Block {
	switch {
	case level <= 1:
		b := newBlock(TypeHeading1)
		b.Heading1 = &TextBlock{RichText: rt}
		return b
	case level == 2:
		b := newBlock(TypeHeading2)
		b.Heading2 = &TextBlock{RichText: rt}
		return b
	default:
		b := newBlock(TypeHeading3)
		b.Heading3 = &TextBlock{RichText: rt}
		return b
	}
}

func BulletedListItem(rt []RichText, children []Block) Block {
	b := newBlock(TypeBulletedListItem)
	b.BulletedListItem = &TextBlock{RichText: rt, Children: children}
	return b
}

func NumberedListItem(rt []RichText, children []Block) Block {
	b := newBlock(TypeNumberedListItem)
	b.NumberedListItem = &TextBlock{RichText: rt, Children: children}
	return b
}

func ToDo(rt []RichText, checked bool, children []Block) Block {
	b := newBlock(TypeToDo)
	b.ToDo = &ToDoBlock{RichText: rt, Checked: checked, Children: children}
	return b
}

func Quote(rt []RichText, children []Block) Block {
	b := newBlock(TypeQuote)
	b.Quote = &TextBlock{RichText: rt, Children: children}
	return b
}

func Code(content, language string) Block {
	b := newBlock(TypeCode)
	b.Code = &CodeBlock{RichText: splitContent(content, Annotations{Color: "default"}, ""), Language: language}
	return b
}

func Image(url string) Block {
	b := newBlock(TypeImage)
	b.Image = &ImageBlock{Type: "external", External: ExternalFile{URL: url}}
	return b
}

func Divider() Block {
	b := newBlock(TypeDivider)
	b.Divider = &struct{}{}
	return b
}

func Table(width int, hasHeader bool, rows [][][]RichText) Block {
	children := make([]Block, 0, len(rows))
	for _, cells := range rows {
		for len(cells) < width {
			cells = append(cells, []RichText{})
		}
		row := newBlock(TypeTableRow)
		row.TableRow = &TableRowBlock{Cells: cells[:width]}
		children = append(children, row)
	}
	b := newBlock(TypeTable)
	b.Table = &TableBlock{TableWidth: width, HasColumnHeader: hasHeader, Children: children}
	return b
}
