package pipeline

// BlockKind identifies the type of a block node. The values double as the
// "type" tag of the serialized tree.
type BlockKind string

// Block node kinds.
const (
	KindParagraph  BlockKind = "paragraph"
	KindHeading    BlockKind = "heading"
	KindCode       BlockKind = "code"
	KindList       BlockKind = "list"
	KindListItem   BlockKind = "list_item"
	KindFieldList  BlockKind = "field_list"
	KindFieldItem  BlockKind = "field_item"
	KindAdmonition BlockKind = "admonition"
	KindBlockQuote BlockKind = "blockquote"
)

// InlineKind identifies the type of an inline node.
type InlineKind string

// Inline node kinds.
const (
	KindText     InlineKind = "text"
	KindEmphasis InlineKind = "emphasis"
	KindStrong   InlineKind = "strong"
	KindLiteral  InlineKind = "literal"
	KindRole     InlineKind = "role"
)

// Document is the root of a parsed tree. It is built once by Parse and is
// read-only afterwards.
type Document struct {
	Children []Block
}

// Block is a structural element occupying its own vertical extent.
// The set of implementations is closed.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// Inline is an element within a run of text. The set of implementations is closed.
type Inline interface {
	Kind() InlineKind
	isInline()
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Inline
}

// Heading is a section title with a level between 1 and 6.
type Heading struct {
	Level   int
	Content []Inline
}

// CodeBlock holds verbatim text. Its content is never inline-parsed.
type CodeBlock struct {
	Text string
}

// List is an ordered or bullet list.
type List struct {
	Ordered bool
	Items   []ListItem
}

// ListItem holds the blocks of one list entry.
type ListItem struct {
	Children []Block
}

// FieldList is a sequence of "name : type" fields with indented bodies.
type FieldList struct {
	Items []FieldItem
}

// FieldItem is a single field. TypeText is empty when the header carried no type.
type FieldItem struct {
	Name     string
	TypeText string
	Body     []Block
}

// Admonition is a titled callout introduced by a ".. name::" directive.
type Admonition struct {
	Name  string
	Title string
	Body  []Block
}

// BlockQuote wraps an indented region.
type BlockQuote struct {
	Children []Block
}

func (Paragraph) Kind() BlockKind  { return KindParagraph }
func (Heading) Kind() BlockKind    { return KindHeading }
func (CodeBlock) Kind() BlockKind  { return KindCode }
func (List) Kind() BlockKind       { return KindList }
func (ListItem) Kind() BlockKind   { return KindListItem }
func (FieldList) Kind() BlockKind  { return KindFieldList }
func (FieldItem) Kind() BlockKind  { return KindFieldItem }
func (Admonition) Kind() BlockKind { return KindAdmonition }
func (BlockQuote) Kind() BlockKind { return KindBlockQuote }

func (Paragraph) isBlock()  {}
func (Heading) isBlock()    {}
func (CodeBlock) isBlock()  {}
func (List) isBlock()       {}
func (ListItem) isBlock()   {}
func (FieldList) isBlock()  {}
func (FieldItem) isBlock()  {}
func (Admonition) isBlock() {}
func (BlockQuote) isBlock() {}

// Text is plain text.
type Text struct {
	Value string
}

// Emphasis wraps inline content rendered as <em>.
type Emphasis struct {
	Children []Inline
}

// Strong wraps inline content rendered as <strong>.
type Strong struct {
	Children []Inline
}

// Literal is an inline code span. Its value is never parsed further.
type Literal struct {
	Value string
}

// Role is an unresolved cross-reference such as :class:`Foo`.
// Resolution happens at render time.
type Role struct {
	Role  string
	Value string
}

func (Text) Kind() InlineKind     { return KindText }
func (Emphasis) Kind() InlineKind { return KindEmphasis }
func (Strong) Kind() InlineKind   { return KindStrong }
func (Literal) Kind() InlineKind  { return KindLiteral }
func (Role) Kind() InlineKind     { return KindRole }

func (Text) isInline()     {}
func (Emphasis) isInline() {}
func (Strong) isInline()   {}
func (Literal) isInline()  {}
func (Role) isInline()     {}

// PlainText flattens inline content to its visible text, dropping markup.
func PlainText(nodes []Inline) string {
	var b []byte
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b = append(b, n.Value...)
		case Literal:
			b = append(b, n.Value...)
		case Role:
			b = append(b, n.Value...)
		case Emphasis:
			b = append(b, PlainText(n.Children)...)
		case Strong:
			b = append(b, PlainText(n.Children)...)
		}
	}
	return string(b)
}
