package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTree indicates a serialized tree does not describe a document.
var ErrInvalidTree = errors.New("invalid document tree")

// EncodeTree converts doc to generic maps and slices tagged with "type".
// The result marshals to the wire shape of the tree:
//
//	{"type":"document","children":[{"type":"heading","level":2,"content":[...]}]}
func EncodeTree(doc *Document) map[string]any {
	children := []Block{}
	if doc != nil && doc.Children != nil {
		children = doc.Children
	}
	return map[string]any{
		"type":     "document",
		"children": encodeBlocks(children),
	}
}

func encodeBlocks(blocks []Block) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlock(b Block) map[string]any {
	m := map[string]any{"type": string(b.Kind())}
	switch n := b.(type) {
	case Paragraph:
		m["content"] = encodeInlines(n.Content)
	case Heading:
		m["level"] = n.Level
		m["content"] = encodeInlines(n.Content)
	case CodeBlock:
		m["text"] = n.Text
	case List:
		items := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, encodeBlock(item))
		}
		m["ordered"] = n.Ordered
		m["items"] = items
	case ListItem:
		m["children"] = encodeBlocks(n.Children)
	case FieldList:
		items := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, encodeBlock(item))
		}
		m["items"] = items
	case FieldItem:
		m["name"] = n.Name
		if n.TypeText != "" {
			m["typeText"] = n.TypeText
		}
		m["body"] = encodeBlocks(n.Body)
	case Admonition:
		m["name"] = n.Name
		if n.Title != "" {
			m["title"] = n.Title
		}
		m["body"] = encodeBlocks(n.Body)
	case BlockQuote:
		m["children"] = encodeBlocks(n.Children)
	}
	return m
}

func encodeInlines(nodes []Inline) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		m := map[string]any{"type": string(n.Kind())}
		switch n := n.(type) {
		case Text:
			m["value"] = n.Value
		case Literal:
			m["value"] = n.Value
		case Emphasis:
			m["value"] = encodeInlines(n.Children)
		case Strong:
			m["value"] = encodeInlines(n.Children)
		case Role:
			m["role"] = n.Role
			m["value"] = n.Value
		}
		out = append(out, m)
	}
	return out
}

// DecodeTree rebuilds a document from the generic form produced by
// EncodeTree after a JSON or YAML round trip. Unknown node types and
// missing required fields are reported with the path of the offending node.
func DecodeTree(v any) (*Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: $: expected object, got %T", ErrInvalidTree, v)
	}
	if t, _ := m["type"].(string); t != "document" {
		return nil, fmt.Errorf("%w: $.type: expected \"document\", got %q", ErrInvalidTree, t)
	}
	children, err := decodeBlocks(m["children"], "$.children")
	if err != nil {
		return nil, err
	}
	return &Document{Children: children}, nil
}

// treeError reports a decoding problem at path.
func treeError(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidTree, path, fmt.Sprintf(format, args...))
}

func decodeList(v any, path string) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, treeError(path, "expected array, got %T", v)
	}
	return list, nil
}

func decodeBlocks(v any, path string) ([]Block, error) {
	list, err := decodeList(v, path)
	if err != nil {
		return nil, err
	}
	var out []Block
	for i, item := range list {
		b, err := decodeBlock(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeBlock(v any, path string) (Block, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, treeError(path, "expected object, got %T", v)
	}

	kind, _ := m["type"].(string)
	switch BlockKind(kind) {
	case KindParagraph:
		content, err := decodeInlines(m["content"], path+".content")
		return Paragraph{Content: content}, err

	case KindHeading:
		level, ok := toInt(m["level"])
		if !ok || level < 1 || level > 6 {
			return nil, treeError(path+".level", "expected integer between 1 and 6, got %v", m["level"])
		}
		content, err := decodeInlines(m["content"], path+".content")
		return Heading{Level: level, Content: content}, err

	case KindCode:
		text, err := requireString(m, "text", path)
		return CodeBlock{Text: text}, err

	case KindList:
		ordered, _ := m["ordered"].(bool)
		items, err := decodeList(m["items"], path+".items")
		if err != nil {
			return nil, err
		}
		list := List{Ordered: ordered}
		for i, item := range items {
			b, err := decodeBlock(item, fmt.Sprintf("%s.items[%d]", path, i))
			if err != nil {
				return nil, err
			}
			li, ok := b.(ListItem)
			if !ok {
				return nil, treeError(fmt.Sprintf("%s.items[%d]", path, i), "expected list_item, got %s", b.Kind())
			}
			list.Items = append(list.Items, li)
		}
		return list, nil

	case KindListItem:
		children, err := decodeBlocks(m["children"], path+".children")
		return ListItem{Children: children}, err

	case KindFieldList:
		items, err := decodeList(m["items"], path+".items")
		if err != nil {
			return nil, err
		}
		var fields FieldList
		for i, item := range items {
			b, err := decodeBlock(item, fmt.Sprintf("%s.items[%d]", path, i))
			if err != nil {
				return nil, err
			}
			fi, ok := b.(FieldItem)
			if !ok {
				return nil, treeError(fmt.Sprintf("%s.items[%d]", path, i), "expected field_item, got %s", b.Kind())
			}
			fields.Items = append(fields.Items, fi)
		}
		return fields, nil

	case KindFieldItem:
		name, err := requireString(m, "name", path)
		if err != nil {
			return nil, err
		}
		typeText, _ := m["typeText"].(string)
		body, err := decodeBlocks(m["body"], path+".body")
		return FieldItem{Name: name, TypeText: typeText, Body: body}, err

	case KindAdmonition:
		name, err := requireString(m, "name", path)
		if err != nil {
			return nil, err
		}
		title, _ := m["title"].(string)
		body, err := decodeBlocks(m["body"], path+".body")
		return Admonition{Name: name, Title: title, Body: body}, err

	case KindBlockQuote:
		children, err := decodeBlocks(m["children"], path+".children")
		return BlockQuote{Children: children}, err
	}

	return nil, treeError(path+".type", "unknown block type %q", kind)
}

func decodeInlines(v any, path string) ([]Inline, error) {
	list, err := decodeList(v, path)
	if err != nil {
		return nil, err
	}
	var out []Inline
	for i, item := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			return nil, treeError(p, "expected object, got %T", item)
		}

		kind, _ := m["type"].(string)
		switch InlineKind(kind) {
		case KindText:
			s, err := requireString(m, "value", p)
			if err != nil {
				return nil, err
			}
			out = append(out, Text{Value: s})
		case KindLiteral:
			s, err := requireString(m, "value", p)
			if err != nil {
				return nil, err
			}
			out = append(out, Literal{Value: s})
		case KindEmphasis:
			children, err := decodeInlines(m["value"], p+".value")
			if err != nil {
				return nil, err
			}
			out = append(out, Emphasis{Children: children})
		case KindStrong:
			children, err := decodeInlines(m["value"], p+".value")
			if err != nil {
				return nil, err
			}
			out = append(out, Strong{Children: children})
		case KindRole:
			role, err := requireString(m, "role", p)
			if err != nil {
				return nil, err
			}
			value, err := requireString(m, "value", p)
			if err != nil {
				return nil, err
			}
			out = append(out, Role{Role: role, Value: value})
		default:
			return nil, treeError(p+".type", "unknown inline type %q", kind)
		}
	}
	return out, nil
}

func requireString(m map[string]any, key, path string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", treeError(path+"."+key, "expected string, got %T", m[key])
	}
	return s, nil
}

// toInt accepts the integer representations produced by the JSON and YAML
// decoders.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// MarshalJSON encodes the document in its wire shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(EncodeTree(d))
}

// UnmarshalJSON decodes a document from its wire shape.
func (d *Document) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}
	doc, err := DecodeTree(v)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}
