package vdom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Node is the transport encoding of an Element:
//
//	{"tagName": string, "attributes": {..., "style": {...}}, "children": [...] | null}
//
// Text leaves appear inside children as plain JSON strings. Attribute
// and style insertion order is preserved on the wire so documents are
// reproducible byte-for-byte; consumers must not rely on the order for
// correctness.
type Node struct {
	Kind     Kind
	TagName  string
	Attrs    []Attr
	Style    Style
	Children []*Node // nil is distinct from empty, mirroring Element
	Text     string
}

// Serialize converts an Element tree to its transport Node form.
// It is total over well-formed Elements and never mutates its input.
func Serialize(e *Element) *Node {
	if e == nil {
		return nil
	}
	if e.Kind == KindText {
		return &Node{Kind: KindText, Text: e.Text}
	}
	n := &Node{
		Kind:    KindElement,
		TagName: e.Tag,
	}
	if len(e.Attrs) > 0 {
		n.Attrs = make([]Attr, len(e.Attrs))
		copy(n.Attrs, e.Attrs)
	}
	if len(e.Style) > 0 {
		n.Style = make(Style, len(e.Style))
		copy(n.Style, e.Style)
	}
	if e.Children != nil {
		n.Children = make([]*Node, 0, len(e.Children))
		for _, child := range e.Children {
			if child != nil {
				n.Children = append(n.Children, Serialize(child))
			}
		}
	}
	return n
}

// Element converts a Node back to an Element tree.
func (n *Node) Element() *Element {
	if n == nil {
		return nil
	}
	if n.Kind == KindText {
		return Text(n.Text)
	}
	e := &Element{
		Kind: KindElement,
		Tag:  n.TagName,
	}
	if len(n.Attrs) > 0 {
		e.Attrs = make([]Attr, len(n.Attrs))
		copy(e.Attrs, n.Attrs)
	}
	if len(n.Style) > 0 {
		e.Style = make(Style, len(n.Style))
		copy(e.Style, n.Style)
	}
	if n.Children != nil {
		e.Children = make([]*Element, 0, len(n.Children))
		for _, child := range n.Children {
			if child != nil {
				e.Children = append(e.Children, child.Element())
			}
		}
	}
	return e
}

// MarshalJSON encodes the node. A hand-rolled encoder is used instead of
// a map so attribute insertion order survives the round trip.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encodeJSON(buf *bytes.Buffer) error {
	if n.Kind == KindText {
		return writeJSONValue(buf, n.Text)
	}

	buf.WriteString(`{"tagName":`)
	if err := writeJSONValue(buf, n.TagName); err != nil {
		return err
	}

	buf.WriteString(`,"attributes":{`)
	first := true
	for _, a := range n.Attrs {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeJSONValue(buf, a.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(buf, a.Value); err != nil {
			return err
		}
	}
	if len(n.Style) > 0 {
		if !first {
			buf.WriteByte(',')
		}
		buf.WriteString(`"style":{`)
		for i, p := range n.Style {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, p.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSONValue(buf, p.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	buf.WriteString(`,"children":`)
	if n.Children == nil {
		buf.WriteString("null")
	} else {
		buf.WriteByte('[')
		for i, child := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := child.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}

// writeJSONValue encodes a scalar via encoding/json.
func writeJSONValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ParseNode decodes a transport document produced by MarshalJSON.
// Attribute and style order follows the order of keys in the input.
func ParseNode(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := parseNodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("vdom: trailing data after document")
	}
	return n, nil
}

// parseNodeValue parses one child entry: a string (text leaf) or an
// element object.
func parseNodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case string:
		return &Node{Kind: KindText, Text: t}, nil
	case json.Delim:
		if t != '{' {
			return nil, fmt.Errorf("vdom: unexpected token %v in document", t)
		}
		return parseElementObject(dec)
	default:
		return nil, fmt.Errorf("vdom: unexpected token %v in document", tok)
	}
}

// parseElementObject parses the body of an element object; the opening
// brace has already been consumed.
func parseElementObject(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: KindElement}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("vdom: non-string object key %v", keyTok)
		}
		switch key {
		case "tagName":
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			tag, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("vdom: tagName must be a string")
			}
			n.TagName = tag
		case "attributes":
			if err := parseAttributes(dec, n); err != nil {
				return nil, err
			}
		case "children":
			if err := parseChildren(dec, n); err != nil {
				return nil, err
			}
		default:
			// Unknown key ("key", etc.) - skip its value
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
	}
	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func parseAttributes(dec *json.Decoder, n *Node) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("vdom: attributes must be an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("vdom: non-string attribute key %v", keyTok)
		}
		if key == "style" {
			style, err := parseStyle(dec)
			if err != nil {
				return err
			}
			n.Style = style
			continue
		}
		v, err := parseScalar(dec)
		if err != nil {
			return err
		}
		n.Attrs = append(n.Attrs, Attr{Key: key, Value: v})
	}
	_, err = dec.Token() // closing brace
	return err
}

func parseStyle(dec *json.Decoder) (Style, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("vdom: style must be an object")
	}
	var style Style
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("vdom: non-string style key %v", keyTok)
		}
		v, err := parseScalar(dec)
		if err != nil {
			return nil, err
		}
		style = append(style, StyleProp{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return style, nil
}

func parseChildren(dec *json.Decoder, n *Node) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		// children: null - leave n.Children nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("vdom: children must be an array or null")
	}
	n.Children = make([]*Node, 0)
	for dec.More() {
		child, err := parseNodeValue(dec)
		if err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}
	_, err = dec.Token() // closing bracket
	return err
}

// parseScalar reads one scalar value.
func parseScalar(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case string:
		return t, nil
	case bool:
		return t, nil
	case nil:
		return nil, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("vdom: expected scalar value, got %v", tok)
	}
}

// skipValue consumes one value of any shape.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	if d == '{' || d == '[' {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if dd, ok := tok.(json.Delim); ok {
				switch dd {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
