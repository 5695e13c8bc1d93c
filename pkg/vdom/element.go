package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <span>, etc.
	KindText                // Plain text leaf
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Element is an immutable description of one UI node: a tag, ordered
// attributes, an ordered style block, and ordered children.
//
// Children carries a three-way distinction that survives serialization:
// nil means the element was built without any children argument
// (serializes as null), an empty non-nil slice means "explicitly zero
// children" (serializes as []), and a populated slice is the ordered
// child list.
//
// Elements are treated as values: constructors and Apply always build
// fresh nodes and never mutate their inputs. Two Elements with equal
// (tag, attributes, style, children) are interchangeable.
type Element struct {
	Kind     Kind       // Node type
	Tag      string     // Element tag name (e.g., "div")
	Attrs    []Attr     // Ordered attributes (style excluded)
	Style    Style      // Ordered style properties
	Children []*Element // Child nodes; nil is distinct from empty
	Text     string     // For KindText
}

// Attr is a single attribute. Values are scalars: string, bool, int,
// int64, float64.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// StyleProp is a single CSS property. Values are scalars, typically
// strings ("20px") or numbers.
type StyleProp struct {
	Name  string
	Value any
}

// Style is an ordered list of CSS properties.
type Style []StyleProp

// ChildList marks a slice of children in a factory call. Passing an
// empty ChildList forces an explicit empty child list (serialized as
// [] rather than null).
type ChildList []*Element

// Attr looks up an attribute value by key. The second return reports
// whether the key is present.
func (e *Element) Attr(key string) (any, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// StyleProp looks up a style property value by name.
func (e *Element) StyleProp(name string) (any, bool) {
	for _, p := range e.Style {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := &Element{
		Kind: e.Kind,
		Tag:  e.Tag,
		Text: e.Text,
	}
	if e.Attrs != nil {
		c.Attrs = make([]Attr, len(e.Attrs))
		copy(c.Attrs, e.Attrs)
	}
	if e.Style != nil {
		c.Style = make(Style, len(e.Style))
		copy(c.Style, e.Style)
	}
	if e.Children != nil {
		c.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports structural equality of two trees. The nil-versus-empty
// children distinction is significant, matching serialization.
func Equal(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindText {
		return a.Text == b.Text
	}
	if a.Tag != b.Tag {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i].Key != b.Attrs[i].Key || !valueEqual(a.Attrs[i].Value, b.Attrs[i].Value) {
			return false
		}
	}
	if len(a.Style) != len(b.Style) {
		return false
	}
	for i := range a.Style {
		if a.Style[i].Name != b.Style[i].Name || !valueEqual(a.Style[i].Value, b.Style[i].Value) {
			return false
		}
	}
	if (a.Children == nil) != (b.Children == nil) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Equivalent reports mapping-level equality of two trees: attributes
// and style are compared as key/value sets, ignoring insertion order.
// This is the equality sinks observe, since consumers must not rely on
// attribute order. Children remain order- and nil-versus-empty-
// sensitive.
func Equivalent(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindText {
		return a.Text == b.Text
	}
	if a.Tag != b.Tag {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for _, attr := range a.Attrs {
		bv, ok := b.Attr(attr.Key)
		if !ok || !valueEqual(attr.Value, bv) {
			return false
		}
	}
	if len(a.Style) != len(b.Style) {
		return false
	}
	for _, p := range a.Style {
		bv, ok := b.StyleProp(p.Name)
		if !ok || !valueEqual(p.Value, bv) {
			return false
		}
	}
	if (a.Children == nil) != (b.Children == nil) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equivalent(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// valueEqual compares two attribute/style values for equality.
// int and int64 compare numerically so values keep their identity
// across wire encodings that widen to int64.
func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		return intEqual(int64(av), b)
	case int64:
		return intEqual(av, b)
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return false
}

func intEqual(a int64, b any) bool {
	switch bv := b.(type) {
	case int:
		return a == int64(bv)
	case int64:
		return a == bv
	}
	return false
}
