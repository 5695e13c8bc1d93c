package vdom

// createElement creates a new Element with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, StyleProp, Style, *Element,
// []*Element, ChildList, string (text shorthand).
//
// Children stays nil until the first child-bearing argument arrives, so
// Div() serializes children as null while Div(ChildList{}) serializes
// them as [].
func createElement(tag string, args []any) *Element {
	node := &Element{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if v.Key != "" {
				node.Attrs = setAttr(node.Attrs, v)
			}

		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					node.Attrs = setAttr(node.Attrs, a)
				}
			}

		case StyleProp:
			if v.Name != "" {
				node.Style = setStyle(node.Style, v)
			}

		case Style:
			for _, p := range v {
				if p.Name != "" {
					node.Style = setStyle(node.Style, p)
				}
			}

		case *Element:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*Element:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case ChildList:
			if node.Children == nil {
				node.Children = make([]*Element, 0, len(v))
			}
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			// Shorthand for a text leaf
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// setAttr sets or replaces an attribute, preserving first-insertion order.
func setAttr(attrs []Attr, a Attr) []Attr {
	for i := range attrs {
		if attrs[i].Key == a.Key {
			attrs[i].Value = a.Value
			return attrs
		}
	}
	return append(attrs, a)
}

// setStyle sets or replaces a style property, preserving first-insertion order.
func setStyle(style Style, p StyleProp) Style {
	for i := range style {
		if style[i].Name == p.Name {
			style[i].Value = p.Value
			return style
		}
	}
	return append(style, p)
}

// Text creates a text leaf.
func Text(text string) *Element {
	return &Element{Kind: KindText, Text: text}
}

// Document structure elements

func Html(args ...any) *Element  { return createElement("html", args) }
func Head(args ...any) *Element  { return createElement("head", args) }
func Body(args ...any) *Element  { return createElement("body", args) }
func Title(args ...any) *Element { return createElement("title", args) }

// Content sectioning elements

func Header(args ...any) *Element  { return createElement("header", args) }
func Footer(args ...any) *Element  { return createElement("footer", args) }
func Main(args ...any) *Element    { return createElement("main", args) }
func Nav(args ...any) *Element     { return createElement("nav", args) }
func Section(args ...any) *Element { return createElement("section", args) }
func Article(args ...any) *Element { return createElement("article", args) }
func H1(args ...any) *Element      { return createElement("h1", args) }
func H2(args ...any) *Element      { return createElement("h2", args) }
func H3(args ...any) *Element      { return createElement("h3", args) }
func H4(args ...any) *Element      { return createElement("h4", args) }
func H5(args ...any) *Element      { return createElement("h5", args) }
func H6(args ...any) *Element      { return createElement("h6", args) }

// Text content elements

func Div(args ...any) *Element        { return createElement("div", args) }
func P(args ...any) *Element          { return createElement("p", args) }
func Span(args ...any) *Element       { return createElement("span", args) }
func Pre(args ...any) *Element        { return createElement("pre", args) }
func Blockquote(args ...any) *Element { return createElement("blockquote", args) }
func Ul(args ...any) *Element         { return createElement("ul", args) }
func Ol(args ...any) *Element         { return createElement("ol", args) }
func Li(args ...any) *Element         { return createElement("li", args) }
func Hr(args ...any) *Element         { return createElement("hr", args) }

// Inline text semantics

func A(args ...any) *Element      { return createElement("a", args) }
func Strong(args ...any) *Element { return createElement("strong", args) }
func Em(args ...any) *Element     { return createElement("em", args) }
func B(args ...any) *Element      { return createElement("b", args) }
func I(args ...any) *Element      { return createElement("i", args) }
func Small(args ...any) *Element  { return createElement("small", args) }
func Code(args ...any) *Element   { return createElement("code", args) }
func Br(args ...any) *Element     { return createElement("br", args) }

// Media elements

func Img(args ...any) *Element    { return createElement("img", args) }
func Video(args ...any) *Element  { return createElement("video", args) }
func Audio(args ...any) *Element  { return createElement("audio", args) }
func Canvas(args ...any) *Element { return createElement("canvas", args) }

// Table elements

func Table(args ...any) *Element { return createElement("table", args) }
func Thead(args ...any) *Element { return createElement("thead", args) }
func Tbody(args ...any) *Element { return createElement("tbody", args) }
func Tr(args ...any) *Element    { return createElement("tr", args) }
func Th(args ...any) *Element    { return createElement("th", args) }
func Td(args ...any) *Element    { return createElement("td", args) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *Element {
	return createElement(tag, args)
}
