package dtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// TextContent returns the concatenated text of all text leaves under e,
// in document order.
func TextContent(e *vdom.Element) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	collectText(e, &b)
	return b.String()
}

func collectText(e *vdom.Element, b *strings.Builder) {
	if e.Kind == vdom.KindText {
		b.WriteString(e.Text)
		return
	}
	for _, child := range e.Children {
		collectText(child, b)
	}
}

// FindByTag returns the first element with the given tag in a
// depth-first walk, or nil.
func FindByTag(e *vdom.Element, tag string) *vdom.Element {
	if e == nil {
		return nil
	}
	if e.Kind == vdom.KindElement && e.Tag == tag {
		return e
	}
	for _, child := range e.Children {
		if found := FindByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// ExpectText asserts that the tree's text content contains expected.
//
// Example:
//
//	dtest.ExpectText(t, sink.Document(id), "75%")
func ExpectText(t *testing.T, e *vdom.Element, expected string) {
	t.Helper()
	text := TextContent(e)
	if !strings.Contains(text, expected) {
		t.Errorf("expected text content to contain %q, got:\n%s", expected, truncate(text, 500))
	}
}

// ExpectNoText asserts that the tree's text content does not contain
// the given substring.
func ExpectNoText(t *testing.T, e *vdom.Element, unexpected string) {
	t.Helper()
	text := TextContent(e)
	if strings.Contains(text, unexpected) {
		t.Errorf("expected text content to NOT contain %q, got:\n%s", unexpected, truncate(text, 500))
	}
}

// ExpectElement asserts that the tree contains an element with the
// given tag.
//
// Example:
//
//	dtest.ExpectElement(t, sink.Document(id), "progress")
func ExpectElement(t *testing.T, e *vdom.Element, tag string) {
	t.Helper()
	if FindByTag(e, tag) == nil {
		t.Errorf("expected tree to contain <%s> element", tag)
	}
}

// ExpectAttribute asserts that some element with the given tag carries
// the attribute value.
//
// Example:
//
//	dtest.ExpectAttribute(t, sink.Document(id), "div", "class", "box")
func ExpectAttribute(t *testing.T, e *vdom.Element, tag, key string, value any) {
	t.Helper()
	el := FindByTag(e, tag)
	if el == nil {
		t.Errorf("expected tree to contain <%s> element", tag)
		return
	}
	got, ok := el.Attr(key)
	if !ok {
		t.Errorf("<%s> has no attribute %q", tag, key)
		return
	}
	if fmt.Sprint(got) != fmt.Sprint(value) {
		t.Errorf("<%s> attribute %s = %v, want %v", tag, key, got, value)
	}
}

// ExpectStyle asserts that some element with the given tag carries the
// style property value.
//
// Example:
//
//	dtest.ExpectStyle(t, sink.Document(id), "div", "width", "75%")
func ExpectStyle(t *testing.T, e *vdom.Element, tag, name string, value any) {
	t.Helper()
	el := FindByTag(e, tag)
	if el == nil {
		t.Errorf("expected tree to contain <%s> element", tag)
		return
	}
	got, ok := el.StyleProp(name)
	if !ok {
		t.Errorf("<%s> has no style property %q", tag, name)
		return
	}
	if fmt.Sprint(got) != fmt.Sprint(value) {
		t.Errorf("<%s> style %s = %v, want %v", tag, name, got, value)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
