// Package livedom provides the public API for driving live displays.
//
// This is the recommended import for most programs:
//
//	import "github.com/livedom-dev/livedom"
//
// Usage:
//
//	sink, _ := livedom.Dial(ctx, "ws://localhost:7420/ws")
//	ch := livedom.NewChannel(sink)
//	h, _ := ch.Display(ctx, livedom.Div(livedom.Text("hello")))
//	h.Update(ctx, livedom.Div(livedom.Text("world")))
package livedom

import (
	"context"

	"github.com/livedom-dev/livedom/pkg/display"
	"github.com/livedom-dev/livedom/pkg/vdom"
)

// =============================================================================
// Elements (re-export from pkg/vdom)
// =============================================================================

// Element is one node of a display tree.
type Element = vdom.Element

// Attr is a single element attribute.
type Attr = vdom.Attr

// Style is an ordered list of CSS properties.
type Style = vdom.Style

// StyleProp is a single CSS property.
type StyleProp = vdom.StyleProp

// ChildList marks an explicit child slice in a factory call; an empty
// ChildList serializes as [] rather than null.
type ChildList = vdom.ChildList

// Patch is one step of a document mutation batch.
type Patch = vdom.Patch

// Common element factories.
var (
	Text = vdom.Text
	Div  = vdom.Div
	Span = vdom.Span
	P    = vdom.P
	H1   = vdom.H1
	H2   = vdom.H2
	H3   = vdom.H3
	Ul   = vdom.Ul
	Ol   = vdom.Ol
	Li   = vdom.Li
	A    = vdom.A
	Img  = vdom.Img
	Pre  = vdom.Pre
	Code = vdom.Code
	Br   = vdom.Br

	CustomElement = vdom.CustomElement
)

// Common attribute and style helpers.
var (
	ID      = vdom.ID
	Class   = vdom.Class
	Src     = vdom.Src
	Href    = vdom.Href
	SetAttr = vdom.SetAttr

	StyleOf         = vdom.StyleOf
	Width           = vdom.Width
	WidthPercent    = vdom.WidthPercent
	Height          = vdom.Height
	BackgroundColor = vdom.BackgroundColor
	Color           = vdom.Color
)

// Diff computes the patch batch transforming old into next.
func Diff(old, next *Element) []Patch {
	return vdom.Diff(old, next)
}

// Apply applies a patch batch, returning the resulting tree.
func Apply(root *Element, patches []Patch) (*Element, error) {
	return vdom.Apply(root, patches)
}

// =============================================================================
// Displays (re-export from pkg/display)
// =============================================================================

// Channel binds element trees to a sink.
type Channel = display.Channel

// Handle is one live display created from a channel.
type Handle = display.Handle

// Sink receives display documents and patch batches.
type Sink = display.Sink

// Sink and channel errors.
var (
	ErrHandleBusy      = display.ErrHandleBusy
	ErrSinkUnavailable = display.ErrSinkUnavailable
)

// NewChannel creates a channel bound to the given sink.
var NewChannel = display.NewChannel

// NewMemorySink creates an in-process sink, useful for tests and
// embedding.
func NewMemorySink() *display.MemorySink {
	return display.NewMemorySink()
}

// Dial connects to a sink server's websocket ingest endpoint.
func Dial(ctx context.Context, url string, opts ...display.WebSocketOption) (*display.WebSocketSink, error) {
	return display.DialSink(ctx, url, opts...)
}
