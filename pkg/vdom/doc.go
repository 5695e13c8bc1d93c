// Package vdom provides the virtual DOM element tree for livedom.
//
// An Element is an immutable description of one UI node: tag, ordered
// attributes, an ordered style block, and children. Elements are built
// with variadic factory functions:
//
//	vdom.Div(vdom.ID("bar"),
//	    vdom.Width("50%"),
//	    vdom.BackgroundColor("teal"),
//	    vdom.Span("loading"),
//	)
//
// # Serialization
//
// Serialize converts an Element into its transport Node form, which
// marshals to the document shape consumed by sinks:
//
//	{"tagName": "div", "attributes": {"style": {...}}, "children": [...] | null}
//
// An element constructed without a children argument serializes
// children as null; an element constructed with an explicit empty
// ChildList serializes them as []. The distinction is preserved through
// ParseNode and Diff/Apply.
//
// # Diffing
//
// Diff compares two trees and returns the ordered patch list that
// transforms one into the other: attribute- and style-property-level
// granularity, positional child matching, whole-node replacement when
// tags differ. Apply replays a patch list onto a copy of a tree.
package vdom
