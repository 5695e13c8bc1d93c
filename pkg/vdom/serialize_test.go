package vdom

import (
	"encoding/json"
	"testing"
)

func marshalDoc(t *testing.T, e *Element) string {
	t.Helper()
	data, err := json.Marshal(Serialize(e))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(data)
}

func TestSerializeChildlessLeaf(t *testing.T) {
	got := marshalDoc(t, Div(Width("33%"), BackgroundColor("teal")))
	want := `{"tagName":"div","attributes":{"style":{"width":"33%","backgroundColor":"teal"}},"children":null}`
	if got != want {
		t.Errorf("doc = %s, want %s", got, want)
	}
}

func TestSerializeExplicitEmptyChildren(t *testing.T) {
	got := marshalDoc(t, Div(ChildList{}))
	want := `{"tagName":"div","attributes":{},"children":[]}`
	if got != want {
		t.Errorf("doc = %s, want %s", got, want)
	}
}

func TestSerializeTextChildAsString(t *testing.T) {
	got := marshalDoc(t, Span("loading"))
	want := `{"tagName":"span","attributes":{},"children":["loading"]}`
	if got != want {
		t.Errorf("doc = %s, want %s", got, want)
	}
}

func TestSerializeAttrOrderPreserved(t *testing.T) {
	got := marshalDoc(t, Div(ID("a"), Class("b"), Width("1%")))
	want := `{"tagName":"div","attributes":{"id":"a","class":"b","style":{"width":"1%"}},"children":null}`
	if got != want {
		t.Errorf("doc = %s, want %s", got, want)
	}
}

func TestSerializeNested(t *testing.T) {
	bar := Div(
		Div(Width("40%"), BackgroundColor("teal"), Height("20px"), DisplayMode("inline-block")),
		Div(Width("60%"), BackgroundColor("gainsboro"), Height("20px"), DisplayMode("inline-block")),
	)
	got := marshalDoc(t, bar)
	want := `{"tagName":"div","attributes":{},"children":[` +
		`{"tagName":"div","attributes":{"style":{"width":"40%","backgroundColor":"teal","height":"20px","display":"inline-block"}},"children":null},` +
		`{"tagName":"div","attributes":{"style":{"width":"60%","backgroundColor":"gainsboro","height":"20px","display":"inline-block"}},"children":null}]}`
	if got != want {
		t.Errorf("doc = %s, want %s", got, want)
	}
}

func TestSerializeNumericAndBoolValues(t *testing.T) {
	got := marshalDoc(t, Div(SetAttr("tabindex", 3), SetAttr("hidden", true), StyleOf("opacity", 0.5)))
	want := `{"tagName":"div","attributes":{"tabindex":3,"hidden":true,"style":{"opacity":0.5}},"children":null}`
	if got != want {
		t.Errorf("doc = %s, want %s", got, want)
	}
}

func TestSerializeDoesNotMutateInput(t *testing.T) {
	e := Div(ID("a"), Span("x"))
	before := e.Clone()
	Serialize(e)
	if !Equal(e, before) {
		t.Error("Serialize mutated its input")
	}
}

func TestParseNodeRoundTrip(t *testing.T) {
	trees := []*Element{
		Div(),
		Div(ChildList{}),
		Div(ID("a"), Class("b"), Width("33%"), Span("text"), Div(Height("1px"))),
		Span("just text"),
		Div(SetAttr("count", int64(7)), StyleOf("opacity", 0.25)),
	}
	for _, tree := range trees {
		data, err := json.Marshal(Serialize(tree))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		node, err := ParseNode(data)
		if err != nil {
			t.Fatalf("ParseNode(%s): %v", data, err)
		}
		again, err := json.Marshal(node)
		if err != nil {
			t.Fatalf("re-Marshal: %v", err)
		}
		if string(again) != string(data) {
			t.Errorf("round trip changed document:\n  in:  %s\n  out: %s", data, again)
		}
	}
}

func TestParseNodeIgnoresUnknownKeys(t *testing.T) {
	doc := `{"tagName":"div","key":"k1","attributes":{"id":"a"},"children":null}`
	node, err := ParseNode([]byte(doc))
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if node.TagName != "div" {
		t.Errorf("TagName = %q, want div", node.TagName)
	}
	if len(node.Attrs) != 1 || node.Attrs[0].Key != "id" {
		t.Errorf("Attrs = %v", node.Attrs)
	}
}

func TestParseNodeRejectsTrailingData(t *testing.T) {
	if _, err := ParseNode([]byte(`{"tagName":"div","attributes":{},"children":null} {}`)); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestParseNodeRejectsMalformed(t *testing.T) {
	bad := []string{
		``,
		`[1,2]`,
		`{"tagName":42,"attributes":{},"children":null}`,
		`{"tagName":"div","attributes":[],"children":null}`,
		`{"tagName":"div","attributes":{},"children":{}}`,
	}
	for _, doc := range bad {
		if _, err := ParseNode([]byte(doc)); err == nil {
			t.Errorf("ParseNode(%q): expected error", doc)
		}
	}
}

func TestNodeElementRoundTrip(t *testing.T) {
	tree := Div(ID("a"), Width("10%"), Span("x"), Div(ChildList{}))
	back := Serialize(tree).Element()
	if !Equal(tree, back) {
		t.Errorf("Element() round trip mismatch: %+v vs %+v", tree, back)
	}
}
