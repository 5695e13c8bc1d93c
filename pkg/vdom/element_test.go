package vdom

import "testing"

func TestFactoryNoChildrenIsNil(t *testing.T) {
	e := Div(ID("x"))
	if e.Children != nil {
		t.Errorf("Children = %v, want nil", e.Children)
	}
}

func TestFactoryExplicitEmptyChildren(t *testing.T) {
	e := Div(ChildList{})
	if e.Children == nil {
		t.Fatal("Children = nil, want empty slice")
	}
	if len(e.Children) != 0 {
		t.Errorf("len(Children) = %d, want 0", len(e.Children))
	}
}

func TestFactoryStringBecomesTextChild(t *testing.T) {
	e := P("hello")
	if len(e.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1", len(e.Children))
	}
	child := e.Children[0]
	if child.Kind != KindText || child.Text != "hello" {
		t.Errorf("child = %+v, want text leaf %q", child, "hello")
	}
}

func TestFactoryNilArgIgnored(t *testing.T) {
	e := Div(nil, ID("x"), nil)
	if len(e.Attrs) != 1 {
		t.Errorf("len(Attrs) = %d, want 1", len(e.Attrs))
	}
	if e.Children != nil {
		t.Errorf("Children = %v, want nil", e.Children)
	}
}

func TestAttrInsertionOrderPreserved(t *testing.T) {
	e := Div(ID("a"), Class("b"), TitleAttr("c"))
	want := []string{"id", "class", "title"}
	if len(e.Attrs) != len(want) {
		t.Fatalf("len(Attrs) = %d, want %d", len(e.Attrs), len(want))
	}
	for i, key := range want {
		if e.Attrs[i].Key != key {
			t.Errorf("Attrs[%d].Key = %q, want %q", i, e.Attrs[i].Key, key)
		}
	}
}

func TestAttrDuplicateKeyReplacesInPlace(t *testing.T) {
	e := Div(ID("a"), Class("b"), ID("c"))
	if len(e.Attrs) != 2 {
		t.Fatalf("len(Attrs) = %d, want 2", len(e.Attrs))
	}
	if e.Attrs[0].Key != "id" {
		t.Errorf("Attrs[0].Key = %q, want id", e.Attrs[0].Key)
	}
	if v, _ := e.Attr("id"); v != "c" {
		t.Errorf("id = %v, want c", v)
	}
}

func TestStyleOrderAndLookup(t *testing.T) {
	e := Div(Width("33%"), BackgroundColor("teal"), Height("20px"))
	if len(e.Style) != 3 {
		t.Fatalf("len(Style) = %d, want 3", len(e.Style))
	}
	if e.Style[0].Name != "width" || e.Style[1].Name != "backgroundColor" {
		t.Errorf("style order = %v", e.Style)
	}
	if v, ok := e.StyleProp("height"); !ok || v != "20px" {
		t.Errorf("height = %v, %v; want 20px, true", v, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Div(ID("a"), Width("10%"), Span("inner"))
	c := orig.Clone()

	c.Attrs[0].Value = "mutated"
	c.Style[0].Value = "99%"
	c.Children[0].Children[0].Text = "mutated"

	if v, _ := orig.Attr("id"); v != "a" {
		t.Errorf("original attr mutated: %v", v)
	}
	if v, _ := orig.StyleProp("width"); v != "10%" {
		t.Errorf("original style mutated: %v", v)
	}
	if orig.Children[0].Children[0].Text != "inner" {
		t.Errorf("original child mutated: %q", orig.Children[0].Children[0].Text)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Element
		want bool
	}{
		{"identical", Div(ID("x"), Span("a")), Div(ID("x"), Span("a")), true},
		{"both nil", nil, nil, true},
		{"one nil", Div(), nil, false},
		{"different tag", Div(), Span(), false},
		{"different attr value", Div(ID("x")), Div(ID("y")), false},
		{"different style", Div(Width("1%")), Div(Width("2%")), false},
		{"nil vs empty children", Div(), Div(ChildList{}), false},
		{"different text", Text("a"), Text("b"), false},
		{"attr value type differs", Div(SetAttr("n", 1)), Div(SetAttr("n", "1")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}
