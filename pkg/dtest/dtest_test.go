package dtest

import (
	"context"
	"errors"
	"testing"

	"github.com/livedom-dev/livedom/pkg/display"
	"github.com/livedom-dev/livedom/pkg/vdom"
	"github.com/livedom-dev/livedom/pkg/widget"
)

func TestRecordingSinkCapturesChannelTraffic(t *testing.T) {
	sink := NewRecordingSink()
	ch := display.NewChannel(sink)
	ctx := context.Background()

	bar, err := widget.Progress(25, 100)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	h, err := ch.Display(ctx, bar)
	if err != nil {
		t.Fatalf("Display() error = %v", err)
	}

	next, err := widget.Progress(75, 100)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if err := h.Update(ctx, next); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	ops := sink.OpsFor(h.ID())
	if len(ops) != 2 {
		t.Fatalf("ops = %d, want 2", len(ops))
	}
	if ops[0].Kind != OpCreate || ops[0].Seq != 1 {
		t.Errorf("first op = %s seq %d, want create seq 1", ops[0].Kind, ops[0].Seq)
	}
	if ops[1].Kind != OpPatches || ops[1].Seq != 2 {
		t.Errorf("second op = %s seq %d, want patches seq 2", ops[1].Kind, ops[1].Seq)
	}

	if !vdom.Equivalent(sink.Document(h.ID()), next) {
		t.Error("materialized document does not match latest update")
	}
}

func TestRecordingSinkFailNext(t *testing.T) {
	sink := NewRecordingSink()
	ch := display.NewChannel(sink)
	ctx := context.Background()

	h, err := ch.Display(ctx, vdom.Div(vdom.Text("up")))
	if err != nil {
		t.Fatalf("Display() error = %v", err)
	}

	injected := errors.New("sink down")
	sink.FailNext(injected)

	err = h.Update(ctx, vdom.Div(vdom.Text("down")))
	if !errors.Is(err, injected) {
		t.Fatalf("Update() error = %v, want injected failure", err)
	}
	if len(sink.OpsFor(h.ID())) != 1 {
		t.Error("failed operation was recorded")
	}
	if got := TextContent(sink.Document(h.ID())); got != "up" {
		t.Errorf("document text = %q, want %q", got, "up")
	}
}

func TestRecordingSinkUnknownDisplay(t *testing.T) {
	sink := NewRecordingSink()

	err := sink.ApplyPatches(context.Background(), "ghost", 1, nil)
	if !errors.Is(err, display.ErrDisplayUnknown) {
		t.Errorf("ApplyPatches() error = %v, want ErrDisplayUnknown", err)
	}
}

func TestTextContent(t *testing.T) {
	tree := vdom.Div(
		vdom.H1(vdom.Text("title")),
		vdom.P(vdom.Text("body "), vdom.Strong(vdom.Text("bold"))),
	)
	if got := TextContent(tree); got != "titlebody bold" {
		t.Errorf("TextContent() = %q", got)
	}
	if got := TextContent(nil); got != "" {
		t.Errorf("TextContent(nil) = %q", got)
	}
}

func TestFindByTag(t *testing.T) {
	tree := vdom.Div(vdom.Ul(vdom.Li(vdom.Text("a")), vdom.Li(vdom.Text("b"))))

	li := FindByTag(tree, "li")
	if li == nil {
		t.Fatal("FindByTag(li) = nil")
	}
	if got := TextContent(li); got != "a" {
		t.Errorf("first li text = %q, want a", got)
	}
	if FindByTag(tree, "table") != nil {
		t.Error("FindByTag(table) found a match in a tree without tables")
	}
}

func TestExpectHelpers(t *testing.T) {
	bar, err := widget.Progress(75, 100)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	tree := vdom.Div(vdom.ID("status"), vdom.Span(vdom.Text("75%")), bar)

	ExpectText(t, tree, "75%")
	ExpectNoText(t, tree, "failed")
	ExpectElement(t, tree, "span")
	ExpectAttribute(t, tree, "div", "id", "status")
	ExpectStyle(t, bar.Children[0], "div", "width", "75%")
}
