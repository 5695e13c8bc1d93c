// Package dtest provides test helpers for code that drives live
// displays: a recording sink that captures every frame a channel
// sends, and assertion helpers over element trees.
//
// Typical use:
//
//	sink := dtest.NewRecordingSink()
//	ch := display.NewChannel(sink)
//	h, _ := ch.Display(ctx, view(0))
//	h.Update(ctx, view(1))
//
//	dtest.ExpectText(t, sink.Document(h.ID()), "1%")
package dtest
