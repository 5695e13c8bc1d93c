// Package display is the live output channel. A Channel binds element
// trees to a Sink; each displayed tree gets a Handle that pushes
// updates as diffs (or full replacements) with per-handle sequencing.
//
// Handles are independent: updates on one handle never block another,
// and each handle's updates reach the sink in call order. A concurrent
// Update on the same handle fails fast with ErrHandleBusy rather than
// queueing.
package display
