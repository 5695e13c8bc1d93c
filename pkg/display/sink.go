package display

import (
	"context"
	"errors"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// Sink errors.
var (
	// ErrSinkUnavailable indicates the sink could not accept the frame
	// (connection lost, sink closed, backend rejected it). The handle's
	// current tree is left untouched when this is returned.
	ErrSinkUnavailable = errors.New("display: sink unavailable")

	// ErrHandleBusy indicates another Update is in flight on the same
	// handle. The caller should retry after the in-flight update
	// completes.
	ErrHandleBusy = errors.New("display: handle busy")

	// ErrDisplayUnknown indicates a frame referenced a display id the
	// sink has never seen.
	ErrDisplayUnknown = errors.New("display: unknown display")

	// ErrDisplayExists indicates a Create for an id that is already live.
	ErrDisplayExists = errors.New("display: display already exists")
)

// Sink receives documents and patches for live displays.
// Implementations must be safe for concurrent use; frames for a single
// display id arrive in seq order.
type Sink interface {
	// Create announces a new display with its initial document.
	Create(ctx context.Context, id string, seq uint64, doc *vdom.Element) error

	// Replace swaps a display's document wholesale.
	Replace(ctx context.Context, id string, seq uint64, doc *vdom.Element) error

	// ApplyPatches applies an ordered batch of patches to a display's
	// document.
	ApplyPatches(ctx context.Context, id string, seq uint64, patches []vdom.Patch) error

	// Close releases the sink's resources. Frames sent after Close fail
	// with ErrSinkUnavailable.
	Close() error
}
