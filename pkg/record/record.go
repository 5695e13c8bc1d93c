// Package record archives raw protocol frames per display so a
// display's update stream can be replayed later. Backends: local disk
// (append-only segment files) and S3 (rolled segments).
package record

import (
	"context"
	"errors"
)

// ErrRecorderClosed is returned when frames are recorded after Close.
var ErrRecorderClosed = errors.New("record: recorder closed")

// Recorder archives protocol frames. Implementations must be safe for
// concurrent use; frames for one display are archived in call order.
type Recorder interface {
	// Record archives one encoded frame (header included) for a display.
	Record(ctx context.Context, id string, frame []byte) error

	// Close flushes and releases resources. Record after Close fails
	// with ErrRecorderClosed.
	Close() error
}

// NopRecorder discards all frames. Used when recording is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, id string, frame []byte) error { return nil }
func (NopRecorder) Close() error                                              { return nil }
