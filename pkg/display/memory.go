package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// MemorySink renders documents in-process. It applies patch batches to
// its own copy of each document, so tests can assert on the exact tree
// a remote sink would reconstruct.
type MemorySink struct {
	mu       sync.RWMutex
	displays map[string]*memoryDisplay
	closed   bool
}

type memoryDisplay struct {
	doc *vdom.Element
	seq uint64
}

// NewMemorySink creates an empty in-process sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		displays: make(map[string]*memoryDisplay),
	}
}

// Create announces a new display.
func (m *MemorySink) Create(ctx context.Context, id string, seq uint64, doc *vdom.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSinkUnavailable
	}
	if _, ok := m.displays[id]; ok {
		return fmt.Errorf("%w: %s", ErrDisplayExists, id)
	}
	m.displays[id] = &memoryDisplay{doc: doc.Clone(), seq: seq}
	return nil
}

// Replace swaps a display's document.
func (m *MemorySink) Replace(ctx context.Context, id string, seq uint64, doc *vdom.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSinkUnavailable
	}
	d, ok := m.displays[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDisplayUnknown, id)
	}
	d.doc = doc.Clone()
	d.seq = seq
	return nil
}

// ApplyPatches applies a patch batch to the sink's copy of the document.
func (m *MemorySink) ApplyPatches(ctx context.Context, id string, seq uint64, patches []vdom.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSinkUnavailable
	}
	d, ok := m.displays[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDisplayUnknown, id)
	}

	next, err := vdom.Apply(d.doc, patches)
	if err != nil {
		return err
	}
	d.doc = next
	d.seq = seq
	return nil
}

// Snapshot returns a deep copy of a display's document, or nil if the
// id is unknown.
func (m *MemorySink) Snapshot(id string) *vdom.Element {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.displays[id]
	if !ok {
		return nil
	}
	return d.doc.Clone()
}

// Seq returns the last sequence number applied for a display.
func (m *MemorySink) Seq(id string) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.displays[id]
	if !ok {
		return 0
	}
	return d.seq
}

// IDs returns the ids of all live displays.
func (m *MemorySink) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.displays))
	for id := range m.displays {
		ids = append(ids, id)
	}
	return ids
}

// Close marks the sink unavailable. Subsequent frames fail with
// ErrSinkUnavailable.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
