package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/livedom-dev/livedom/pkg/store"
	"github.com/livedom-dev/livedom/pkg/vdom"
)

// Registry errors.
var (
	ErrDisplayExists  = errors.New("server: display already exists")
	ErrDisplayUnknown = errors.New("server: unknown display")
)

// Registry maps display ids to their current documents. Frames for one
// display arrive from a single producer connection, but HTTP reads and
// multiple connections run concurrently.
type Registry struct {
	mu       sync.RWMutex
	displays map[string]*displayState

	// snapshots is optional; when set, documents are persisted after
	// every applied frame and restored on miss.
	snapshots   store.SnapshotStore
	snapshotTTL time.Duration
}

type displayState struct {
	doc       *vdom.Element
	seq       uint64
	updatedAt time.Time
}

// NewRegistry creates an empty display registry. snapshots may be nil.
func NewRegistry(snapshots store.SnapshotStore, snapshotTTL time.Duration) *Registry {
	return &Registry{
		displays:    make(map[string]*displayState),
		snapshots:   snapshots,
		snapshotTTL: snapshotTTL,
	}
}

// Create registers a display from its serialized initial document.
func (r *Registry) Create(ctx context.Context, id string, seq uint64, docJSON []byte) error {
	node, err := vdom.ParseNode(docJSON)
	if err != nil {
		return fmt.Errorf("server: invalid document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.displays[id]; ok {
		return fmt.Errorf("%w: %s", ErrDisplayExists, id)
	}
	r.displays[id] = &displayState{
		doc:       node.Element(),
		seq:       seq,
		updatedAt: time.Now(),
	}
	r.persist(ctx, id, docJSON)
	return nil
}

// Replace swaps a display's document wholesale.
func (r *Registry) Replace(ctx context.Context, id string, seq uint64, docJSON []byte) error {
	node, err := vdom.ParseNode(docJSON)
	if err != nil {
		return fmt.Errorf("server: invalid document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.displays[id]
	if !ok {
		if d = r.restoreLocked(ctx, id); d == nil {
			return fmt.Errorf("%w: %s", ErrDisplayUnknown, id)
		}
	}
	d.doc = node.Element()
	d.seq = seq
	d.updatedAt = time.Now()
	r.persist(ctx, id, docJSON)
	return nil
}

// ApplyPatches applies a patch batch to a display's document.
func (r *Registry) ApplyPatches(ctx context.Context, id string, seq uint64, patches []vdom.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.displays[id]
	if !ok {
		if d = r.restoreLocked(ctx, id); d == nil {
			return fmt.Errorf("%w: %s", ErrDisplayUnknown, id)
		}
	}

	next, err := vdom.Apply(d.doc, patches)
	if err != nil {
		return err
	}
	d.doc = next
	d.seq = seq
	d.updatedAt = time.Now()

	if r.snapshots != nil {
		if docJSON, err := vdom.Serialize(next).MarshalJSON(); err == nil {
			r.persist(ctx, id, docJSON)
		}
	}
	return nil
}

// Document returns the serialized current document for a display.
func (r *Registry) Document(ctx context.Context, id string) ([]byte, bool) {
	r.mu.RLock()
	d, ok := r.displays[id]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		d = r.restoreLocked(ctx, id)
		r.mu.Unlock()
		if d == nil {
			return nil, false
		}
	}

	docJSON, err := vdom.Serialize(d.doc).MarshalJSON()
	if err != nil {
		return nil, false
	}
	return docJSON, true
}

// Seq returns the last applied sequence number for a display.
func (r *Registry) Seq(id string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.displays[id]
	if !ok {
		return 0
	}
	return d.seq
}

// IDs returns the ids of all live displays.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.displays))
	for id := range r.displays {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of live displays.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.displays)
}

// Remove drops a display and its snapshot.
func (r *Registry) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	delete(r.displays, id)
	r.mu.Unlock()

	if r.snapshots != nil {
		r.snapshots.Delete(ctx, id)
	}
}

// persist saves the document snapshot, best effort. Caller holds the
// lock.
func (r *Registry) persist(ctx context.Context, id string, docJSON []byte) {
	if r.snapshots == nil {
		return
	}
	r.snapshots.Save(ctx, id, docJSON, time.Now().Add(r.snapshotTTL))
}

// restoreLocked tries to rebuild a display from the snapshot store.
// Caller holds the write lock. Returns nil when no snapshot exists.
func (r *Registry) restoreLocked(ctx context.Context, id string) *displayState {
	if r.snapshots == nil {
		return nil
	}
	docJSON, err := r.snapshots.Load(ctx, id)
	if err != nil || docJSON == nil {
		return nil
	}
	node, err := vdom.ParseNode(docJSON)
	if err != nil {
		return nil
	}
	d := &displayState{
		doc:       node.Element(),
		updatedAt: time.Now(),
	}
	r.displays[id] = d
	return d
}
