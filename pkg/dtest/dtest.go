package dtest

import (
	"context"
	"sync"

	"github.com/livedom-dev/livedom/pkg/display"
	"github.com/livedom-dev/livedom/pkg/vdom"
)

// OpKind identifies what a recorded sink operation was.
type OpKind uint8

const (
	OpCreate OpKind = iota
	OpReplace
	OpPatches
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpReplace:
		return "replace"
	case OpPatches:
		return "patches"
	default:
		return "unknown"
	}
}

// Op is one recorded sink operation.
type Op struct {
	Kind      OpKind
	DisplayID string
	Seq       uint64

	// Doc is set for create and replace operations.
	Doc *vdom.Element

	// Patches is set for patch operations.
	Patches []vdom.Patch
}

// RecordingSink captures every operation a display channel sends and
// materializes the resulting document per display, so tests can assert
// on both the wire traffic and the final tree.
type RecordingSink struct {
	mu        sync.Mutex
	ops       []Op
	documents map[string]*vdom.Element

	// failNext, when set, is returned by the next operation and then
	// cleared. Use it to exercise failure paths.
	failNext error
}

var _ display.Sink = (*RecordingSink)(nil)

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{documents: make(map[string]*vdom.Element)}
}

// FailNext makes the next sink operation return err without recording
// or applying anything.
func (s *RecordingSink) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *RecordingSink) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// Create implements display.Sink.
func (s *RecordingSink) Create(ctx context.Context, id string, seq uint64, doc *vdom.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpCreate, DisplayID: id, Seq: seq, Doc: doc.Clone()})
	s.documents[id] = doc.Clone()
	return nil
}

// Replace implements display.Sink.
func (s *RecordingSink) Replace(ctx context.Context, id string, seq uint64, doc *vdom.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpReplace, DisplayID: id, Seq: seq, Doc: doc.Clone()})
	s.documents[id] = doc.Clone()
	return nil
}

// ApplyPatches implements display.Sink.
func (s *RecordingSink) ApplyPatches(ctx context.Context, id string, seq uint64, patches []vdom.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}

	doc, ok := s.documents[id]
	if !ok {
		return display.ErrDisplayUnknown
	}
	next, err := vdom.Apply(doc, patches)
	if err != nil {
		return err
	}

	s.ops = append(s.ops, Op{Kind: OpPatches, DisplayID: id, Seq: seq, Patches: patches})
	s.documents[id] = next
	return nil
}

// Close implements display.Sink.
func (s *RecordingSink) Close() error { return nil }

// Ops returns all recorded operations in arrival order.
func (s *RecordingSink) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Op, len(s.ops))
	copy(out, s.ops)
	return out
}

// OpsFor returns the recorded operations for one display.
func (s *RecordingSink) OpsFor(id string) []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Op
	for _, op := range s.ops {
		if op.DisplayID == id {
			out = append(out, op)
		}
	}
	return out
}

// Document returns the materialized current tree for a display, or nil
// if the display was never created.
func (s *RecordingSink) Document(id string) *vdom.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documents[id].Clone()
}

// Reset discards all recorded operations and documents.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
	s.documents = make(map[string]*vdom.Element)
}
