package display

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// Channel binds element trees to a sink. It is safe for concurrent use;
// all handles created from one channel share the sink.
type Channel struct {
	sink   Sink
	logger *slog.Logger
	diff   bool
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithLogger sets the logger for channel and handle operations.
func WithLogger(logger *slog.Logger) ChannelOption {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithoutDiff disables diffing: every Update sends a full Replace
// instead of a patch batch. Useful when the sink cannot apply patches.
func WithoutDiff() ChannelOption {
	return func(c *Channel) {
		c.diff = false
	}
}

// NewChannel creates a channel bound to the given sink.
func NewChannel(sink Sink, opts ...ChannelOption) *Channel {
	c := &Channel{
		sink:   sink,
		logger: slog.Default(),
		diff:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Display sends the initial tree to the sink and returns a handle for
// pushing updates. The tree is deep-copied; later mutations of the
// caller's copy do not affect the handle.
func (c *Channel) Display(ctx context.Context, initial *vdom.Element) (*Handle, error) {
	h := &Handle{
		id:      uuid.NewString(),
		channel: c,
		current: initial.Clone(),
	}
	seq := h.seq.Add(1)

	if err := c.sink.Create(ctx, h.id, seq, h.current); err != nil {
		return nil, err
	}

	c.logger.Debug("display created", "display_id", h.id)
	return h, nil
}

// Handle is one live display. Update pushes a new tree; Current returns
// the last tree the sink accepted.
type Handle struct {
	id      string
	channel *Channel
	seq     atomic.Uint64

	mu      sync.Mutex
	current *vdom.Element
}

// ID returns the display id assigned at creation.
func (h *Handle) ID() string {
	return h.id
}

// Current returns a deep copy of the last successfully displayed tree.
func (h *Handle) Current() *vdom.Element {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current.Clone()
}

// Update pushes next to the sink, as a patch batch when diffing is
// enabled and as a full replacement otherwise. On success the handle's
// current tree becomes next; on failure it is left untouched so the
// caller can retry with a fresh diff.
//
// A concurrent Update on the same handle returns ErrHandleBusy without
// blocking. Updates on different handles proceed independently.
func (h *Handle) Update(ctx context.Context, next *vdom.Element) error {
	if !h.mu.TryLock() {
		return ErrHandleBusy
	}
	defer h.mu.Unlock()

	next = next.Clone()

	if h.channel.diff {
		patches := vdom.Diff(h.current, next)
		if len(patches) == 0 {
			return nil
		}
		seq := h.seq.Add(1)
		if err := h.channel.sink.ApplyPatches(ctx, h.id, seq, patches); err != nil {
			h.channel.logger.Warn("patch send failed",
				"display_id", h.id, "seq", seq, "error", err)
			return err
		}
		h.current = next
		return nil
	}

	seq := h.seq.Add(1)
	if err := h.channel.sink.Replace(ctx, h.id, seq, next); err != nil {
		h.channel.logger.Warn("replace send failed",
			"display_id", h.id, "seq", seq, "error", err)
		return err
	}
	h.current = next
	return nil
}

// Replace pushes next wholesale regardless of the channel's diff
// setting. Same busy and failure semantics as Update.
func (h *Handle) Replace(ctx context.Context, next *vdom.Element) error {
	if !h.mu.TryLock() {
		return ErrHandleBusy
	}
	defer h.mu.Unlock()

	next = next.Clone()
	seq := h.seq.Add(1)
	if err := h.channel.sink.Replace(ctx, h.id, seq, next); err != nil {
		h.channel.logger.Warn("replace send failed",
			"display_id", h.id, "seq", seq, "error", err)
		return err
	}
	h.current = next
	return nil
}

// Seq returns the last sequence number assigned on this handle.
func (h *Handle) Seq() uint64 {
	return h.seq.Load()
}
