package display

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livedom-dev/livedom/pkg/protocol"
	"github.com/livedom-dev/livedom/pkg/vdom"
)

// WebSocketSink speaks the livedom wire protocol to a remote sink
// server over a websocket connection. Writes are serialized; a failed
// write closes the connection and all later frames fail with
// ErrSinkUnavailable.
type WebSocketSink struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeTimeout time.Duration

	mu     sync.Mutex
	closed atomic.Bool
	done   chan struct{}
}

// WebSocketOption configures a WebSocketSink.
type WebSocketOption func(*WebSocketSink)

// WithWriteTimeout sets the per-frame write deadline. Default: 10s.
func WithWriteTimeout(d time.Duration) WebSocketOption {
	return func(s *WebSocketSink) {
		s.writeTimeout = d
	}
}

// WithSinkLogger sets the logger. Default: slog.Default().
func WithSinkLogger(logger *slog.Logger) WebSocketOption {
	return func(s *WebSocketSink) {
		s.logger = logger
	}
}

// DialSink connects to a sink server's websocket ingest endpoint
// (ws://host:port/ws).
func DialSink(ctx context.Context, url string, opts ...WebSocketOption) (*WebSocketSink, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrSinkUnavailable, url, err)
	}

	s := &WebSocketSink{
		conn:         conn,
		logger:       slog.Default(),
		writeTimeout: 10 * time.Second,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.readLoop()
	return s, nil
}

// Create sends a Create frame with the serialized document.
func (s *WebSocketSink) Create(ctx context.Context, id string, seq uint64, doc *vdom.Element) error {
	return s.sendDocument(ctx, protocol.FrameCreate, id, seq, doc)
}

// Replace sends a Replace frame with the serialized document.
func (s *WebSocketSink) Replace(ctx context.Context, id string, seq uint64, doc *vdom.Element) error {
	return s.sendDocument(ctx, protocol.FrameReplace, id, seq, doc)
}

// ApplyPatches sends a Patches frame.
func (s *WebSocketSink) ApplyPatches(ctx context.Context, id string, seq uint64, patches []vdom.Patch) error {
	payload, err := protocol.EncodePatches(&protocol.PatchesFrame{
		DisplayID: id,
		Seq:       seq,
		Patches:   patches,
	})
	if err != nil {
		return err
	}
	return s.writeFrame(ctx, protocol.NewFrame(protocol.FramePatches, payload))
}

func (s *WebSocketSink) sendDocument(ctx context.Context, ft protocol.FrameType, id string, seq uint64, doc *vdom.Element) error {
	data, err := vdom.Serialize(doc).MarshalJSON()
	if err != nil {
		return err
	}
	payload := protocol.EncodeDocument(&protocol.DocumentFrame{
		DisplayID: id,
		Seq:       seq,
		Document:  data,
	})
	return s.writeFrame(ctx, protocol.NewFrame(ft, payload))
}

func (s *WebSocketSink) writeFrame(ctx context.Context, f *protocol.Frame) error {
	if len(f.Payload) > protocol.MaxPayloadSize {
		return protocol.ErrFrameTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSinkUnavailable
	}

	deadline := time.Now().Add(s.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	s.conn.SetWriteDeadline(deadline)

	if err := s.conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		s.closeLocked("write failed")
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	return nil
}

// readLoop consumes server frames: acks are logged, pings answered,
// close notices and errors tear the connection down.
func (s *WebSocketSink) readLoop() {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Error("sink read error", "error", err)
			}
			s.Close()
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("sink frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameAck:
			ack, err := protocol.DecodeAck(frame.Payload)
			if err != nil {
				s.logger.Error("ack decode error", "error", err)
				continue
			}
			s.logger.Debug("ack", "display_id", ack.DisplayID, "seq", ack.Seq)

		case protocol.FrameControl:
			s.handleControl(frame.Payload)

		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(frame.Payload)
			if err != nil {
				s.logger.Error("error frame decode error", "error", err)
				continue
			}
			s.logger.Error("sink rejected frame",
				"code", em.Code.String(), "message", em.Message, "fatal", em.Fatal)
			if em.Fatal {
				s.Close()
				return
			}

		default:
			s.logger.Warn("unexpected frame from sink", "type", frame.Type.String())
		}
	}
}

func (s *WebSocketSink) handleControl(payload []byte) {
	cm, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Error("control decode error", "error", err)
		return
	}

	switch cm.Type {
	case protocol.ControlPing:
		pong := protocol.EncodeControl(&protocol.ControlMessage{
			Type: protocol.ControlPong,
			Time: cm.Time,
		})
		s.writeFrame(context.Background(), protocol.NewFrame(protocol.FrameControl, pong))

	case protocol.ControlClose:
		s.logger.Info("sink closing", "reason", cm.Reason)
		s.Close()
	}
}

// Close sends a close notice (best effort) and tears down the
// connection. Safe to call multiple times.
func (s *WebSocketSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked("client closing")
	return nil
}

func (s *WebSocketSink) closeLocked(reason string) {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	notice := protocol.EncodeControl(&protocol.ControlMessage{
		Type:   protocol.ControlClose,
		Reason: reason,
	})
	s.conn.SetWriteDeadline(time.Now().Add(time.Second))
	s.conn.WriteMessage(websocket.BinaryMessage,
		protocol.NewFrame(protocol.FrameControl, notice).Encode())
	s.conn.Close()
}

// Done is closed when the connection is torn down.
func (s *WebSocketSink) Done() <-chan struct{} {
	return s.done
}
