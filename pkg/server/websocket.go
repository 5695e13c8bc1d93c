package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livedom-dev/livedom/pkg/protocol"
)

// conn is one producer websocket connection. All frames on a
// connection are applied in arrival order; acks carry the applied
// sequence number back.
type conn struct {
	server *Server
	ws     *websocket.Conn

	// displays created on this connection, removed from the registry
	// when it closes without a snapshot store to resume from.
	owned map[string]struct{}

	mu     sync.Mutex
	closed atomic.Bool
	done   chan struct{}
}

func newConn(s *Server, ws *websocket.Conn) *conn {
	return &conn{
		server: s,
		ws:     ws,
		owned:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}
}

// start runs the read loop and heartbeat; it returns when the
// connection closes.
func (c *conn) start() {
	go c.heartbeatLoop()
	c.readLoop()
}

// readLoop processes frames until the connection closes.
func (c *conn) readLoop() {
	defer c.teardown()

	c.ws.SetReadLimit(c.server.config.MaxMessageSize)

	for {
		c.ws.SetReadDeadline(time.Now().Add(c.server.config.ReadTimeout))

		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if !c.closed.Load() && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.server.logger.Error("read error", "error", err)
			}
			return
		}

		c.server.metrics.bytesReceived.Add(float64(len(msg)))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			c.server.logger.Error("frame decode error", "error", err)
			c.server.metrics.frameErrors.WithLabelValues("decode").Inc()
			c.sendError(protocol.ErrInvalidFrame, "malformed frame", false)
			continue
		}

		c.server.metrics.framesTotal.WithLabelValues(frame.Type.String()).Inc()

		switch frame.Type {
		case protocol.FrameCreate:
			c.handleDocument(frame, true)

		case protocol.FrameReplace:
			c.handleDocument(frame, false)

		case protocol.FramePatches:
			c.handlePatches(frame)

		case protocol.FrameControl:
			c.handleControl(frame.Payload)

		default:
			c.server.logger.Warn("unexpected frame type", "type", frame.Type.String())
			c.server.metrics.frameErrors.WithLabelValues("unexpected_type").Inc()
		}
	}
}

// handleDocument processes a Create or Replace frame.
func (c *conn) handleDocument(frame *protocol.Frame, create bool) {
	df, err := protocol.DecodeDocument(frame.Payload)
	if err != nil {
		c.server.metrics.frameErrors.WithLabelValues("decode").Inc()
		c.sendError(protocol.ErrInvalidFrame, "malformed document frame", false)
		return
	}

	ctx := context.Background()
	if create {
		if max := c.server.config.MaxDisplays; max > 0 && len(c.owned) >= max {
			c.sendError(protocol.ErrRateLimited, "display limit reached", false)
			return
		}
		err = c.server.registry.Create(ctx, df.DisplayID, df.Seq, df.Document)
	} else {
		err = c.server.registry.Replace(ctx, df.DisplayID, df.Seq, df.Document)
	}

	if err != nil {
		c.rejectRegistryError(df.DisplayID, err)
		return
	}

	if create {
		c.owned[df.DisplayID] = struct{}{}
		c.server.metrics.activeDisplays.Set(float64(c.server.registry.Count()))
		c.server.logger.Info("display created", "display_id", df.DisplayID)
	}

	c.record(frame)
	c.sendAck(df.DisplayID, df.Seq)
}

// handlePatches processes a Patches frame.
func (c *conn) handlePatches(frame *protocol.Frame) {
	pf, err := protocol.DecodePatches(frame.Payload)
	if err != nil {
		c.server.metrics.frameErrors.WithLabelValues("decode").Inc()
		c.sendError(protocol.ErrInvalidFrame, "malformed patches frame", false)
		return
	}

	if err := c.server.registry.ApplyPatches(context.Background(), pf.DisplayID, pf.Seq, pf.Patches); err != nil {
		c.rejectRegistryError(pf.DisplayID, err)
		return
	}

	c.server.metrics.patchesApplied.Add(float64(len(pf.Patches)))
	c.record(frame)
	c.sendAck(pf.DisplayID, pf.Seq)
}

// rejectRegistryError maps registry errors onto protocol error frames.
func (c *conn) rejectRegistryError(id string, err error) {
	c.server.logger.Warn("frame rejected", "display_id", id, "error", err)

	switch {
	case errors.Is(err, ErrDisplayExists):
		c.server.metrics.frameErrors.WithLabelValues("display_exists").Inc()
		c.sendError(protocol.ErrDisplayExists, err.Error(), false)
	case errors.Is(err, ErrDisplayUnknown):
		c.server.metrics.frameErrors.WithLabelValues("display_unknown").Inc()
		c.sendError(protocol.ErrDisplayUnknown, err.Error(), false)
	default:
		c.server.metrics.frameErrors.WithLabelValues("patch_apply").Inc()
		c.sendError(protocol.ErrInvalidPatch, err.Error(), false)
	}
}

// handleControl answers pings and honors close notices.
func (c *conn) handleControl(payload []byte) {
	cm, err := protocol.DecodeControl(payload)
	if err != nil {
		c.server.logger.Error("control decode error", "error", err)
		return
	}

	switch cm.Type {
	case protocol.ControlPing:
		c.writeFrame(protocol.NewFrame(protocol.FrameControl,
			protocol.EncodeControl(&protocol.ControlMessage{
				Type: protocol.ControlPong,
				Time: cm.Time,
			})))

	case protocol.ControlPong:
		c.server.logger.Debug("pong received")

	case protocol.ControlClose:
		c.server.logger.Info("producer closing", "reason", cm.Reason)
		c.close("")
	}
}

// heartbeatLoop pings the producer until the connection closes.
func (c *conn) heartbeatLoop() {
	ticker := time.NewTicker(c.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := c.writeFrame(protocol.NewFrame(protocol.FrameControl,
				protocol.EncodeControl(&protocol.ControlMessage{
					Type: protocol.ControlPing,
					Time: time.Now().UnixMilli(),
				})))
			if err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// record archives the raw frame, best effort.
func (c *conn) record(frame *protocol.Frame) {
	var id string
	switch frame.Type {
	case protocol.FrameCreate, protocol.FrameReplace:
		if df, err := protocol.DecodeDocument(frame.Payload); err == nil {
			id = df.DisplayID
		}
	case protocol.FramePatches:
		if pf, err := protocol.DecodePatches(frame.Payload); err == nil {
			id = pf.DisplayID
		}
	}
	if id == "" {
		return
	}
	if err := c.server.recorder.Record(context.Background(), id, frame.Encode()); err != nil {
		c.server.logger.Error("record failed", "display_id", id, "error", err)
	}
}

func (c *conn) sendAck(id string, seq uint64) {
	c.writeFrame(protocol.NewFrame(protocol.FrameAck,
		protocol.EncodeAck(&protocol.Ack{DisplayID: id, Seq: seq})))
}

func (c *conn) sendError(code protocol.ErrorCode, message string, fatal bool) {
	c.writeFrame(protocol.NewFrame(protocol.FrameError,
		protocol.EncodeErrorMessage(&protocol.ErrorMessage{
			Code:    code,
			Message: message,
			Fatal:   fatal,
		})))
	if fatal {
		c.close("")
	}
}

func (c *conn) writeFrame(f *protocol.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return errors.New("server: connection closed")
	}

	c.ws.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout))
	if err := c.ws.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		c.server.logger.Error("write error", "error", err)
		c.closeLocked()
		return err
	}
	return nil
}

// close sends an optional close notice and tears the connection down.
func (c *conn) close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return
	}
	if reason != "" {
		c.ws.SetWriteDeadline(time.Now().Add(time.Second))
		c.ws.WriteMessage(websocket.BinaryMessage,
			protocol.NewFrame(protocol.FrameControl,
				protocol.EncodeControl(&protocol.ControlMessage{
					Type:   protocol.ControlClose,
					Reason: reason,
				})).Encode())
	}
	c.closeLocked()
}

// closeLocked marks the connection closed. Caller holds the lock.
func (c *conn) closeLocked() {
	if c.closed.Swap(true) {
		return
	}
	close(c.done)
	c.ws.Close()
}

// teardown runs when the read loop exits.
func (c *conn) teardown() {
	c.close("")
	c.server.removeConn(c)

	// Without a snapshot store, this connection's displays cannot be
	// resumed; drop them. With one, they stay restorable.
	if c.server.registry.snapshots == nil {
		for id := range c.owned {
			c.server.registry.Remove(context.Background(), id)
		}
	}
	c.server.metrics.activeDisplays.Set(float64(c.server.registry.Count()))

	c.server.logger.Info("producer disconnected", "displays", len(c.owned))
}
