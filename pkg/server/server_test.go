package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livedom-dev/livedom/pkg/protocol"
	"github.com/livedom-dev/livedom/pkg/record"
	"github.com/livedom-dev/livedom/pkg/store"
	"github.com/livedom-dev/livedom/pkg/vdom"
)

func mustDocJSON(t *testing.T, e *vdom.Element) []byte {
	t.Helper()
	data, err := vdom.Serialize(e).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	return data
}

func mustParse(t *testing.T, data []byte) *vdom.Element {
	t.Helper()
	node, err := vdom.ParseNode(data)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return node.Element()
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry(nil, 0)
	ctx := context.Background()
	doc := mustDocJSON(t, vdom.Div(vdom.Text("hello")))

	if err := r.Create(ctx, "d1", 1, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := r.Create(ctx, "d1", 1, doc); !errors.Is(err, ErrDisplayExists) {
		t.Errorf("duplicate Create() error = %v, want ErrDisplayExists", err)
	}
	if got := r.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
	if got := r.Seq("d1"); got != 1 {
		t.Errorf("Seq() = %d, want 1", got)
	}
}

func TestRegistryCreateRejectsInvalidDocument(t *testing.T) {
	r := NewRegistry(nil, 0)

	if err := r.Create(context.Background(), "d1", 1, []byte("{not json")); err == nil {
		t.Fatal("Create() with invalid document succeeded")
	}
	if r.Count() != 0 {
		t.Error("invalid document was registered")
	}
}

func TestRegistryReplaceUnknown(t *testing.T) {
	r := NewRegistry(nil, 0)
	doc := mustDocJSON(t, vdom.Div())

	err := r.Replace(context.Background(), "missing", 1, doc)
	if !errors.Is(err, ErrDisplayUnknown) {
		t.Errorf("Replace() error = %v, want ErrDisplayUnknown", err)
	}
}

func TestRegistryApplyPatches(t *testing.T) {
	r := NewRegistry(nil, 0)
	ctx := context.Background()

	old := vdom.Div(vdom.Span(vdom.Text("loading")))
	next := vdom.Div(vdom.Span(vdom.Text("done")))

	if err := r.Create(ctx, "d1", 1, mustDocJSON(t, old)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := r.ApplyPatches(ctx, "d1", 2, vdom.Diff(old, next)); err != nil {
		t.Fatalf("ApplyPatches() error = %v", err)
	}

	docJSON, ok := r.Document(ctx, "d1")
	if !ok {
		t.Fatal("Document() not found after patch")
	}
	if got := mustParse(t, docJSON); !vdom.Equivalent(got, next) {
		t.Errorf("patched document = %s, want %s", docJSON, mustDocJSON(t, next))
	}
	if got := r.Seq("d1"); got != 2 {
		t.Errorf("Seq() = %d, want 2", got)
	}
}

func TestRegistryApplyPatchesUnknown(t *testing.T) {
	r := NewRegistry(nil, 0)

	err := r.ApplyPatches(context.Background(), "missing", 1, nil)
	if !errors.Is(err, ErrDisplayUnknown) {
		t.Errorf("ApplyPatches() error = %v, want ErrDisplayUnknown", err)
	}
}

func TestRegistrySnapshotRestore(t *testing.T) {
	snapshots := store.NewMemoryStore()
	defer snapshots.Close()
	ctx := context.Background()

	doc := vdom.Div(vdom.H1(vdom.Text("report")))

	first := NewRegistry(snapshots, time.Hour)
	if err := first.Create(ctx, "d1", 1, mustDocJSON(t, doc)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A fresh registry sharing the store stands in for a restarted server.
	second := NewRegistry(snapshots, time.Hour)
	docJSON, ok := second.Document(ctx, "d1")
	if !ok {
		t.Fatal("Document() did not restore from snapshot")
	}
	if got := mustParse(t, docJSON); !vdom.Equivalent(got, doc) {
		t.Errorf("restored document = %s", docJSON)
	}
}

func TestRegistryRemoveDeletesSnapshot(t *testing.T) {
	snapshots := store.NewMemoryStore()
	defer snapshots.Close()
	ctx := context.Background()

	r := NewRegistry(snapshots, time.Hour)
	if err := r.Create(ctx, "d1", 1, mustDocJSON(t, vdom.Div())); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	r.Remove(ctx, "d1")

	if _, ok := r.Document(ctx, "d1"); ok {
		t.Error("Document() found display after Remove()")
	}
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(&Config{
		HeartbeatInterval: time.Minute,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
	}, opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func sendFrame(t *testing.T, ws *websocket.Conn, f *protocol.Frame) {
	t.Helper()
	if err := ws.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func readFrame(t *testing.T, ws *websocket.Conn) *protocol.Frame {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func readAck(t *testing.T, ws *websocket.Conn) *protocol.Ack {
	t.Helper()
	f := readFrame(t, ws)
	if f.Type != protocol.FrameAck {
		t.Fatalf("frame type = %s, want ack", f.Type)
	}
	ack, err := protocol.DecodeAck(f.Payload)
	if err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	return ack
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status   string `json:"status"`
		Displays int    `json:"displays"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestGetDisplayNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/displays/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

// captureRecorder collects recorded frames per display.
type captureRecorder struct {
	mu     sync.Mutex
	frames map[string][][]byte
}

func (r *captureRecorder) Record(ctx context.Context, id string, frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames == nil {
		r.frames = make(map[string][][]byte)
	}
	r.frames[id] = append(r.frames[id], append([]byte(nil), frame...))
	return nil
}

func (r *captureRecorder) Close() error { return nil }

func (r *captureRecorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames[id])
}

var _ record.Recorder = (*captureRecorder)(nil)

func TestWebSocketIngest(t *testing.T) {
	rec := &captureRecorder{}
	_, ts := newTestServer(t, WithRecorder(rec))
	ws := dialWS(t, ts)

	old := vdom.Div(vdom.Span(vdom.Text("0%")))
	next := vdom.Div(vdom.Span(vdom.Text("50%")))

	sendFrame(t, ws, protocol.NewFrame(protocol.FrameCreate,
		protocol.EncodeDocument(&protocol.DocumentFrame{
			DisplayID: "bar",
			Seq:       1,
			Document:  mustDocJSON(t, old),
		})))
	if ack := readAck(t, ws); ack.DisplayID != "bar" || ack.Seq != 1 {
		t.Fatalf("ack = %+v, want bar/1", ack)
	}

	payload, err := protocol.EncodePatches(&protocol.PatchesFrame{
		DisplayID: "bar",
		Seq:       2,
		Patches:   vdom.Diff(old, next),
	})
	if err != nil {
		t.Fatalf("encode patches: %v", err)
	}
	sendFrame(t, ws, protocol.NewFrame(protocol.FramePatches, payload))
	if ack := readAck(t, ws); ack.Seq != 2 {
		t.Fatalf("ack seq = %d, want 2", ack.Seq)
	}

	resp, err := http.Get(ts.URL + "/displays/bar")
	if err != nil {
		t.Fatalf("GET /displays/bar: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var doc json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if got := mustParse(t, doc); !vdom.Equivalent(got, next) {
		t.Errorf("document = %s, want %s", doc, mustDocJSON(t, next))
	}

	if got := rec.count("bar"); got != 2 {
		t.Errorf("recorded frames = %d, want 2", got)
	}
}

func TestWebSocketListDisplays(t *testing.T) {
	_, ts := newTestServer(t)
	ws := dialWS(t, ts)

	for _, id := range []string{"beta", "alpha"} {
		sendFrame(t, ws, protocol.NewFrame(protocol.FrameCreate,
			protocol.EncodeDocument(&protocol.DocumentFrame{
				DisplayID: id,
				Seq:       1,
				Document:  mustDocJSON(t, vdom.Div()),
			})))
		readAck(t, ws)
	}

	resp, err := http.Get(ts.URL + "/displays")
	if err != nil {
		t.Fatalf("GET /displays: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Displays []string `json:"displays"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Displays) != 2 || body.Displays[0] != "alpha" || body.Displays[1] != "beta" {
		t.Errorf("displays = %v, want [alpha beta]", body.Displays)
	}
}

func TestWebSocketDuplicateCreate(t *testing.T) {
	_, ts := newTestServer(t)
	ws := dialWS(t, ts)

	create := protocol.NewFrame(protocol.FrameCreate,
		protocol.EncodeDocument(&protocol.DocumentFrame{
			DisplayID: "dup",
			Seq:       1,
			Document:  mustDocJSON(t, vdom.Div()),
		}))
	sendFrame(t, ws, create)
	readAck(t, ws)

	sendFrame(t, ws, create)
	f := readFrame(t, ws)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %s, want error", f.Type)
	}
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	if em.Code != protocol.ErrDisplayExists {
		t.Errorf("error code = %s, want display_exists", em.Code)
	}
	if em.Fatal {
		t.Error("duplicate create was reported fatal")
	}
}

func TestWebSocketPatchesUnknownDisplay(t *testing.T) {
	_, ts := newTestServer(t)
	ws := dialWS(t, ts)

	payload, err := protocol.EncodePatches(&protocol.PatchesFrame{
		DisplayID: "ghost",
		Seq:       1,
	})
	if err != nil {
		t.Fatalf("encode patches: %v", err)
	}
	sendFrame(t, ws, protocol.NewFrame(protocol.FramePatches, payload))

	f := readFrame(t, ws)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %s, want error", f.Type)
	}
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	if em.Code != protocol.ErrDisplayUnknown {
		t.Errorf("error code = %s, want display_unknown", em.Code)
	}
}

func TestWebSocketMalformedFrame(t *testing.T) {
	_, ts := newTestServer(t)
	ws := dialWS(t, ts)

	if err := ws.WriteMessage(websocket.BinaryMessage, []byte{0xFF}); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := readFrame(t, ws)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %s, want error", f.Type)
	}
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	if em.Code != protocol.ErrInvalidFrame {
		t.Errorf("error code = %s, want invalid_frame", em.Code)
	}
}

func TestWebSocketPingPong(t *testing.T) {
	_, ts := newTestServer(t)
	ws := dialWS(t, ts)

	sent := time.Now().UnixMilli()
	sendFrame(t, ws, protocol.NewFrame(protocol.FrameControl,
		protocol.EncodeControl(&protocol.ControlMessage{
			Type: protocol.ControlPing,
			Time: sent,
		})))

	f := readFrame(t, ws)
	if f.Type != protocol.FrameControl {
		t.Fatalf("frame type = %s, want control", f.Type)
	}
	cm, err := protocol.DecodeControl(f.Payload)
	if err != nil {
		t.Fatalf("decode control: %v", err)
	}
	if cm.Type != protocol.ControlPong {
		t.Errorf("control type = %d, want pong", cm.Type)
	}
	if cm.Time != sent {
		t.Errorf("pong time = %d, want %d", cm.Time, sent)
	}
}

func TestWebSocketMaxDisplays(t *testing.T) {
	s := New(&Config{
		HeartbeatInterval: time.Minute,
		MaxDisplays:       1,
	})
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	ws := dialWS(t, ts)

	for i, id := range []string{"one", "two"} {
		sendFrame(t, ws, protocol.NewFrame(protocol.FrameCreate,
			protocol.EncodeDocument(&protocol.DocumentFrame{
				DisplayID: id,
				Seq:       1,
				Document:  mustDocJSON(t, vdom.Div()),
			})))
		f := readFrame(t, ws)
		if i == 0 {
			if f.Type != protocol.FrameAck {
				t.Fatalf("first create: frame type = %s, want ack", f.Type)
			}
			continue
		}
		if f.Type != protocol.FrameError {
			t.Fatalf("second create: frame type = %s, want error", f.Type)
		}
		em, err := protocol.DecodeErrorMessage(f.Payload)
		if err != nil {
			t.Fatalf("decode error message: %v", err)
		}
		if em.Code != protocol.ErrRateLimited {
			t.Errorf("error code = %s, want rate_limited", em.Code)
		}
	}
}

func TestDisplaysDropWithoutSnapshots(t *testing.T) {
	s, ts := newTestServer(t)
	ws := dialWS(t, ts)

	sendFrame(t, ws, protocol.NewFrame(protocol.FrameCreate,
		protocol.EncodeDocument(&protocol.DocumentFrame{
			DisplayID: "ephemeral",
			Seq:       1,
			Document:  mustDocJSON(t, vdom.Div()),
		})))
	readAck(t, ws)

	ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Registry().Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("display survived connection close without a snapshot store")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDisplaysSurviveWithSnapshots(t *testing.T) {
	snapshots := store.NewMemoryStore()
	s, ts := newTestServer(t, WithSnapshotStore(snapshots, time.Hour))
	ws := dialWS(t, ts)

	sendFrame(t, ws, protocol.NewFrame(protocol.FrameCreate,
		protocol.EncodeDocument(&protocol.DocumentFrame{
			DisplayID: "durable",
			Seq:       1,
			Document:  mustDocJSON(t, vdom.Div(vdom.Text("kept"))),
		})))
	readAck(t, ws)

	ws.Close()
	time.Sleep(50 * time.Millisecond)

	if _, ok := s.Registry().Document(context.Background(), "durable"); !ok {
		t.Error("display lost despite snapshot store")
	}
}
