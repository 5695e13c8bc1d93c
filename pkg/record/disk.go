package record

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DiskRecorder appends frames to one segment file per display under a
// directory. Each frame is written as a 4-byte big-endian length
// followed by the frame bytes, so segments can be replayed without
// knowing the protocol.
type DiskRecorder struct {
	dir string

	mu     sync.Mutex
	files  map[string]*os.File
	closed bool
}

// NewDiskRecorder creates a recorder writing under dir, creating it if
// needed.
func NewDiskRecorder(dir string) (*DiskRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskRecorder{
		dir:   dir,
		files: make(map[string]*os.File),
	}, nil
}

// Record appends one frame to the display's segment file.
func (r *DiskRecorder) Record(ctx context.Context, id string, frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}

	f, ok := r.files[id]
	if !ok {
		var err error
		f, err = os.OpenFile(r.segmentPath(id), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		r.files[id] = f
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(frame)))
	if _, err := f.Write(length[:]); err != nil {
		return err
	}
	_, err := f.Write(frame)
	return err
}

// Close closes all open segment files.
func (r *DiskRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for _, f := range r.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.files = nil
	return firstErr
}

func (r *DiskRecorder) segmentPath(id string) string {
	return filepath.Join(r.dir, id+".ldrec")
}

// ReadSegment reads all frames from a segment file, in recorded order.
func ReadSegment(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frames, err := readSegmentFrom(f)
	if err != nil {
		return nil, fmt.Errorf("record: corrupt segment %s: %w", path, err)
	}
	return frames, nil
}

func readSegmentFrom(r io.Reader) ([][]byte, error) {
	var frames [][]byte
	var length [4]byte
	for {
		if _, err := io.ReadFull(r, length[:]); err != nil {
			if err == io.EOF {
				return frames, nil
			}
			return nil, err
		}
		frame := make([]byte, binary.BigEndian.Uint32(length[:]))
		if _, err := io.ReadFull(r, frame); err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
}
