package record

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestDiskRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r, err := NewDiskRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	frames := [][]byte{
		[]byte("frame-one"),
		[]byte("frame-two"),
		{},
		[]byte("frame-three"),
	}
	for _, f := range frames {
		if err := r.Record(ctx, "d-1", f); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSegment(filepath.Join(dir, "d-1.ldrec"))
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	if len(got) != len(frames) {
		t.Fatalf("frame count: got %d, want %d", len(got), len(frames))
	}
	for i := range frames {
		if !bytes.Equal(got[i], frames[i]) {
			t.Errorf("frame %d: got %q, want %q", i, got[i], frames[i])
		}
	}
}

func TestDiskRecorderSeparatesDisplays(t *testing.T) {
	dir := t.TempDir()
	r, err := NewDiskRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	ctx := context.Background()

	r.Record(ctx, "a", []byte("for-a"))
	r.Record(ctx, "b", []byte("for-b"))
	r.Close()

	gotA, err := ReadSegment(filepath.Join(dir, "a.ldrec"))
	if err != nil {
		t.Fatal(err)
	}
	if len(gotA) != 1 || string(gotA[0]) != "for-a" {
		t.Errorf("display a: got %q", gotA)
	}
}

func TestDiskRecorderClosed(t *testing.T) {
	r, err := NewDiskRecorder(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r.Close()

	if err := r.Record(context.Background(), "d-1", []byte("x")); !errors.Is(err, ErrRecorderClosed) {
		t.Errorf("Record after close: got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestReadSegmentCorrupt(t *testing.T) {
	dir := t.TempDir()
	r, err := NewDiskRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}
	r.Record(context.Background(), "d-1", []byte("frame"))
	r.Close()

	path := filepath.Join(dir, "d-1.ldrec")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := readSegmentFrom(bytes.NewReader(data[:len(data)-2])); err == nil {
		t.Error("truncated segment should fail to parse")
	}
}

// fakeS3 collects uploaded objects.
type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[*params.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3RecorderRollsSegments(t *testing.T) {
	client := &fakeS3{}
	r := NewS3Recorder(client, "bucket", WithSegmentSize(16))
	ctx := context.Background()

	// 4-byte prefix + 16 bytes crosses the 16-byte threshold immediately.
	if err := r.Record(ctx, "d-1", bytes.Repeat([]byte("x"), 16)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(client.objects) != 1 {
		t.Fatalf("segments uploaded: got %d, want 1", len(client.objects))
	}
	for key, body := range client.objects {
		if !bytes.HasPrefix([]byte(key), []byte("displays/d-1/")) {
			t.Errorf("segment key %q lacks display prefix", key)
		}
		frames, err := readSegmentFrom(bytes.NewReader(body))
		if err != nil {
			t.Fatalf("parse segment: %v", err)
		}
		if len(frames) != 1 || len(frames[0]) != 16 {
			t.Errorf("segment content: got %d frames", len(frames))
		}
	}
}

func TestS3RecorderFlushOnClose(t *testing.T) {
	client := &fakeS3{}
	r := NewS3Recorder(client, "bucket")
	ctx := context.Background()

	r.Record(ctx, "d-1", []byte("small"))
	if len(client.objects) != 0 {
		t.Fatal("small frame uploaded before close")
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if len(client.objects) != 1 {
		t.Errorf("segments after close: got %d, want 1", len(client.objects))
	}

	if err := r.Record(ctx, "d-1", []byte("x")); !errors.Is(err, ErrRecorderClosed) {
		t.Errorf("Record after close: got %v", err)
	}
}

func TestS3RecorderKeyPrefixOption(t *testing.T) {
	client := &fakeS3{}
	r := NewS3Recorder(client, "bucket", WithKeyPrefix("archive/"), WithSegmentSize(1))
	r.Record(context.Background(), "d-1", []byte("x"))

	for key := range client.objects {
		if !bytes.HasPrefix([]byte(key), []byte("archive/d-1/")) {
			t.Errorf("key %q lacks custom prefix", key)
		}
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	if err := r.Record(context.Background(), "d-1", []byte("x")); err != nil {
		t.Errorf("NopRecorder.Record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("NopRecorder.Close: %v", err)
	}
}
