package record

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the recorder uses. *s3.Client
// satisfies it.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// DefaultSegmentSize is the buffered byte threshold that triggers a
// segment upload.
const DefaultSegmentSize = 1 << 20

// S3Recorder buffers frames per display and uploads rolled segments to
// an S3 bucket. Segment objects use the same length-prefixed framing as
// DiskRecorder, under keys of the form
// <prefix><display-id>/<unix-nanos>-<n>.ldrec.
type S3Recorder struct {
	client      S3API
	bucket      string
	prefix      string
	segmentSize int

	mu     sync.Mutex
	bufs   map[string]*s3Buffer
	closed bool
}

type s3Buffer struct {
	buf      bytes.Buffer
	segments int
}

// S3Option configures an S3Recorder.
type S3Option func(*S3Recorder)

// WithSegmentSize sets the segment roll threshold in bytes.
func WithSegmentSize(n int) S3Option {
	return func(r *S3Recorder) {
		r.segmentSize = n
	}
}

// WithKeyPrefix sets the object key prefix. Default: "displays/".
func WithKeyPrefix(prefix string) S3Option {
	return func(r *S3Recorder) {
		r.prefix = prefix
	}
}

// NewS3Recorder creates a recorder uploading to the given bucket.
//
// The client typically comes from aws-sdk-go-v2:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	rec := record.NewS3Recorder(s3.NewFromConfig(cfg), "my-bucket")
func NewS3Recorder(client S3API, bucket string, opts ...S3Option) *S3Recorder {
	r := &S3Recorder{
		client:      client,
		bucket:      bucket,
		prefix:      "displays/",
		segmentSize: DefaultSegmentSize,
		bufs:        make(map[string]*s3Buffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record buffers one frame, uploading the display's segment when the
// buffer crosses the roll threshold.
func (r *S3Recorder) Record(ctx context.Context, id string, frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}

	b, ok := r.bufs[id]
	if !ok {
		b = &s3Buffer{}
		r.bufs[id] = b
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(frame)))
	b.buf.Write(length[:])
	b.buf.Write(frame)

	if b.buf.Len() >= r.segmentSize {
		return r.flush(ctx, id, b)
	}
	return nil
}

// Flush uploads any buffered frames for all displays.
func (r *S3Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}
	return r.flushAll(ctx)
}

// Close uploads remaining buffers and marks the recorder closed.
func (r *S3Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	err := r.flushAll(context.Background())
	r.closed = true
	r.bufs = nil
	return err
}

func (r *S3Recorder) flushAll(ctx context.Context) error {
	var firstErr error
	for id, b := range r.bufs {
		if b.buf.Len() == 0 {
			continue
		}
		if err := r.flush(ctx, id, b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// flush uploads one display's buffered segment. Caller holds the lock.
func (r *S3Recorder) flush(ctx context.Context, id string, b *s3Buffer) error {
	key := fmt.Sprintf("%s%s/%d-%d.ldrec", r.prefix, id, time.Now().UnixNano(), b.segments)

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b.buf.Bytes()),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("record: segment upload failed: %w", err)
	}

	b.buf.Reset()
	b.segments++
	return nil
}
