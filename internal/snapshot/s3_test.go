package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"ft-go/internal/config"
)

// fakeBucket implements both s3Getter and s3Uploader over a map.
type fakeBucket struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (b *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if b.err != nil {
		return nil, b.err
	}
	data, ok := b.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *fakeBucket) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if b.err != nil {
		return nil, b.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	b.objects[key] = data
	b.types[key] = aws.ToString(in.ContentType)
	return &manager.UploadOutput{Key: in.Key}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	s := newS3Store(bucket, bucket, "ft-snapshots", "user-1")

	data, err := s.Get(ctx, "flights")
	if err != nil || data != nil {
		t.Fatalf("Get() on missing object = %q, %v; want nil, nil", data, err)
	}

	if err := s.Put(ctx, "flights", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	const objectKey = "ft-snapshots/user-1/flights.json"
	if _, ok := bucket.objects[objectKey]; !ok {
		t.Fatalf("object not stored at %s", objectKey)
	}
	if ct := bucket.types[objectKey]; ct != "application/json" {
		t.Errorf("ContentType = %q, want application/json", ct)
	}

	data, err = s.Get(ctx, "flights")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != `[{"id":"1"}]` {
		t.Errorf("Get() = %q", data)
	}
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	bucket.err = errors.New("access denied")
	s := newS3Store(bucket, bucket, "b", "")

	if _, err := s.Get(ctx, "flights"); err == nil {
		t.Error("Get() expected error")
	}
	if err := s.Put(ctx, "flights", []byte(`[]`)); err == nil {
		t.Error("Put() expected error")
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), config.SnapshotConfig{Type: "s3"}); err == nil {
		t.Error("NewS3Store() expected error without s3_bucket")
	}
}
