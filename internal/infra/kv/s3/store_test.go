package s3

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv/kvtest"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(bytes.Clone(data)))}, nil
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.objects[aws.ToString(in.Key)] = data
	b.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (b *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	b.mu.Lock()
	delete(b.objects, aws.ToString(in.Key))
	b.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func TestStore(t *testing.T) {
	bucket := &fakeBucket{objects: make(map[string][]byte)}
	s, err := New(bucket, "clinic", "zentherapy/")
	if err != nil {
		t.Fatal(err)
	}
	kvtest.Run(t, s)

	if _, ok := bucket.objects["zentherapy/seeded.json"]; !ok {
		t.Errorf("object keys = %v, want prefixed .json keys", bucket.objects)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(&fakeBucket{}, "", ""); err == nil {
		t.Error("New() with no bucket: error = nil")
	}
}
