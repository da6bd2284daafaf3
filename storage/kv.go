package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the key-value bucket used by KVBackend.
const DefaultBucket = "DHC_DESIGNS"

// KVBackend stores objects in a JetStream key-value bucket. Keys keep the
// slash-separated layout, which NATS accepts as key characters.
type KVBackend struct {
	kv jetstream.KeyValue
}

// NewKVBackend opens the bucket, creating it when it does not exist.
func NewKVBackend(ctx context.Context, js jetstream.JetStream, bucket string) (*KVBackend, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucket, err)
	}
	return &KVBackend{kv: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "DigitalHome.Cloud design artifacts",
		History:     5, // Keep last 5 revisions
	})
}

// Name implements Backend.
func (b *KVBackend) Name() string { return "kv" }

// Put implements Backend. KV entries carry no content type.
func (b *KVBackend) Put(ctx context.Context, key string, data []byte, _ string) error {
	if _, err := b.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Get implements Backend.
func (b *KVBackend) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := b.kv.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value(), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}
