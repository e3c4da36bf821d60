package storage

import (
	"context"
	"fmt"
)

// ObjectStore defines the bucket and object operations a deployment needs.
// Implementations must be safe for concurrent use.
type ObjectStore interface {
	// ListBuckets returns the names of all buckets visible to the caller.
	ListBuckets(ctx context.Context) ([]string, error)
	// ListObjects returns every object key currently in the bucket.
	ListObjects(ctx context.Context, bucket string) ([]string, error)
	// DeleteObjects removes the given keys from the bucket in batches.
	DeleteObjects(ctx context.Context, bucket string, keys []string) error
	// CreateBucket creates the bucket in the configured region.
	CreateBucket(ctx context.Context, bucket string) error
	// PutBucketWebsite sets the bucket's static website configuration.
	PutBucketWebsite(ctx context.Context, bucket, indexDoc, errorDoc string) error
	// PutBucketPolicy sets the bucket's access policy document.
	PutBucketPolicy(ctx context.Context, bucket, policy string) error
	// PutObject writes one object with the given body and content type.
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// StoreError wraps a provider failure with the operation and bucket it hit.
type StoreError struct {
	Op     string
	Bucket string
	Err    error
}

func (e *StoreError) Error() string {
	if e.Bucket == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Bucket, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
