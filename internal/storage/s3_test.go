package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	buckets []string
	pages   [][]string

	listErr   error
	deleteErr error

	deleteCalls  [][]string
	created      []*s3.CreateBucketInput
	lastWebsite  *s3.PutBucketWebsiteInput
	lastPolicy   *s3.PutBucketPolicyInput
	lastPut      *s3.PutObjectInput
	listPageIdx  int
	listedBucket string
}

func (f *fakeS3) ListBuckets(ctx context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListBucketsOutput{}
	for _, name := range f.buckets {
		out.Buckets = append(out.Buckets, types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.listedBucket = aws.ToString(in.Bucket)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if f.listPageIdx < len(f.pages) {
		for _, k := range f.pages[f.listPageIdx] {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
		f.listPageIdx++
		if f.listPageIdx < len(f.pages) {
			out.IsTruncated = aws.Bool(true)
			out.NextContinuationToken = aws.String("next")
		}
	}
	return out, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	var keys []string
	for _, o := range in.Delete.Objects {
		keys = append(keys, aws.ToString(o.Key))
	}
	f.deleteCalls = append(f.deleteCalls, keys)
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = append(f.created, in)
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) PutBucketWebsite(ctx context.Context, in *s3.PutBucketWebsiteInput, _ ...func(*s3.Options)) (*s3.PutBucketWebsiteOutput, error) {
	f.lastWebsite = in
	return &s3.PutBucketWebsiteOutput{}, nil
}

func (f *fakeS3) PutBucketPolicy(ctx context.Context, in *s3.PutBucketPolicyInput, _ ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error) {
	f.lastPolicy = in
	return &s3.PutBucketPolicyOutput{}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func TestListObjectsPaginates(t *testing.T) {
	f := &fakeS3{pages: [][]string{{"a.html", "b.css"}, {"c/d.js"}}}
	s := &S3Store{client: f}
	keys, err := s.ListObjects(context.Background(), "site")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	want := []string{"a.html", "b.css", "c/d.js"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v; want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q; want %q", i, keys[i], want[i])
		}
	}
	if f.listedBucket != "site" {
		t.Fatalf("listed bucket %q", f.listedBucket)
	}
}

func TestDeleteObjectsChunks(t *testing.T) {
	keys := make([]string, maxDeleteBatch+5)
	for i := range keys {
		keys[i] = "k"
	}
	f := &fakeS3{}
	s := &S3Store{client: f}
	if err := s.DeleteObjects(context.Background(), "site", keys); err != nil {
		t.Fatalf("DeleteObjects: %v", err)
	}
	if len(f.deleteCalls) != 2 {
		t.Fatalf("delete calls = %d; want 2", len(f.deleteCalls))
	}
	if len(f.deleteCalls[0]) != maxDeleteBatch || len(f.deleteCalls[1]) != 5 {
		t.Fatalf("chunk sizes = %d, %d", len(f.deleteCalls[0]), len(f.deleteCalls[1]))
	}
}

func TestStoreErrorWrapsProviderError(t *testing.T) {
	cause := errors.New("boom")
	f := &fakeS3{listErr: cause}
	s := &S3Store{client: f}
	_, err := s.ListObjects(context.Background(), "site")
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("want StoreError, got %T: %v", err, err)
	}
	if se.Op != "ListObjects" || se.Bucket != "site" {
		t.Fatalf("StoreError = %+v", se)
	}
	if !errors.Is(err, cause) {
		t.Fatal("StoreError should unwrap to the provider error")
	}
}

func TestCreateBucketRegionConstraint(t *testing.T) {
	f := &fakeS3{}
	s := &S3Store{client: f, region: "eu-west-1"}
	if err := s.CreateBucket(context.Background(), "site"); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	in := f.created[0]
	if in.CreateBucketConfiguration == nil || in.CreateBucketConfiguration.LocationConstraint != "eu-west-1" {
		t.Fatalf("missing location constraint: %+v", in.CreateBucketConfiguration)
	}

	f2 := &fakeS3{}
	s2 := &S3Store{client: f2, region: "us-east-1"}
	if err := s2.CreateBucket(context.Background(), "site"); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	if f2.created[0].CreateBucketConfiguration != nil {
		t.Fatal("us-east-1 must not send a location constraint")
	}
}

func TestPutObjectSetsContentType(t *testing.T) {
	f := &fakeS3{}
	s := &S3Store{client: f}
	err := s.PutObject(context.Background(), "site", "css/app.css", []byte("body{}"), "text/css")
	if err != nil {
		t.Fatalf("PutObject: %v", err)
	}
	if aws.ToString(f.lastPut.Key) != "css/app.css" {
		t.Fatalf("key %q", aws.ToString(f.lastPut.Key))
	}
	if aws.ToString(f.lastPut.ContentType) != "text/css" {
		t.Fatalf("content type %q", aws.ToString(f.lastPut.ContentType))
	}
}
