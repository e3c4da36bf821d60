// Package upload walks a local build tree and writes every regular file to a
// bucket through a bounded worker pool, collecting per-file failures.
package upload

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fishy/errbatch"
	"go.uber.org/zap"

	"github.com/yourorg/site-deploy/internal/metrics"
	"github.com/yourorg/site-deploy/internal/storage"
)

// DefaultConcurrency bounds in-flight uploads when no limit is configured.
const DefaultConcurrency = 8

// FileError is a single file's failure during traversal or upload.
type FileError struct {
	Path string
	Key  string
	Err  error
}

func (e *FileError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("upload %s as %s: %v", e.Path, e.Key, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Result counts what the pipeline accomplished.
type Result struct {
	Files  int
	Bytes  int64
	Failed int
}

type Pipeline struct {
	store       storage.ObjectStore
	log         *zap.Logger
	concurrency int
}

func NewPipeline(store storage.ObjectStore, log *zap.Logger, concurrency int) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Pipeline{store: store, log: log, concurrency: concurrency}
}

// Upload sends every regular file under root to the bucket. All files are
// attempted; failures are collected and returned as one aggregate error, so a
// non-nil error still means every other file was tried. Cancelling the
// context stops new uploads and the walk; in-flight puts see the same context.
func (p *Pipeline) Upload(ctx context.Context, root, bucket string) (Result, error) {
	tasks := make(chan Task)

	batch := new(errbatch.ErrBatch)
	var mu sync.Mutex
	collect := func(fe *FileError) {
		metrics.UploadFailures.Inc()
		p.log.Warn("file failed", zap.String("path", fe.Path), zap.String("key", fe.Key), zap.Error(fe.Err))
		mu.Lock()
		batch.Add(fe)
		mu.Unlock()
	}

	var files, bytes int64
	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				body, err := os.ReadFile(t.LocalPath)
				if err != nil {
					collect(&FileError{Path: t.LocalPath, Key: t.Key, Err: err})
					continue
				}
				if err := p.store.PutObject(ctx, bucket, t.Key, body, t.ContentType); err != nil {
					collect(&FileError{Path: t.LocalPath, Key: t.Key, Err: err})
					continue
				}
				atomic.AddInt64(&files, 1)
				atomic.AddInt64(&bytes, int64(len(body)))
				metrics.FilesUploaded.Inc()
				metrics.BytesUploaded.Add(float64(len(body)))
				p.log.Debug("uploaded", zap.String("key", t.Key), zap.String("contentType", t.ContentType), zap.Int("bytes", len(body)))
			}
		}()
	}

	Walk(root, func(t Task) bool {
		select {
		case tasks <- t:
			return true
		case <-ctx.Done():
			return false
		}
	}, collect)
	close(tasks)
	wg.Wait()

	mu.Lock()
	batch.Add(ctx.Err())
	failed := len(batch.GetErrors())
	err := batch.Compile()
	mu.Unlock()

	return Result{Files: int(files), Bytes: bytes, Failed: failed}, err
}
