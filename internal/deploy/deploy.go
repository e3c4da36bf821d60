// Package deploy validates a deployment target and drives bucket
// reconciliation followed by the upload pipeline.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yourorg/site-deploy/internal/bucket"
	"github.com/yourorg/site-deploy/internal/metrics"
	"github.com/yourorg/site-deploy/internal/storage"
	"github.com/yourorg/site-deploy/internal/upload"
)

var (
	// ErrMissingBuildOutput means the local build directory does not exist.
	ErrMissingBuildOutput = errors.New("deploy: build output directory not found")
	// ErrMissingConfiguration means no target bucket was configured.
	ErrMissingConfiguration = errors.New("deploy: bucket name not configured")
)

// Target identifies one deployment: the bucket to publish to and the local
// directory holding the built site. Immutable once validated.
type Target struct {
	Bucket  string
	SiteDir string
}

// Result reports what a completed run did.
type Result struct {
	Existed bool
	Drained int
	Files   int
	Bytes   int64
	Failed  int
}

type Options struct {
	IndexDoc    string
	ErrorDoc    string
	Concurrency int
}

type Deployment struct {
	reconciler *bucket.Reconciler
	pipeline   *upload.Pipeline
	log        *zap.Logger
}

func New(store storage.ObjectStore, log *zap.Logger, opts Options) *Deployment {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.IndexDoc == "" {
		opts.IndexDoc = "index.html"
	}
	if opts.ErrorDoc == "" {
		opts.ErrorDoc = "error.html"
	}
	return &Deployment{
		reconciler: bucket.NewReconciler(store, log, opts.IndexDoc, opts.ErrorDoc),
		pipeline:   upload.NewPipeline(store, log, opts.Concurrency),
		log:        log,
	}
}

// ValidateTarget checks a target before any remote call is made.
func ValidateTarget(t Target) error {
	if t.Bucket == "" {
		return ErrMissingConfiguration
	}
	st, err := os.Stat(t.SiteDir)
	if err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingBuildOutput, t.SiteDir)
	}
	return nil
}

// Validate checks the deployment's target without touching the store.
func (d *Deployment) Validate(t Target) error { return ValidateTarget(t) }

// Run validates the target, reconciles the bucket, and uploads the site.
// A failure from either stage aborts the run and is surfaced unchanged.
func (d *Deployment) Run(ctx context.Context, t Target) (Result, error) {
	if err := d.Validate(t); err != nil {
		return Result{}, err
	}
	metrics.DeploymentsRun.Inc()

	d.log.Info("reconciling bucket", zap.String("bucket", t.Bucket))
	rec, err := d.reconciler.Reconcile(ctx, t.Bucket)
	if err != nil {
		return Result{}, err
	}

	d.log.Info("uploading site", zap.String("dir", t.SiteDir), zap.String("bucket", t.Bucket))
	up, err := d.pipeline.Upload(ctx, t.SiteDir, t.Bucket)
	res := Result{Existed: rec.Existed, Drained: rec.Drained, Files: up.Files, Bytes: up.Bytes, Failed: up.Failed}
	if err != nil {
		return res, err
	}

	d.log.Info("deployment complete",
		zap.String("bucket", t.Bucket),
		zap.Int("files", up.Files),
		zap.Int64("bytes", up.Bytes))
	return res, nil
}
