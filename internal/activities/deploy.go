package activities

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/yourorg/site-deploy/internal/bucket"
	"github.com/yourorg/site-deploy/internal/deploy"
	"github.com/yourorg/site-deploy/internal/journal"
	"github.com/yourorg/site-deploy/internal/storage"
	"github.com/yourorg/site-deploy/internal/types"
	"github.com/yourorg/site-deploy/internal/upload"
)

type Config struct {
	JournalDir string
}

type Activities struct {
	cfg   Config
	store storage.ObjectStore
	log   *zap.Logger
}

func New(store storage.ObjectStore, log *zap.Logger, cfg Config) *Activities {
	if log == nil {
		log = zap.NewNop()
	}
	return &Activities{cfg: cfg, store: store, log: log}
}

func withDefaults(p types.DeployParams) types.DeployParams {
	if p.IndexDoc == "" {
		p.IndexDoc = "index.html"
	}
	if p.ErrorDoc == "" {
		p.ErrorDoc = "error.html"
	}
	if p.Concurrency <= 0 {
		p.Concurrency = upload.DefaultConcurrency
	}
	return p
}

// ValidateTarget rejects a deployment before any remote call happens.
// Validation failures are configuration mistakes, so they are marked
// non-retryable.
func (a *Activities) ValidateTarget(ctx context.Context, p types.DeployParams) error {
	if err := deploy.ValidateTarget(deploy.Target{Bucket: p.Bucket, SiteDir: p.SiteDir}); err != nil {
		return temporal.NewNonRetryableApplicationError(err.Error(), "ValidationError", err)
	}
	return nil
}

func (a *Activities) ReconcileBucket(ctx context.Context, p types.DeployParams) (types.ReconcileResult, error) {
	p = withDefaults(p)
	r := bucket.NewReconciler(a.store, a.log, p.IndexDoc, p.ErrorDoc)
	res, err := r.Reconcile(ctx, p.Bucket)
	if err != nil {
		return types.ReconcileResult{}, err
	}
	return types.ReconcileResult{Existed: res.Existed, Drained: res.Drained}, nil
}

func (a *Activities) UploadSite(ctx context.Context, p types.DeployParams) (types.UploadResult, error) {
	p = withDefaults(p)
	pl := upload.NewPipeline(a.store, a.log, p.Concurrency)

	// The pipeline has no safe heartbeat points of its own, so heartbeat on a
	// timer while it runs.
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(10 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				activity.RecordHeartbeat(ctx, p.Bucket)
			}
		}
	}()
	res, err := pl.Upload(ctx, p.SiteDir, p.Bucket)
	close(done)
	if err != nil {
		return types.UploadResult{}, err
	}
	return types.UploadResult{Files: res.Files, Bytes: res.Bytes, Failed: res.Failed}, nil
}

// RecordRun persists the outcome in the local journal. Best-effort from the
// workflow's point of view; a journal failure never fails a deployment.
func (a *Activities) RecordRun(ctx context.Context, p types.RecordRunParams) error {
	j, err := journal.Open(a.cfg.JournalDir)
	if err != nil {
		a.log.Warn("journal open failed", zap.Error(err))
		return nil
	}
	defer j.Close()
	err = j.Record(journal.Run{
		Bucket:    p.Bucket,
		Files:     p.Result.Upload.Files,
		Bytes:     p.Result.Upload.Bytes,
		Failed:    p.Result.Upload.Failed,
		StartedAt: p.StartedAt,
		Duration:  p.Duration,
		Status:    p.Status,
		Error:     p.Error,
	})
	if err != nil {
		a.log.Warn("journal record failed", zap.Error(err))
	}
	return nil
}
