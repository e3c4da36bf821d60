package main

import (
	"context"
	"log"
	"os"
	"strings"

	tactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/yourorg/site-deploy/internal/activities"
	sdmetrics "github.com/yourorg/site-deploy/internal/metrics"
	"github.com/yourorg/site-deploy/internal/storage"
	"github.com/yourorg/site-deploy/internal/workflow"
)

func main() {
	// Support both TEMPORAL_TARGET_HOST and TEMPORAL_ADDRESS for compatibility
	taddr := getenv("TEMPORAL_TARGET_HOST", getenv("TEMPORAL_ADDRESS", "localhost:7233"))
	ns := getenv("TEMPORAL_NAMESPACE", "default")
	q := getenv("TEMPORAL_TASK_QUEUE", "site-deploy")
	journalDir := getenv("DEPLOY_JOURNAL_DIR", "/var/site-deploy/journal")
	_ = os.MkdirAll(journalDir, 0o755)

	// Structured logger (zap)
	zl := newZap(getenv("LOG_LEVEL", "info"))
	defer zl.Sync()

	// Metrics server
	sdmetrics.Init()
	go func() {
		addr := sdmetrics.AddrFromEnv()
		_ = sdmetrics.Serve(addr)
	}()

	store, err := storage.NewS3(context.Background())
	if err != nil {
		log.Fatal("s3 init:", err)
	}

	c, err := client.Dial(client.Options{HostPort: taddr, Namespace: ns})
	if err != nil {
		log.Fatal("temporal client:", err)
	}
	defer c.Close()

	w := worker.New(c, q, worker.Options{})
	acts := activities.New(store, zl, activities.Config{JournalDir: journalDir})
	// Register activities with explicit names matching workflow.ExecuteActivity calls
	w.RegisterActivityWithOptions(acts.ValidateTarget, tactivity.RegisterOptions{Name: "Activities.ValidateTarget"})
	w.RegisterActivityWithOptions(acts.ReconcileBucket, tactivity.RegisterOptions{Name: "Activities.ReconcileBucket"})
	w.RegisterActivityWithOptions(acts.UploadSite, tactivity.RegisterOptions{Name: "Activities.UploadSite"})
	w.RegisterActivityWithOptions(acts.RecordRun, tactivity.RegisterOptions{Name: "Activities.RecordRun"})
	w.RegisterWorkflow(workflow.DeployWorkflow)

	zl.Info("worker started", zap.String("namespace", ns), zap.String("taskQueue", q), zap.String("journal", journalDir), zap.String("metrics", getenv("METRICS_ADDR", ":9090")))
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal("worker failed:", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func newZap(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
