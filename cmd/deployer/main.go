package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/site-deploy/internal/config"
	"github.com/yourorg/site-deploy/internal/deploy"
	"github.com/yourorg/site-deploy/internal/journal"
	sdmetrics "github.com/yourorg/site-deploy/internal/metrics"
	"github.com/yourorg/site-deploy/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	if len(os.Args) > 1 && os.Args[1] == "history" {
		if err := printHistory(cfg.JournalDir); err != nil {
			log.Fatalf("history: %v", err)
		}
		return
	}

	zl := newZap(getenv("LOG_LEVEL", "info"))
	defer zl.Sync()

	sdmetrics.Init()
	go func() {
		_ = sdmetrics.Serve(sdmetrics.AddrFromEnv())
	}()

	ctx := context.Background()
	store, err := storage.NewS3(ctx)
	if err != nil {
		log.Fatalf("s3 init: %v", err)
	}

	d := deploy.New(store, zl, deploy.Options{
		IndexDoc:    cfg.IndexDoc,
		ErrorDoc:    cfg.ErrorDoc,
		Concurrency: cfg.Concurrency,
	})
	target := deploy.Target{Bucket: cfg.Bucket, SiteDir: cfg.SiteDir}

	started := time.Now()
	res, runErr := d.Run(ctx, target)

	run := journal.Run{
		Bucket:    cfg.Bucket,
		Files:     res.Files,
		Bytes:     res.Bytes,
		Failed:    res.Failed,
		StartedAt: started,
		Duration:  time.Since(started),
		Status:    "ok",
	}
	if runErr != nil {
		run.Status = "failed"
		run.Error = runErr.Error()
	}
	if j, jerr := journal.Open(cfg.JournalDir); jerr != nil {
		zl.Warn("journal open failed", zap.Error(jerr))
	} else {
		if rerr := j.Record(run); rerr != nil {
			zl.Warn("journal record failed", zap.Error(rerr))
		}
		_ = j.Close()
	}

	if runErr != nil {
		zl.Fatal("deployment failed", zap.String("bucket", cfg.Bucket), zap.Error(runErr))
	}
	zl.Info("deployed",
		zap.String("bucket", cfg.Bucket),
		zap.Int("files", res.Files),
		zap.Int64("bytes", res.Bytes),
		zap.Duration("took", run.Duration))
}

func printHistory(dir string) error {
	j, err := journal.Open(dir)
	if err != nil {
		return err
	}
	defer j.Close()
	runs, err := j.Recent(20)
	if err != nil {
		return err
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-8s %s  files=%d bytes=%d took=%s",
			r.StartedAt.Format(time.RFC3339), r.Status, r.Bucket, r.Files, r.Bytes, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			line += "  error=" + r.Error
		}
		fmt.Println(line)
	}
	return nil
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
