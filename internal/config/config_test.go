package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.SiteDir != "dist" || cfg.IndexDoc != "index.html" || cfg.ErrorDoc != "error.html" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Concurrency != 8 {
		t.Fatalf("concurrency = %d; want 8", cfg.Concurrency)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DEPLOY_BUCKET", "my-site")
	t.Setenv("DEPLOY_SITE_DIR", "/srv/build")
	t.Setenv("DEPLOY_CONCURRENCY", "3")
	cfg := FromEnv()
	if cfg.Bucket != "my-site" || cfg.SiteDir != "/srv/build" || cfg.Concurrency != 3 {
		t.Fatalf("overrides = %+v", cfg)
	}
}
