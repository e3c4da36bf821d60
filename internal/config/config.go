package config

import (
	"fmt"
	"os"
)

// Config holds deployment parameters supplied by the environment.
type Config struct {
	Bucket      string
	SiteDir     string
	IndexDoc    string
	ErrorDoc    string
	Concurrency int
	JournalDir  string
}

// FromEnv loads configuration from environment variables.
func FromEnv() Config {
	return Config{
		Bucket:      os.Getenv("DEPLOY_BUCKET"),
		SiteDir:     getEnv("DEPLOY_SITE_DIR", "dist"),
		IndexDoc:    getEnv("DEPLOY_INDEX_DOC", "index.html"),
		ErrorDoc:    getEnv("DEPLOY_ERROR_DOC", "error.html"),
		Concurrency: getEnvInt("DEPLOY_CONCURRENCY", 8),
		JournalDir:  getEnv("DEPLOY_JOURNAL_DIR", "/var/site-deploy/journal"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n != 0 {
			return n
		}
	}
	return def
}
