package types

import "time"

// DeployParams is the input to DeployWorkflow and its activities.
// IndexDoc, ErrorDoc, and Concurrency fall back to index.html, error.html,
// and 8 when zero.
type DeployParams struct {
	Bucket      string `json:"bucket"`
	SiteDir     string `json:"site_dir"`
	IndexDoc    string `json:"index_doc"`
	ErrorDoc    string `json:"error_doc"`
	Concurrency int    `json:"concurrency"`
}

type ReconcileResult struct {
	Existed bool `json:"existed"`
	Drained int  `json:"drained"`
}

type UploadResult struct {
	Files  int   `json:"files"`
	Bytes  int64 `json:"bytes"`
	Failed int   `json:"failed"`
}

// DeployResult is the workflow's final output.
type DeployResult struct {
	Reconcile ReconcileResult `json:"reconcile"`
	Upload    UploadResult    `json:"upload"`
}

// RecordRunParams instructs the journal activity what to persist.
type RecordRunParams struct {
	Bucket    string        `json:"bucket"`
	Result    DeployResult  `json:"result"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
