package journal

import (
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for i, status := range []string{"ok", "failed", "ok"} {
		r := Run{
			Bucket:    "site",
			Files:     i + 1,
			Bytes:     int64(100 * (i + 1)),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  3 * time.Second,
			Status:    status,
		}
		if status == "failed" {
			r.Failed = 1
			r.Error = "upload css/app.css: put rejected"
		}
		if err := j.Record(r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs; want 2", len(runs))
	}
	if runs[0].Files != 3 || runs[1].Files != 2 {
		t.Fatalf("order wrong: %+v", runs)
	}
	if runs[1].Status != "failed" || runs[1].Error == "" {
		t.Fatalf("failed run not preserved: %+v", runs[1])
	}

	all, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d runs; want 3", len(all))
	}
}

func TestOpenReadOnlySeesRecordedRuns(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := Run{
		Bucket:    "site",
		Files:     4,
		StartedAt: time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC),
		Status:    "ok",
	}
	if err := j.Record(r); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ro, err := OpenReadOnly(dir)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer ro.Close()

	runs, err := ro.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].Bucket != "site" || runs[0].Files != 4 {
		t.Fatalf("runs = %+v", runs)
	}
}
