package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestGenerationJobLifecycle(t *testing.T) {
	job := NewGenerationJob("tenant-1", JobTypeNeedsGen, json.RawMessage(`{"provider":"openai"}`))

	if job.Status != JobStatusPending {
		t.Fatalf("new job status = %s, want pending", job.Status)
	}

	job.Start()
	if job.Status != JobStatusRunning {
		t.Fatalf("after Start status = %s, want running", job.Status)
	}
	if job.StartedAt == nil {
		t.Fatal("after Start StartedAt is nil")
	}

	job.Complete(json.RawMessage(`{"count":3}`))
	if job.Status != JobStatusCompleted {
		t.Fatalf("after Complete status = %s, want completed", job.Status)
	}
	if job.CompletedAt == nil {
		t.Fatal("after Complete CompletedAt is nil")
	}
	if job.DurationMs < 0 {
		t.Fatalf("DurationMs = %d, want >= 0", job.DurationMs)
	}
}

func TestGenerationJobFailAndRetry(t *testing.T) {
	job := NewGenerationJob("tenant-1", JobTypeSolutionsGen, nil)
	job.Start()
	job.Fail("llm timeout")

	if job.Status != JobStatusFailed {
		t.Fatalf("after Fail status = %s, want failed", job.Status)
	}
	if job.ErrorMessage != "llm timeout" {
		t.Fatalf("ErrorMessage = %q", job.ErrorMessage)
	}
	if !job.CanRetry(3) {
		t.Fatal("failed job with 0 retries should be retryable")
	}

	job.Retry()
	if job.Status != JobStatusPending {
		t.Fatalf("after Retry status = %s, want pending", job.Status)
	}
	if job.RetryCount != 1 {
		t.Fatalf("RetryCount = %d, want 1", job.RetryCount)
	}
	if job.StartedAt != nil || job.CompletedAt != nil {
		t.Fatal("Retry should clear timestamps")
	}

	job.RetryCount = 3
	job.Status = JobStatusFailed
	if job.CanRetry(3) {
		t.Fatal("job at retry limit should not be retryable")
	}
}

func TestDeterministicItemIDs(t *testing.T) {
	at := time.Unix(1700000000, 0)

	needID := NewNeedID("trend-a", at, 2)
	if needID != "need-trend-a-1700000000-2" {
		t.Fatalf("NewNeedID = %q", needID)
	}

	solID := NewSolutionID("need-x", at, 0)
	if solID != "sol-need-x-1700000000-0" {
		t.Fatalf("NewSolutionID = %q", solID)
	}

	if NewNeedID("trend-a", at, 2) != needID {
		t.Fatal("NewNeedID is not deterministic")
	}
}
