package messaging

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{
		Initial:    time.Second,
		Max:        time.Minute,
		Multiplier: 2,
	}

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{10, time.Minute},
	}

	for _, tt := range tests {
		if got := cfg.CalculateBackoff(tt.retryCount); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.retryCount, got, tt.want)
		}
	}
}

func TestMessageMetadataRoundTrip(t *testing.T) {
	msg, err := NewMessage("job-1", "needs_gen", "tenant-1", "trend-1", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	msg.SetMetadata("idempotency_key", "abc")
	if got := msg.GetMetadata("idempotency_key"); got != "abc" {
		t.Errorf("GetMetadata = %q, want %q", got, "abc")
	}

	var payload map[string]string
	if err := msg.UnmarshalPayload(&payload); err != nil {
		t.Fatalf("UnmarshalPayload: %v", err)
	}
	if payload["k"] != "v" {
		t.Errorf("payload = %v", payload)
	}
}

func TestDLQStreamName(t *testing.T) {
	if got := StreamAdvisoryGen.DLQStream(); got != "dlq:stream:advisory:gen" {
		t.Errorf("DLQStream = %q", got)
	}
}
