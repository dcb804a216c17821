package redis

import (
	"testing"
	"time"

	"github.com/AChakka/LiftMate/internal/entity"
)

func TestSummaryKey(t *testing.T) {
	if got := SummaryKey("s1"); got != "liftmate:session:s1:summary" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestSummaryEncoding(t *testing.T) {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	summary := entity.SessionSummary{
		SessionID:    "s1",
		ExerciseType: "squat",
		Duration:     12.5,
		FormQuality:  80,
		TotalFrames:  10,
		TopIssues:    []entity.TopIssue{{Issue: "knees", Count: 5, Percentage: 50}},
		Completed:    true,
		StartedAt:    started,
		LastUpdateAt: started.Add(12500 * time.Millisecond),
	}

	payload, err := encodeSummary(summary)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := decodeSummary(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SessionID != "s1" || !decoded.Completed || len(decoded.TopIssues) != 1 {
		t.Errorf("unexpected decoded summary %+v", decoded)
	}
	if !decoded.StartedAt.Equal(started) {
		t.Errorf("expected start %v, got %v", started, decoded.StartedAt)
	}

	if _, err := decodeSummary([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
