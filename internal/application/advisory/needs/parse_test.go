package needs

import (
	"fmt"
	"testing"
	"time"

	"biz-advisory-ai-api/internal/application/advisory"
	"biz-advisory-ai-api/internal/domain/entity"
	wfnode "biz-advisory-ai-api/internal/workflow/node"
	apperrors "biz-advisory-ai-api/pkg/errors"
)

func singleSegment(text string) []wfnode.Segment {
	return []wfnode.Segment{{Type: "text", Text: text}}
}

func parseText(t *testing.T, text string) ([]*entity.Need, error) {
	t.Helper()
	items, _, err := ParseNeeds(singleSegment(text), "tenant-1", "trend-1", "company-1", time.Unix(1700000000, 0).UTC())
	return items, err
}

func TestParseNeedsWellFormed(t *testing.T) {
	input := `{"needs": [
		{"title": "Automate invoice processing", "category": "automation", "priority": "high",
		 "impactScore": 8, "effortScore": 4, "urgencyScore": 7,
		 "stakeholders": ["CFO"], "risks": ["change resistance"], "successMetrics": ["cycle time -40%"],
		 "rationale": "manual workload keeps growing"},
		{"title": "Churn dashboard", "category": "analytics", "priority": "medium",
		 "impactScore": 6, "effortScore": 3, "urgencyScore": 5}
	]}`
	items, err := parseText(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	first := items[0]
	if first.Title != "Automate invoice processing" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Category != entity.NeedCategoryAutomation || first.Priority != entity.NeedPriorityHigh {
		t.Errorf("enums = %s/%s", first.Category, first.Priority)
	}
	if first.ImpactScore != 8 || first.EffortScore != 4 || first.UrgencyScore != 7 {
		t.Errorf("scores = %d/%d/%d", first.ImpactScore, first.EffortScore, first.UrgencyScore)
	}
	if first.TrendID != "trend-1" || first.TenantID != "tenant-1" || first.CompanyID != "company-1" {
		t.Errorf("ownership fields wrong: %+v", first)
	}

	// ID 由来源趋势、时间戳与序号确定性合成，批内唯一。
	seen := make(map[string]struct{})
	for i, it := range items {
		want := fmt.Sprintf("need-trend-1-1700000000-%d", i)
		if it.ID != want {
			t.Errorf("id = %q, want %q", it.ID, want)
		}
		if _, dup := seen[it.ID]; dup {
			t.Errorf("duplicate id %q", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
}

func TestParseNeedsFencedMinimalItem(t *testing.T) {
	items, err := parseText(t, "```json\n{\"needs\":[{\"title\":\"X\"}]}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if it.Title != "X" {
		t.Errorf("title = %q, want X", it.Title)
	}
	if it.Category != entity.DefaultNeedCategory {
		t.Errorf("category = %s, want default", it.Category)
	}
	if it.Priority != entity.DefaultNeedPriority {
		t.Errorf("priority = %s, want default", it.Priority)
	}
	if it.ImpactScore != entity.ScoreDefault || it.EffortScore != entity.ScoreDefault || it.UrgencyScore != entity.ScoreDefault {
		t.Errorf("scores = %d/%d/%d, want defaults", it.ImpactScore, it.EffortScore, it.UrgencyScore)
	}
	for name, list := range map[string][]string{
		"stakeholders":   it.Stakeholders,
		"risks":          it.Risks,
		"successMetrics": it.SuccessMetrics,
	} {
		if len(list) != 1 || list[0] != advisory.ListPlaceholder {
			t.Errorf("%s = %v, want placeholder list", name, list)
		}
	}
}

func TestParseNeedsClampsScores(t *testing.T) {
	input := `{"needs": [
		{"title": "A", "impactScore": 99},
		{"title": "B", "impactScore": 0},
		{"title": "C", "impactScore": -5},
		{"title": "D", "impactScore": "not a number"}
	]}`
	items, err := parseText(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{10, 1, 1, entity.ScoreDefault}
	for i, w := range want {
		if items[i].ImpactScore != w {
			t.Errorf("items[%d].ImpactScore = %d, want %d", i, items[i].ImpactScore, w)
		}
	}
}

func TestParseNeedsRecoversFieldAnomalies(t *testing.T) {
	input := `{"needs": [
		{"title": "A", "category": "galactic", "priority": "ultra", "stakeholders": "just me"}
	]}`
	items, err := parseText(t, input)
	if err != nil {
		t.Fatalf("field anomalies must not fail the batch: %v", err)
	}
	it := items[0]
	if it.Category != entity.DefaultNeedCategory {
		t.Errorf("category = %s, want %s", it.Category, entity.DefaultNeedCategory)
	}
	if it.Priority != entity.DefaultNeedPriority {
		t.Errorf("priority = %s, want %s", it.Priority, entity.DefaultNeedPriority)
	}
	if len(it.Stakeholders) != 1 || it.Stakeholders[0] != advisory.ListPlaceholder {
		t.Errorf("stakeholders = %v, want placeholder list", it.Stakeholders)
	}
}

func TestParseNeedsEmptyBatch(t *testing.T) {
	_, err := parseText(t, `{"needs": []}`)
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != apperrors.CodeEmptyBatch {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeEmptyBatch)
	}
}

func TestParseNeedsBareArray(t *testing.T) {
	items, err := parseText(t, `[{"title": "Legacy shape"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Legacy shape" {
		t.Fatalf("items = %+v", items)
	}
}
