package solutions

import (
	"testing"
	"time"

	"biz-advisory-ai-api/internal/application/advisory"
	"biz-advisory-ai-api/internal/domain/entity"
	wfnode "biz-advisory-ai-api/internal/workflow/node"
	apperrors "biz-advisory-ai-api/pkg/errors"
)

func parseText(t *testing.T, text string) ([]*entity.Solution, error) {
	t.Helper()
	segs := []wfnode.Segment{{Type: "text", Text: text}}
	items, _, err := ParseSolutions(segs, "tenant-1", "need-1", time.Unix(1700000000, 0).UTC())
	return items, err
}

func TestParseSolutionsWellFormed(t *testing.T) {
	input := `{"solutions": [
		{"approach": "buy", "title": "Adopt a CRM suite", "description": "off the shelf",
		 "benefits": ["fast rollout"], "requirements": ["budget approval"],
		 "risks": ["vendor lock-in"], "alternatives": ["open source CRM"],
		 "timeToValueMonths": 3,
		 "estimatedCost": {"initial": 50000, "monthly": 2000, "annual": 24000},
		 "roi": {"breakEvenMonths": 14, "threeYearReturn": 2.5, "confidenceScore": 0.8}}
	]}`
	items, err := parseText(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if it.ID != "sol-need-1-1700000000-0" {
		t.Errorf("id = %q", it.ID)
	}
	if it.Approach != entity.SolutionApproachBuy {
		t.Errorf("approach = %s", it.Approach)
	}
	if it.EstimatedCost.Initial != 50000 || it.EstimatedCost.Monthly != 2000 || it.EstimatedCost.Annual != 24000 {
		t.Errorf("cost = %+v", it.EstimatedCost)
	}
	if it.ROI.BreakEvenMonths != 14 || it.ROI.ThreeYearReturn != 2.5 || it.ROI.ConfidenceScore != 0.8 {
		t.Errorf("roi = %+v", it.ROI)
	}
	if it.TimeToValueMonths != 3 {
		t.Errorf("timeToValueMonths = %d", it.TimeToValueMonths)
	}
}

func TestParseSolutionsDefaults(t *testing.T) {
	items, err := parseText(t, `{"solutions": [{"title": "Bare minimum", "approach": "franchise"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := items[0]
	if it.Approach != entity.DefaultSolutionApproach {
		t.Errorf("approach = %s, want default", it.Approach)
	}
	if it.ROI.ConfidenceScore != entity.ConfidenceDefault {
		t.Errorf("confidence = %v, want default", it.ROI.ConfidenceScore)
	}
	if it.TimeToValueMonths != defaultTimeToValueMonths {
		t.Errorf("timeToValueMonths = %d, want %d", it.TimeToValueMonths, defaultTimeToValueMonths)
	}
	for name, list := range map[string][]string{
		"benefits":     it.Benefits,
		"requirements": it.Requirements,
		"risks":        it.Risks,
		"alternatives": it.Alternatives,
	} {
		if len(list) != 1 || list[0] != advisory.ListPlaceholder {
			t.Errorf("%s = %v, want placeholder list", name, list)
		}
	}
}

func TestParseSolutionsClampsConfidence(t *testing.T) {
	input := `{"solutions": [
		{"title": "A", "roi": {"confidenceScore": 3.0}},
		{"title": "B", "roi": {"confidenceScore": -1}},
		{"title": "C", "roi": {"confidenceScore": "high"}}
	]}`
	items, err := parseText(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{entity.ConfidenceMax, entity.ConfidenceMin, entity.ConfidenceDefault}
	for i, w := range want {
		if items[i].ROI.ConfidenceScore != w {
			t.Errorf("items[%d].ConfidenceScore = %v, want %v", i, items[i].ROI.ConfidenceScore, w)
		}
	}
}

func TestParseSolutionsEmptyBatch(t *testing.T) {
	_, err := parseText(t, `{"solutions": []}`)
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != apperrors.CodeEmptyBatch {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeEmptyBatch)
	}
}

func TestParseSolutionsBareArray(t *testing.T) {
	items, err := parseText(t, `[{"title": "Legacy", "approach": "partner"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Approach != entity.SolutionApproachPartner {
		t.Fatalf("items = %+v", items)
	}
}
