package advisory

import (
	"testing"

	wfnode "biz-advisory-ai-api/internal/workflow/node"
	apperrors "biz-advisory-ai-api/pkg/errors"
)

func errCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestRecoverFromText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		key       string
		wantItems int
		wantCode  apperrors.ErrorCode
	}{
		{
			name:      "keyed object envelope",
			input:     `{"needs": [{"title": "A"}, {"title": "B"}]}`,
			key:       "needs",
			wantItems: 2,
		},
		{
			name:      "bare array envelope",
			input:     `[{"title": "A"}]`,
			key:       "needs",
			wantItems: 1,
		},
		{
			name:      "fenced payload with prose",
			input:     "Here you go:\n```json\n{\"needs\": [{\"title\": \"X\"}]}\n```",
			key:       "needs",
			wantItems: 1,
		},
		{
			name:      "envelope key case mismatch",
			input:     `{"Needs": [{"title": "A"}]}`,
			key:       "needs",
			wantItems: 1,
		},
		{
			name:     "prose only is extraction failure",
			input:    "I could not produce any structured output this time, sorry.",
			key:      "needs",
			wantCode: apperrors.CodeExtractionFailed,
		},
		{
			name:     "located but malformed is parse failure",
			input:    `{"needs": [{"title": "A",]}`,
			key:      "needs",
			wantCode: apperrors.CodeParseFailed,
		},
		{
			name:     "object without expected list is shape failure",
			input:    `{"analysis": "lots of text"}`,
			key:      "needs",
			wantCode: apperrors.CodeInvalidStructure,
		},
		{
			name:     "list property not an array is shape failure",
			input:    `{"needs": "not a list"}`,
			key:      "needs",
			wantCode: apperrors.CodeInvalidStructure,
		},
		{
			name:     "unterminated object is parse failure",
			input:    `{"needs": [{"title": "A"}`,
			key:      "needs",
			wantCode: apperrors.CodeParseFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := RecoverFromText(tt.input, tt.key)
			if tt.wantCode != "" {
				if got := errCode(t, err); got != tt.wantCode {
					t.Errorf("code = %s, want %s", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rec.Items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(rec.Items), tt.wantItems)
			}
		})
	}
}

// 三段输出中只有第二段承载目标对象时，必须选中第二段，与各段长度无关。
func TestRecoverListPicksQualifyingSegment(t *testing.T) {
	segments := []wfnode.Segment{
		{Type: "text", Text: "Searching the web for relevant market data... (a very long tool-use transcript that contains no structured output at all, just narration and source listings going on and on)"},
		{Type: "text", Text: `{"solutions": [{"title": "Adopt CRM", "approach": "buy"}]}`},
		{Type: "text", Text: "Summary: consider the option above."},
	}
	rec, err := RecoverList(segments, "solutions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(rec.Items))
	}
	if rec.Strategy != wfnode.StrategyKeyMatch {
		t.Errorf("strategy = %s, want %s", rec.Strategy, wfnode.StrategyKeyMatch)
	}
}

func TestDecodeItemNonObject(t *testing.T) {
	fields := DecodeItem([]byte(`"just a string"`))
	if len(fields) != 0 {
		t.Errorf("expected empty field map, got %v", fields)
	}
	if got := StringField(fields, "title", "fallback"); got != "fallback" {
		t.Errorf("StringField() = %q, want fallback", got)
	}
	if got := ScoreField(fields, "impactScore", 5, 1, 10); got != 5 {
		t.Errorf("ScoreField() = %d, want 5", got)
	}
	list := ListField(fields, "risks")
	if len(list) != 1 || list[0] != ListPlaceholder {
		t.Errorf("ListField() = %v, want placeholder list", list)
	}
}
