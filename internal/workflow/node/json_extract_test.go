package node

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractBalancedObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "prefix and suffix prose",
			input: `Here is the result: {"a": 1} hope it helps!`,
			want:  `{"a": 1}`,
		},
		{
			name:  "brace inside string value",
			input: `{"a": "text with } inside"}`,
			want:  `{"a": "text with } inside"}`,
		},
		{
			name:  "open brace inside string value",
			input: `{"a": "text with { inside", "b": 2} trailing`,
			want:  `{"a": "text with { inside", "b": 2}`,
		},
		{
			name:  "escaped quote does not toggle string state",
			input: `{"a": "he said \"}\" loudly"} extra`,
			want:  `{"a": "he said \"}\" loudly"}`,
		},
		{
			name:  "nested objects stop at first top level close",
			input: `{"a": {"b": {"c": 1}}}{"second": true}`,
			want:  `{"a": {"b": {"c": 1}}}`,
		},
		{
			name:  "unterminated object returns whole input",
			input: `{"a": 1, "b": `,
			want:  `{"a": 1, "b": `,
		},
		{
			name:  "trailing backslash does not crash",
			input: `{"a": "oops\`,
			want:  `{"a": "oops\`,
		},
		{
			name:  "no brace at all returns input",
			input: `nothing structured here`,
			want:  `nothing structured here`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBalancedObject(tt.input); got != tt.want {
				t.Errorf("ExtractBalancedObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBalancedArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "array with surrounding text",
			input: `result: [{"a": 1}, {"b": 2}] done`,
			want:  `[{"a": 1}, {"b": 2}]`,
		},
		{
			name:  "bracket inside string value",
			input: `[{"a": "x ] y"}] tail`,
			want:  `[{"a": "x ] y"}]`,
		},
		{
			name:  "unterminated array returns whole input",
			input: `[{"a": 1},`,
			want:  `[{"a": 1},`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBalancedArray(tt.input); got != tt.want {
				t.Errorf("ExtractBalancedArray() = %q, want %q", got, tt.want)
			}
		})
	}
}

// 提取结果必须逐字节等于嵌入的对象本身，且仍是合法 JSON。
func TestExtractBalancedObjectRoundTrip(t *testing.T) {
	objects := []string{
		`{"needs": [{"title": "Automate onboarding", "impactScore": 8}]}`,
		`{"a": "brace } and bracket ] in text", "nested": {"deep": [1, 2, 3]}}`,
		`{"msg": "escaped \" quote and \\ backslash"}`,
	}
	for _, obj := range objects {
		input := "Some analysis first.\n" + obj + "\nClosing remarks."
		got := ExtractBalancedObject(input[strings.Index(input, "{"):])
		if got != obj {
			t.Fatalf("round trip mismatch: got %q, want %q", got, obj)
		}
		if !json.Valid([]byte(got)) {
			t.Fatalf("extracted text is not valid JSON: %q", got)
		}
	}
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"needs\": []}\n```",
			want:  `{"needs": []}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "no fence is a no-op",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "fence with surrounding prose",
			input: "Sure, here you go:\n```json\n{\"solutions\": []}\n```\nLet me know!",
			want:  `{"solutions": []}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripMarkdownFences(tt.input)
			if got != tt.want {
				t.Errorf("StripMarkdownFences() = %q, want %q", got, tt.want)
			}
			// 幂等性:再剥一次结果不变。
			if again := StripMarkdownFences(got); again != got {
				t.Errorf("not idempotent: second pass = %q", again)
			}
		})
	}
}

func TestLocateJSONForKey(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		key          string
		wantText     string
		wantStrategy ExtractionStrategy
	}{
		{
			name:         "key match with prose prefix",
			input:        `Based on my analysis: {"needs": [{"title": "X"}]} — done.`,
			key:          "needs",
			wantText:     `{"needs": [{"title": "X"}]}`,
			wantStrategy: StrategyKeyMatch,
		},
		{
			name:         "key match is case insensitive",
			input:        `{"Needs": [{"title": "X"}]}`,
			key:          "needs",
			wantText:     `{"Needs": [{"title": "X"}]}`,
			wantStrategy: StrategyKeyMatch,
		},
		{
			name:         "generic object fallback",
			input:        `prose {"other": [1, 2]} prose`,
			key:          "needs",
			wantText:     `{"other": [1, 2]}`,
			wantStrategy: StrategyGenericObject,
		},
		{
			name:         "generic array fallback",
			input:        `items follow: [{"title": "A"}, {"title": "B"}]`,
			key:          "needs",
			wantText:     `[{"title": "A"}, {"title": "B"}]`,
			wantStrategy: StrategyGenericArray,
		},
		{
			name:         "no strategy matches returns input unmodified",
			input:        `just a plain sentence without structure`,
			key:          "needs",
			wantText:     `just a plain sentence without structure`,
			wantStrategy: StrategyNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocateJSONForKey(tt.input, tt.key)
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", got.Strategy, tt.wantStrategy)
			}
		})
	}
}

func TestSelectSegment(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		key      string
		want     string
	}{
		{
			name: "first qualifying segment wins regardless of length",
			segments: []Segment{
				{Type: "text", Text: strings.Repeat("long tool-use narration without structure ", 50)},
				{Type: "text", Text: `{"needs": [{"title": "X"}]}`},
				{Type: "text", Text: "short tail"},
			},
			key:  "needs",
			want: `{"needs": [{"title": "X"}]}`,
		},
		{
			name: "key as prose word does not qualify",
			segments: []Segment{
				{Type: "text", Text: `The company's needs are varied.`},
				{Type: "text", Text: `{"needs": []}`},
			},
			key:  "needs",
			want: `{"needs": []}`,
		},
		{
			name: "fallback to last segment when none qualify",
			segments: []Segment{
				{Type: "text", Text: "first"},
				{Type: "text", Text: "second"},
				{Type: "text", Text: "last"},
			},
			key:  "needs",
			want: "last",
		},
		{
			name: "key mentioned without delimiters falls through",
			segments: []Segment{
				{Type: "text", Text: `"needs": but no braces anywhere`},
				{Type: "text", Text: `[{"needs": 1}]`},
			},
			key:  "needs",
			want: `[{"needs": 1}]`,
		},
		{
			name:     "empty segment list",
			segments: nil,
			key:      "needs",
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectSegment(tt.segments, tt.key); got != tt.want {
				t.Errorf("SelectSegment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateByRunes(t *testing.T) {
	if got := TruncateByRunes("héllo wörld", 5); got != "héllo" {
		t.Errorf("TruncateByRunes() = %q, want %q", got, "héllo")
	}
	if got := TruncateByRunes("short", 100); got != "short" {
		t.Errorf("TruncateByRunes() = %q, want %q", got, "short")
	}
	if got := TruncateByRunes("anything", 0); got != "" {
		t.Errorf("TruncateByRunes() = %q, want empty", got)
	}
}
