package model

// NeedsGenerateInput 驱动“趋势 → 企业需求”生成链。
type NeedsGenerateInput struct {
	TrendTitle     string
	TrendSummary   string
	TrendCategory  string
	SignalStrength int
	TrendTags      []string

	CompanyName   string
	Industry      string
	CompanySize   string
	TechMaturity  string
	Goals         []string
	PainPoints    []string
	RelatedTrends []string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// SolutionsGenerateInput 驱动“需求 → 解决方案”生成链。
type SolutionsGenerateInput struct {
	NeedTitle       string
	NeedDescription string
	NeedCategory    string
	NeedPriority    string
	ImpactScore     int
	EffortScore     int

	CompanyName  string
	Industry     string
	CompanySize  string
	TechMaturity string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}
