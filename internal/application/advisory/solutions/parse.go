package solutions

import (
	"strings"
	"time"

	"biz-advisory-ai-api/internal/application/advisory"
	"biz-advisory-ai-api/internal/domain/entity"
	wfnode "biz-advisory-ai-api/internal/workflow/node"
	apperrors "biz-advisory-ai-api/pkg/errors"
)

// TopLevelKey 是方案管线期望的顶层数组属性名。
const TopLevelKey = "solutions"

// defaultTimeToValueMonths 是 timeToValueMonths 缺失时的兜底值。
const defaultTimeToValueMonths = 6

// ParseSolutions 从模型多段输出中恢复方案列表并映射为领域实体。
// 字段级异常就地兜底，只有结构性失败才向上抛。
func ParseSolutions(segments []wfnode.Segment, tenantID, needID string, generatedAt time.Time) ([]*entity.Solution, string, error) {
	rec, err := advisory.RecoverList(segments, TopLevelKey)
	if err != nil {
		return nil, "", err
	}
	if len(rec.Items) == 0 {
		return nil, rec.JSONText, apperrors.New(apperrors.CodeEmptyBatch, "model returned zero solutions")
	}

	out := make([]*entity.Solution, 0, len(rec.Items))
	for i, raw := range rec.Items {
		fields := advisory.DecodeItem(raw)

		approach := entity.SolutionApproach(strings.ToLower(advisory.StringField(fields, "approach", "")))
		if !entity.ValidSolutionApproach(approach) {
			approach = entity.DefaultSolutionApproach
		}

		cost := advisory.NestedField(fields, "estimatedCost")
		roi := advisory.NestedField(fields, "roi")

		out = append(out, &entity.Solution{
			ID:          entity.NewSolutionID(needID, generatedAt, i),
			TenantID:    tenantID,
			NeedID:      needID,
			Approach:    approach,
			Title:       advisory.StringField(fields, "title", "未命名方案"),
			Description: advisory.StringField(fields, "description", ""),
			EstimatedCost: entity.EstimatedCost{
				Initial: advisory.FloatField(cost, "initial", 0, 0, 1e12),
				Monthly: advisory.FloatField(cost, "monthly", 0, 0, 1e12),
				Annual:  advisory.FloatField(cost, "annual", 0, 0, 1e12),
			},
			ROI: entity.ROIProjection{
				BreakEvenMonths: advisory.IntField(roi, "breakEvenMonths", 0),
				ThreeYearReturn: advisory.FloatField(roi, "threeYearReturn", 0, 0, 1e6),
				ConfidenceScore: advisory.FloatField(roi, "confidenceScore",
					entity.ConfidenceDefault, entity.ConfidenceMin, entity.ConfidenceMax),
			},
			Benefits:          advisory.ListField(fields, "benefits"),
			Requirements:      advisory.ListField(fields, "requirements"),
			Risks:             advisory.ListField(fields, "risks"),
			Alternatives:      advisory.ListField(fields, "alternatives"),
			TimeToValueMonths: advisory.IntField(fields, "timeToValueMonths", defaultTimeToValueMonths),
			CreatedAt:         generatedAt,
		})
	}
	return out, rec.JSONText, nil
}
