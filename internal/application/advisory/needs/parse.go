package needs

import (
	"strings"
	"time"

	"biz-advisory-ai-api/internal/application/advisory"
	"biz-advisory-ai-api/internal/domain/entity"
	wfnode "biz-advisory-ai-api/internal/workflow/node"
	apperrors "biz-advisory-ai-api/pkg/errors"
)

// TopLevelKey 是需求管线期望的顶层数组属性名。
const TopLevelKey = "needs"

// ParseNeeds 从模型多段输出中恢复需求列表并映射为领域实体。
// 字段级异常就地兜底，只有结构性失败才向上抛。
func ParseNeeds(segments []wfnode.Segment, tenantID, trendID, companyID string, generatedAt time.Time) ([]*entity.Need, string, error) {
	rec, err := advisory.RecoverList(segments, TopLevelKey)
	if err != nil {
		return nil, "", err
	}
	if len(rec.Items) == 0 {
		return nil, rec.JSONText, apperrors.New(apperrors.CodeEmptyBatch, "model returned zero needs")
	}

	out := make([]*entity.Need, 0, len(rec.Items))
	for i, raw := range rec.Items {
		fields := advisory.DecodeItem(raw)

		category := entity.NeedCategory(strings.ToLower(advisory.StringField(fields, "category", "")))
		if !entity.ValidNeedCategory(category) {
			category = entity.DefaultNeedCategory
		}
		priority := entity.NeedPriority(strings.ToLower(advisory.StringField(fields, "priority", "")))
		if !entity.ValidNeedPriority(priority) {
			priority = entity.DefaultNeedPriority
		}

		out = append(out, &entity.Need{
			ID:             entity.NewNeedID(trendID, generatedAt, i),
			TenantID:       tenantID,
			TrendID:        trendID,
			CompanyID:      companyID,
			Title:          advisory.StringField(fields, "title", "未命名需求"),
			Description:    advisory.StringField(fields, "description", ""),
			Category:       category,
			Priority:       priority,
			ImpactScore:    advisory.ScoreField(fields, "impactScore", entity.ScoreDefault, entity.ScoreMin, entity.ScoreMax),
			EffortScore:    advisory.ScoreField(fields, "effortScore", entity.ScoreDefault, entity.ScoreMin, entity.ScoreMax),
			UrgencyScore:   advisory.ScoreField(fields, "urgencyScore", entity.ScoreDefault, entity.ScoreMin, entity.ScoreMax),
			Stakeholders:   advisory.ListField(fields, "stakeholders"),
			Risks:          advisory.ListField(fields, "risks"),
			SuccessMetrics: advisory.ListField(fields, "successMetrics"),
			Rationale:      advisory.StringField(fields, "rationale", ""),
			CreatedAt:      generatedAt,
		})
	}
	return out, rec.JSONText, nil
}
