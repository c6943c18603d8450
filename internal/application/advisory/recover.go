// Package advisory 提供“需求/解决方案”两条生成管线共用的
// JSON 恢复与解码能力：多段选择 → 去围栏 → 定位 → 配平截取 → 解码。
// 两条管线只在顶层键与条目映射上不同，抽取逻辑只有这一份。
package advisory

import (
	"encoding/json"
	"strconv"
	"strings"

	apperrors "biz-advisory-ai-api/pkg/errors"
	"biz-advisory-ai-api/pkg/metrics"

	"biz-advisory-ai-api/internal/workflow/node"
)

// rawDiagnosticLimit 控制错误详情里附带的原始文本长度。
const rawDiagnosticLimit = 300

// Recovered 是恢复阶段的产物：候选 JSON 文本、原始条目列表与命中的策略。
type Recovered struct {
	JSONText string
	Strategy node.ExtractionStrategy
	Items    []json.RawMessage
}

// RecoverList 从补全服务的多段输出中恢复出 key 对应的条目列表。
// 结构性失败（定位失败 / 解析失败 / 形状不符）以带码错误返回，
// 绝不在内部重试：同样的畸形文本重跑一遍不会有不同结果。
func RecoverList(segments []node.Segment, key string) (*Recovered, error) {
	text := node.SelectSegment(segments, key)
	text = node.StripMarkdownFences(text)

	// 裸数组属于历史兼容形态：定位器的通用对象策略会钻进首个元素，
	// 所以文本本身以 [ 开头时直接走方括号配平。
	var ext node.Extraction
	if strings.HasPrefix(strings.TrimSpace(text), "[") {
		ext = node.Extraction{Text: node.ExtractBalancedArray(text), Strategy: node.StrategyGenericArray}
	} else {
		ext = node.LocateJSONForKey(text, key)
	}
	metrics.ExtractionStrategyTotal.WithLabelValues(string(ext.Strategy)).Inc()

	if ext.Strategy == node.StrategyNone {
		return nil, apperrors.New(apperrors.CodeExtractionFailed, "no JSON value located in model output").
			WithDetail("raw: " + node.TruncateByRunes(text, rawDiagnosticLimit))
	}

	items, err := decodeEnvelope(ext.Text, key)
	if err != nil {
		return nil, err
	}
	return &Recovered{JSONText: ext.Text, Strategy: ext.Strategy, Items: items}, nil
}

// RecoverFromText 是单段文本的便捷入口。
func RecoverFromText(text, key string) (*Recovered, error) {
	return RecoverList([]node.Segment{{Type: "text", Text: text}}, key)
}

// decodeEnvelope 接受两种顶层形状：裸数组，或暴露 key 数组属性的对象。
// 其它形状一律显式失败，不做进一步猜测。
func decodeEnvelope(jsonText, key string) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(jsonText)

	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeParseFailed, "model output is not valid JSON").
				WithDetail("raw: " + node.TruncateByRunes(trimmed, rawDiagnosticLimit))
		}
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeParseFailed, "model output is not valid JSON").
			WithDetail("raw: " + node.TruncateByRunes(trimmed, rawDiagnosticLimit))
	}

	listRaw, ok := obj[key]
	if !ok {
		// 定位阶段对键大小写不敏感，这里保持一致。
		for k, v := range obj {
			if strings.EqualFold(k, key) {
				listRaw, ok = v, true
				break
			}
		}
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeInvalidStructure, "parsed JSON does not expose list property "+strconv.Quote(key))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(listRaw, &items); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidStructure, "property "+strconv.Quote(key)+" is not an array")
	}
	return items, nil
}
