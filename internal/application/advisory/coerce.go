package advisory

import (
	"encoding/json"
	"math"
	"strings"
)

// ListPlaceholder 是列表字段缺失或非列表时的占位条目。
const ListPlaceholder = "待补充"

// DecodeItem 把单个原始条目解成松散字段表。
// 非对象条目（字符串、数字等）降级为空表，由默认值规则兜底，绝不让单条数据拖垮整批。
func DecodeItem(raw json.RawMessage) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return map[string]any{}
	}
	return fields
}

// StringField 取字符串字段，缺失或类型不符时返回默认值。
func StringField(fields map[string]any, key, def string) string {
	if v, ok := fields[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return def
}

// ListField 取字符串列表字段；缺失或非列表时返回单元素占位列表。
func ListField(fields map[string]any, key string) []string {
	v, ok := fields[key]
	if !ok {
		return []string{ListPlaceholder}
	}
	items, ok := v.([]any)
	if !ok {
		return []string{ListPlaceholder}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// ScoreField 取有界整数分值，非数字取默认值，数字钳到 [min, max]。
func ScoreField(fields map[string]any, key string, def, min, max int) int {
	v, ok := fields[key].(float64)
	if !ok {
		return def
	}
	n := int(math.Round(v))
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// FloatField 取有界浮点字段，非数字取默认值，数字钳到 [min, max]。
func FloatField(fields map[string]any, key string, def, min, max float64) float64 {
	v, ok := fields[key].(float64)
	if !ok {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// IntField 取非负整数字段（无上界钳制），非数字或负数取默认值。
func IntField(fields map[string]any, key string, def int) int {
	v, ok := fields[key].(float64)
	if !ok {
		return def
	}
	n := int(math.Round(v))
	if n < 0 {
		return def
	}
	return n
}

// NestedField 取嵌套对象字段，缺失或非对象时返回空表。
func NestedField(fields map[string]any, key string) map[string]any {
	if v, ok := fields[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
