package node

import "strings"

// BuildListBlock 把字符串列表渲染为提示词里的条目块，空列表渲染为占位文案。
func BuildListBlock(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		cleaned = append(cleaned, "- "+it)
	}
	if len(cleaned) == 0 {
		return "（无）"
	}
	return strings.Join(cleaned, "\n")
}
