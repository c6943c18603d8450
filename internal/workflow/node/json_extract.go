package node

import (
	"regexp"
	"strings"
)

// ExtractionStrategy 标记候选 JSON 子串由哪个策略定位得到，仅用于诊断与指标。
type ExtractionStrategy string

const (
	StrategyKeyMatch      ExtractionStrategy = "key_match"      // 命中期望顶层键
	StrategyGenericObject ExtractionStrategy = "generic_object" // 命中任意对象开头
	StrategyGenericArray  ExtractionStrategy = "generic_array"  // 命中数组包对象开头
	StrategyNone          ExtractionStrategy = "none"           // 全部策略落空，原文返回
)

// Extraction 是定位器的产出：候选 JSON 文本与产生它的策略。
type Extraction struct {
	Text     string
	Strategy ExtractionStrategy
}

// Segment 对应补全服务返回的一个独立文本块（例如工具调用穿插时的多段输出）。
type Segment struct {
	Type string
	Text string
}

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	genericObjectRe = regexp.MustCompile(`\{\s*"[^"]+"\s*:`)
	genericArrayRe  = regexp.MustCompile(`\[\s*\{`)
)

// StripMarkdownFences 去掉包裹 JSON 的 markdown 代码围栏。
// 无围栏时原样返回，因此重复调用是幂等的。
func StripMarkdownFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ExtractBalancedObject 从 s 的起始位置截取第一个花括号配平的 JSON 对象。
// 扫描逻辑对字符串字面量与转义序列敏感：出现在字符串内部的花括号不参与计数。
// 输入在计数归零前结束时返回整个输入，由解码阶段显式失败，绝不静默截断。
func ExtractBalancedObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// ExtractBalancedArray 是方括号计数的变体，用于顶层数组形态的载荷。
func ExtractBalancedArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return s
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			// 一次性转义标记：下一个字符不参与任何结构判断。
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case open:
			if !inString {
				depth++
			}
		case close:
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	// 未闭合：原样返回，向调用方表达“找不到闭合符”。
	return s
}

// LocateJSONForKey 在完整响应文本中定位最可能包含期望顶层键的 JSON 值。
// 按顺序尝试多级策略，保证终止且不会静默给出错误答案：
//  1. 大小写不敏感地匹配 “{ … "key" :” 模式，从命中处做括号配平截取；
//  2. 匹配任意 “{ "任意键" :” 的对象开头；
//  3. 匹配 “[ {” 的数组开头，切换为方括号配平；
//  4. 全部失败则返回原文，交由解码阶段报错。
func LocateJSONForKey(text, key string) Extraction {
	keyRe := regexp.MustCompile(`(?is)\{.*?"` + regexp.QuoteMeta(key) + `"\s*:`)
	if loc := keyRe.FindStringIndex(text); loc != nil {
		return Extraction{Text: ExtractBalancedObject(text[loc[0]:]), Strategy: StrategyKeyMatch}
	}
	if loc := genericObjectRe.FindStringIndex(text); loc != nil {
		return Extraction{Text: ExtractBalancedObject(text[loc[0]:]), Strategy: StrategyGenericObject}
	}
	if loc := genericArrayRe.FindStringIndex(text); loc != nil {
		return Extraction{Text: ExtractBalancedArray(text[loc[0]:]), Strategy: StrategyGenericArray}
	}
	return Extraction{Text: text, Strategy: StrategyNone}
}

// SelectSegment 在多段响应中挑出承载目标 JSON 的那一段。
// 规则：按生成顺序扫描，首个同时满足“含带引号的期望键”与“含配对的
// 花括号或方括号”的段胜出；全部不符合时回退到最后一段（经验上模型的
// 结构化结论最常出现在结尾段）。该选择发生在去围栏与定位器之前。
func SelectSegment(segments []Segment, key string) string {
	if len(segments) == 0 {
		return ""
	}
	quotedKey := regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(key) + `"\s*:`)
	for _, seg := range segments {
		if !quotedKey.MatchString(seg.Text) {
			continue
		}
		if hasBalancedPair(seg.Text, '{', '}') || hasBalancedPair(seg.Text, '[', ']') {
			return seg.Text
		}
	}
	return segments[len(segments)-1].Text
}

func hasBalancedPair(s string, open, close byte) bool {
	o := strings.IndexByte(s, open)
	return o >= 0 && strings.LastIndexByte(s, close) > o
}
