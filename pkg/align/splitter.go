package align

import "strings"

// splitPunctuation 触发切分的标点集合
const splitPunctuation = ".,!?"

// SplitText 把文本切分为字幕大小的片段：优先按标点切分，无标点时按
// 词数切分，片段仍超长则继续切分。结果确定且不含空片段。
//
// 用显式工作栈代替语言层递归：无标点的超长文本递归深度与
// 文本长度/maxWords 成正比，栈上处理使深度有界且易于审计
func SplitText(text string, maxWords int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var result []string

	// LIFO栈，压栈时逆序以保持输出顺序
	stack := []string{text}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		current = strings.TrimSpace(current)
		if current == "" {
			continue
		}

		// 优先级1：标点切分，切出的子段可能仍超长，回栈继续处理
		if parts := splitOnPunctuation(current); parts != nil {
			for i := len(parts) - 1; i >= 0; i-- {
				stack = append(stack, parts[i])
			}
			continue
		}

		// 优先级2：无标点时按词数切分
		fields := strings.Fields(current)
		if maxWords > 0 && len(fields) >= maxWords {
			result = append(result, strings.Join(fields[:maxWords], " "))
			stack = append(stack, strings.Join(fields[maxWords:], " "))
			continue
		}

		// 足够短且无标点，整体作为一条
		result = append(result, current)
	}

	return result
}

// SplitNarrationTexts 对多行旁白逐行做字幕切分并合并结果
func SplitNarrationTexts(lines []string, maxWords int) []string {
	var all []string
	for _, line := range lines {
		all = append(all, SplitText(line, maxWords)...)
	}
	return all
}

// splitOnPunctuation 按标点把文本切成多段，标点保留在其所属片段末尾。
// 没有产生实际切分（少于两段）时返回nil
func splitOnPunctuation(text string) []string {
	var parts []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if strings.ContainsRune(splitPunctuation, r) {
			part := strings.TrimSpace(current.String())
			if part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		}
	}

	// 最后一个标点之后的剩余文本
	remainder := strings.TrimSpace(current.String())
	if remainder != "" {
		parts = append(parts, remainder)
	}

	if len(parts) > 1 {
		return parts
	}
	return nil
}
