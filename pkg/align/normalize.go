package align

import "strings"

// strippedRunes 参与字符数比较前需要剔除的字符：空白、常见中英文标点、
// 引号和省略号。识别器和脚本双方都可能引入这些差异
const strippedRunes = " \t\n\r.,!?;:'\"“”‘’…·()[]{}「」『』—-~"

// NormalizeText 去除文本中的空白和标点，仅用于脚本与转录之间的字符数
// 比较，不是通用的Unicode规范化。幂等：对结果再次调用返回相同值
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if strings.ContainsRune(strippedRunes, r) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// normalizedLen 返回规范化后的字符数（按rune计数）
func normalizedLen(text string) int {
	count := 0
	for _, r := range text {
		if strings.ContainsRune(strippedRunes, r) {
			continue
		}
		count++
	}
	return count
}
