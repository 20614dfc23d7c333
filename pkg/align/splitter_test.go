package align

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

// stripSpace 去掉所有空白字符，用于验证切分的重组性质
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestSplitTextByPunctuation(t *testing.T) {
	// 标点优先切分，两段都不超过词数上限，无需继续递归
	parts := SplitText("안녕하세요. 오늘은 복리에 대해 알아봅시다.", 9)

	assert.Equal(t, []string{"안녕하세요.", "오늘은 복리에 대해 알아봅시다."}, parts)
}

func TestSplitTextByWordCount(t *testing.T) {
	// 无标点的长文本按词数切分，最后一块可以更短
	words := make([]string, 25)
	for i := range words {
		words[i] = fmt.Sprintf("단어%d", i)
	}
	text := strings.Join(words, " ")

	parts := SplitText(text, 9)

	assert.Len(t, parts, 3)
	assert.Len(t, strings.Fields(parts[0]), 9)
	assert.Len(t, strings.Fields(parts[1]), 9)
	assert.Len(t, strings.Fields(parts[2]), 7)
}

func TestSplitTextWordCountBound(t *testing.T) {
	// 无内部标点的片段词数都不得超过上限
	text := "하나 둘 셋, 넷 다섯 여섯 일곱 여덟 아홉 열 열하나 열둘 열셋 열넷"

	parts := SplitText(text, 5)

	for _, part := range parts {
		if !strings.ContainsAny(part, splitPunctuation) {
			assert.LessOrEqual(t, len(strings.Fields(part)), 5, "片段超过词数上限: %q", part)
		}
	}
}

func TestSplitTextRecursiveTiers(t *testing.T) {
	// 标点切出的子段仍超长时继续按词数切分
	text := "짧은 문장. 여기 아주 길고 쉼표도 마침표도 전혀 없는 문장이 하나 있습니다"

	parts := SplitText(text, 5)

	assert.Equal(t, "짧은 문장.", parts[0])
	assert.Greater(t, len(parts), 2)
	for _, part := range parts[1:] {
		assert.LessOrEqual(t, len(strings.Fields(part)), 5)
	}
}

func TestSplitTextReconstruction(t *testing.T) {
	// 所有输出拼接后（忽略空白）必须精确还原输入的非空白字符
	inputs := []string{
		"안녕하세요. 오늘은 복리에 대해 알아봅시다.",
		"쉼표, 느낌표! 물음표? 마침표. 그리고 나머지",
		"공백만   여러 개    있는 문장",
	}

	for _, input := range inputs {
		parts := SplitText(input, 4)
		assert.Equal(t, stripSpace(input), stripSpace(strings.Join(parts, "")), "输入: %q", input)
		for _, part := range parts {
			assert.NotEmpty(t, part)
		}
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := "하나 둘 셋. 넷 다섯 여섯 일곱 여덟 아홉 열 열하나"

	first := SplitText(text, 4)
	second := SplitText(text, 4)

	assert.Equal(t, first, second)
}

func TestSplitTextEmpty(t *testing.T) {
	assert.Nil(t, SplitText("", 9))
	assert.Nil(t, SplitText("   \t\n", 9))
}

func TestSplitTextPathologicalLongRun(t *testing.T) {
	// 完全没有标点的超长文本：工作栈深度有界，不会栈溢出
	words := make([]string, 2000)
	for i := range words {
		words[i] = "가나다"
	}
	text := strings.Join(words, " ")

	parts := SplitText(text, 9)

	assert.Len(t, parts, 223) // 222个9词块 + 1个2词块
	for _, part := range parts {
		assert.LessOrEqual(t, len(strings.Fields(part)), 9)
	}
}

func TestSplitNarrationTexts(t *testing.T) {
	lines := []string{
		"첫 번째 줄입니다.",
		"",
		"두 번째 줄. 이어지는 문장",
	}

	parts := SplitNarrationTexts(lines, 9)

	assert.Equal(t, []string{"첫 번째 줄입니다.", "두 번째 줄.", "이어지는 문장"}, parts)
}
