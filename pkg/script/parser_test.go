package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleScript = `---
title: 복리의 마법  # 영상 제목
voice: ko-KR-HyunsuNeural
style: dark_infographic
---

## intro
[text: "복리의 마법"]
[image_hint: a glowing money tree in a dark room]

안녕하세요.
오늘은 복리에 대해 알아봅시다.

## growth
[counter: 1000 -> 2000, won]
[stickman: waving]

시간이 지날수록 자산은 빠르게 불어납니다.
`

func TestParseFrontmatter(t *testing.T) {
	parsed, err := Parse(sampleScript)

	assert.NoError(t, err)
	assert.Equal(t, "복리의 마법", parsed.Meta["title"])
	assert.Equal(t, "ko-KR-HyunsuNeural", parsed.Meta["voice"])
	assert.Equal(t, "dark_infographic", parsed.Meta["style"])
}

func TestParseSections(t *testing.T) {
	parsed, err := Parse(sampleScript)

	assert.NoError(t, err)
	assert.Len(t, parsed.Sections, 2)

	intro := parsed.Sections[0]
	assert.Equal(t, "intro", intro.Name)
	assert.Equal(t, []string{"안녕하세요.", "오늘은 복리에 대해 알아봅시다."}, intro.NarrationLines)
	assert.Equal(t, "안녕하세요. 오늘은 복리에 대해 알아봅시다.", intro.Narration)

	growth := parsed.Sections[1]
	assert.Equal(t, "growth", growth.Name)
	assert.Equal(t, "시간이 지날수록 자산은 빠르게 불어납니다.", growth.Narration)
}

func TestParseDirectives(t *testing.T) {
	parsed, err := Parse(sampleScript)
	assert.NoError(t, err)

	intro := parsed.Sections[0]
	assert.Len(t, intro.Directives, 2)
	assert.Equal(t, "text", intro.Directives[0].Type)
	assert.Equal(t, []string{"복리의 마법"}, intro.Directives[0].Args)
	// image_hint整体作为一个参数
	assert.Equal(t, "image_hint", intro.Directives[1].Type)
	assert.Equal(t, []string{"a glowing money tree in a dark room"}, intro.Directives[1].Args)

	// counter解析为起止值+格式，已废弃的stickman指令被跳过
	growth := parsed.Sections[1]
	assert.Len(t, growth.Directives, 1)
	assert.Equal(t, "counter", growth.Directives[0].Type)
	assert.Equal(t, []string{"1000", "2000", "won"}, growth.Directives[0].Args)
}

func TestParseFullNarration(t *testing.T) {
	parsed, err := Parse(sampleScript)

	assert.NoError(t, err)
	assert.Equal(t,
		"안녕하세요. 오늘은 복리에 대해 알아봅시다. 시간이 지날수록 자산은 빠르게 불어납니다.",
		parsed.FullNarration)
}

func TestParseNoFrontmatter(t *testing.T) {
	parsed, err := Parse("## only\n\n나레이션 한 줄\n")

	assert.NoError(t, err)
	assert.Empty(t, parsed.Meta)
	assert.Len(t, parsed.Sections, 1)
	assert.Equal(t, "나레이션 한 줄", parsed.Sections[0].Narration)
}

func TestScriptVoiceFallback(t *testing.T) {
	parsed, err := Parse("## s\n\n줄\n")
	assert.NoError(t, err)
	assert.Equal(t, "ko-KR-SunHiNeural", parsed.Voice("ko-KR-SunHiNeural"))

	parsed, err = Parse(sampleScript)
	assert.NoError(t, err)
	assert.Equal(t, "ko-KR-HyunsuNeural", parsed.Voice("ko-KR-SunHiNeural"))
}

func TestNarrationLines(t *testing.T) {
	parsed, err := Parse(sampleScript)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		"안녕하세요.",
		"오늘은 복리에 대해 알아봅시다.",
		"시간이 지날수록 자산은 빠르게 불어납니다.",
	}, parsed.NarrationLines())
}

func TestParseFile(t *testing.T) {
	tempDir := t.TempDir()
	scriptPath := filepath.Join(tempDir, "test_script.md")
	err := os.WriteFile(scriptPath, []byte(sampleScript), 0644)
	assert.NoError(t, err)

	parsed, err := ParseFile(scriptPath)
	assert.NoError(t, err)
	assert.Len(t, parsed.Sections, 2)

	// 不存在的文件
	_, err = ParseFile(filepath.Join(tempDir, "missing.md"))
	assert.Error(t, err)
}
