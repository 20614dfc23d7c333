package align

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

func TestSplitLongScenesKeepsShortScene(t *testing.T) {
	scenes := []models.Scene{
		{ID: "scene_1", Narration: "짧은 장면", Timing: models.TimeRange{StartMs: 0, EndMs: 12000}},
	}

	// 12000ms <= 15000*1.3，保持不变
	result := SplitLongScenes(scenes, makeSegmentWords(0, 10, 1200), 15000)

	assert.Equal(t, scenes, result)
}

func TestSplitLongScenesTwoSubScenes(t *testing.T) {
	// 21000ms的场景，目标15000ms：round(21000/15000)=1，钳制到2个子场景
	words := make([]models.Word, 0, 14)
	texts := []string{"복리는", "시간이", "지날수록", "더", "큰", "힘을",
		"발휘하는", "마법", "같은", "원리", "입니다", "지금", "시작", "하세요"}
	for i, text := range texts {
		words = append(words, models.Word{Text: text, StartMs: i * 1500, EndMs: i*1500 + 1400})
	}

	scenes := []models.Scene{
		{
			ID:        "scene_1",
			Narration: "원래 스크립트 문장",
			Timing:    models.TimeRange{StartMs: 0, EndMs: 21000},
			Directives: []models.Directive{
				{Type: "text", Args: []string{"복리의 마법"}},
			},
		},
	}

	result := SplitLongScenes(scenes, words, 15000)

	// 21000ms窗口（含±200ms容差）内的词: EndMs <= 21200 → 前14个词里EndMs最大的是words[13].EndMs=20900
	assert.Len(t, result, 2)

	// 词数按 len//2 切分，最后一块吸收余数
	assert.Equal(t, "scene_1_1", result[0].ID)
	assert.Equal(t, "scene_1_2", result[1].ID)
	assert.Equal(t, words[0].StartMs, result[0].Timing.StartMs)
	assert.Equal(t, words[6].EndMs, result[0].Timing.EndMs)
	assert.Equal(t, words[7].StartMs, result[1].Timing.StartMs)
	assert.Equal(t, words[13].EndMs, result[1].Timing.EndMs)

	// 子场景旁白由识别词重新拼出
	assert.Equal(t, "복리는 시간이 지날수록 더 큰 힘을 발휘하는", result[0].Narration)
	assert.Equal(t, "마법 같은 원리 입니다 지금 시작 하세요", result[1].Narration)

	// 指令只保留在第一个子场景上
	assert.Len(t, result[0].Directives, 1)
	assert.Empty(t, result[1].Directives)
}

func TestSplitLongScenesNoWordsInWindow(t *testing.T) {
	scenes := []models.Scene{
		{ID: "scene_1", Timing: models.TimeRange{StartMs: 0, EndMs: 30000}},
	}
	// 所有词都在场景窗口之外
	words := makeSegmentWords(40000, 5, 500)

	result := SplitLongScenes(scenes, words, 15000)

	// 没有词边界无法安全拆分，保持原样
	assert.Equal(t, scenes, result)
}

func TestSplitLongScenesDurationBound(t *testing.T) {
	// 60000ms的长场景拆出的每个子场景都不超过 15000*1.3 + 容差
	words := make([]models.Word, 0, 40)
	for i := 0; i < 40; i++ {
		words = append(words, models.Word{Text: "단어", StartMs: i * 1500, EndMs: i*1500 + 1400})
	}
	scenes := []models.Scene{
		{ID: "scene_1", Timing: models.TimeRange{StartMs: 0, EndMs: 60000}},
	}

	result := SplitLongScenes(scenes, words, 15000)

	assert.Equal(t, 4, len(result))
	bound := int(15000*SceneDurationTolerance) + 2*WordJitterWindowMs
	for _, sub := range result {
		assert.LessOrEqual(t, sub.Timing.DurationMs(), bound, "子场景 %s 超长", sub.ID)
		assert.LessOrEqual(t, sub.Timing.StartMs, sub.Timing.EndMs)
	}
}

func TestSplitLongScenesFewWords(t *testing.T) {
	// 词数少于子场景数时，词用尽后停止，不产生空子场景
	words := []models.Word{
		{Text: "하나", StartMs: 0, EndMs: 20000},
		{Text: "둘", StartMs: 20000, EndMs: 45000},
	}
	scenes := []models.Scene{
		{ID: "scene_1", Timing: models.TimeRange{StartMs: 0, EndMs: 45000}},
	}

	result := SplitLongScenes(scenes, words, 15000)

	// numSubs=3 但只有2个词
	assert.Len(t, result, 2)
	assert.Equal(t, "하나", result[0].Narration)
	assert.Equal(t, "둘", result[1].Narration)
}
