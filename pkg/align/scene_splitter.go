package align

import (
	"fmt"
	"math"
	"strings"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

// SplitLongScenes 把超长场景沿词边界拆分为多个子场景，保证没有场景
// 时长超过 targetMs * SceneDurationTolerance。
//
// 子场景的旁白文本由其时间窗口内的识别词重新拼出，而不是来自原始
// 脚本：拆分后的窄时间窗内需要与音频实际内容对应的文本。场景上的
// 指令（叠加层等）只保留在第一个子场景上，避免拆分后重复出现。
//
// 场景窗口内找不到词时保持原场景不动：没有词边界就无法安全拆分
func SplitLongScenes(scenes []models.Scene, words []models.Word, targetMs int) []models.Scene {
	maxDuration := float64(targetMs) * SceneDurationTolerance

	var result []models.Scene
	for _, scene := range scenes {
		duration := scene.Timing.DurationMs()
		if float64(duration) <= maxDuration {
			result = append(result, scene)
			continue
		}

		sceneWords := WordsInWindow(words,
			scene.Timing.StartMs-WordJitterWindowMs,
			scene.Timing.EndMs+WordJitterWindowMs)
		if len(sceneWords) == 0 {
			result = append(result, scene)
			continue
		}

		result = append(result, splitScene(scene, sceneWords, targetMs)...)
	}

	return result
}

// splitScene 把单个场景的词切成连续块，每块构成一个子场景
func splitScene(scene models.Scene, sceneWords []models.Word, targetMs int) []models.Scene {
	duration := scene.Timing.DurationMs()

	numSubs := int(math.Round(float64(duration) / float64(targetMs)))
	if numSubs < 2 {
		numSubs = 2
	}

	wordsPerSub := len(sceneWords) / numSubs
	if wordsPerSub < 1 {
		wordsPerSub = 1
	}

	var subs []models.Scene
	for i := 0; i < numSubs; i++ {
		lo := i * wordsPerSub
		if lo >= len(sceneWords) {
			// 词已用尽，子场景可以少于numSubs个
			break
		}

		hi := lo + wordsPerSub - 1
		if i == numSubs-1 || hi >= len(sceneWords) {
			// 最后一块吸收剩余的所有词
			hi = len(sceneWords) - 1
		}

		chunk := sceneWords[lo : hi+1]
		texts := make([]string, 0, len(chunk))
		for _, w := range chunk {
			texts = append(texts, strings.TrimSpace(w.Text))
		}

		sub := models.Scene{
			ID:        fmt.Sprintf("%s_%d", scene.ID, i+1),
			Narration: strings.Join(texts, " "),
			Timing: models.TimeRange{
				StartMs: chunk[0].StartMs,
				EndMs:   chunk[len(chunk)-1].EndMs,
			},
		}
		if i == 0 {
			sub.Directives = scene.Directives
		}

		subs = append(subs, sub)
	}

	return subs
}
