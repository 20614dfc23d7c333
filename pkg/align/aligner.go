package align

import (
	"math"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

// AlignNarration 将一组旁白文本按字符数比例映射到识别词时间戳上，
// 每个旁白对应一个TimeRange，顺序与输入一致。
//
// 返回的bool表示是否基于词时间戳完成了对齐：words为空（或全部词
// 规范化后为空）时返回全(0,0)和false，调用方应改用估算时间
// （见EstimateLineTimings）。
//
// 不做逐词匹配：识别器听错专有名词或数字时逐词匹配会整体错位，而
// 总时长与总字符数的相关性仍然成立，按比例映射只会产生局部偏移。
func AlignNarration(units []string, words []models.Word) ([]models.TimeRange, bool) {
	ranges := make([]models.TimeRange, 0, len(units))

	if len(words) == 0 {
		for range units {
			ranges = append(ranges, models.TimeRange{})
		}
		return ranges, false
	}

	// 词序列的累计规范化字符数，cum[i] = 第i个词之前的字符总数
	cum := make([]int, len(words))
	totalAudioChars := 0
	for i, w := range words {
		cum[i] = totalAudioChars
		totalAudioChars += normalizedLen(w.Text)
	}

	// 所有词规范化后都为空，等同于无词可用
	if totalAudioChars == 0 {
		for range units {
			ranges = append(ranges, models.TimeRange{})
		}
		return ranges, false
	}

	totalScriptChars := 0
	for _, u := range units {
		totalScriptChars += normalizedLen(u)
	}

	scriptOffset := 0
	for i, unit := range units {
		unitChars := normalizedLen(unit)

		// 空白旁白：锚定在上一条的结束处，宽度为零
		if unitChars == 0 {
			prevEnd := words[0].StartMs
			if len(ranges) > 0 {
				prevEnd = ranges[len(ranges)-1].EndMs
			}
			ranges = append(ranges, models.TimeRange{StartMs: prevEnd, EndMs: prevEnd})
			continue
		}

		startTarget := charTarget(scriptOffset, totalScriptChars, totalAudioChars)
		startIdx := wordIndexForChar(cum, startTarget)

		// 结束位置取该旁白最后一个字符所落到的词
		endTarget := charTarget(scriptOffset+unitChars, totalScriptChars, totalAudioChars) - 1
		if endTarget < startTarget {
			endTarget = startTarget
		}
		endIdx := wordIndexForChar(cum, endTarget)
		if endIdx < startIdx {
			endIdx = startIdx
		}

		endMs := words[endIdx].EndMs
		if i == len(units)-1 {
			// 最后一条延伸到音频末尾，避免取整截掉尾音
			endMs = words[len(words)-1].EndMs
		}

		ranges = append(ranges, models.TimeRange{
			StartMs: words[startIdx].StartMs,
			EndMs:   endMs,
		})

		scriptOffset += unitChars
	}

	return ranges, true
}

// charTarget 把脚本字符偏移按比例换算为音频侧的目标字符数
func charTarget(scriptChars, totalScriptChars, totalAudioChars int) int {
	if totalScriptChars <= 0 {
		return 0
	}
	ratio := float64(scriptChars) / float64(totalScriptChars)
	return int(math.Floor(ratio * float64(totalAudioChars)))
}

// wordIndexForChar 找到累计字符数不超过target的最大词下标。
// 多个词累计值相同时（词规范化后为空）取其中最小的下标。
// 结果始终落在[0, len(cum)-1]内
func wordIndexForChar(cum []int, target int) int {
	idx := 0
	for i := 1; i < len(cum); i++ {
		if cum[i] <= target && cum[i] > cum[idx] {
			idx = i
		}
	}
	return idx
}
