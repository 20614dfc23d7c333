package align

import (
	"unicode/utf8"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

// EstimateLineTimings 在没有识别结果时按字符数估算每行字幕的时间：
// 每行时长 = max(minLineMs, 字符数*msPerChar)，行与行之间留gapMs间隔。
// 对齐器返回false时由调用方切换到此估算（离线降级模式）
func EstimateLineTimings(lines []string, msPerChar, gapMs, minLineMs int) []models.TimeRange {
	ranges := make([]models.TimeRange, 0, len(lines))

	currentMs := 0
	for _, line := range lines {
		duration := utf8.RuneCountInString(line) * msPerChar
		if duration < minLineMs {
			duration = minLineMs
		}

		ranges = append(ranges, models.TimeRange{
			StartMs: currentMs,
			EndMs:   currentMs + duration,
		})
		currentMs += duration + gapMs
	}

	return ranges
}
