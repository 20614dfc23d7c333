package align

import (
	"math"
	"strings"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

// WordsInWindow 返回时间完全落在[startMs, endMs]内的词，输入顺序保持不变
func WordsInWindow(words []models.Word, startMs, endMs int) []models.Word {
	var result []models.Word
	for _, w := range words {
		if w.StartMs >= startMs && w.EndMs <= endMs {
			result = append(result, w)
		}
	}
	return result
}

// DistributeSegmentWords 在单个识别段落内部，把该段落的词按词数比例
// 分配给多条字幕，返回与parts等长的TimeRange列表。
//
// parts只有一条、或段落内没有词时，每条都直接使用段落自身的时间。
// 否则按每条字幕的词数占比切分词下标区间，最后一条吸收剩余的全部词
// （整数取整的残差）。产生的区间连续且StartMs非递减。
func DistributeSegmentWords(seg models.RecognizerSegment, segWords []models.Word, parts []string) []models.TimeRange {
	ranges := make([]models.TimeRange, 0, len(parts))

	if len(parts) == 0 {
		return ranges
	}

	if len(parts) == 1 || len(segWords) == 0 {
		for range parts {
			ranges = append(ranges, models.TimeRange{StartMs: seg.StartMs, EndMs: seg.EndMs})
		}
		return ranges
	}

	// 每条字幕的词数，至少按1计
	partWordCounts := make([]int, len(parts))
	totalPartWords := 0
	for i, p := range parts {
		count := len(strings.Fields(p))
		if count < 1 {
			count = 1
		}
		partWordCounts[i] = count
		totalPartWords += count
	}

	wordIdx := 0
	for i := range parts {
		var endIdx int
		if i == len(parts)-1 {
			// 最后一条拿走剩下的所有词
			endIdx = len(segWords) - 1
		} else {
			expected := int(math.Round(float64(partWordCounts[i]) / float64(totalPartWords) * float64(len(segWords))))
			if expected < 1 {
				expected = 1
			}
			endIdx = wordIdx + expected - 1
			if endIdx >= len(segWords) {
				endIdx = len(segWords) - 1
			}
		}

		if endIdx < wordIdx {
			endIdx = wordIdx
		}

		ranges = append(ranges, models.TimeRange{
			StartMs: segWords[wordIdx].StartMs,
			EndMs:   segWords[endIdx].EndMs,
		})

		wordIdx = endIdx + 1
		if wordIdx >= len(segWords) {
			wordIdx = len(segWords) - 1
		}
	}

	return ranges
}

// BuildSegmentSubtitles 直接从识别段落构建字幕：先对每个段落做文本切分，
// 再把段落内的词分配到各条字幕上，得到精确的词级时间。
// 返回字幕文本与时间区间两个等长列表
func BuildSegmentSubtitles(segments []models.RecognizerSegment, words []models.Word, maxWords int) ([]string, []models.TimeRange) {
	var texts []string
	var timings []models.TimeRange

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		parts := SplitText(text, maxWords)
		if len(parts) == 0 {
			continue
		}

		// 段落边界留容差窗口，吸收识别器的边界抖动
		segWords := WordsInWindow(words, seg.StartMs-WordJitterWindowMs, seg.EndMs+WordJitterWindowMs)

		ranges := DistributeSegmentWords(seg, segWords, parts)
		texts = append(texts, parts...)
		timings = append(timings, ranges...)
	}

	return texts, timings
}
