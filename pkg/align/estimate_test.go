package align

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

func TestEstimateLineTimings(t *testing.T) {
	lines := []string{
		"안녕하세요 오늘은 복리입니다 좋아요", // 19字符（含空格）→ 1900ms
		"네", // 1字符 → 低于下限，取1500ms
	}

	ranges := EstimateLineTimings(lines, 100, 200, 1500)

	assert.Len(t, ranges, 2)
	assert.Equal(t, models.TimeRange{StartMs: 0, EndMs: 1900}, ranges[0])
	// 行间留200ms间隔
	assert.Equal(t, models.TimeRange{StartMs: 2100, EndMs: 3600}, ranges[1])
}

func TestEstimateLineTimingsEmpty(t *testing.T) {
	assert.Empty(t, EstimateLineTimings(nil, 100, 200, 1500))
}

func TestEstimateLineTimingsMonotonic(t *testing.T) {
	lines := []string{"하나", "둘", "셋", "넷"}

	ranges := EstimateLineTimings(lines, 100, 200, 1500)

	for i := 1; i < len(ranges); i++ {
		assert.Greater(t, ranges[i].StartMs, ranges[i-1].EndMs)
	}
}
