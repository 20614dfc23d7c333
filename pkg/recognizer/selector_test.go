package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newStubCreator() ServiceCreator {
	return func(audioPath string, language string, useCache bool) (Service, error) {
		return nil, nil
	}
}

func TestSelectorRegisterAndSelect(t *testing.T) {
	selector := NewSelector()

	// 没有注册任何服务时无法选择
	_, _, ok := selector.SelectService("weighted_random")
	assert.False(t, ok)

	selector.RegisterService("whisper", newStubCreator(), 10)

	name, creator, ok := selector.SelectService("weighted_random")
	assert.True(t, ok)
	assert.Equal(t, "whisper", name)
	assert.NotNil(t, creator)
}

func TestSelectorRoundRobin(t *testing.T) {
	selector := NewSelector()
	selector.RegisterService("a", newStubCreator(), 1)
	selector.RegisterService("b", newStubCreator(), 1)

	seen := make(map[string]int)
	for i := 0; i < 4; i++ {
		name, _, ok := selector.SelectService("round_robin")
		assert.True(t, ok)
		seen[name]++
	}

	// 轮询应该均匀覆盖两个服务
	assert.Equal(t, 2, seen["a"])
	assert.Equal(t, 2, seen["b"])
}

func TestSelectorDisablesFailingService(t *testing.T) {
	selector := NewSelector()
	selector.RegisterService("flaky", newStubCreator(), 1)

	// 连续失败超过阈值后服务被临时禁用
	for i := 0; i < 6; i++ {
		selector.ReportResult("flaky", false)
	}

	_, _, ok := selector.SelectService("weighted_random")
	assert.False(t, ok)

	// 一次成功后恢复可用
	selector.ReportResult("flaky", true)
	_, _, ok = selector.SelectService("weighted_random")
	assert.True(t, ok)
}

func TestSelectorStats(t *testing.T) {
	selector := NewSelector()
	selector.RegisterService("whisper", newStubCreator(), 10)

	selector.ReportResult("whisper", true)
	selector.ReportResult("whisper", false)

	stats := selector.GetStats()
	assert.Contains(t, stats, "whisper")
	assert.Equal(t, "50.0%", stats["whisper"]["success_rate"])
	assert.Equal(t, true, stats["whisper"]["available"])
}
