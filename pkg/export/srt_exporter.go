package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

// SRTExporter 负责将字幕导出为SRT文件
type SRTExporter struct {
	OutputFolder string
}

// NewSRTExporter 创建一个新的SRT导出器
func NewSRTExporter(outputFolder string) *SRTExporter {
	return &SRTExporter{
		OutputFolder: outputFolder,
	}
}

// GenerateSRTContent 从字幕文本和时间区间生成SRT格式内容。
// texts与timings按位置一一对应，空白文本被跳过
func (e *SRTExporter) GenerateSRTContent(texts []string, timings []models.TimeRange) string {
	var srtLines []string

	index := 1
	for i, text := range texts {
		if i >= len(timings) {
			break
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		timing := timings[i]
		srtLines = append(srtLines, fmt.Sprintf("%d", index))
		srtLines = append(srtLines, fmt.Sprintf("%s --> %s",
			utils.FormatSRTTime(timing.StartMs), utils.FormatSRTTime(timing.EndMs)))
		srtLines = append(srtLines, text)
		srtLines = append(srtLines, "") // 空行分隔
		index++
	}

	return strings.Join(srtLines, "\n")
}

// ExportSRT 导出SRT字幕文件
func (e *SRTExporter) ExportSRT(texts []string, timings []models.TimeRange, fileName string) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(e.OutputFolder, fileName)
	content := e.GenerateSRTContent(texts, timings)

	if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("写入SRT文件失败: %w", err)
	}

	utils.Info("已导出SRT文件: %s", outputFile)
	return outputFile, nil
}
