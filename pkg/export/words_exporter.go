package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

// SubtitleSegmentJSON 渲染器字幕叠加层需要的段落条目
type SubtitleSegmentJSON struct {
	Text    string `json:"text"`
	StartMs int    `json:"startMs"`
	EndMs   int    `json:"endMs"`
}

// WordJSON 渲染器字幕叠加层需要的词条目
type WordJSON struct {
	Word    string `json:"word"`
	StartMs int    `json:"startMs"`
	EndMs   int    `json:"endMs"`
}

// WordsDocument words.json的完整结构
type WordsDocument struct {
	Segments []SubtitleSegmentJSON `json:"segments"`
	Words    []WordJSON            `json:"words"`
}

// WordsExporter 负责导出渲染器使用的词级JSON文件
type WordsExporter struct {
	OutputFolder string
}

// NewWordsExporter 创建一个新的词级JSON导出器
func NewWordsExporter(outputFolder string) *WordsExporter {
	return &WordsExporter{
		OutputFolder: outputFolder,
	}
}

// GenerateWordsDocument 组装words.json内容。
// 字幕文本来自原始脚本（避免识别错误进入显示文本），时间来自对齐结果；
// words为词级时间戳，没有识别结果时可以为空
func (e *WordsExporter) GenerateWordsDocument(texts []string, timings []models.TimeRange, words []models.Word) WordsDocument {
	doc := WordsDocument{
		Segments: make([]SubtitleSegmentJSON, 0, len(texts)),
		Words:    make([]WordJSON, 0, len(words)),
	}

	for i, text := range texts {
		if i >= len(timings) {
			break
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc.Segments = append(doc.Segments, SubtitleSegmentJSON{
			Text:    text,
			StartMs: timings[i].StartMs,
			EndMs:   timings[i].EndMs,
		})
	}

	for _, w := range words {
		doc.Words = append(doc.Words, WordJSON{
			Word:    w.Text,
			StartMs: w.StartMs,
			EndMs:   w.EndMs,
		})
	}

	return doc
}

// ExportWords 导出words.json文件
func (e *WordsExporter) ExportWords(texts []string, timings []models.TimeRange, words []models.Word, fileName string) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(e.OutputFolder, fileName)
	doc := e.GenerateWordsDocument(texts, timings, words)

	if err := utils.SaveJSONFile(outputFile, doc); err != nil {
		return "", err
	}

	utils.Info("已导出词级JSON文件: %s", outputFile)
	return outputFile, nil
}
