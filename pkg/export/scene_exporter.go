package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

// SceneMeta scene.json的渲染元信息
type SceneMeta struct {
	FPS       int    `json:"fps"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	AudioFile string `json:"audioFile"`
}

// DirectiveJSON 场景指令的序列化形式
type DirectiveJSON struct {
	Type string   `json:"type"`
	Args []string `json:"args"`
}

// SceneJSON 单个场景条目
type SceneJSON struct {
	ID         string          `json:"id"`
	Narration  string          `json:"narration"`
	StartMs    int             `json:"startMs"`
	EndMs      int             `json:"endMs"`
	Directives []DirectiveJSON `json:"directives"`
}

// SceneDocument scene.json的完整结构
type SceneDocument struct {
	Meta   SceneMeta   `json:"meta"`
	Scenes []SceneJSON `json:"scenes"`
}

// SceneExporter 负责导出渲染器使用的场景JSON文件
type SceneExporter struct {
	OutputFolder string
	FPS          int
	Width        int
	Height       int
}

// NewSceneExporter 创建一个新的场景JSON导出器，使用默认的1080p/30fps渲染参数
func NewSceneExporter(outputFolder string) *SceneExporter {
	return &SceneExporter{
		OutputFolder: outputFolder,
		FPS:          30,
		Width:        1920,
		Height:       1080,
	}
}

// GenerateSceneDocument 组装scene.json内容
func (e *SceneExporter) GenerateSceneDocument(scenes []models.Scene, audioFile string) SceneDocument {
	doc := SceneDocument{
		Meta: SceneMeta{
			FPS:       e.FPS,
			Width:     e.Width,
			Height:    e.Height,
			AudioFile: audioFile,
		},
		Scenes: make([]SceneJSON, 0, len(scenes)),
	}

	for _, scene := range scenes {
		item := SceneJSON{
			ID:         scene.ID,
			Narration:  scene.Narration,
			StartMs:    scene.Timing.StartMs,
			EndMs:      scene.Timing.EndMs,
			Directives: make([]DirectiveJSON, 0, len(scene.Directives)),
		}
		for _, d := range scene.Directives {
			item.Directives = append(item.Directives, DirectiveJSON{
				Type: d.Type,
				Args: d.Args,
			})
		}
		doc.Scenes = append(doc.Scenes, item)
	}

	return doc
}

// ExportScenes 导出scene.json文件
func (e *SceneExporter) ExportScenes(scenes []models.Scene, audioFile, fileName string) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(e.OutputFolder, fileName)
	doc := e.GenerateSceneDocument(scenes, audioFile)

	if err := utils.SaveJSONFile(outputFile, doc); err != nil {
		return "", err
	}

	utils.Info("已导出场景JSON文件: %s", outputFile)
	return outputFile, nil
}
