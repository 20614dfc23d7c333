package export

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

func TestGenerateSceneDocument(t *testing.T) {
	exporter := NewSceneExporter(t.TempDir())

	scenes := []models.Scene{
		{
			ID:        "intro",
			Narration: "안녕하세요 오늘은 복리입니다",
			Timing:    models.TimeRange{StartMs: 0, EndMs: 5000},
			Directives: []models.Directive{
				{Type: "image_hint", Args: []string{"돈이 자라는 나무"}},
			},
		},
		{
			ID:        "body_1",
			Narration: "복리는 이자에 이자가 붙는 구조입니다",
			Timing:    models.TimeRange{StartMs: 5000, EndMs: 12000},
		},
	}

	doc := exporter.GenerateSceneDocument(scenes, "narration.mp3")

	assert.Equal(t, 30, doc.Meta.FPS)
	assert.Equal(t, 1920, doc.Meta.Width)
	assert.Equal(t, 1080, doc.Meta.Height)
	assert.Equal(t, "narration.mp3", doc.Meta.AudioFile)

	assert.Len(t, doc.Scenes, 2)
	assert.Equal(t, "intro", doc.Scenes[0].ID)
	assert.Equal(t, 5000, doc.Scenes[0].EndMs)
	assert.Len(t, doc.Scenes[0].Directives, 1)
	assert.Equal(t, "image_hint", doc.Scenes[0].Directives[0].Type)

	// 没有指令的场景序列化为空数组而不是null
	assert.NotNil(t, doc.Scenes[1].Directives)
	assert.Empty(t, doc.Scenes[1].Directives)
}

func TestSceneDocumentJSONShape(t *testing.T) {
	exporter := NewSceneExporter(t.TempDir())

	doc := exporter.GenerateSceneDocument([]models.Scene{
		{ID: "s1", Narration: "테스트", Timing: models.TimeRange{StartMs: 0, EndMs: 1000}},
	}, "a.mp3")

	data, err := json.Marshal(doc)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"fps":30`)
	assert.Contains(t, string(data), `"startMs":0`)
	assert.Contains(t, string(data), `"directives":[]`)
}

func TestExportScenesWritesFile(t *testing.T) {
	dir := t.TempDir()
	exporter := NewSceneExporter(dir)

	path, err := exporter.ExportScenes([]models.Scene{
		{ID: "s1", Narration: "테스트", Timing: models.TimeRange{StartMs: 0, EndMs: 2000}},
	}, "narration.mp3", "scene.json")
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var doc SceneDocument
	assert.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "narration.mp3", doc.Meta.AudioFile)
	assert.Len(t, doc.Scenes, 1)
	assert.Equal(t, 2000, doc.Scenes[0].EndMs)
}
