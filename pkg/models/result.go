package models

// PipelineResult 一次流水线运行的结果统计信息
type PipelineResult struct {
	RunID         string            `json:"run_id"`          // 本次运行的唯一ID
	ScriptPath    string            `json:"script_path"`     // 处理的脚本路径
	Recognizer    string            `json:"recognizer"`      // 使用的识别服务，估算模式为空
	Aligned       bool              `json:"aligned"`         // 是否使用了识别结果对齐（false表示估算时间）
	OutputFiles   map[string]string `json:"output_files"`    // 输出文件路径
	SubtitleCount int               `json:"subtitle_count"`  // 字幕条数
	SceneCount    int               `json:"scene_count"`     // 场景数（拆分后）
	DurationMs    int               `json:"duration_ms"`     // 音频时长（毫秒）
	ProcessTimeMs int64             `json:"process_time_ms"` // 处理时间（毫秒）
}
