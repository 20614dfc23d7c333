package models

// Word 表示识别出的一个词及其时间戳（毫秒）
type Word struct {
	Text    string `json:"text"`     // 词文本
	StartMs int    `json:"start_ms"` // 开始时间（毫秒）
	EndMs   int    `json:"end_ms"`   // 结束时间（毫秒）
}

// RecognizerSegment 表示识别出的一个段落（句子/短语级别）
type RecognizerSegment struct {
	Text    string `json:"text"`     // 段落文本
	StartMs int    `json:"start_ms"` // 开始时间（毫秒）
	EndMs   int    `json:"end_ms"`   // 结束时间（毫秒）
}

// NarrationUnit 表示原始脚本中的一段旁白文本，本身不带时间信息
type NarrationUnit struct {
	Text string `json:"text"`
}

// TimeRange 表示一段文本锚定到音频的时间区间，StartMs <= EndMs
type TimeRange struct {
	StartMs int `json:"start_ms"`
	EndMs   int `json:"end_ms"`
}

// DurationMs 返回区间时长（毫秒）
func (r TimeRange) DurationMs() int {
	return r.EndMs - r.StartMs
}

// Transcript 表示一次完整的语音识别结果
type Transcript struct {
	Text       string              `json:"text"`        // 完整转录文本
	Words      []Word              `json:"words"`       // 词级时间戳
	Segments   []RecognizerSegment `json:"segments"`    // 段落级时间戳
	DurationMs int                 `json:"duration_ms"` // 音频总时长
}

// Directive 表示脚本中的一条场景指令，如 [text: "标题"] 或 [counter: 1000 -> 2000]
type Directive struct {
	Type string   `json:"type"` // text, counter, image_hint
	Args []string `json:"args"`
}

// Scene 表示一个场景：一段旁白及其在音频上的时间区间
type Scene struct {
	ID         string      `json:"id"`
	Narration  string      `json:"narration"`
	Timing     TimeRange   `json:"timing"`
	Directives []Directive `json:"directives,omitempty"`
}
