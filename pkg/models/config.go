package models

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Config 表示应用程序的配置
type Config struct {
	ScriptFolder          string  `json:"script_folder"`            // 脚本文件所在文件夹
	OutputFolder          string  `json:"output_folder"`            // 输出结果文件夹
	MaxWordsPerLine       int     `json:"max_words_per_line"`       // 每条字幕最大词数
	TargetSceneDurationMs int     `json:"target_scene_duration_ms"` // 目标场景时长（毫秒）
	EstimateMsPerChar     int     `json:"estimate_ms_per_char"`     // 离线估算：每字符时长（毫秒）
	EstimateGapMs         int     `json:"estimate_gap_ms"`          // 离线估算：行间间隔（毫秒）
	EstimateMinLineMs     int     `json:"estimate_min_line_ms"`     // 离线估算：单行最小时长（毫秒）
	Voice                 string  `json:"voice"`                    // TTS语音名称
	Language              string  `json:"language"`                 // 识别语言代码
	RecognizerService     string  `json:"recognizer_service"`       // 识别服务名称 (whisper, auto)
	UseCache              bool    `json:"use_cache"`                // 是否缓存识别结果
	WatchMode             bool    `json:"watch_mode"`               // 是否启用监听模式
	SkipTTS               bool    `json:"skip_tts"`                 // 跳过TTS（使用已有音频）
	SkipAlignment         bool    `json:"skip_alignment"`           // 跳过对齐（使用估算时间）
	ExportSRT             bool    `json:"export_srt"`               // 是否导出SRT字幕文件
	MaxRetries            int     `json:"max_retries"`              // 网络调用最大重试次数
	RetryDelay            float64 `json:"retry_delay"`              // 重试延迟（秒）
	LogLevel              string  `json:"log_level"`                // 日志级别
	LogFile               string  `json:"log_file"`                 // 日志文件
}

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	msg := fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
	logrus.Error(msg) // 记录日志
	return msg        // 返回错误信息
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		ScriptFolder:          "./scripts",
		OutputFolder:          "./output",
		MaxWordsPerLine:       9,
		TargetSceneDurationMs: 15000,
		EstimateMsPerChar:     100,
		EstimateGapMs:         200,
		EstimateMinLineMs:     1500,
		Voice:                 "ko-KR-HyunsuNeural",
		Language:              "ko",
		RecognizerService:     "auto",
		UseCache:              true,
		WatchMode:             false,
		SkipTTS:               false,
		SkipAlignment:         false,
		ExportSRT:             true,
		MaxRetries:            3,
		RetryDelay:            1.0,
		LogLevel:              "INFO",
		LogFile:               "",
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	// 验证数值范围
	if c.MaxWordsPerLine < 1 || c.MaxWordsPerLine > 30 {
		return &ConfigValidationError{"MaxWordsPerLine", "必须在1-30之间"}
	}

	if c.TargetSceneDurationMs < 3000 || c.TargetSceneDurationMs > 60000 {
		return &ConfigValidationError{"TargetSceneDurationMs", "必须在3000-60000毫秒之间"}
	}

	if c.EstimateMsPerChar < 10 || c.EstimateMsPerChar > 1000 {
		return &ConfigValidationError{"EstimateMsPerChar", "必须在10-1000毫秒之间"}
	}

	if c.EstimateGapMs < 0 || c.EstimateGapMs > 5000 {
		return &ConfigValidationError{"EstimateGapMs", "必须在0-5000毫秒之间"}
	}

	if c.EstimateMinLineMs < 0 || c.EstimateMinLineMs > 10000 {
		return &ConfigValidationError{"EstimateMinLineMs", "必须在0-10000毫秒之间"}
	}

	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return &ConfigValidationError{"MaxRetries", "必须在1-10之间"}
	}

	if c.RetryDelay < 0.1 || c.RetryDelay > 10.0 {
		return &ConfigValidationError{"RetryDelay", "必须在0.1-10.0秒之间"}
	}

	if c.Voice == "" {
		return &ConfigValidationError{"Voice", "不能为空"}
	}

	return nil
}

// LoadFromFile 从文件加载配置
func (c *Config) LoadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	return c.Validate()
}

// SaveToFile 保存配置到文件
func (c *Config) SaveToFile(filePath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Update 使用键值对更新配置，验证失败时回滚
func (c *Config) Update(updates map[string]interface{}) error {
	// 备份当前配置用于回滚
	tempConfig := *c

	// 将更新序列化为JSON再反序列化到结构体中
	// 这种方式处理map到struct的转换较为方便
	updateBytes, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("序列化更新数据失败: %w", err)
	}

	err = json.Unmarshal(updateBytes, c)
	if err != nil {
		// 回滚配置
		*c = tempConfig
		return fmt.Errorf("应用配置更新失败: %w", err)
	}

	// 验证配置
	if err := c.Validate(); err != nil {
		// 回滚配置
		*c = tempConfig
		return err
	}

	return nil
}

// Reset 重置为默认配置
func (c *Config) Reset() {
	defaultConfig := NewDefaultConfig()
	*c = *defaultConfig
}

// PrintConfig 打印当前配置
func (c *Config) PrintConfig() {
	fmt.Println("\n当前配置:")
	bytes, _ := json.MarshalIndent(c, "", "  ")
	fmt.Println(string(bytes))
}
