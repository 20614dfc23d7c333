package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

const (
	// DefaultWhisperBaseURL Groq的OpenAI兼容接口地址
	DefaultWhisperBaseURL = "https://api.groq.com/openai/v1"

	// DefaultWhisperModel 默认识别模型
	DefaultWhisperModel = "whisper-large-v3-turbo"
)

// WhisperRecognizer 调用Whisper兼容API的识别实现
type WhisperRecognizer struct {
	*BaseRecognizer
	APIKey     string
	BaseURL    string
	Model      string
	Language   string
	HTTPClient *http.Client
}

// NewWhisperRecognizer 创建Whisper识别实例，密钥从GROQ_API_KEY环境变量读取
func NewWhisperRecognizer(audioPath string, language string, useCache bool) (Service, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("未设置GROQ_API_KEY环境变量")
	}

	base, err := NewBaseRecognizer(audioPath, useCache)
	if err != nil {
		return nil, err
	}

	return &WhisperRecognizer{
		BaseRecognizer: base,
		APIKey:         apiKey,
		BaseURL:        DefaultWhisperBaseURL,
		Model:          DefaultWhisperModel,
		Language:       language,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// whisperWord Whisper响应中的词级时间戳（秒）
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// whisperSegment Whisper响应中的段落级时间戳（秒）
type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// whisperResponse verbose_json格式的完整响应
type whisperResponse struct {
	Text     string           `json:"text"`
	Duration float64          `json:"duration"`
	Words    []whisperWord    `json:"words"`
	Segments []whisperSegment `json:"segments"`
}

// Transcribe 实现Service接口
func (w *WhisperRecognizer) Transcribe(ctx context.Context, callback ProgressCallback) (*models.Transcript, error) {
	// 检查是否有缓存
	cacheKey := w.GetCacheKey("whisper")
	if transcript, ok := w.LoadFromCache("./cache", cacheKey); ok {
		utils.Info("从缓存加载Whisper识别结果")
		return transcript, nil
	}

	if callback != nil {
		callback(20, "正在上传音频...")
	}

	resp, err := w.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("Whisper识别失败: %w", err)
	}

	if callback != nil {
		callback(90, "解析识别结果...")
	}

	transcript := w.makeTranscript(resp)

	if callback != nil {
		callback(100, "识别完成")
	}

	// 缓存结果
	if w.UseCache && len(transcript.Words) > 0 {
		if err := w.SaveToCache("./cache", cacheKey, transcript); err != nil {
			utils.Warn("保存Whisper识别结果到缓存失败: %v", err)
		}
	}

	return transcript, nil
}

// request 发送multipart识别请求
func (w *WhisperRecognizer) request(ctx context.Context) (*whisperResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filePart, err := writer.CreateFormFile("file", filepath.Base(w.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("构建上传表单失败: %w", err)
	}
	if _, err := filePart.Write(w.FileBinary); err != nil {
		return nil, fmt.Errorf("写入音频数据失败: %w", err)
	}

	writer.WriteField("model", w.Model)
	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("timestamp_granularities[]", "word")
	writer.WriteField("timestamp_granularities[]", "segment")
	if w.Language != "" {
		writer.WriteField("language", w.Language)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("关闭上传表单失败: %w", err)
	}

	url := w.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := w.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	respData, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API返回错误状态 %d: %s", httpResp.StatusCode, string(respData))
	}

	var resp whisperResponse
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("解析响应JSON失败: %w", err)
	}

	return &resp, nil
}

// makeTranscript 把秒为单位的API响应转换为毫秒的Transcript
func (w *WhisperRecognizer) makeTranscript(resp *whisperResponse) *models.Transcript {
	transcript := &models.Transcript{
		Text:     resp.Text,
		Words:    make([]models.Word, 0, len(resp.Words)),
		Segments: make([]models.RecognizerSegment, 0, len(resp.Segments)),
	}

	for _, word := range resp.Words {
		transcript.Words = append(transcript.Words, models.Word{
			Text:    word.Word,
			StartMs: secondsToMs(word.Start),
			EndMs:   secondsToMs(word.End),
		})
	}

	for _, seg := range resp.Segments {
		transcript.Segments = append(transcript.Segments, models.RecognizerSegment{
			Text:    seg.Text,
			StartMs: secondsToMs(seg.Start),
			EndMs:   secondsToMs(seg.End),
		})
	}

	// 总时长优先取最后一个词的结束时间
	if len(transcript.Words) > 0 {
		transcript.DurationMs = transcript.Words[len(transcript.Words)-1].EndMs
	} else if len(transcript.Segments) > 0 {
		transcript.DurationMs = transcript.Segments[len(transcript.Segments)-1].EndMs
	} else {
		transcript.DurationMs = secondsToMs(resp.Duration)
	}

	return transcript
}

// secondsToMs 秒转毫秒，四舍五入到整数
func secondsToMs(seconds float64) int {
	return int(math.Round(seconds * 1000))
}
