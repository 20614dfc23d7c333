package recognizer

import (
	"context"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

// ProgressCallback 是进度回调函数，用于通知识别过程的进度
type ProgressCallback func(percent int, message string)

// Service 定义了语音识别服务的接口
type Service interface {
	// Transcribe 执行识别并返回带词级时间戳的转录结果
	Transcribe(ctx context.Context, callback ProgressCallback) (*models.Transcript, error)
}
