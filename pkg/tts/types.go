package tts

import "context"

// Service 定义了语音合成服务的接口
type Service interface {
	// Synthesize 把文本合成为音频并写入outputPath
	Synthesize(ctx context.Context, text string, outputPath string) error
}
