package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

const (
	// edgeWSSURL 微软Edge朗读服务的WebSocket地址
	edgeWSSURL = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1?TrustedClientToken=6A5AA1D4EAFF4E9FB37E23D68491D6F4"

	// edgeOutputFormat 输出音频格式
	edgeOutputFormat = "audio-24khz-48kbitrate-mono-mp3"

	// edgeUserAgent 握手使用的UA
	edgeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"
)

// EdgeTTS 基于Edge朗读服务的语音合成实现
type EdgeTTS struct {
	Voice  string // 语音名称，如 ko-KR-HyunsuNeural
	Rate   string // 语速，如 +0%
	Volume string // 音量，如 +0%
}

// NewEdgeTTS 创建EdgeTTS实例
func NewEdgeTTS(voice string) *EdgeTTS {
	return &EdgeTTS{
		Voice:  voice,
		Rate:   "+0%",
		Volume: "+0%",
	}
}

// Synthesize 实现Service接口：合成音频并写入文件
func (e *EdgeTTS) Synthesize(ctx context.Context, text string, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("合成文本不能为空")
	}

	audio, err := e.synthesizeAudio(ctx, text)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("创建音频输出目录失败: %w", err)
	}

	if err := os.WriteFile(outputPath, audio, 0644); err != nil {
		return fmt.Errorf("写入音频文件失败: %w", err)
	}

	utils.Info("TTS合成完成: %s (%s)", outputPath, utils.FormatFileSize(int64(len(audio))))
	return nil
}

// synthesizeAudio 通过WebSocket完成一次合成，返回音频数据
func (e *EdgeTTS) synthesizeAudio(ctx context.Context, text string) ([]byte, error) {
	header := http.Header{}
	header.Set("User-Agent", edgeUserAgent)
	header.Set("Origin", "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold")

	connectionID := strings.ReplaceAll(uuid.NewString(), "-", "")
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, edgeWSSURL+"&ConnectionId="+connectionID, header)
	if err != nil {
		return nil, fmt.Errorf("连接TTS服务失败: %w", err)
	}
	defer conn.Close()

	timestamp := time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")

	// 发送合成配置
	configMsg := "X-Timestamp:" + timestamp + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" +
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"true"},"outputFormat":"` + edgeOutputFormat + `"}}}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		return nil, fmt.Errorf("发送合成配置失败: %w", err)
	}

	// 发送SSML请求
	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")
	ssmlMsg := "X-RequestId:" + requestID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + timestamp + "\r\n" +
		"Path:ssml\r\n\r\n" +
		e.buildSSML(text)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return nil, fmt.Errorf("发送SSML失败: %w", err)
	}

	// 收集音频帧直到turn.end
	var audio bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("读取TTS响应失败: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, fmt.Errorf("TTS服务没有返回音频数据")
				}
				return audio.Bytes(), nil
			}
			// turn.start 和 audio.metadata（词边界）直接跳过，
			// 词级时间戳统一来自识别器而不是TTS

		case websocket.BinaryMessage:
			payload, err := extractAudioPayload(data)
			if err != nil {
				return nil, err
			}
			audio.Write(payload)
		}
	}
}

// buildSSML 构建合成请求的SSML文档
func (e *EdgeTTS) buildSSML(text string) string {
	lang := "en-US"
	if parts := strings.SplitN(e.Voice, "-", 3); len(parts) >= 2 {
		lang = parts[0] + "-" + parts[1]
	}

	escaped := escapeXMLText(text)
	return "<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='" + lang + "'>" +
		"<voice name='" + e.Voice + "'>" +
		"<prosody pitch='+0Hz' rate='" + e.Rate + "' volume='" + e.Volume + "'>" +
		escaped +
		"</prosody></voice></speak>"
}

// extractAudioPayload 从二进制帧中剥离头部取出音频数据。
// 帧格式：2字节大端头部长度 + 头部文本 + 音频负载
func extractAudioPayload(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("二进制帧太短: %d字节", len(data))
	}

	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if 2+headerLen > len(data) {
		return nil, fmt.Errorf("二进制帧头部长度非法: %d", headerLen)
	}

	headerText := string(data[2 : 2+headerLen])
	if !strings.Contains(headerText, "Path:audio") {
		// 非音频帧（如空的结束帧），忽略
		return nil, nil
	}

	return data[2+headerLen:], nil
}

// escapeXMLText 转义SSML文本中的特殊字符
func escapeXMLText(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(text)
}
