package recognizer

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

// BaseRecognizer 提供识别服务的公共部分：音频加载与结果缓存
type BaseRecognizer struct {
	AudioPath  string // 音频文件路径
	FileBinary []byte // 文件二进制内容
	CRC32Hex   string // 文件CRC32校验和（十六进制），用作缓存键
	UseCache   bool   // 是否使用缓存
}

// NewBaseRecognizer 创建一个新的BaseRecognizer实例
func NewBaseRecognizer(audioPath string, useCache bool) (*BaseRecognizer, error) {
	base := &BaseRecognizer{
		AudioPath: audioPath,
		UseCache:  useCache,
	}

	if err := base.loadFile(); err != nil {
		return nil, err
	}

	base.CRC32Hex = fmt.Sprintf("%08x", crc32.ChecksumIEEE(base.FileBinary))
	utils.Debug("音频CRC32校验和: %s", base.CRC32Hex)
	return base, nil
}

// loadFile 加载音频文件到内存
func (b *BaseRecognizer) loadFile() error {
	data, err := os.ReadFile(b.AudioPath)
	if err != nil {
		return fmt.Errorf("读取音频文件失败: %w", err)
	}
	b.FileBinary = data
	return nil
}

// GetCacheKey 获取缓存键名
func (b *BaseRecognizer) GetCacheKey(prefix string) string {
	return fmt.Sprintf("%s-%s.json", prefix, b.CRC32Hex)
}

// LoadFromCache 从缓存加载识别结果
func (b *BaseRecognizer) LoadFromCache(cacheDir, cacheKey string) (*models.Transcript, bool) {
	if !b.UseCache {
		return nil, false
	}

	cacheFilePath := filepath.Join(cacheDir, cacheKey)
	if !utils.CheckFileExists(cacheFilePath) {
		utils.Debug("缓存文件不存在: %s", cacheFilePath)
		return nil, false
	}

	var transcript models.Transcript
	if err := utils.LoadJSONFile(cacheFilePath, &transcript); err != nil {
		utils.Warn("读取缓存失败: %v", err)
		return nil, false
	}

	return &transcript, true
}

// SaveToCache 保存识别结果到缓存
func (b *BaseRecognizer) SaveToCache(cacheDir, cacheKey string, transcript *models.Transcript) error {
	if !b.UseCache {
		return nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("创建缓存目录失败: %w", err)
	}

	return utils.SaveJSONFile(filepath.Join(cacheDir, cacheKey), transcript)
}
