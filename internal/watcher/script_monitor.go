package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

// ScriptEventHandler 是处理脚本文件事件的接口
type ScriptEventHandler interface {
	OnScriptChanged(filePath string)
}

// ScriptEventFunc 让函数直接作为ScriptEventHandler使用
type ScriptEventFunc func(filePath string)

// OnScriptChanged 调用自身
func (f ScriptEventFunc) OnScriptChanged(filePath string) {
	f(filePath)
}

// ScriptMonitor 监控脚本文件夹中markdown文件的变化
type ScriptMonitor struct {
	watcher      *fsnotify.Watcher
	folderPath   string
	handler      ScriptEventHandler
	debounceTime time.Duration
	pendingFiles map[string]*time.Timer
	mutex        sync.Mutex
	stopOnce     sync.Once
	stopChan     chan struct{}
}

// NewScriptMonitor 创建新的脚本监控器
func NewScriptMonitor(folderPath string, handler ScriptEventHandler, debounceTime time.Duration) (*ScriptMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	return &ScriptMonitor{
		watcher:      watcher,
		folderPath:   folderPath,
		handler:      handler,
		debounceTime: debounceTime,
		pendingFiles: make(map[string]*time.Timer),
		stopChan:     make(chan struct{}),
	}, nil
}

// Start 开始监控脚本文件夹
func (m *ScriptMonitor) Start() error {
	// 确保文件夹存在
	if err := os.MkdirAll(m.folderPath, 0755); err != nil {
		return fmt.Errorf("创建脚本文件夹失败: %w", err)
	}

	if err := m.watcher.Add(m.folderPath); err != nil {
		return fmt.Errorf("添加监控文件夹失败: %w", err)
	}

	go m.watchLoop()

	utils.Info("开始监控脚本文件夹: %s", m.folderPath)
	return nil
}

// Stop 停止监控
func (m *ScriptMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.watcher.Close()
		utils.Info("停止监控脚本文件夹: %s", m.folderPath)

		// 取消所有待处理的定时器
		m.mutex.Lock()
		defer m.mutex.Unlock()
		for _, timer := range m.pendingFiles {
			timer.Stop()
		}
	})
}

// watchLoop 监控循环
func (m *ScriptMonitor) watchLoop() {
	for {
		select {
		case <-m.stopChan:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleFileEvent(event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			utils.Error("监控脚本文件夹时出错: %v", err)
		}
	}
}

// 处理文件事件，编辑器保存往往触发多次Write事件，用定时器去抖
func (m *ScriptMonitor) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	filePath := event.Name
	if !m.isScriptFile(filePath) {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if timer, exists := m.pendingFiles[filePath]; exists {
		timer.Stop()
	}

	m.pendingFiles[filePath] = time.AfterFunc(m.debounceTime, func() {
		m.processFile(filePath)
	})

	utils.Debug("检测到脚本变化: %s", filePath)
}

// 判断是否为markdown脚本文件
func (m *ScriptMonitor) isScriptFile(filePath string) bool {
	fileInfo, err := os.Stat(filePath)
	if err != nil || fileInfo.IsDir() {
		return false
	}

	return strings.ToLower(filepath.Ext(filePath)) == ".md"
}

// 处理脚本文件
func (m *ScriptMonitor) processFile(filePath string) {
	m.mutex.Lock()
	delete(m.pendingFiles, filePath)
	m.mutex.Unlock()

	// 去抖窗口内文件可能已被删除
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return
	}

	utils.Info("准备处理脚本: %s", filePath)
	if m.handler != nil {
		m.handler.OnScriptChanged(filePath)
	}
}
