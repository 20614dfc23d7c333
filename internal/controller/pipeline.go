package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/internal/watcher"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/align"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/export"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/recognizer"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/script"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/tts"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

// PipelineController 流水线控制器，协调脚本解析、合成、识别、对齐和导出
type PipelineController struct {
	// 配置
	Config *models.Config

	// 处理组件
	Selector     *recognizer.Selector
	TTSService   tts.Service
	errorHandler *utils.ErrorHandler

	// 上下文控制
	ctx        context.Context
	cancelFunc context.CancelFunc

	// 状态数据
	Stats struct {
		StartTime         time.Time
		TotalScripts      int
		SuccessfulScripts int
		FailedScripts     int
	}

	// 资源管理
	cleanup []func()
	mu      sync.Mutex
}

// NewPipelineController 创建流水线控制器
func NewPipelineController(configFile string, logLevel string, logFile string) (*PipelineController, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pc := &PipelineController{
		Config:     models.NewDefaultConfig(),
		ctx:        ctx,
		cancelFunc: cancel,
	}

	// 初始化日志
	if err := utils.InitLogger(logLevel, logFile); err != nil {
		cancel()
		return nil, fmt.Errorf("初始化日志失败: %v", err)
	}

	// 加载配置
	if configFile != "" {
		if err := pc.Config.LoadFromFile(configFile); err != nil {
			utils.Warn("配置加载失败: %v，将使用默认配置", err)
		}
	}

	// 初始化组件
	pc.initComponents()

	// 注册信号处理
	pc.setupSignalHandlers()

	return pc, nil
}

// 初始化所有组件
func (pc *PipelineController) initComponents() {
	pc.TTSService = tts.NewEdgeTTS(pc.Config.Voice)
	pc.errorHandler = utils.NewErrorHandler(pc.Config.MaxRetries, pc.Config.RetryDelay)

	pc.Selector = recognizer.NewSelector()
	pc.registerRecognizerServices()
}

// 注册识别服务
func (pc *PipelineController) registerRecognizerServices() {
	pc.Selector.RegisterService("whisper",
		func(audioPath, language string, useCache bool) (recognizer.Service, error) {
			return recognizer.NewWhisperRecognizer(audioPath, language, useCache)
		},
		10,
	)
}

// sectionParts 一个场景段落经过拆分后的字幕块
type sectionParts struct {
	section script.Section
	parts   []string
}

// ProcessScript 处理单个脚本文件，产出音频、字幕和场景文件
func (pc *PipelineController) ProcessScript(scriptPath string) (*models.PipelineResult, error) {
	start := time.Now()

	result := &models.PipelineResult{
		RunID:       uuid.New().String(),
		ScriptPath:  scriptPath,
		OutputFiles: make(map[string]string),
	}

	// 1. 解析脚本
	parsed, err := script.ParseFile(scriptPath)
	if err != nil {
		return nil, utils.NewError("解析脚本失败", err)
	}
	if strings.TrimSpace(parsed.FullNarration) == "" {
		return nil, utils.NewError("脚本没有旁白内容", nil)
	}

	baseName := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	audioPath := filepath.Join(pc.Config.OutputFolder, baseName+".mp3")

	// 2. 语音合成
	if pc.Config.SkipTTS {
		if !utils.CheckFileExists(audioPath) {
			return nil, utils.NewError(fmt.Sprintf("跳过TTS但音频文件不存在: %s", audioPath), nil)
		}
		utils.Info("跳过TTS，使用已有音频: %s", audioPath)
	} else {
		voice := parsed.Voice(pc.Config.Voice)
		utils.Info("开始语音合成，语音: %s", voice)
		ttsService := pc.TTSService
		if voice != pc.Config.Voice {
			ttsService = tts.NewEdgeTTS(voice)
		}
		ttsCtx, cancel := context.WithTimeout(pc.ctx, 5*time.Minute)
		defer cancel()
		err := pc.errorHandler.Retry("语音合成", func() error {
			return ttsService.Synthesize(ttsCtx, parsed.FullNarration, audioPath)
		})
		if err != nil {
			return nil, utils.NewError("语音合成失败", err)
		}
	}
	result.OutputFiles["audio"] = audioPath

	// 3. 按段落拆分字幕块，记录每个段落的块数，供场景时间归组使用
	grouped := make([]sectionParts, 0, len(parsed.Sections))
	var subtitleTexts []string
	for _, section := range parsed.Sections {
		parts := align.SplitNarrationTexts(section.NarrationLines, pc.Config.MaxWordsPerLine)
		grouped = append(grouped, sectionParts{section: section, parts: parts})
		subtitleTexts = append(subtitleTexts, parts...)
	}

	// 4. 语音识别
	var transcript *models.Transcript
	if pc.Config.SkipAlignment {
		utils.Info("跳过对齐，使用估算时间")
	} else {
		transcript = pc.runRecognition(audioPath, result)
	}

	// 5. 计算字幕时间
	texts, timings, aligned := pc.resolveTimings(subtitleTexts, transcript)
	result.Aligned = aligned
	result.SubtitleCount = len(texts)

	// 6. 计算场景时间并拆分过长场景
	scenes := pc.buildScenes(grouped, subtitleTexts, timings, aligned, transcript)
	if transcript != nil {
		scenes = align.SplitLongScenes(scenes, transcript.Words, pc.Config.TargetSceneDurationMs)
	}
	result.SceneCount = len(scenes)

	if transcript != nil {
		result.DurationMs = transcript.DurationMs
	} else if len(timings) > 0 {
		result.DurationMs = timings[len(timings)-1].EndMs
	}

	// 7. 导出
	if err := pc.exportOutputs(baseName, texts, timings, scenes, transcript, result); err != nil {
		return nil, err
	}

	result.ProcessTimeMs = time.Since(start).Milliseconds()
	pc.printResult(result)
	return result, nil
}

// runRecognition 执行语音识别，失败时返回nil并降级到估算模式
func (pc *PipelineController) runRecognition(audioPath string, result *models.PipelineResult) *models.Transcript {
	ctx, cancel := context.WithTimeout(pc.ctx, 10*time.Minute)
	defer cancel()

	progressCallback := func(percent int, message string) {
		utils.Info("识别进度 [%d%%] %s", percent, message)
	}

	recStart := time.Now()
	transcript, serviceName, err := pc.Selector.RunWithService(
		ctx, audioPath, pc.Config.RecognizerService,
		pc.Config.Language, pc.Config.UseCache, progressCallback)
	if err != nil {
		utils.Warn("语音识别失败: %v，降级到估算时间", err)
		return nil
	}

	utils.Info("使用 %s 服务识别完成，耗时 %.2f 秒，共 %d 个词",
		serviceName, time.Since(recStart).Seconds(), len(transcript.Words))
	result.Recognizer = serviceName
	return transcript
}

// resolveTimings 为字幕块确定时间区间。
// 有识别结果时按字符比例对齐；对齐信号失败但有识别段落时，
// 退回到识别文本按段内词分布的方式；否则完全估算
func (pc *PipelineController) resolveTimings(subtitleTexts []string, transcript *models.Transcript) ([]string, []models.TimeRange, bool) {
	if transcript != nil {
		timings, ok := align.AlignNarration(subtitleTexts, transcript.Words)
		if ok {
			return subtitleTexts, timings, true
		}

		if len(transcript.Segments) > 0 {
			utils.Warn("脚本对齐失败，改用识别文本生成字幕")
			texts, timings := align.BuildSegmentSubtitles(
				transcript.Segments, transcript.Words, pc.Config.MaxWordsPerLine)
			return texts, timings, false
		}
	}

	timings := align.EstimateLineTimings(subtitleTexts,
		pc.Config.EstimateMsPerChar, pc.Config.EstimateGapMs, pc.Config.EstimateMinLineMs)
	return subtitleTexts, timings, false
}

// buildScenes 为每个脚本段落计算场景时间区间。
// 字幕时间与脚本块一一对应时直接归组；
// 字幕来自识别文本时改用估算时间归组，保证场景划分仍跟随脚本结构
func (pc *PipelineController) buildScenes(grouped []sectionParts, subtitleTexts []string, timings []models.TimeRange, aligned bool, transcript *models.Transcript) []models.Scene {
	groupTimings := timings
	if !aligned && transcript != nil && len(transcript.Segments) > 0 {
		groupTimings = align.EstimateLineTimings(subtitleTexts,
			pc.Config.EstimateMsPerChar, pc.Config.EstimateGapMs, pc.Config.EstimateMinLineMs)
	}

	scenes := make([]models.Scene, 0, len(grouped))
	offset := 0
	for i, group := range grouped {
		count := len(group.parts)
		timing := models.TimeRange{}
		if count > 0 && offset < len(groupTimings) {
			last := offset + count - 1
			if last >= len(groupTimings) {
				last = len(groupTimings) - 1
			}
			timing.StartMs = groupTimings[offset].StartMs
			timing.EndMs = groupTimings[last].EndMs
		}

		id := group.section.Name
		if id == "" {
			id = fmt.Sprintf("scene_%d", i+1)
		}

		scenes = append(scenes, models.Scene{
			ID:         id,
			Narration:  group.section.Narration,
			Timing:     timing,
			Directives: group.section.Directives,
		})
		offset += count
	}

	return scenes
}

// exportOutputs 导出SRT字幕、词级JSON和场景JSON
func (pc *PipelineController) exportOutputs(baseName string, texts []string, timings []models.TimeRange, scenes []models.Scene, transcript *models.Transcript, result *models.PipelineResult) error {
	if pc.Config.ExportSRT {
		srtExporter := export.NewSRTExporter(pc.Config.OutputFolder)
		srtPath, err := srtExporter.ExportSRT(texts, timings, baseName+".srt")
		if err != nil {
			return utils.NewError("导出SRT失败", err)
		}
		result.OutputFiles["srt"] = srtPath
	}

	var words []models.Word
	if transcript != nil {
		words = transcript.Words
	}

	wordsExporter := export.NewWordsExporter(pc.Config.OutputFolder)
	wordsPath, err := wordsExporter.ExportWords(texts, timings, words, baseName+".words.json")
	if err != nil {
		return utils.NewError("导出词级JSON失败", err)
	}
	result.OutputFiles["words"] = wordsPath

	sceneExporter := export.NewSceneExporter(pc.Config.OutputFolder)
	scenePath, err := sceneExporter.ExportScenes(scenes, baseName+".mp3", baseName+".scene.json")
	if err != nil {
		return utils.NewError("导出场景JSON失败", err)
	}
	result.OutputFiles["scene"] = scenePath

	return nil
}

// printResult 输出单个脚本的处理结果
func (pc *PipelineController) printResult(result *models.PipelineResult) {
	color.Green("\n处理完成: %s", filepath.Base(result.ScriptPath))
	fmt.Printf("字幕条数: %d，场景数: %d\n", result.SubtitleCount, result.SceneCount)
	if result.Aligned {
		fmt.Printf("对齐方式: 识别对齐 (%s)\n", result.Recognizer)
	} else {
		fmt.Println("对齐方式: 估算时间")
	}
	fmt.Printf("音频时长: %s，处理用时: %s\n",
		utils.FormatMilliseconds(result.DurationMs),
		utils.FormatTimeDuration(float64(result.ProcessTimeMs)/1000))
	for fileType, filePath := range result.OutputFiles {
		fmt.Printf("- %s: %s\n", fileType, filePath)
	}
}

// ProcessScriptFolder 处理脚本文件夹中的所有markdown脚本
func (pc *PipelineController) ProcessScriptFolder() ([]models.PipelineResult, error) {
	pc.Stats.StartTime = time.Now()

	entries, err := os.ReadDir(pc.Config.ScriptFolder)
	if err != nil {
		return nil, fmt.Errorf("读取脚本文件夹失败: %w", err)
	}

	var results []models.PipelineResult
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".md" {
			continue
		}

		select {
		case <-pc.ctx.Done():
			utils.Info("已取消，停止处理剩余脚本")
			return results, nil
		default:
		}

		scriptPath := filepath.Join(pc.Config.ScriptFolder, entry.Name())
		pc.Stats.TotalScripts++

		result, err := pc.ProcessScript(scriptPath)
		if err != nil {
			pc.Stats.FailedScripts++
			color.Red("处理失败: %s - %v", entry.Name(), err)
			continue
		}

		pc.Stats.SuccessfulScripts++
		results = append(results, *result)
	}

	utils.Info("批量处理完成: 共 %d 个脚本，成功 %d，失败 %d",
		pc.Stats.TotalScripts, pc.Stats.SuccessfulScripts, pc.Stats.FailedScripts)
	return results, nil
}

// StartWatchMode 监听脚本文件夹，文件变化时自动处理
func (pc *PipelineController) StartWatchMode() error {
	handler := watcher.ScriptEventFunc(func(filePath string) {
		if _, err := pc.ProcessScript(filePath); err != nil {
			color.Red("处理失败: %s - %v", filepath.Base(filePath), err)
		}
	})

	monitor, err := watcher.NewScriptMonitor(pc.Config.ScriptFolder, handler, 2*time.Second)
	if err != nil {
		return err
	}
	if err := monitor.Start(); err != nil {
		return err
	}
	pc.addCleanup(monitor.Stop)

	utils.Info("监听已启动，按Ctrl+C退出...")
	return pc.waitForTermination()
}

// 添加清理函数
func (pc *PipelineController) addCleanup(cleanup func()) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cleanup = append(pc.cleanup, cleanup)
}

// Cleanup 逆序执行所有清理函数
func (pc *PipelineController) Cleanup() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	for i := len(pc.cleanup) - 1; i >= 0; i-- {
		pc.cleanup[i]()
	}
	pc.cleanup = nil
}

// 设置中断处理
func (pc *PipelineController) setupSignalHandlers() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.Info("接收到中断信号，正在停止...")
		pc.cancelFunc()
	}()
}

// 等待终止信号
func (pc *PipelineController) waitForTermination() error {
	<-pc.ctx.Done()
	return nil
}
