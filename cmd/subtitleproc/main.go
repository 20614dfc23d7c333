package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/internal/controller"
	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/utils"
)

var (
	scriptPath    = flag.String("script", "", "处理单个脚本文件")
	scriptsDir    = flag.String("scripts-dir", "", "脚本文件夹（覆盖配置）")
	outputDir     = flag.String("output", "", "输出目录（覆盖配置）")
	configFile    = flag.String("config", "", "配置文件路径")
	logLevel      = flag.String("log-level", "info", "日志级别 (debug, info, warn, error)")
	logFile       = flag.String("log-file", "", "日志文件路径")
	watchMode     = flag.Bool("watch", false, "监听脚本文件夹，自动处理新脚本")
	skipTTS       = flag.Bool("skip-tts", false, "跳过语音合成，使用输出目录中已有的音频")
	skipAlignment = flag.Bool("skip-alignment", false, "跳过语音识别对齐，使用估算时间")
)

func main() {
	flag.Parse()

	// 加载.env中的API密钥等环境变量，文件不存在时忽略
	_ = godotenv.Load()

	if _, err := logrus.ParseLevel(*logLevel); err != nil {
		*logLevel = "info"
	}

	printWelcome()

	pc, err := controller.NewPipelineController(*configFile, *logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer pc.Cleanup()

	applyFlags(pc)

	os.MkdirAll(pc.Config.ScriptFolder, 0755)
	os.MkdirAll(pc.Config.OutputFolder, 0755)

	switch {
	case *scriptPath != "":
		if _, err := pc.ProcessScript(*scriptPath); err != nil {
			utils.Error("处理脚本失败: %v", err)
			os.Exit(1)
		}
	case *watchMode || pc.Config.WatchMode:
		if err := pc.StartWatchMode(); err != nil {
			utils.Error("监听模式失败: %v", err)
			os.Exit(1)
		}
	default:
		results, err := pc.ProcessScriptFolder()
		if err != nil {
			utils.Error("批量处理失败: %v", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			utils.Info("没有找到脚本文件，程序退出")
		}
	}
}

// applyFlags 命令行参数覆盖配置文件
func applyFlags(pc *controller.PipelineController) {
	if *scriptsDir != "" {
		pc.Config.ScriptFolder = *scriptsDir
	}
	if *outputDir != "" {
		pc.Config.OutputFolder = *outputDir
	}
	if *skipTTS {
		pc.Config.SkipTTS = true
	}
	if *skipAlignment {
		pc.Config.SkipAlignment = true
	}
}

func printWelcome() {
	fmt.Println()
	color.Cyan("================================")
	color.Cyan("   旁白字幕同步工具 - Go 实现   ")
	color.Cyan("================================")
	fmt.Println()
}
