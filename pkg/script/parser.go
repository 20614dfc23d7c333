// Package script 解析带YAML头信息和场景指令的markdown脚本文件。
package script

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccp-p/subtitle-sync-cli/subtitle-processor/pkg/models"
)

// Section 表示脚本中的一个场景段落
type Section struct {
	Name           string             // 段落名（## 标题）
	Directives     []models.Directive // 场景指令
	Narration      string             // 完整旁白（用于TTS）
	NarrationLines []string           // 逐行旁白（每行一条字幕候选）
}

// Script 表示解析后的完整脚本
type Script struct {
	Meta          map[string]string // 头信息（title, voice, style等）
	Sections      []Section         // 场景段落
	FullNarration string            // 所有旁白拼接，用于一次性TTS
}

// Voice 返回脚本指定的TTS语音，未指定时返回fallback
func (s *Script) Voice(fallback string) string {
	if v, ok := s.Meta["voice"]; ok && v != "" {
		return v
	}
	return fallback
}

// NarrationLines 按顺序收集所有段落的旁白行
func (s *Script) NarrationLines() []string {
	var lines []string
	for _, section := range s.Sections {
		lines = append(lines, section.NarrationLines...)
	}
	return lines
}

var (
	frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)
	directivePattern   = regexp.MustCompile(`^\[(\w+):\s*(.+?)\]$`)
	counterPattern     = regexp.MustCompile(`^(\d+)\s*->\s*(\d+)(?:,\s*(\w+))?$`)
)

// 已废弃的指令类型，解析时直接跳过
var legacyDirectiveTypes = map[string]bool{
	"stickman": true,
	"icon":     true,
	"shape":    true,
}

// ParseFile 解析脚本文件
func ParseFile(filePath string) (*Script, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取脚本文件失败: %w", err)
	}
	return Parse(string(data))
}

// Parse 解析脚本内容
func Parse(content string) (*Script, error) {
	meta, body := parseFrontmatter(content)

	sections, err := parseSections(body)
	if err != nil {
		return nil, err
	}

	narrations := make([]string, 0, len(sections))
	for _, section := range sections {
		if section.Narration != "" {
			narrations = append(narrations, section.Narration)
		}
	}

	return &Script{
		Meta:          meta,
		Sections:      sections,
		FullNarration: strings.Join(narrations, " "),
	}, nil
}

// parseFrontmatter 提取YAML头信息，没有头信息时返回空map和原文
func parseFrontmatter(content string) (map[string]string, string) {
	match := frontmatterPattern.FindStringSubmatch(content)
	if match == nil {
		return map[string]string{}, content
	}

	meta := make(map[string]string)
	if err := yaml.Unmarshal([]byte(match[1]), &meta); err != nil {
		// 头信息格式错误时按无头信息处理，不中断解析
		return map[string]string{}, content
	}

	return meta, match[2]
}

// parseSections 按 ## 标题把正文切成场景段落
func parseSections(body string) ([]Section, error) {
	var sections []Section
	var current *Section

	for _, rawLine := range strings.Split(body, "\n") {
		line := strings.TrimSpace(rawLine)

		if strings.HasPrefix(line, "## ") {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Name: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			continue
		}

		if current == nil || line == "" {
			continue
		}

		// 指令行
		if strings.HasPrefix(line, "[") {
			if d := parseDirective(line); d != nil {
				current.Directives = append(current.Directives, *d)
			}
			continue
		}

		// 旁白行
		current.NarrationLines = append(current.NarrationLines, line)
	}

	if current != nil {
		sections = append(sections, *current)
	}

	// 拼装每个段落的完整旁白
	for i := range sections {
		sections[i].Narration = strings.Join(sections[i].NarrationLines, " ")
	}

	return sections, nil
}

// parseDirective 解析形如 [type: args] 的指令行，非法或已废弃的指令返回nil
func parseDirective(line string) *models.Directive {
	match := directivePattern.FindStringSubmatch(line)
	if match == nil {
		return nil
	}

	directiveType := match[1]
	argsStr := match[2]

	if legacyDirectiveTypes[directiveType] {
		return nil
	}

	// image_hint把整个字符串作为单个参数
	if directiveType == "image_hint" {
		return &models.Directive{Type: "image_hint", Args: []string{strings.TrimSpace(argsStr)}}
	}

	// counter特殊格式: 1000 -> 2000, format
	if directiveType == "counter" {
		if m := counterPattern.FindStringSubmatch(argsStr); m != nil {
			args := []string{m[1], m[2]}
			if m[3] != "" {
				args = append(args, m[3])
			}
			return &models.Directive{Type: "counter", Args: args}
		}
	}

	return &models.Directive{Type: directiveType, Args: splitArgs(argsStr)}
}

// splitArgs 按逗号切分参数，带引号的参数内部允许逗号
func splitArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			args = append(args, strings.Trim(strings.TrimSpace(current.String()), `"`))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.Trim(strings.TrimSpace(current.String()), `"`))
	}

	return args
}
