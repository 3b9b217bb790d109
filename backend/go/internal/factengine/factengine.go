// Package factengine 实现本地事实引擎：按关键词推断情绪，并从知识文件中查找事实。
//
// 输出格式为 "<fact> | <mood>"，与 localintel 和 service.ParseFeed 约定一致。
// 知识文件由运维提供，每行一条事实。
package factengine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"Jaffer/backend/go/internal/models"
)

// DefaultKnowledgeFile 是相对于工作目录的默认知识文件。
const DefaultKnowledgeFile = "knowledge.txt"

// prefixLen 是用来匹配知识行的查询前缀长度（按字符计）。
const prefixLen = 3

// maxLineBytes 是单行知识的最大长度。
const maxLineBytes = 1 << 20

var (
	positiveWords = []string{"happy", "great"}
	negativeWords = []string{"sad", "bad"}
)

// DetectMood 按关键词推断情绪，先检查正面词。
func DetectMood(message string) models.Mood {
	lower := strings.ToLower(message)
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return models.MoodPositive
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return models.MoodNegative
		}
	}
	return models.MoodNeutral
}

// Lookup 返回第一行包含查询前缀的知识（不区分大小写），没有匹配时返回 models.NoDataFact。
func Lookup(r io.Reader, query string) (string, error) {
	prefix := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(prefix) == 0 {
		return models.NoDataFact, nil
	}
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}
	needle := string(prefix)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && strings.Contains(strings.ToLower(line), needle) {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return models.NoDataFact, fmt.Errorf("读取知识文件失败: %w", err)
	}
	return models.NoDataFact, nil
}

// Answer 查询知识文件并返回一行引擎输出。
// 文件缺失或读取失败时仍返回无数据结果，同时返回错误供调用方记录。
func Answer(knowledgePath, query string) (string, error) {
	mood := DetectMood(query)
	f, err := os.Open(knowledgePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("知识文件不存在 %s: %w", knowledgePath, err)
		}
		return Format(models.NoDataFact, mood), err
	}
	defer f.Close()

	fact, err := Lookup(f, query)
	return Format(fact, mood), err
}

// Format 按引擎协议拼接事实和情绪。事实中的换行被替换为空格，保证单行输出。
func Format(fact string, mood models.Mood) string {
	fact = strings.Join(strings.Fields(fact), " ")
	return fact + " | " + string(mood)
}
