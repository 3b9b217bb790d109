package service

import (
	"strings"

	"Jaffer/backend/go/internal/models"
)

// FeedDelimiter 分隔引擎输出中的事实和情绪两段。
const FeedDelimiter = " | "

// DefaultRawFeed 在引擎失败时代替引擎输出。
const DefaultRawFeed = models.NoDataFact + FeedDelimiter + string(models.MoodNeutral)

// ParseFeed 把引擎原始输出解析为 LocalFact，从不失败。
// 无法读取的部分退化为无数据事实和 NEUTRAL 情绪，只使用前两段。
func ParseFeed(raw string) models.LocalFact {
	parts := strings.SplitN(raw, FeedDelimiter, 3)

	fact := models.LocalFact{Fact: models.NoDataFact, Mood: models.MoodNeutral}
	if f := strings.TrimSpace(parts[0]); f != "" {
		fact.Fact = f
	}
	if len(parts) > 1 {
		if m := strings.TrimSpace(parts[1]); m != "" {
			fact.Mood = models.Mood(m)
		}
	}
	return fact
}
