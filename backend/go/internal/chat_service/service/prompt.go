package service

import (
	"strconv"
	"strings"

	"Jaffer/backend/go/internal/models"
)

// ReferenceDate 是写入每个提示的固定日期，不取自系统时钟。
const ReferenceDate = "Tuesday, February 10, 2026"

// MandatoryRules 随每个提示原样发送。
var MandatoryRules = []string{
	`If the WEB feed is empty, say "I'm currently unable to fetch live numbers."`,
	"NEVER invent a number or price. If the data feed contains a value, use exactly that value.",
	`You are prohibited from saying "I don't have real-time access."`,
	"Be savvy and concise.",
}

// AssemblePrompt 构造 system 指令，并与原始用户消息配对。纯函数，结果确定。
func AssemblePrompt(profileName string, fact models.LocalFact, web string, userMessage string) models.PromptPayload {
	var sb strings.Builder
	sb.WriteString("ROLE: You are " + profileName + ", a live-data agent.\n")
	sb.WriteString("DATE: " + ReferenceDate + ".\n")
	sb.WriteString("\n")
	sb.WriteString("DATA_FEED:\n")
	sb.WriteString("- LOCAL: " + strings.TrimSpace(fact.Fact) + "\n")
	sb.WriteString("- WEB: " + strings.TrimSpace(web) + "\n")
	sb.WriteString("\n")
	sb.WriteString("MANDATORY RULES:\n")
	for i, rule := range MandatoryRules {
		sb.WriteString(strconv.Itoa(i+1) + ". " + rule + "\n")
	}

	return models.PromptPayload{
		System: strings.TrimSuffix(sb.String(), "\n"),
		User:   userMessage,
	}
}
