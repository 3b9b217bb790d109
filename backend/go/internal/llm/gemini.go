package llm

import (
	"context"
	"fmt"

	"Jaffer/backend/go/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini 是一个实现了 LLM 接口的结构体，用于与 Gemini API 交互。
// 每次请求都是无状态的，不保留聊天会话。
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini 创建一个新的 Gemini 客户端。
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, modelName: model}, nil
}

// GenerateContent 向 Gemini API 发送请求并返回响应，system 内容作为 SystemInstruction。
func (g *Gemini) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	// GenerativeModel 的字段不是并发安全的，每次请求使用新的实例。
	model := g.client.GenerativeModel(g.modelName)
	system, turns := split(req)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	resp, err := model.GenerateContent(ctx, toGenaiParts(turns)...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with gemini: %w", err)
	}
	return fromGenaiResponse(resp, g.modelName), nil
}

// Close 释放底层的 gRPC 连接。
func (g *Gemini) Close() error {
	return g.client.Close()
}

// toGenaiParts 将内部 Content 结构体转换为 GenAI Part 切片。
func toGenaiParts(content []models.Content) []genai.Part {
	var parts []genai.Part
	for _, c := range content {
		for _, p := range c.Parts {
			if p != nil && p.Text != "" {
				parts = append(parts, genai.Text(p.Text))
			}
		}
	}
	return parts
}

// fromGenaiResponse 只取第一个候选者的文本部分。
func fromGenaiResponse(resp *genai.GenerateContentResponse, modelName string) *models.GenerateContentResponse {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &models.GenerateContentResponse{ModelVersion: modelName}
	}
	var text string
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			text += string(t)
		}
	}
	return textResponse(text, modelName, "")
}
