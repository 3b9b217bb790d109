package llm

import (
	"context"
	"fmt"

	"Jaffer/backend/go/internal/models"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI 是一个用于 OpenAI 兼容 API 的 LLM 客户端。
type OpenAI struct {
	client *openai.Client // OpenAI 客户端实例。
	model  string         // 要使用的模型名称。
}

// NewOpenAI 创建一个新的 OpenAI 客户端。baseURL 非空时指向兼容服务。
func NewOpenAI(model, apiKey, baseURL string) (*OpenAI, error) {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// GenerateContent 使用 OpenAI API 生成内容。
func (o *OpenAI) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.toOpenAIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return textResponse(resp.Choices[0].Message.Content, resp.Model, resp.ID), nil
}

// toOpenAIRequest 将我们的内部请求格式转换为 OpenAI 格式。
func (o *OpenAI) toOpenAIRequest(req *models.GenerateContentRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Content))
	for _, content := range req.Content {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(content.Role),
			Content: content.Text(),
		})
	}
	return openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	}
}
