package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"Jaffer/backend/go/internal/models"

	olla "github.com/ollama/ollama/api"
)

// Ollama 是一个用于 Ollama API 的 LLM 客户端。
type Ollama struct {
	client *olla.Client // Ollama 客户端实例。
	model  string       // 要使用的模型名称。
}

// NewOllama 创建一个新的 Ollama 客户端。
// baseURL 为空时默认为 "http://localhost:11434"。单次请求的超时由调用方的 ctx 控制。
func NewOllama(model, baseURL string) (*Ollama, error) {
	if model == "" {
		return nil, fmt.Errorf("no model configured for ollama provider")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 120 * time.Second,
	}

	return &Ollama{client: olla.NewClient(parsedURL, hc), model: model}, nil
}

// GenerateContent 使用 Ollama 的 Chat 接口生成内容，system 内容作为 system 消息发送。
func (o *Ollama) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	stream := false
	var result olla.ChatResponse

	err := o.client.Chat(ctx, &olla.ChatRequest{
		Model:    o.model,
		Messages: toOllamaMessages(req),
		Stream:   &stream,
	}, func(resp olla.ChatResponse) error {
		result = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with ollama: %w", err)
	}

	return textResponse(result.Message.Content, result.Model, ""), nil
}

// toOllamaMessages 将内部请求转换为 Ollama 消息列表。
func toOllamaMessages(req *models.GenerateContentRequest) []olla.Message {
	system, turns := split(req)
	var messages []olla.Message
	if system != "" {
		messages = append(messages, olla.Message{Role: "system", Content: system})
	}
	for _, c := range turns {
		messages = append(messages, olla.Message{Role: chatRole(c.Role), Content: c.Text()})
	}
	return messages
}

// chatRole 把内部角色映射为 OpenAI 风格的聊天角色，Ollama 与 OpenAI 共用。
func chatRole(role models.SpeakerRole) string {
	switch role {
	case models.SpeakerSystem:
		return "system"
	case models.SpeakerModel, models.SpeakerBot:
		return "assistant"
	default:
		return "user"
	}
}
