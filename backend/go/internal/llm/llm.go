package llm

import (
	"context"
	"fmt"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/internal/models"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
type LLM interface {
	GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error)
}

// FallbackReply 是没有可用模型时 Unavailable 返回的固定回复。
const FallbackReply = "Ollama unavailable — using fallback response."

// Unavailable 是没有任何模型可以初始化时使用的占位客户端，总是返回 FallbackReply。
type Unavailable struct{}

// GenerateContent 忽略请求内容，直接返回固定回复。
func (Unavailable) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.GenerateContentResponse{
		Content:      []models.Content{models.NewTextContent(models.SpeakerModel, FallbackReply)},
		ModelVersion: "fallback",
	}, nil
}

// NewClient 是一个工厂函数，根据提供的配置创建并返回一个实现了 LLM 接口的客户端。
// provider 为 "none" 时返回 Unavailable。
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	case "openai":
		if cfg.OpenAI.Model == "" {
			return nil, fmt.Errorf("no model configured for openai provider")
		}
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	case "gemini":
		if cfg.Gemini.Model == "" {
			return nil, fmt.Errorf("no model configured for gemini provider")
		}
		return NewGemini(ctx, cfg.Gemini.Model, cfg.Gemini.APIKey)
	case "huggingface":
		if cfg.HuggingFace.Model == "" {
			return nil, fmt.Errorf("no model configured for huggingface provider")
		}
		return NewHuggingFace(cfg.HuggingFace.Model, cfg.HuggingFace.APIKey, cfg.HuggingFace.BaseURL)
	case "none":
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// split 将请求拆分为 system 指令和其余对话文本。
func split(req *models.GenerateContentRequest) (system string, turns []models.Content) {
	for _, c := range req.Content {
		if c.Role == models.SpeakerSystem {
			system += c.Text()
			continue
		}
		turns = append(turns, c)
	}
	return system, turns
}

func textResponse(text, modelVersion, id string) *models.GenerateContentResponse {
	return &models.GenerateContentResponse{
		Content:      []models.Content{models.NewTextContent(models.SpeakerModel, text)},
		ResponseID:   id,
		ModelVersion: modelVersion,
	}
}
