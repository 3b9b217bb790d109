package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"Jaffer/backend/go/internal/models"
)

// HuggingFace 是一个用于 Hugging Face Inference API 的 LLM 客户端。
type HuggingFace struct {
	client  *http.Client // HTTP 客户端实例。
	model   string       // 要使用的模型名称。
	apiKey  string       // Hugging Face API 密钥。
	baseURL string       // Hugging Face Inference API 的基准 URL。
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	ReturnFullText bool `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// NewHuggingFace 创建一个新的 HuggingFace 客户端。
// baseURL 为空时默认为 "https://api-inference.huggingface.co/models/"。
func NewHuggingFace(model, apiKey, baseURL string) (*HuggingFace, error) {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &HuggingFace{
		client:  &http.Client{},
		model:   model,
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

// GenerateContent 使用 Hugging Face Inference API 生成内容。
// 该接口只接受单段文本，system 指令与用户消息拼接后作为 inputs 发送。
func (h *HuggingFace) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	jsonReq, err := json.Marshal(h.toHuggingFaceRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.model, bytes.NewReader(jsonReq))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if h.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var hfResp []hfGeneration
	if err := json.NewDecoder(resp.Body).Decode(&hfResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(hfResp) == 0 {
		return nil, fmt.Errorf("no generated text returned")
	}

	return textResponse(hfResp[0].GeneratedText, h.model, ""), nil
}

func (h *HuggingFace) toHuggingFaceRequest(req *models.GenerateContentRequest) hfRequest {
	system, turns := split(req)
	var sb strings.Builder
	sb.WriteString(system)
	for _, c := range turns {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.Text())
	}
	return hfRequest{Inputs: sb.String()}
}
