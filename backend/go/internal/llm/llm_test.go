package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatRequest() *models.GenerateContentRequest {
	return &models.GenerateContentRequest{Content: []models.Content{
		models.NewTextContent(models.SpeakerSystem, "ROLE: You are Jaffer"),
		models.NewTextContent(models.SpeakerUser, "price of gold"),
	}}
}

func TestUnavailable_ReturnsFallbackReply(t *testing.T) {
	resp, err := Unavailable{}.GenerateContent(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, resp.Text())
}

func TestUnavailable_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Unavailable{}.GenerateContent(ctx, chatRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Providers(t *testing.T) {
	client, err := NewClient(context.Background(), config.LLMConfig{Provider: "none"})
	require.NoError(t, err)
	assert.IsType(t, Unavailable{}, client)

	client, err = NewClient(context.Background(), config.LLMConfig{Provider: "ollama", Ollama: config.OllamaConfig{Model: "llama3.1:8b"}})
	require.NoError(t, err)
	assert.IsType(t, &Ollama{}, client)

	_, err = NewClient(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.Error(t, err, "openai without a model")

	_, err = NewClient(context.Background(), config.LLMConfig{Provider: "claude"})
	assert.Error(t, err)
}

func TestOllama_SendsSystemAndUserMessages(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"model":"llama3.1:8b","message":{"role":"assistant","content":"Gold is 2000."},"done":true}`+"\n")
	}))
	defer ts.Close()

	client, err := NewOllama("llama3.1:8b", ts.URL)
	require.NoError(t, err)
	resp, err := client.GenerateContent(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Equal(t, "Gold is 2000.", resp.Text())
	assert.Equal(t, "llama3.1:8b", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "ROLE: You are Jaffer", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "price of gold", got.Messages[1].Content)
}

func TestOpenAI_CompatibleEndpoint(t *testing.T) {
	var roles []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		for _, m := range body.Messages {
			roles = append(roles, m.Role)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"cmpl-1","model":"gpt-test","choices":[{"index":0,"message":{"role":"assistant","content":"hello"}}]}`)
	}))
	defer ts.Close()

	client, err := NewOpenAI("gpt-test", "key", ts.URL+"/v1")
	require.NoError(t, err)
	resp, err := client.GenerateContent(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Text())
	assert.Equal(t, "cmpl-1", resp.ResponseID)
	assert.Equal(t, []string{"system", "user"}, roles)
}

func TestHuggingFace_GeneratesText(t *testing.T) {
	var inputs string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/tiny", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body hfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		inputs = body.Inputs
		io.WriteString(w, `[{"generated_text":"ok"}]`)
	}))
	defer ts.Close()

	client, err := NewHuggingFace("tiny", "secret", ts.URL+"/models")
	require.NoError(t, err)
	resp, err := client.GenerateContent(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, "ROLE: You are Jaffer\n\nprice of gold", inputs)
}

func TestHuggingFace_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client, err := NewHuggingFace("tiny", "", ts.URL)
	require.NoError(t, err)
	_, err = client.GenerateContent(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
