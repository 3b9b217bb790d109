package api

import (
	"errors"
	"net/http"

	"Jaffer/backend/go/internal/chat_service/service"
	"Jaffer/backend/go/pkg/httpmiddleware"
	"Jaffer/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
	log     *logger.Logger
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.New("chat_service", "", "")
	}
	return &Handler{service: s, log: log}
}

// ChatRequest 定义了聊天请求的 JSON 结构。
type ChatRequest struct {
	Message *string `json:"message" binding:"required"`
}

// ChatResponse 定义了聊天响应的 JSON 结构。
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HistoryResponse 定义了历史记录响应的 JSON 结构。
type HistoryResponse struct {
	History []string `json:"history"`
}

// Chat 处理聊天请求。只有模型调用失败会返回 500。
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ctx := service.WithTraceID(c.Request.Context(), httpmiddleware.TraceID(c))
	reply, err := h.service.Chat(ctx, *req.Message)
	if err != nil {
		if errors.Is(err, service.ErrCoreInference) {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Core Inference Failure"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// Profile 返回全部资料条目。
func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context())
	if err != nil {
		h.log.WithTrace(httpmiddleware.TraceID(c)).Error("读取资料失败: " + err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Profile Unavailable"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// History 返回最近的用户消息预览。
func (h *Handler) History(c *gin.Context) {
	ctx := service.WithTraceID(c.Request.Context(), httpmiddleware.TraceID(c))
	c.JSON(http.StatusOK, HistoryResponse{History: h.service.History(ctx)})
}

// Clear 删除全部对话记录。
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		h.log.WithTrace(httpmiddleware.TraceID(c)).Error("清空对话记录失败: " + err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Clear Failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// Health 用于存活探测。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "chat_service"})
}
