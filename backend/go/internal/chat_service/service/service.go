package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"Jaffer/backend/go/internal/llm"
	"Jaffer/backend/go/internal/localintel"
	"Jaffer/backend/go/internal/metrics"
	"Jaffer/backend/go/internal/models"
	"Jaffer/backend/go/pkg/logger"
)

// ErrCoreInference 是唯一会返回给调用方的错误：模型调用失败或返回空回复。
var ErrCoreInference = errors.New("core inference failure")

const (
	// DefaultPersonaName 在资料表中没有 name 时使用。
	DefaultPersonaName = "Jaffer"
	// DefaultInferenceTimeout 限制单次模型调用的时长。
	DefaultInferenceTimeout = 60 * time.Second
	// DefaultPublishTimeout 限制单次问答事件发布的时长。
	DefaultPublishTimeout = 2 * time.Second
	// HistoryLimit 是 /history 返回的最大条数。
	HistoryLimit = 10
	// PreviewLength 是历史预览保留的字符数。
	PreviewLength = 25
)

// LocalIntelligence 查询本地事实引擎，返回原始输出。
type LocalIntelligence interface {
	Query(ctx context.Context, message string) (string, error)
}

// ProfileReader 只读地查询资料表。
type ProfileReader interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
}

// ProfileStore 在 ProfileReader 的基础上提供全量读取。
type ProfileStore interface {
	ProfileReader
	All(ctx context.Context) (map[string]string, error)
}

// HistoryStore 是只追加、只能整体清空的对话记录。
type HistoryStore interface {
	AppendExchange(ctx context.Context, userMessage, reply string) error
	RecentUserMessages(ctx context.Context, limit int) ([]string, error)
	Clear(ctx context.Context) error
}

// EventPublisher 发布成功的问答事件。
type EventPublisher interface {
	PublishExchange(ctx context.Context, event models.ExchangeEvent) error
}

// Deps 汇集了 Service 的所有协作者，所有字段都可以为空。
type Deps struct {
	Local            LocalIntelligence
	Resolver         *FallbackResolver
	Model            llm.LLM
	Profile          ProfileStore
	History          HistoryStore
	Events           EventPublisher
	Metrics          *metrics.Metrics
	Logger           *logger.Logger
	DefaultName      string
	InferenceTimeout time.Duration
	PublishTimeout   time.Duration
	Now              func() time.Time
}

// Service 封装了聊天编排的业务逻辑，可以被多个请求并发使用。
type Service struct {
	local            LocalIntelligence
	resolver         *FallbackResolver
	model            llm.LLM
	profile          ProfileStore
	history          HistoryStore
	events           EventPublisher
	metrics          *metrics.Metrics
	log              *logger.Logger
	defaultName      string
	inferenceTimeout time.Duration
	publishTimeout   time.Duration
	now              func() time.Time

	pending sync.WaitGroup // 尚未完成的事件发布
}

// NewService 创建一个新的 Service 实例。
// 没有模型客户端时使用 llm.Unavailable。
func NewService(d Deps) *Service {
	s := &Service{
		local:            d.Local,
		resolver:         d.Resolver,
		model:            d.Model,
		profile:          d.Profile,
		history:          d.History,
		events:           d.Events,
		metrics:          d.Metrics,
		log:              d.Logger,
		defaultName:      d.DefaultName,
		inferenceTimeout: d.InferenceTimeout,
		publishTimeout:   d.PublishTimeout,
		now:              d.Now,
	}
	if s.model == nil {
		s.model = llm.Unavailable{}
	}
	if s.log == nil {
		s.log = logger.New("chat_service", "", "")
	}
	if s.defaultName == "" {
		s.defaultName = DefaultPersonaName
	}
	if s.inferenceTimeout <= 0 {
		s.inferenceTimeout = DefaultInferenceTimeout
	}
	if s.publishTimeout <= 0 {
		s.publishTimeout = DefaultPublishTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// --- Chat ---

// Chat 依次执行本地查询、解析、回退搜索、组装提示、模型调用和持久化。
// 只有模型调用失败会返回错误（包装 ErrCoreInference），此时不写入任何记录。
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	log := s.log.WithTrace(TraceID(ctx))

	// 1. 本地事实引擎
	raw := s.queryLocal(ctx, log, message)

	// 2. 解析
	fact := ParseFeed(raw)

	// 3. 回退搜索
	start := time.Now()
	web, escalate := s.resolver.Resolve(ctx, fact, message)
	if escalate {
		s.metrics.ObserveStage("search", time.Since(start))
	}

	// 4. 助手名称
	name := s.personaName(ctx, log)

	// 5. 组装提示
	payload := AssemblePrompt(name, fact, web, message)

	// 6. 模型调用
	reply, err := s.infer(ctx, payload)
	if err != nil {
		s.metrics.InferenceFailed()
		log.WithError(models.NewErrorInfo("CoreInferenceFailure", err)).Error("模型调用失败")
		return "", fmt.Errorf("%w: %v", ErrCoreInference, err)
	}

	// 7. 持久化，客户端断开也要完成。
	persistCtx := context.WithoutCancel(ctx)
	s.persist(persistCtx, log, message, reply)
	s.publishAsync(persistCtx, log, models.ExchangeEvent{
		TraceID:       TraceID(ctx),
		UserMessage:   message,
		Reply:         reply,
		Mood:          fact.Mood,
		UsedWebSearch: escalate,
		CreatedAt:     s.now(),
	})

	log.WithPayload(map[string]interface{}{
		"mood":            fact.Mood,
		"used_web_search": escalate,
		"web_found":       web != "",
	}).Info("chat completed")
	return reply, nil
}

func (s *Service) queryLocal(ctx context.Context, log *logger.Logger, message string) string {
	if s.local == nil {
		return DefaultRawFeed
	}
	start := time.Now()
	raw, err := s.local.Query(ctx, message)
	s.metrics.ObserveStage("local", time.Since(start))
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, localintel.ErrTimeout):
			reason = "timeout"
		case errors.Is(err, localintel.ErrNotConfigured):
			reason = "not_configured"
		}
		s.metrics.LocalEngineFailed(reason)
		if reason != "not_configured" {
			log.WithError(models.NewErrorInfo("BackendUnavailable", err)).Warn("本地事实引擎不可用，使用默认数据")
		}
		return DefaultRawFeed
	}
	return raw
}

func (s *Service) personaName(ctx context.Context, log *logger.Logger) string {
	if s.profile == nil {
		return s.defaultName
	}
	name, ok, err := s.profile.GetValue(ctx, "name")
	if err != nil {
		s.metrics.StorageFailed("get_profile")
		log.WithError(models.NewErrorInfo("StorageFailure", err)).Warn("读取助手名称失败，使用默认名称")
		return s.defaultName
	}
	if !ok || strings.TrimSpace(name) == "" {
		return s.defaultName
	}
	return name
}

func (s *Service) infer(ctx context.Context, payload models.PromptPayload) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.inferenceTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, &models.GenerateContentRequest{
		Content: []models.Content{
			models.NewTextContent(models.SpeakerSystem, payload.System),
			models.NewTextContent(models.SpeakerUser, payload.User),
		},
	})
	s.metrics.ObserveStage("inference", time.Since(start))
	if err != nil {
		return "", err
	}
	reply := resp.Text()
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("model returned an empty reply")
	}
	return reply, nil
}

// persist 在存储失败时只记录日志，回复照常返回。
func (s *Service) persist(ctx context.Context, log *logger.Logger, message, reply string) {
	if s.history == nil {
		return
	}
	start := time.Now()
	err := s.history.AppendExchange(ctx, message, reply)
	s.metrics.ObserveStage("persist", time.Since(start))
	if err != nil {
		s.metrics.StorageFailed("append_exchange")
		log.WithError(models.NewErrorInfo("StorageFailure", err)).Error("保存对话记录失败")
	}
}

// publishAsync 在后台发布问答事件，不阻塞回复；发布受 publishTimeout 限制。
func (s *Service) publishAsync(ctx context.Context, log *logger.Logger, event models.ExchangeEvent) {
	if s.events == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()
		s.publish(ctx, log, event)
	}()
}

func (s *Service) publish(ctx context.Context, log *logger.Logger, event models.ExchangeEvent) {
	if err := s.events.PublishExchange(ctx, event); err != nil {
		s.metrics.PublishFailed()
		log.WithError(models.NewErrorInfo("PublishFailure", err)).Warn("发布问答事件失败")
	}
}

// Wait 等待所有后台事件发布结束，关闭服务前调用。
func (s *Service) Wait() {
	s.pending.Wait()
}

// --- Profile & History ---

// Profile 返回全部资料条目。
func (s *Service) Profile(ctx context.Context) (map[string]string, error) {
	if s.profile == nil {
		return map[string]string{}, nil
	}
	profile, err := s.profile.All(ctx)
	if err != nil {
		s.metrics.StorageFailed("list_profile")
		return nil, err
	}
	return profile, nil
}

// History 返回最近的用户消息预览，最新的在前。存储失败时返回空列表。
func (s *Service) History(ctx context.Context) []string {
	previews := []string{}
	if s.history == nil {
		return previews
	}
	messages, err := s.history.RecentUserMessages(ctx, HistoryLimit)
	if err != nil {
		s.metrics.StorageFailed("recent_history")
		s.log.WithTrace(TraceID(ctx)).WithError(models.NewErrorInfo("StorageFailure", err)).Warn("读取对话记录失败")
		return previews
	}
	for _, m := range messages {
		previews = append(previews, Preview(m))
	}
	return previews
}

// Clear 删除全部对话记录。
func (s *Service) Clear(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	if err := s.history.Clear(ctx); err != nil {
		s.metrics.StorageFailed("clear_history")
		return err
	}
	return nil
}

// Preview 保留前 PreviewLength 个字符并总是追加 "..."。
func Preview(message string) string {
	if utf8.RuneCountInString(message) <= PreviewLength {
		return message + "..."
	}
	return string([]rune(message)[:PreviewLength]) + "..."
}

// --- Trace ---

type traceKey struct{}

// WithTraceID 返回携带 trace id 的 ctx，日志和问答事件都会使用它。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID 返回 ctx 中的 trace id，没有时为空字符串。
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
