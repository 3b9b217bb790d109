package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/internal/models"

	"github.com/segmentio/kafka-go"
)

// messageWriter 是 *kafka.Writer 的最小子集，测试中可替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ExchangePublisher 把成功的问答事件发送到 Kafka。
type ExchangePublisher struct {
	writer messageWriter
	topic  string
}

// NewExchangePublisher 创建一个新的 ExchangePublisher 实例。
// 连接在第一次写入时建立，主题不存在时自动创建。
func NewExchangePublisher(cfg config.KafkaConfig) (*ExchangePublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("未配置 Kafka brokers")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("未配置 Kafka topic")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		BatchSize:              100,
		WriteTimeout:           config.Duration(cfg.Timeout, 2*time.Second),
		AllowAutoTopicCreation: true,
	}
	return &ExchangePublisher{writer: writer, topic: cfg.Topic}, nil
}

// PublishExchange 将 ExchangeEvent 序列化为 JSON 并发送到 Kafka，trace id 作为消息键。
// 调用方应通过 ctx 设置截止时间，broker 无响应时随 ctx 返回。
func (p *ExchangePublisher) PublishExchange(ctx context.Context, event models.ExchangeEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TraceID),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

// Close 关闭底层的 writer 连接。
func (p *ExchangePublisher) Close() error {
	return p.writer.Close()
}
