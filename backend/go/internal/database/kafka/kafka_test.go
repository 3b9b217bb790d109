package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishExchange(t *testing.T) {
	w := &recordingWriter{}
	p := &ExchangePublisher{writer: w, topic: "chat_exchanges"}

	event := models.ExchangeEvent{
		TraceID:       "trace-1",
		UserMessage:   "price of gold",
		Reply:         "₹15,791",
		Mood:          models.MoodCalm,
		UsedWebSearch: true,
		CreatedAt:     time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishExchange(context.Background(), event))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "trace-1", string(w.msgs[0].Key))

	var got models.ExchangeEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, event, got)
}

func TestPublishExchange_WriteError(t *testing.T) {
	p := &ExchangePublisher{writer: &recordingWriter{err: errors.New("broker down")}, topic: "t"}
	err := p.PublishExchange(context.Background(), models.ExchangeEvent{TraceID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewExchangePublisher_Validation(t *testing.T) {
	_, err := NewExchangePublisher(config.KafkaConfig{Topic: "t"})
	assert.Error(t, err)

	_, err = NewExchangePublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)

	p, err := NewExchangePublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "chat_exchanges"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

// silentBroker accepts TCP connections and never writes a byte back.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, c)
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		<-done
		for _, c := range conns {
			c.Close()
		}
	})
	return ln.Addr().String()
}

func TestPublishExchange_SilentBrokerHonoursDeadline(t *testing.T) {
	p, err := NewExchangePublisher(config.KafkaConfig{Brokers: []string{silentBroker(t)}, Topic: "chat_exchanges", Timeout: "5s"})
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = p.PublishExchange(ctx, models.ExchangeEvent{TraceID: "slow"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
