package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

func NewKafkaReader(topic, groupID string, brokers ...string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
}

// Consumer hands reconciliation alerts to a support-side handler.
type Consumer struct {
	reader MessageReader
	handle func(ctx context.Context, ev Event)
}

func NewConsumer(reader MessageReader, handle func(ctx context.Context, ev Event)) *Consumer {
	return &Consumer{reader: reader, handle: handle}
}

// Run reads until ctx is done or the reader is closed.
func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !c.processMessage(ctx) {
			return
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// processMessage reports false when no further message can arrive.
func (c *Consumer) processMessage(ctx context.Context) bool {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			return false
		}
		logger.WithCtx(ctx).Warn("error reading alert", "error", err)
		return true
	}

	if et := header(m, "event_type"); et != "" && et != EventTypeReconciliationRequired {
		return true
	}

	var ev Event
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		logger.WithCtx(ctx).Warn("error parsing alert", "offset", m.Offset, "error", err)
		return true
	}
	c.handle(ctx, ev)
	return true
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
