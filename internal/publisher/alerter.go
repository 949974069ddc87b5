// Package publisher raises reconciliation alerts for paid checkouts whose
// order could not be recorded.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventTypeReconciliationRequired = "CheckoutReconciliationRequired"

// MessageWriter is the part of *kafka.Writer the alerter uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Event struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	domain.UnrecordedPayment
}

type KafkaAlerter struct {
	writer  MessageWriter
	timeout time.Duration
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
	}
}

func NewKafkaAlerter(writer MessageWriter) *KafkaAlerter {
	return &KafkaAlerter{writer: writer, timeout: 5 * time.Second}
}

// PaymentUnrecorded publishes the alert keyed by payment reference, so all
// alerts for one payment land on one partition in order.
func (a *KafkaAlerter) PaymentUnrecorded(ctx context.Context, p domain.UnrecordedPayment) error {
	msg, err := buildMessage(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish reconciliation alert for %s: %w", p.PaymentRef, err)
	}
	logger.WithCtx(ctx).Info("reconciliation alert published", "payment_ref", p.PaymentRef, "checkout_id", p.CheckoutID)
	return nil
}

func (a *KafkaAlerter) Close() error {
	return a.writer.Close()
}

func buildMessage(p domain.UnrecordedPayment) (kafka.Message, error) {
	if p.OccurredAt.IsZero() {
		p.OccurredAt = time.Now().UTC()
	}
	ev := Event{
		EventID:           uuid.NewString(),
		EventType:         EventTypeReconciliationRequired,
		UnrecordedPayment: p,
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal reconciliation alert: %w", err)
	}
	return kafka.Message{
		Key:   []byte(p.PaymentRef),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeReconciliationRequired)},
			{Key: "event_id", Value: []byte(ev.EventID)},
		},
	}, nil
}

// LogAlerter only logs. It is used when no broker is configured.
type LogAlerter struct{}

func (LogAlerter) PaymentUnrecorded(ctx context.Context, p domain.UnrecordedPayment) error {
	logger.WithCtx(ctx).Error("payment needs manual reconciliation",
		"payment_ref", p.PaymentRef,
		"checkout_id", p.CheckoutID,
		"user_id", p.UserID,
		"total", p.Total.StringFixed(2),
		"cause", p.Cause,
	)
	return nil
}
