package producer

import (
	"context"
	"encoding/json"

	"go-kintai/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafkago.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type ledgerPublisher struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
}

func NewLedgerPublisher(writer MessageWriter, logger ...*zap.Logger) events.Publisher {
	l := zap.L().Named("kafka.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.publisher")
	}
	return &ledgerPublisher{writer: writer, topic: events.LedgerChangesTopic, logger: l}
}

func (p *ledgerPublisher) PublishLedgerChanged(ctx context.Context, event events.LedgerChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Topic: p.topic,
		Key:   []byte(event.Table + ":" + event.Key),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "table", Value: []byte(event.Table)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("publish ledger change failed",
			zap.String("event_type", event.EventType),
			zap.String("key", event.Key),
			zap.Error(err),
		)
		return err
	}
	return nil
}
