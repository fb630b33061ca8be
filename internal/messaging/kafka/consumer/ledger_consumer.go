package consumer

import (
	"context"
	"encoding/json"

	"go-kintai/internal/events"
	"go-kintai/internal/tablestore"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader used here.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// LedgerHandler processes one change notification. A returned error leaves
// the message uncommitted.
type LedgerHandler func(ctx context.Context, event events.LedgerChangedEvent) error

// ConsumeLedgerChanges runs until ctx is cancelled. Undecodable messages are
// committed and skipped.
func ConsumeLedgerChanges(
	ctx context.Context,
	reader MessageReader,
	name string,
	handle LedgerHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("ledger consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("ledger consumer stopped")
				return
			}
			log.Error("fetch ledger message failed", zap.Error(err))
			continue
		}

		var event events.LedgerChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode ledger event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handle(ctx, event); err != nil {
			log.Error("handle ledger event failed",
				zap.String("event_type", event.EventType),
				zap.String("table", event.Table),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit ledger message failed", zap.Error(err))
			continue
		}

		log.Debug("ledger event handled",
			zap.String("event_type", event.EventType),
			zap.String("table", event.Table),
			zap.String("key", event.Key),
		)
	}
}

// TableInvalidator is satisfied by *tablestore.CachedStore.
type TableInvalidator interface {
	Invalidate(ctx context.Context, table tablestore.Table) error
}

// InvalidateCache drops the local snapshot of the table an event names.
// Events for unknown tables are ignored.
func InvalidateCache(inv TableInvalidator) LedgerHandler {
	return func(ctx context.Context, event events.LedgerChangedEvent) error {
		table, ok := tablestore.ParseTable(event.Table)
		if !ok {
			return nil
		}
		return inv.Invalidate(ctx, table)
	}
}
