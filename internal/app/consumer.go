package app

import (
	"context"
	"os"
	"strings"

	"go-kintai/internal/bootstrap"
	"go-kintai/internal/config"
	"go-kintai/internal/events"
	"go-kintai/internal/messaging/kafka/consumer"
	"go-kintai/internal/shared/connection"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// startCacheInvalidator follows the change topic so this process drops its
// in-memory snapshots when another replica writes. Each process joins its
// own group and starts from the newest offset.
func (a *App) startCacheInvalidator() {
	host, _ := os.Hostname()
	groupID := "kintai-cache-" + host + "-" + uuid.NewString()[:8]
	reader := connection.NewKafkaReader(a.Config.Kafka, events.LedgerChangesTopic, groupID, kafkago.LastOffset)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeLedgerChanges(ctx, reader, "cache", consumer.InvalidateCache(a.Cached), a.Logger)
	}()

	a.closers = append(a.closers, func() error {
		cancel()
		<-done
		return reader.Close()
	})
	a.Logger.Info("cache invalidation consumer started", zap.String("group_id", groupID))
}

// RunAuditConsumer writes every ledger change to the audit log until ctx is
// cancelled. It backs the standalone consumer binary.
func RunAuditConsumer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Kafka.Broker == "" {
		return errKafkaRequired
	}

	reader := connection.NewKafkaReader(cfg.Kafka, events.LedgerChangesTopic, "kintai-ledger-audit", kafkago.FirstOffset)
	defer reader.Close()

	audit := bootstrap.NewStdoutAuditLogger(logger)
	consumer.ConsumeLedgerChanges(ctx, reader, "audit", auditLedger(audit), logger)

	logger.Info("audit consumer shutting down")
	return nil
}

func auditLedger(audit bootstrap.AuditLogger) consumer.LedgerHandler {
	return func(ctx context.Context, event events.LedgerChangedEvent) error {
		audit.Log(ctx, bootstrap.AuditLog{
			Action:  strings.ToUpper(strings.ReplaceAll(event.EventType, ".", "_")),
			Message: "ledger changed",
			Meta: map[string]any{
				"table":       event.Table,
				"key":         event.Key,
				"staff_name":  event.StaffName,
				"rows":        event.Rows,
				"occurred_at": event.OccurredAt,
				"request_id":  event.RequestID,
			},
		})
		return nil
	}
}
