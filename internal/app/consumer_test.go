package app

import (
	"context"
	"testing"

	"go-kintai/internal/bootstrap"
	"go-kintai/internal/config"
	"go-kintai/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureAudit struct{ entries []bootstrap.AuditLog }

func (c *captureAudit) Log(_ context.Context, e bootstrap.AuditLog) { c.entries = append(c.entries, e) }

func TestAuditLedger(t *testing.T) {
	audit := &captureAudit{}
	err := auditLedger(audit)(context.Background(), events.LedgerChangedEvent{
		EventType: events.AttendanceDeleted,
		Table:     "attendance_logs",
		Key:       "a1",
		StaffName: "Tanaka",
		Rows:      3,
	})
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "ATTENDANCE_DELETED", audit.entries[0].Action)
	assert.Equal(t, "a1", audit.entries[0].Meta["key"])
	assert.Equal(t, 3, audit.entries[0].Meta["rows"])
}

func TestRunAuditConsumer_RequiresBroker(t *testing.T) {
	err := RunAuditConsumer(context.Background(), &config.Config{}, zap.NewNop())
	assert.ErrorIs(t, err, errKafkaRequired)
}
