package events

import (
	"context"
	"time"
)

const LedgerChangesTopic = "kintai.ledger.changes.v1"

const (
	AttendanceApplied  = "attendance.applied"
	AttendanceReplaced = "attendance.replaced"
	AttendanceDeleted  = "attendance.deleted"
	EventCreated       = "event.created"
	EventReplaced      = "event.replaced"
	EventDeleted       = "event.deleted"
	PostCreated        = "post.created"
	PostReplaced       = "post.replaced"
	PostDeleted        = "post.deleted"
	LedgerPurged       = "ledger.purged"
)

type LedgerChangedEvent struct {
	EventType  string    `json:"event_type"`
	Table      string    `json:"table"`
	Key        string    `json:"key,omitempty"`
	StaffName  string    `json:"staff_name,omitempty"`
	Rows       int       `json:"rows"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
}

//go:generate mockgen -source=ledger_changed.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, event LedgerChangedEvent) error
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishLedgerChanged(context.Context, LedgerChangedEvent) error { return nil }
