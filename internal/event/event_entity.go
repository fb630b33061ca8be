package event

import (
	"time"

	"go-kintai/internal/tablestore"
)

const (
	DateLayout = "2006-01-02"

	// DefaultColor is used when a stored event has no color.
	DefaultColor = "#95A5A6"
	// FormColor is the color given to new events that do not pick one.
	FormColor = "#4285F4"
)

// Event is a general calendar entry. Unlike leave records it is stored as
// one row spanning StartDate..EndDate inclusive.
type Event struct {
	ID          string
	StartDate   time.Time
	EndDate     time.Time
	Title       string
	Description string
	Color       string
	StartTime   string
	EndTime     string
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FromRow decodes a stored row. A blank end date means a one-day event.
func FromRow(row tablestore.Record) Event {
	e := Event{
		ID:          row.Get("event_id"),
		Title:       row.Get("title"),
		Description: row.Get("description"),
		Color:       row.Get("color"),
		StartTime:   row.Get("start_time"),
		EndTime:     row.Get("end_time"),
	}
	if d, err := time.Parse(DateLayout, row.Get("start_date")); err == nil {
		e.StartDate = d
	}
	if d, err := time.Parse(DateLayout, row.Get("end_date")); err == nil {
		e.EndDate = d
	}
	if e.EndDate.IsZero() || e.EndDate.Before(e.StartDate) {
		e.EndDate = e.StartDate
	}
	if e.Color == "" {
		e.Color = DefaultColor
	}
	return e
}

func (e Event) Row() tablestore.Record {
	return tablestore.Record{
		"event_id":    e.ID,
		"start_date":  formatDate(e.StartDate),
		"end_date":    formatDate(e.EndDate),
		"title":       e.Title,
		"description": e.Description,
		"color":       e.Color,
		"start_time":  e.StartTime,
		"end_time":    e.EndTime,
	}
}
