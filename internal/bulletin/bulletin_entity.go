package bulletin

import (
	"time"

	"go-kintai/internal/tablestore"
)

const TimestampLayout = "2006-01-02 15:04:05"

type Post struct {
	ID        string
	Timestamp time.Time
	Author    string
	Title     string
	Content   string
}

// FromRow decodes a stored row. Timestamps are wall-clock local time.
func FromRow(row tablestore.Record, loc *time.Location) Post {
	p := Post{
		ID:      row.Get("post_id"),
		Author:  row.Get("author"),
		Title:   row.Get("title"),
		Content: row.Get("content"),
	}
	if ts, err := time.ParseInLocation(TimestampLayout, row.Get("timestamp"), loc); err == nil {
		p.Timestamp = ts
	}
	return p
}

func (p Post) Row() tablestore.Record {
	ts := ""
	if !p.Timestamp.IsZero() {
		ts = p.Timestamp.Format(TimestampLayout)
	}
	return tablestore.Record{
		"post_id":   p.ID,
		"timestamp": ts,
		"author":    p.Author,
		"title":     p.Title,
		"content":   p.Content,
	}
}
