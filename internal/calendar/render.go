package calendar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ICSProductID = "-//go-kintai//calendar//JA"
	ICSTimezone  = "Asia/Tokyo"
)

type ExtendedProps struct {
	Category    Category `json:"category"`
	StaffName   string   `json:"staff_name,omitempty"`
	LeaveType   string   `json:"leave_type,omitempty"`
	TimeRange   string   `json:"time_range,omitempty"`
	Remarks     string   `json:"remarks,omitempty"`
	Description string   `json:"description,omitempty"`
}

// FullCalendarEvent is the widget-facing form. End is exclusive.
type FullCalendarEvent struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	AllDay        bool          `json:"allDay"`
	Color         string        `json:"color"`
	Resource      string        `json:"resource"`
	ExtendedProps ExtendedProps `json:"extendedProps"`
}

func resource(e CalendarEvent) string {
	if e.Category == CategoryLeave {
		return e.LeaveType
	}
	return string(e.Category)
}

func Render(events []CalendarEvent) []FullCalendarEvent {
	out := make([]FullCalendarEvent, len(events))
	for i, e := range events {
		out[i] = FullCalendarEvent{
			ID:       e.ID,
			Title:    e.Title,
			Start:    e.Start.Format("2006-01-02"),
			End:      day(e.End).AddDate(0, 0, 1).Format("2006-01-02"),
			AllDay:   true,
			Color:    e.Color,
			Resource: resource(e),
			ExtendedProps: ExtendedProps{
				Category:    e.Category,
				StaffName:   e.StaffName,
				LeaveType:   e.LeaveType,
				TimeRange:   e.TimeRange(),
				Remarks:     e.Remarks,
				Description: e.Description,
			},
		}
	}
	return out
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func icsText(s string) string { return icsEscaper.Replace(s) }

func uid(e CalendarEvent) string {
	return fmt.Sprintf("%s-%s-%s@go-kintai", e.Category, e.ID, e.Start.Format("20060102"))
}

// WriteICS writes the events as all-day VEVENTs with exclusive DTEND.
func WriteICS(w io.Writer, name string, events []CalendarEvent, stamp time.Time) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...any) {
		bw.WriteString(foldLine(fmt.Sprintf(format, args...)))
		bw.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("X-WR-CALNAME:%s", icsText(name))
	line("X-WR-TIMEZONE:%s", ICSTimezone)
	line("CALSCALE:GREGORIAN")

	dtstamp := stamp.UTC().Format("20060102T150405Z")
	for _, e := range events {
		line("BEGIN:VEVENT")
		line("UID:%s", uid(e))
		line("DTSTAMP:%s", dtstamp)
		line("DTSTART;VALUE=DATE:%s", e.Start.Format("20060102"))
		line("DTEND;VALUE=DATE:%s", day(e.End).AddDate(0, 0, 1).Format("20060102"))
		line("SUMMARY:%s", icsText(e.Title))
		if desc := description(e); desc != "" {
			line("DESCRIPTION:%s", icsText(desc))
		}
		line("CATEGORIES:%s", strings.ToUpper(string(e.Category)))
		line("END:VEVENT")
	}
	line("END:VCALENDAR")
	return bw.Flush()
}

// icsLineOctets is the content line limit, excluding the CRLF.
const icsLineOctets = 75

// foldLine splits a content line into chunks of at most 75 octets joined by
// CRLF and a space, never inside a UTF-8 sequence.
func foldLine(s string) string {
	if len(s) <= icsLineOctets {
		return s
	}
	var b strings.Builder
	limit := icsLineOctets
	for len(s) > limit {
		cut := 0
		for cut < len(s) {
			_, size := utf8.DecodeRuneInString(s[cut:])
			if cut+size > limit {
				break
			}
			cut += size
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		// the leading space counts toward the next line
		limit = icsLineOctets - 1
	}
	b.WriteString(s)
	return b.String()
}

func description(e CalendarEvent) string {
	var parts []string
	if tr := e.TimeRange(); tr != "" {
		parts = append(parts, tr)
	}
	if e.Remarks != "" {
		parts = append(parts, e.Remarks)
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	return strings.Join(parts, "\n")
}
