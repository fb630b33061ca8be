package calendar

import "time"

type Category string

const (
	CategoryLeave   Category = "leave"
	CategoryEvent   Category = "event"
	CategoryHoliday Category = "holiday"
)

const (
	ColorAnnual       = "#FF6B6B"
	ColorSummer       = "#4ECDC4"
	ColorCompensatory = "#FFE66D"
	ColorFallback     = "#95A5A6"
	ColorHoliday      = "#E74C3C"
)

// CalendarEvent is a display span built for one render. End is inclusive.
type CalendarEvent struct {
	ID          string
	Category    Category
	StaffName   string
	LeaveType   string
	Title       string
	Start       time.Time
	End         time.Time
	Color       string
	StartTime   string
	EndTime     string
	Remarks     string
	Description string
}

// Days is the inclusive length of the span.
func (e CalendarEvent) Days() int {
	return int(day(e.End).Sub(day(e.Start)).Hours()/24) + 1
}

func (e CalendarEvent) MultiDay() bool {
	return !day(e.Start).Equal(day(e.End))
}

func (e CalendarEvent) TimeRange() string {
	if e.StartTime == "" || e.EndTime == "" {
		return ""
	}
	return e.StartTime + " - " + e.EndTime
}

// day truncates t to its calendar date in UTC.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
