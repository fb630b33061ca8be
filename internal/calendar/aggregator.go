package calendar

import (
	"sort"
	"time"

	"go-kintai/internal/attendance"
	"go-kintai/internal/event"
	"go-kintai/internal/holiday"
)

var leaveColors = map[attendance.LeaveType]string{
	attendance.Annual:       ColorAnnual,
	attendance.Summer:       ColorSummer,
	attendance.Compensatory: ColorCompensatory,
}

func LeaveColor(t attendance.LeaveType) string {
	if c, ok := leaveColors[t]; ok {
		return c
	}
	return ColorFallback
}

// GroupAttendance merges per-day leave rows into spans. Rows are ordered by
// staff, leave type and date; a row extends the open span when it shares
// staff and type and falls on the day after the span's end. A row on the
// span's last day is absorbed. Undated rows are skipped. The input slice is
// not modified.
func GroupAttendance(records []attendance.Record) []CalendarEvent {
	sorted := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StaffName != b.StaffName {
			return a.StaffName < b.StaffName
		}
		if a.LeaveType != b.LeaveType {
			return a.LeaveType < b.LeaveType
		}
		return a.Date.Before(b.Date)
	})

	var (
		out  []CalendarEvent
		open *CalendarEvent
	)
	for _, r := range sorted {
		d := day(r.Date)
		if open != nil && open.StaffName == r.StaffName && open.LeaveType == string(r.LeaveType) {
			switch {
			case d.Equal(open.End):
				continue
			case d.Equal(open.End.AddDate(0, 0, 1)):
				open.End = d
				continue
			}
		}
		if open != nil {
			out = append(out, *open)
		}
		open = &CalendarEvent{
			ID:        r.ID,
			Category:  CategoryLeave,
			StaffName: r.StaffName,
			LeaveType: string(r.LeaveType),
			Start:     d,
			End:       d,
			Color:     LeaveColor(r.LeaveType),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Remarks:   r.Remarks,
		}
	}
	if open != nil {
		out = append(out, *open)
	}
	for i := range out {
		out[i].Title = leaveTitle(out[i])
	}
	return out
}

func leaveTitle(e CalendarEvent) string {
	title := e.StaffName + " - " + e.LeaveType
	if e.MultiDay() {
		title += " (" + e.Start.Format("01/02") + "〜" + e.End.Format("01/02") + ")"
	}
	return title
}

// FromGeneralEvents passes each stored event through as one span.
func FromGeneralEvents(events []event.Event) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.StartDate.IsZero() {
			continue
		}
		end := e.EndDate
		if end.IsZero() || end.Before(e.StartDate) {
			end = e.StartDate
		}
		color := e.Color
		if color == "" {
			color = ColorFallback
		}
		out = append(out, CalendarEvent{
			ID:          e.ID,
			Category:    CategoryEvent,
			Title:       e.Title,
			Start:       day(e.StartDate),
			End:         day(end),
			Color:       color,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Description: e.Description,
		})
	}
	return out
}

func FromHolidays(holidays []holiday.Holiday) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(holidays))
	for _, h := range holidays {
		d := day(h.Date)
		out = append(out, CalendarEvent{
			ID:       "holiday-" + h.DateString(),
			Category: CategoryHoliday,
			Title:    h.Name,
			Start:    d,
			End:      d,
			Color:    ColorHoliday,
		})
	}
	return out
}

// HolidayWindow is the range holidays are generated for around now.
func HolidayWindow(now time.Time) (time.Time, time.Time) {
	today := day(now)
	return today.AddDate(-1, 0, 0), today.AddDate(1, 0, 0)
}

// Aggregate builds the full calendar: leave spans, then general events,
// then holidays. The three sources are never merged with each other.
func Aggregate(records []attendance.Record, events []event.Event, holidays []holiday.Holiday) []CalendarEvent {
	out := GroupAttendance(records)
	out = append(out, FromGeneralEvents(events)...)
	out = append(out, FromHolidays(holidays)...)
	return out
}
