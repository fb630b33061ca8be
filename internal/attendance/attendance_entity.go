package attendance

import (
	"strconv"
	"strings"
	"time"

	"go-kintai/internal/tablestore"
)

const DateLayout = "2006-01-02"

type LeaveType string

const (
	Annual       LeaveType = "年休"
	Summer       LeaveType = "夏休み"
	Compensatory LeaveType = "代休"
)

func LeaveTypes() []LeaveType {
	return []LeaveType{Annual, Summer, Compensatory}
}

// ParseLeaveType accepts the stored label or its English alias.
func ParseLeaveType(s string) (LeaveType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Annual), "annual":
		return Annual, true
	case string(Summer), "summer":
		return Summer, true
	case string(Compensatory), "compensatory":
		return Compensatory, true
	}
	return "", false
}

// Record is one staff-day of a leave application. All days of one
// application share ID.
type Record struct {
	ID            string
	Date          time.Time
	StaffName     string
	LeaveType     LeaveType
	StartTime     string
	EndTime       string
	DurationHours float64
	DayEquivalent float64
	FiscalYear    int
	Remarks       string
}

func (r Record) DateString() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// FromRow decodes a stored row. Malformed cells decode to zero values so a
// single bad row never hides the rest of the ledger.
func FromRow(row tablestore.Record) Record {
	r := Record{
		ID:        row.Get("event_id"),
		StaffName: row.Get("staff_name"),
		LeaveType: LeaveType(row.Get("type")),
		StartTime: row.Get("start_time"),
		EndTime:   row.Get("end_time"),
		Remarks:   row.Get("remarks"),
	}
	if d, err := time.Parse(DateLayout, row.Get("date")); err == nil {
		r.Date = d
	}
	r.DurationHours, _ = strconv.ParseFloat(row.Get("duration_hours"), 64)
	r.DayEquivalent, _ = strconv.ParseFloat(row.Get("day_equivalent"), 64)
	if fy, err := strconv.ParseFloat(row.Get("fiscal_year"), 64); err == nil {
		r.FiscalYear = int(fy)
	}
	return r
}

func (r Record) Row() tablestore.Record {
	return tablestore.Record{
		"event_id":       r.ID,
		"date":           r.DateString(),
		"staff_name":     r.StaffName,
		"type":           string(r.LeaveType),
		"start_time":     r.StartTime,
		"end_time":       r.EndTime,
		"duration_hours": formatFloat(r.DurationHours),
		"day_equivalent": formatFloat(r.DayEquivalent),
		"fiscal_year":    strconv.Itoa(r.FiscalYear),
		"remarks":        r.Remarks,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
