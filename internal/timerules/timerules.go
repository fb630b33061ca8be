// Package timerules converts time-of-day pairs into worked hours and day
// equivalents, and dates into fiscal-year buckets. Every function is pure.
package timerules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is minutes since midnight.
type TimeOfDay int

const (
	DefaultHoursPerDay = 8.0
)

var (
	DefaultBreakStart = TimeOfDay(12 * 60)
	DefaultBreakEnd   = TimeOfDay(13 * 60)

	DefaultWorkdayStart = TimeOfDay(8*60 + 30)
	DefaultWorkdayEnd   = TimeOfDay(17 * 60)
)

func At(hour, minute int) TimeOfDay { return TimeOfDay(hour*60 + minute) }

// ParseTimeOfDay accepts "H:MM", "HH:MM" and "HH:MM:SS" (seconds ignored).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return At(h, m), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// BreakPolicy decides whether the midday break is deducted from a span.
type BreakPolicy string

const (
	BreakSubtract BreakPolicy = "subtract"
	BreakNone     BreakPolicy = "none"
)

func ParseBreakPolicy(s string) (BreakPolicy, error) {
	switch BreakPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BreakSubtract:
		return BreakSubtract, nil
	case BreakNone:
		return BreakNone, nil
	}
	return "", fmt.Errorf("unknown lunch break policy %q", s)
}

// FiscalYearPolicy decides which year bucket a date belongs to.
type FiscalYearPolicy string

const (
	// FiscalCalendar buckets a date by its calendar year.
	FiscalCalendar FiscalYearPolicy = "calendar"
	// FiscalJulyJune starts the fiscal year on July 1st.
	FiscalJulyJune FiscalYearPolicy = "july_june"
)

func ParseFiscalYearPolicy(s string) (FiscalYearPolicy, error) {
	switch FiscalYearPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FiscalCalendar:
		return FiscalCalendar, nil
	case FiscalJulyJune:
		return FiscalJulyJune, nil
	}
	return "", fmt.Errorf("unknown fiscal year policy %q", s)
}

func (p FiscalYearPolicy) Year(d time.Time) int {
	if p == FiscalJulyJune {
		if d.Month() >= time.July {
			return d.Year()
		}
		return d.Year() - 1
	}
	return d.Year()
}

// Rules bundles the configurable business rules.
type Rules struct {
	BreakStart  TimeOfDay
	BreakEnd    TimeOfDay
	Break       BreakPolicy
	HoursPerDay float64
	FiscalYear  FiscalYearPolicy

	// A span covering WorkdayStart..WorkdayEnd counts as one whole day.
	// A zero WorkdayEnd disables the rule.
	WorkdayStart TimeOfDay
	WorkdayEnd   TimeOfDay
}

func Default() Rules {
	return Rules{
		BreakStart:   DefaultBreakStart,
		BreakEnd:     DefaultBreakEnd,
		Break:        BreakSubtract,
		HoursPerDay:  DefaultHoursPerDay,
		FiscalYear:   FiscalCalendar,
		WorkdayStart: DefaultWorkdayStart,
		WorkdayEnd:   DefaultWorkdayEnd,
	}
}

// DurationHours returns end-start in hours rounded to 2 decimals. The break
// window is deducted once, only when the span strictly encloses it.
// Non-positive spans yield 0.
func (r Rules) DurationHours(start, end TimeOfDay) float64 {
	minutes := int(end - start)
	if minutes <= 0 {
		return 0
	}
	if r.Break == BreakSubtract && r.BreakEnd > r.BreakStart &&
		start < r.BreakStart && end > r.BreakEnd {
		minutes -= int(r.BreakEnd - r.BreakStart)
	}
	if minutes <= 0 {
		return 0
	}
	return Round2(float64(minutes) / 60)
}

func (r Rules) DayEquivalent(hours float64) float64 {
	per := r.HoursPerDay
	if per <= 0 {
		per = DefaultHoursPerDay
	}
	return Round2(hours / per)
}

// FullDay reports whether start..end covers the whole working day.
func (r Rules) FullDay(start, end TimeOfDay) bool {
	return r.WorkdayEnd > r.WorkdayStart && start <= r.WorkdayStart && end >= r.WorkdayEnd
}

// DayEquivalentOf converts a span to days: a full working day is 1.0,
// anything shorter is its hours over HoursPerDay.
func (r Rules) DayEquivalentOf(start, end TimeOfDay) float64 {
	if r.FullDay(start, end) {
		return 1
	}
	return r.DayEquivalent(r.DurationHours(start, end))
}

func (r Rules) FiscalYearOf(d time.Time) int { return r.FiscalYear.Year(d) }

// DurationHours applies the default rules.
func DurationHours(start, end TimeOfDay) float64 { return Default().DurationHours(start, end) }

// DayEquivalent converts hours using an 8 hour day.
func DayEquivalent(hours float64) float64 { return Default().DayEquivalent(hours) }

// Round2 rounds half away from zero to 2 decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
