package timerules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	assert.NoError(t, err)
	return v
}

func TestDurationHours(t *testing.T) {
	r := Default()

	cases := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 7.0},
		{"13:00", "17:00", 4.0},
		{"11:00", "14:00", 2.0},
		{"08:30", "17:00", 7.5},
		{"09:00", "12:00", 3.0},
		{"12:00", "13:00", 1.0},
		{"11:00", "13:00", 2.0},
		{"09:00", "09:00", 0},
		{"17:00", "09:00", 0},
		{"09:00", "09:20", 0.33},
	}
	for _, tc := range cases {
		t.Run(tc.start+"-"+tc.end, func(t *testing.T) {
			got := r.DurationHours(mustTime(t, tc.start), mustTime(t, tc.end))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDurationHours_NoBreakPolicy(t *testing.T) {
	r := Default()
	r.Break = BreakNone

	assert.Equal(t, 8.0, r.DurationHours(At(9, 0), At(17, 0)))
	assert.Equal(t, 3.0, r.DurationHours(At(11, 0), At(14, 0)))
}

func TestDayEquivalent(t *testing.T) {
	assert.Equal(t, 1.0, DayEquivalent(8.0))
	assert.Equal(t, 0.5, DayEquivalent(4.0))
	assert.Equal(t, 0.94, DayEquivalent(7.5))
	assert.Equal(t, 0.0, DayEquivalent(0))
}

func TestDayEquivalentOf(t *testing.T) {
	r := Default()

	assert.Equal(t, 1.0, r.DayEquivalentOf(At(8, 30), At(17, 0)))
	assert.Equal(t, 1.0, r.DayEquivalentOf(At(8, 0), At(18, 0)))
	assert.Equal(t, 0.5, r.DayEquivalentOf(At(13, 0), At(17, 0)))
	assert.Equal(t, 0.88, r.DayEquivalentOf(At(9, 0), At(17, 0)))

	r.WorkdayEnd = 0
	assert.Equal(t, 0.94, r.DayEquivalentOf(At(8, 30), At(17, 0)))
}

func TestFiscalYear(t *testing.T) {
	newYear := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2026, FiscalCalendar.Year(newYear))
	assert.Equal(t, 2025, FiscalJulyJune.Year(newYear))
	assert.Equal(t, 2026, FiscalJulyJune.Year(july))
	assert.Equal(t, 2025, FiscalJulyJune.Year(june))

	r := Default()
	assert.Equal(t, 2026, r.FiscalYearOf(newYear))
	r.FiscalYear = FiscalJulyJune
	assert.Equal(t, 2025, r.FiscalYearOf(newYear))
}

func TestParseTimeOfDay(t *testing.T) {
	t.Run("formats", func(t *testing.T) {
		assert.Equal(t, At(8, 30), mustTime(t, "08:30"))
		assert.Equal(t, At(8, 30), mustTime(t, "8:30"))
		assert.Equal(t, At(17, 0), mustTime(t, "17:00:00"))
		assert.Equal(t, "08:30", At(8, 30).String())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "0830", "24:00", "12:60", "ab:cd", "12:5"} {
			_, err := ParseTimeOfDay(s)
			assert.Error(t, err, s)
		}
	})
}

func TestParsePolicies(t *testing.T) {
	p, err := ParseFiscalYearPolicy("JULY_JUNE")
	assert.NoError(t, err)
	assert.Equal(t, FiscalJulyJune, p)

	p, err = ParseFiscalYearPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, FiscalCalendar, p)

	_, err = ParseFiscalYearPolicy("april")
	assert.Error(t, err)

	b, err := ParseBreakPolicy("none")
	assert.NoError(t, err)
	assert.Equal(t, BreakNone, b)

	_, err = ParseBreakPolicy("half")
	assert.Error(t, err)
}
