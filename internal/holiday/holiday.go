// Package holiday generates Japanese national holidays under the rules in
// force since 2020.
package holiday

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

type Holiday struct {
	Date time.Time
	Name string
}

func (h Holiday) DateString() string { return h.Date.Format(dateLayout) }

//go:generate mockgen -source=holiday.go -destination=mock/holiday_mock.go -package=mock
type Generator interface {
	Between(from, to time.Time) []Holiday
}

// Japan is the default Generator.
type Japan struct{}

func NewJapan() Japan { return Japan{} }

// Between returns holidays in [from, to], both inclusive, ordered by date.
func (Japan) Between(from, to time.Time) []Holiday {
	from = dateOnly(from)
	to = dateOnly(to)
	var out []Holiday
	for y := from.Year(); y <= to.Year(); y++ {
		for _, h := range ForYear(y) {
			if h.Date.Before(from) || h.Date.After(to) {
				continue
			}
			out = append(out, h)
		}
	}
	return out
}

// ForYear returns every holiday of the year, including substitute
// holidays and days sandwiched between two holidays.
func ForYear(year int) []Holiday {
	days := map[string]string{}
	add := func(t time.Time, name string) { days[t.Format(dateLayout)] = name }

	add(date(year, 1, 1), "元日")
	add(nthMonday(year, time.January, 2), "成人の日")
	add(date(year, 2, 11), "建国記念の日")
	add(date(year, 2, 23), "天皇誕生日")
	add(date(year, 3, vernalEquinoxDay(year)), "春分の日")
	add(date(year, 4, 29), "昭和の日")
	add(date(year, 5, 3), "憲法記念日")
	add(date(year, 5, 4), "みどりの日")
	add(date(year, 5, 5), "こどもの日")
	add(nthMonday(year, time.July, 3), "海の日")
	add(date(year, 8, 11), "山の日")
	add(nthMonday(year, time.September, 3), "敬老の日")
	add(date(year, 9, autumnalEquinoxDay(year)), "秋分の日")
	add(nthMonday(year, time.October, 2), "スポーツの日")
	add(date(year, 11, 3), "文化の日")
	add(date(year, 11, 23), "勤労感謝の日")

	base := make([]string, 0, len(days))
	for k := range days {
		base = append(base, k)
	}
	sort.Strings(base)

	// A regular day between two holidays becomes a holiday.
	for _, k := range base {
		d, _ := time.Parse(dateLayout, k)
		mid := d.AddDate(0, 0, 1)
		next := d.AddDate(0, 0, 2)
		_, midHoliday := days[mid.Format(dateLayout)]
		_, nextHoliday := days[next.Format(dateLayout)]
		if !midHoliday && nextHoliday && mid.Weekday() != time.Sunday {
			add(mid, "国民の休日")
		}
	}

	// A holiday on Sunday moves to the next non-holiday.
	for _, k := range base {
		d, _ := time.Parse(dateLayout, k)
		if d.Weekday() != time.Sunday {
			continue
		}
		sub := d.AddDate(0, 0, 1)
		for {
			if _, taken := days[sub.Format(dateLayout)]; !taken {
				break
			}
			sub = sub.AddDate(0, 0, 1)
		}
		add(sub, "振替休日")
	}

	out := make([]Holiday, 0, len(days))
	for k, name := range days {
		d, _ := time.Parse(dateLayout, k)
		out = append(out, Holiday{Date: d, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// vernalEquinoxDay approximates the March equinox for 1980-2099.
func vernalEquinoxDay(year int) int {
	y := year - 1980
	return int(20.8431+0.242194*float64(y)) - y/4
}

// autumnalEquinoxDay approximates the September equinox for 1980-2099.
func autumnalEquinoxDay(year int) int {
	y := year - 1980
	return int(23.2488+0.242194*float64(y)) - y/4
}

func nthMonday(year int, month time.Month, n int) time.Time {
	first := date(year, month, 1)
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
