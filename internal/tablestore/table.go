package tablestore

import (
	"slices"
	"strings"
)

type Table string

const (
	AttendanceLogs Table = "attendance_logs"
	Events         Table = "events"
	BulletinBoard  Table = "bulletin_board"
	Staff          Table = "staff"
)

// Canonical header order. The first column is always the key.
var schemas = map[Table][]string{
	AttendanceLogs: {
		"event_id", "date", "staff_name", "type",
		"start_time", "end_time", "duration_hours",
		"day_equivalent", "fiscal_year", "remarks",
	},
	Events: {
		"event_id", "start_date", "end_date", "title",
		"description", "color", "start_time", "end_time",
	},
	BulletinBoard: {"post_id", "timestamp", "author", "title", "content"},
	Staff:         {"staff_id", "name", "password"},
}

func Tables() []Table {
	return []Table{AttendanceLogs, Events, BulletinBoard, Staff}
}

func ParseTable(s string) (Table, bool) {
	t := Table(strings.TrimSpace(s))
	_, ok := schemas[t]
	return t, ok
}

func (t Table) Valid() bool {
	_, ok := schemas[t]
	return ok
}

// Columns returns a copy of the canonical header.
func (t Table) Columns() []string {
	return slices.Clone(schemas[t])
}

func (t Table) KeyColumn() string {
	cols := schemas[t]
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}

// Record is one data row addressed by column name.
type Record map[string]string

func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

func (r Record) Clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

func normalizeHeader(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// decodeRow maps a physical row onto the header. Short rows decode the
// missing cells as empty strings.
func decodeRow(header, row []string) Record {
	rec := make(Record, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(row) {
			rec[col] = strings.TrimSpace(row[i])
		} else {
			rec[col] = ""
		}
	}
	return rec
}

// encodeRow lays a record out in the order of an existing header.
func encodeRow(header []string, rec Record) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = rec[col]
	}
	return row
}

// missingColumns lists canonical columns absent from header, in canonical order.
func missingColumns(t Table, header []string) []string {
	var missing []string
	for _, col := range schemas[t] {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func trimmed(s string) string { return strings.TrimSpace(s) }
