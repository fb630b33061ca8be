// Package memory is an in-process tablestore backend for tests and local
// runs without a spreadsheet.
package memory

import (
	"context"
	"slices"
	"sync"

	"go-kintai/internal/tablestore"
)

// FailFunc can inject a failure before an operation runs.
type FailFunc func(op string, table tablestore.Table) error

type Backend struct {
	id     string
	mu     sync.Mutex
	tables map[tablestore.Table][][]string
	fail   FailFunc
	calls  map[string]int
}

func New(id string) *Backend {
	if id == "" {
		id = "memory"
	}
	return &Backend{
		id:     id,
		tables: make(map[tablestore.Table][][]string),
		calls:  make(map[string]int),
	}
}

// FailWith installs a failure hook; nil removes it.
func (b *Backend) FailWith(fn FailFunc) {
	b.mu.Lock()
	b.fail = fn
	b.mu.Unlock()
}

// Calls reports how many times op was attempted.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// Seed replaces a table's physical rows, header included.
func (b *Backend) Seed(table tablestore.Table, rows [][]string) {
	b.mu.Lock()
	b.tables[table] = cloneRows(rows)
	b.mu.Unlock()
}

// Rows returns a copy of a table's physical rows.
func (b *Backend) Rows(table tablestore.Table) [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneRows(b.tables[table])
}

func (b *Backend) begin(op string, table tablestore.Table) error {
	b.calls[op]++
	if b.fail != nil {
		return b.fail(op, table)
	}
	return nil
}

func (b *Backend) ID() string { return b.id }

func (b *Backend) Values(ctx context.Context, table tablestore.Table) ([][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin("values", table); err != nil {
		return nil, err
	}
	return cloneRows(b.tables[table]), nil
}

func (b *Backend) AppendRows(ctx context.Context, table tablestore.Table, rows [][]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin("append", table); err != nil {
		return err
	}
	b.tables[table] = append(b.tables[table], cloneRows(rows)...)
	return nil
}

func (b *Backend) UpdateRow(ctx context.Context, table tablestore.Table, index int, row []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin("update", table); err != nil {
		return err
	}
	rows := b.tables[table]
	if index < 0 || index >= len(rows) {
		return tablestore.ErrNoMatch
	}
	rows[index] = slices.Clone(row)
	return nil
}

func (b *Backend) DeleteRows(ctx context.Context, table tablestore.Table, indexes []int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.begin("delete", table); err != nil {
		return err
	}
	rows := b.tables[table]
	for _, i := range indexes {
		if i < 0 || i >= len(rows) {
			continue
		}
		rows = slices.Delete(rows, i, i+1)
	}
	b.tables[table] = rows
	return nil
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}
