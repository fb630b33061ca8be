package tablestore

import "context"

// Backend is the physical, spreadsheet-shaped storage. Row indexes are
// 0-based and include the header row at index 0.
//
//go:generate mockgen -source=backend.go -destination=mock/backend_mock.go -package=mock
type Backend interface {
	// ID identifies the underlying document, e.g. a spreadsheet id.
	ID() string
	// Values returns every physical row, header included. An empty table
	// yields no rows.
	Values(ctx context.Context, table Table) ([][]string, error)
	AppendRows(ctx context.Context, table Table, rows [][]string) error
	UpdateRow(ctx context.Context, table Table, index int, row []string) error
	// DeleteRows removes the given rows. Indexes arrive sorted from last to
	// first so earlier deletions never shift later ones.
	DeleteRows(ctx context.Context, table Table, indexes []int) error
}

// Provisioner is implemented by backends that can create a missing table.
type Provisioner interface {
	EnsureTable(ctx context.Context, table Table) error
}

// Classifier is implemented by backends that recognise their own native
// errors (HTTP status codes, SQLSTATE, ...).
type Classifier interface {
	Classify(err error) Kind
}
