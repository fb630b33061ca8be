package tablestore

import (
	"context"
	"fmt"

	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/shared/retry"

	"go.uber.org/zap"
)

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type TableStore interface {
	ID() string
	// ReadAll returns the data rows in storage order.
	ReadAll(ctx context.Context, table Table) ([]Record, error)
	// Append writes one row, provisioning the header first when needed.
	Append(ctx context.Context, table Table, rec Record) error
	// AppendAll writes one row per record and reports how many were stored.
	// A partial result is a *PartialWriteError.
	AppendAll(ctx context.Context, table Table, recs []Record) (int, error)
	// DeleteByKey removes every row whose keyColumn equals keyValue.
	DeleteByKey(ctx context.Context, table Table, keyColumn, keyValue string) (int, error)
	// Replace is DeleteByKey followed by AppendAll. It is the only update path.
	Replace(ctx context.Context, table Table, keyColumn, keyValue string, recs ...Record) error
	// Purge removes every data row and keeps the header.
	Purge(ctx context.Context, table Table) error
}

type store struct {
	backend Backend
	policy  retry.Policy
	logger  *zap.Logger
}

type Option func(*store)

func WithRetryPolicy(p retry.Policy) Option {
	return func(s *store) { s.policy = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *store) {
		if l != nil {
			s.logger = l.Named("tablestore")
		}
	}
}

func New(backend Backend, opts ...Option) TableStore {
	s := &store{
		backend: backend,
		policy:  retry.DefaultPolicy(),
		logger:  zap.L().Named("tablestore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *store) ID() string { return s.backend.ID() }

func (s *store) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

// call runs one backend operation under the retry policy. Only rate-limit
// failures are retried; the final error is always an *Error.
func (s *store) call(ctx context.Context, op string, table Table, fn func(ctx context.Context) error) error {
	err := retry.Do(ctx, s.policy, func(err error) bool {
		return classify(s.backend, err) == KindRateLimited
	}, fn, s.logger)
	if err == nil {
		return nil
	}
	return s.wrap(op, table, err)
}

func (s *store) wrap(op string, table Table, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return se
	}
	if pw, ok := err.(*PartialWriteError); ok {
		return pw
	}
	return &Error{Kind: classify(s.backend, err), Op: op, Table: table, Err: err}
}

func (s *store) values(ctx context.Context, op string, table Table) ([][]string, error) {
	if !table.Valid() {
		return nil, &Error{Kind: KindValidation, Op: op, Table: table, Err: ErrUnknownTable}
	}
	var values [][]string
	err := s.call(ctx, op, table, func(ctx context.Context) error {
		v, err := s.backend.Values(ctx, table)
		values = v
		return err
	})
	return values, err
}

func (s *store) ReadAll(ctx context.Context, table Table) ([]Record, error) {
	values, err := s.values(ctx, "read_all", table)
	if err != nil {
		s.log(ctx).Warn("read table failed", zap.String("table", string(table)), zap.Error(err))
		return nil, err
	}
	if len(values) == 0 {
		return []Record{}, nil
	}

	header := normalizeHeader(values[0])
	records := make([]Record, 0, len(values)-1)
	for _, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, decodeRow(header, row))
	}
	return records, nil
}

// ensureHeader returns the header rows will be laid out against, writing
// the canonical header to an empty table and appending any canonical
// columns an older header lacks.
func (s *store) ensureHeader(ctx context.Context, op string, table Table) ([]string, error) {
	values, err := s.values(ctx, op, table)
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		header := table.Columns()
		err := s.call(ctx, op, table, func(ctx context.Context) error {
			return s.backend.AppendRows(ctx, table, [][]string{header})
		})
		if err != nil {
			return nil, err
		}
		s.log(ctx).Info("provisioned table header", zap.String("table", string(table)))
		return header, nil
	}

	header := normalizeHeader(values[0])
	if missing := missingColumns(table, header); len(missing) > 0 {
		header = append(header, missing...)
		err := s.call(ctx, op, table, func(ctx context.Context) error {
			return s.backend.UpdateRow(ctx, table, 0, header)
		})
		if err != nil {
			return nil, err
		}
		s.log(ctx).Info("extended table header",
			zap.String("table", string(table)),
			zap.Strings("added", missing),
		)
	}
	return header, nil
}

func (s *store) Append(ctx context.Context, table Table, rec Record) error {
	header, err := s.ensureHeader(ctx, "append", table)
	if err != nil {
		return err
	}
	row := encodeRow(header, rec)
	err = s.call(ctx, "append", table, func(ctx context.Context) error {
		return s.backend.AppendRows(ctx, table, [][]string{row})
	})
	if err != nil {
		s.log(ctx).Warn("append failed", zap.String("table", string(table)), zap.Error(err))
		return err
	}
	return nil
}

func (s *store) AppendAll(ctx context.Context, table Table, recs []Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	header, err := s.ensureHeader(ctx, "append", table)
	if err != nil {
		return 0, err
	}

	written := 0
	var lastErr error
	for _, rec := range recs {
		row := encodeRow(header, rec)
		err := s.call(ctx, "append", table, func(ctx context.Context) error {
			return s.backend.AppendRows(ctx, table, [][]string{row})
		})
		if err != nil {
			lastErr = err
			s.log(ctx).Warn("append row failed",
				zap.String("table", string(table)),
				zap.String("key", rec[table.KeyColumn()]),
				zap.Error(err),
			)
			continue
		}
		written++
	}

	switch {
	case lastErr == nil:
		return written, nil
	case written == 0:
		return 0, lastErr
	default:
		return written, &PartialWriteError{
			Op:        "append",
			Table:     table,
			Requested: len(recs),
			Succeeded: written,
			Err:       lastErr,
		}
	}
}

func (s *store) DeleteByKey(ctx context.Context, table Table, keyColumn, keyValue string) (int, error) {
	values, err := s.values(ctx, "delete", table)
	if err != nil {
		return 0, err
	}
	if len(values) <= 1 {
		return 0, &Error{Kind: KindNotFound, Op: "delete", Table: table, Err: ErrNoMatch}
	}

	header := normalizeHeader(values[0])
	col := -1
	for i, h := range header {
		if h == keyColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, &Error{Kind: KindValidation, Op: "delete", Table: table,
			Err: fmt.Errorf("%w: %q", ErrUnknownColumn, keyColumn)}
	}

	var indexes []int
	for i := len(values) - 1; i >= 1; i-- {
		row := values[i]
		if col < len(row) && trimmed(row[col]) == keyValue {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return 0, &Error{Kind: KindNotFound, Op: "delete", Table: table, Err: ErrNoMatch}
	}

	err = s.call(ctx, "delete", table, func(ctx context.Context) error {
		return s.backend.DeleteRows(ctx, table, indexes)
	})
	if err != nil {
		s.log(ctx).Warn("delete failed",
			zap.String("table", string(table)),
			zap.String("key", keyValue),
			zap.Error(err),
		)
		return 0, err
	}
	s.log(ctx).Debug("rows deleted",
		zap.String("table", string(table)),
		zap.String("key", keyValue),
		zap.Int("rows", len(indexes)),
	)
	return len(indexes), nil
}

func (s *store) Replace(ctx context.Context, table Table, keyColumn, keyValue string, recs ...Record) error {
	if _, err := s.DeleteByKey(ctx, table, keyColumn, keyValue); err != nil {
		return err
	}
	written, err := s.AppendAll(ctx, table, recs)
	if err == nil {
		return nil
	}
	// The delete already happened, so any failed reinsert is a partial write.
	if _, ok := err.(*PartialWriteError); ok {
		return err
	}
	return &PartialWriteError{
		Op:        "replace",
		Table:     table,
		Requested: len(recs),
		Succeeded: written,
		Err:       err,
	}
}

func (s *store) Purge(ctx context.Context, table Table) error {
	values, err := s.values(ctx, "purge", table)
	if err != nil {
		return err
	}
	if len(values) <= 1 {
		return nil
	}
	indexes := make([]int, 0, len(values)-1)
	for i := len(values) - 1; i >= 1; i-- {
		indexes = append(indexes, i)
	}
	err = s.call(ctx, "purge", table, func(ctx context.Context) error {
		return s.backend.DeleteRows(ctx, table, indexes)
	})
	if err != nil {
		return err
	}
	s.log(ctx).Info("table purged", zap.String("table", string(table)), zap.Int("rows", len(indexes)))
	return nil
}

// Provision creates missing tables where the backend supports it and writes
// canonical headers to empty ones.
func Provision(ctx context.Context, backend Backend, opts ...Option) error {
	s := New(backend, opts...).(*store)
	for _, t := range Tables() {
		if p, ok := backend.(Provisioner); ok {
			if err := p.EnsureTable(ctx, t); err != nil {
				return s.wrap("provision", t, err)
			}
		}
		if _, err := s.ensureHeader(ctx, "provision", t); err != nil {
			return err
		}
	}
	return nil
}
