package attendance

import (
	"context"

	"go-kintai/internal/tablestore"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id string) ([]Record, error)
	Create(ctx context.Context, rows []Record) (int, error)
	DeleteByID(ctx context.Context, id string) (int, error)
	ReplaceByID(ctx context.Context, id string, rows []Record) error
	Purge(ctx context.Context) error
}

type repository struct {
	store tablestore.TableStore
}

func NewRepository(store tablestore.TableStore) Repository {
	return &repository{store: store}
}

const keyColumn = "event_id"

func (r *repository) FindAll(ctx context.Context) ([]Record, error) {
	rows, err := r.store.ReadAll(ctx, tablestore.AttendanceLogs)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, id string) ([]Record, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range all {
		if rec.ID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, rows []Record) (int, error) {
	return r.store.AppendAll(ctx, tablestore.AttendanceLogs, toRows(rows))
}

func (r *repository) DeleteByID(ctx context.Context, id string) (int, error) {
	return r.store.DeleteByKey(ctx, tablestore.AttendanceLogs, keyColumn, id)
}

func (r *repository) ReplaceByID(ctx context.Context, id string, rows []Record) error {
	return r.store.Replace(ctx, tablestore.AttendanceLogs, keyColumn, id, toRows(rows)...)
}

func (r *repository) Purge(ctx context.Context) error {
	return r.store.Purge(ctx, tablestore.AttendanceLogs)
}

func toRows(rows []Record) []tablestore.Record {
	out := make([]tablestore.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Row()
	}
	return out
}
