package staff

import (
	"context"

	"go-kintai/internal/tablestore"
)

//go:generate mockgen -source=staff_repo.go -destination=mock/staff_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Staff, error)
	FindByID(ctx context.Context, id string) (*Staff, error)
	FindByName(ctx context.Context, name string) (*Staff, error)
	Create(ctx context.Context, s Staff) error
	Replace(ctx context.Context, s Staff) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	store tablestore.TableStore
}

func NewRepository(store tablestore.TableStore) Repository {
	return &repository{store: store}
}

func (r *repository) FindAll(ctx context.Context) ([]Staff, error) {
	rows, err := r.store.ReadAll(ctx, tablestore.Staff)
	if err != nil {
		return nil, err
	}
	out := make([]Staff, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out, nil
}

func (r *repository) find(ctx context.Context, match func(Staff) bool) (*Staff, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if match(s) {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

// FindByID returns nil, nil when no row matches.
func (r *repository) FindByID(ctx context.Context, id string) (*Staff, error) {
	return r.find(ctx, func(s Staff) bool { return s.ID == id })
}

func (r *repository) FindByName(ctx context.Context, name string) (*Staff, error) {
	return r.find(ctx, func(s Staff) bool { return s.Name == name })
}

func (r *repository) Create(ctx context.Context, s Staff) error {
	return r.store.Append(ctx, tablestore.Staff, s.Row())
}

func (r *repository) Replace(ctx context.Context, s Staff) error {
	return r.store.Replace(ctx, tablestore.Staff, tablestore.Staff.KeyColumn(), s.ID, s.Row())
}

func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.store.DeleteByKey(ctx, tablestore.Staff, tablestore.Staff.KeyColumn(), id)
	return err
}
