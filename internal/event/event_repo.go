package event

import (
	"context"

	"go-kintai/internal/tablestore"
)

//go:generate mockgen -source=event_repo.go -destination=mock/event_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, e Event) error
	Replace(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
	Purge(ctx context.Context) error
}

type repository struct {
	store tablestore.TableStore
}

func NewRepository(store tablestore.TableStore) Repository {
	return &repository{store: store}
}

func (r *repository) FindAll(ctx context.Context) ([]Event, error) {
	rows, err := r.store.ReadAll(ctx, tablestore.Events)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out, nil
}

// FindByID returns nil, nil when no row matches.
func (r *repository) FindByID(ctx context.Context, id string) (*Event, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *repository) Create(ctx context.Context, e Event) error {
	return r.store.Append(ctx, tablestore.Events, e.Row())
}

func (r *repository) Replace(ctx context.Context, e Event) error {
	return r.store.Replace(ctx, tablestore.Events, tablestore.Events.KeyColumn(), e.ID, e.Row())
}

func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.store.DeleteByKey(ctx, tablestore.Events, tablestore.Events.KeyColumn(), id)
	return err
}

func (r *repository) Purge(ctx context.Context) error {
	return r.store.Purge(ctx, tablestore.Events)
}
