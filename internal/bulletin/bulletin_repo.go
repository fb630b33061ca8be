package bulletin

import (
	"context"
	"time"

	"go-kintai/internal/tablestore"
)

//go:generate mockgen -source=bulletin_repo.go -destination=mock/bulletin_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Post, error)
	FindByID(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, p Post) error
	Replace(ctx context.Context, p Post) error
	Delete(ctx context.Context, id string) error
	Purge(ctx context.Context) error
}

type repository struct {
	store tablestore.TableStore
	loc   *time.Location
}

func NewRepository(store tablestore.TableStore, loc *time.Location) Repository {
	if loc == nil {
		loc = time.Local
	}
	return &repository{store: store, loc: loc}
}

func (r *repository) FindAll(ctx context.Context) ([]Post, error) {
	rows, err := r.store.ReadAll(ctx, tablestore.BulletinBoard)
	if err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row, r.loc))
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, nil
	}
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *repository) Create(ctx context.Context, p Post) error {
	return r.store.Append(ctx, tablestore.BulletinBoard, p.Row())
}

func (r *repository) Replace(ctx context.Context, p Post) error {
	return r.store.Replace(ctx, tablestore.BulletinBoard, tablestore.BulletinBoard.KeyColumn(), p.ID, p.Row())
}

func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.store.DeleteByKey(ctx, tablestore.BulletinBoard, tablestore.BulletinBoard.KeyColumn(), id)
	return err
}

func (r *repository) Purge(ctx context.Context) error {
	return r.store.Purge(ctx, tablestore.BulletinBoard)
}
