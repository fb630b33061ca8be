package bulletin_test

import (
	"context"
	"testing"
	"time"

	"go-kintai/internal/bulletin"
	bulletinerrors "go-kintai/internal/bulletin/errors"
	"go-kintai/internal/shared/apperror"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/tablestore"
	"go-kintai/internal/tablestore/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (bulletin.Service, *memory.Backend) {
	t.Helper()
	backend := memory.New("")
	store := tablestore.New(backend)
	return bulletin.NewService(bulletin.NewRepository(store, time.UTC), nil), backend
}

func as(name, role string) context.Context {
	return contextutil.WithActor(context.Background(), contextutil.Actor{ID: name, Name: name, Role: role})
}

func TestService_CreateAndList(t *testing.T) {
	svc, backend := newService(t)
	backend.Seed(tablestore.BulletinBoard, [][]string{
		{"post_id", "timestamp", "author", "title", "content"},
		{"old", "2026-01-05 09:00:00", "佐藤", "古い", "本文"},
		{"", "2026-01-06 09:00:00", "鈴木", "IDなし", "本文"},
	})

	created, err := svc.Create(as("田中", contextutil.RoleStaff), bulletin.PostRequest{Title: " お知らせ ", Content: "明日は休館日です"})
	require.NoError(t, err)
	assert.Equal(t, "田中", created.Author)
	assert.Equal(t, "お知らせ", created.Title)
	assert.NotEmpty(t, created.ID)

	posts, err := svc.GetAll(as("佐藤", contextutil.RoleStaff))
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, created.ID, posts[0].ID)
	assert.False(t, posts[0].Editable)
	assert.Equal(t, "IDなし", posts[1].Title)
	assert.False(t, posts[1].Editable)
	assert.Equal(t, "old", posts[2].ID)
	assert.True(t, posts[2].Editable)
}

func TestService_CreateRequiresActor(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), bulletin.PostRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := as("田中", contextutil.RoleStaff)

	_, err := svc.Create(ctx, bulletin.PostRequest{Title: " ", Content: "c"})
	assert.ErrorIs(t, err, bulletinerrors.ErrTitleRequired)
	_, err = svc.Create(ctx, bulletin.PostRequest{Title: "t", Content: "\n"})
	assert.ErrorIs(t, err, bulletinerrors.ErrContentRequired)
}

func TestService_UpdateAndDeleteOwnership(t *testing.T) {
	svc, backend := newService(t)
	owner := as("田中", contextutil.RoleStaff)
	created, err := svc.Create(owner, bulletin.PostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.Update(as("佐藤", contextutil.RoleStaff), created.ID, bulletin.PostRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, bulletinerrors.ErrNotAuthor)

	updated, err := svc.Update(owner, created.ID, bulletin.PostRequest{Title: "t2", Content: "c2"})
	require.NoError(t, err)
	assert.Equal(t, created.Timestamp, updated.Timestamp)
	assert.Equal(t, "田中", updated.Author)

	rows := backend.Rows(tablestore.BulletinBoard)
	require.Len(t, rows, 2)
	assert.Equal(t, created.ID, rows[1][0])
	assert.Equal(t, "t2", rows[1][3])

	_, err = svc.Update(owner, "missing", bulletin.PostRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, bulletinerrors.ErrPostNotFound)

	require.NoError(t, svc.Delete(as("admin", contextutil.RoleAdmin), created.ID))
	assert.Len(t, backend.Rows(tablestore.BulletinBoard), 1)
}

func TestService_Purge(t *testing.T) {
	svc, backend := newService(t)
	ctx := as("田中", contextutil.RoleStaff)
	for range 3 {
		_, err := svc.Create(ctx, bulletin.PostRequest{Title: "t", Content: "c"})
		require.NoError(t, err)
	}
	require.NoError(t, svc.Purge(ctx))
	assert.Equal(t, [][]string{tablestore.BulletinBoard.Columns()}, backend.Rows(tablestore.BulletinBoard))
}
