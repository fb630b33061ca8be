package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"go-kintai/internal/tablestore"
	"go-kintai/internal/tablestore/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*postgres.Backend, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	return postgres.New(gdb, "office"), mock, db
}

const selectRows = `SELECT \* FROM "sheet_rows" WHERE .*workbook = \$1 AND sheet_name = \$2.*ORDER BY id`

func TestValues(t *testing.T) {
	b, mock, db := setup(t)
	defer db.Close()

	mock.ExpectQuery(selectRows).
		WithArgs("office", "staff").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workbook", "sheet_name", "cells"}).
			AddRow(1, "office", "staff", `["staff_id","name","password"]`).
			AddRow(2, "office", "staff", `["s1","職員A","hash"]`))

	rows, err := b.Values(context.Background(), tablestore.Staff)

	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"staff_id", "name", "password"}, {"s1", "職員A", "hash"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRows(t *testing.T) {
	b, mock, db := setup(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO "sheet_rows"`).
		WithArgs("office", "events", `["ev1","2026-04-01"]`, "office", "events", `["ev2","2026-04-02"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8))

	err := b.AppendRows(context.Background(), tablestore.Events, [][]string{
		{"ev1", "2026-04-01"},
		{"ev2", "2026-04-02"},
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRows_MapsIndexesToIDs(t *testing.T) {
	b, mock, db := setup(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .*id.* FROM "sheet_rows"`).
		WithArgs("office", "attendance_logs").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11).AddRow(12).AddRow(13))
	mock.ExpectExec(`DELETE FROM "sheet_rows" WHERE id IN`).
		WithArgs(int64(13), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := b.DeleteRows(context.Background(), tablestore.AttendanceLogs, []int{3, 1})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRow(t *testing.T) {
	b, mock, db := setup(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .*id.* FROM "sheet_rows"`).
		WithArgs("office", "events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21).AddRow(22))
	mock.ExpectExec(`UPDATE "sheet_rows" SET "cells"=\$1 WHERE id = \$2`).
		WithArgs(`["event_id","start_date"]`, int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := b.UpdateRow(context.Background(), tablestore.Events, 0, []string{"event_id", "start_date"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	b := postgres.New(nil, "office")

	assert.Equal(t, tablestore.KindRateLimited, b.Classify(fmt.Errorf("q: %w", &pgconn.PgError{Code: "53300"})))
	assert.Equal(t, tablestore.KindConnectionOrAuth, b.Classify(&pgconn.PgError{Code: "28P01"}))
	assert.Equal(t, tablestore.KindNotFound, b.Classify(&pgconn.PgError{Code: "42P01"}))
	assert.Equal(t, tablestore.KindFatal, b.Classify(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, tablestore.KindFatal, b.Classify(errors.New("boom")))
}

func TestStoreOverPostgres_ReadAll(t *testing.T) {
	b, mock, db := setup(t)
	defer db.Close()

	mock.ExpectQuery(selectRows).
		WithArgs("office", "bulletin_board").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workbook", "sheet_name", "cells"}).
			AddRow(1, "office", "bulletin_board", `["post_id","timestamp","author","title","content"]`).
			AddRow(2, "office", "bulletin_board", `["p1","2026-03-01 09:00:00","職員A","Hello","World"]`))

	s := tablestore.New(b)
	got, err := s.ReadAll(context.Background(), tablestore.BulletinBoard)

	assert.NoError(t, err)
	assert.Equal(t, []tablestore.Record{{
		"post_id": "p1", "timestamp": "2026-03-01 09:00:00", "author": "職員A", "title": "Hello", "content": "World",
	}}, got)
}
