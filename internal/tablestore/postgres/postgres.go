// Package postgres keeps spreadsheet-shaped tables in a single Postgres
// table for installations that do not use Google Sheets.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-kintai/internal/tablestore"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SheetRow is one physical row. Insertion order (ID) is the row order.
type SheetRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Workbook  string `gorm:"index:idx_sheet_rows_sheet,priority:1;not null"`
	SheetName string `gorm:"index:idx_sheet_rows_sheet,priority:2;not null"`
	Cells     string `gorm:"type:text;not null"`
}

func (SheetRow) TableName() string { return "sheet_rows" }

type Backend struct {
	db       *gorm.DB
	workbook string
	logger   *zap.Logger

	migrateOnce sync.Once
	migrateErr  error
}

func New(db *gorm.DB, workbook string, logger ...*zap.Logger) *Backend {
	l := zap.L().Named("tablestore.postgres")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tablestore.postgres")
	}
	if workbook == "" {
		workbook = "default"
	}
	return &Backend{db: db, workbook: workbook, logger: l}
}

func (b *Backend) ID() string { return "pg:" + b.workbook }

func (b *Backend) scope(ctx context.Context, table tablestore.Table) *gorm.DB {
	return b.db.WithContext(ctx).
		Model(&SheetRow{}).
		Where("workbook = ? AND sheet_name = ?", b.workbook, string(table))
}

func (b *Backend) Values(ctx context.Context, table tablestore.Table) ([][]string, error) {
	var rows []SheetRow
	if err := b.scope(ctx, table).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		var cells []string
		if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", r.ID, err)
		}
		out = append(out, cells)
	}
	return out, nil
}

func (b *Backend) encode(table tablestore.Table, rows [][]string) ([]SheetRow, error) {
	out := make([]SheetRow, 0, len(rows))
	for _, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, SheetRow{Workbook: b.workbook, SheetName: string(table), Cells: string(data)})
	}
	return out, nil
}

func (b *Backend) AppendRows(ctx context.Context, table tablestore.Table, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	recs, err := b.encode(table, rows)
	if err != nil {
		return err
	}
	return b.db.WithContext(ctx).Create(&recs).Error
}

func (b *Backend) rowIDs(ctx context.Context, tx *gorm.DB, table tablestore.Table) ([]int64, error) {
	var ids []int64
	err := tx.WithContext(ctx).
		Model(&SheetRow{}).
		Where("workbook = ? AND sheet_name = ?", b.workbook, string(table)).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (b *Backend) UpdateRow(ctx context.Context, table tablestore.Table, index int, row []string) error {
	ids, err := b.rowIDs(ctx, b.db, table)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(ids) {
		return tablestore.ErrNoMatch
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return b.db.WithContext(ctx).
		Model(&SheetRow{}).
		Where("id = ?", ids[index]).
		Update("cells", string(data)).Error
}

func (b *Backend) DeleteRows(ctx context.Context, table tablestore.Table, indexes []int) error {
	if len(indexes) == 0 {
		return nil
	}
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := b.rowIDs(ctx, tx, table)
		if err != nil {
			return err
		}
		targets := make([]int64, 0, len(indexes))
		for _, i := range indexes {
			if i >= 0 && i < len(ids) {
				targets = append(targets, ids[i])
			}
		}
		if len(targets) == 0 {
			return nil
		}
		return tx.Where("id IN ?", targets).Delete(&SheetRow{}).Error
	})
}

// EnsureTable migrates the shared sheet_rows table once; individual
// tables need no DDL.
func (b *Backend) EnsureTable(ctx context.Context, _ tablestore.Table) error {
	b.migrateOnce.Do(func() {
		b.migrateErr = b.db.WithContext(ctx).AutoMigrate(&SheetRow{})
		if b.migrateErr == nil {
			b.logger.Info("sheet_rows migrated")
		}
	})
	return b.migrateErr
}

func (b *Backend) Classify(err error) tablestore.Kind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "53300", "53400": // too_many_connections, configuration_limit_exceeded
			return tablestore.KindRateLimited
		case "28000", "28P01", "57P03", "08006", "08001":
			return tablestore.KindConnectionOrAuth
		case "42P01": // undefined_table
			return tablestore.KindNotFound
		}
		return tablestore.KindFatal
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return tablestore.KindConnectionOrAuth
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tablestore.KindNotFound
	}
	return tablestore.KindFatal
}
