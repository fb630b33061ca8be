// Package sheets stores tables as worksheets of one Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go-kintai/internal/tablestore"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// api is the subset of the Sheets v4 surface the backend needs.
type api interface {
	Get(ctx context.Context, rng string) ([][]any, error)
	Append(ctx context.Context, rng string, rows [][]any) error
	Update(ctx context.Context, rng string, rows [][]any) error
	SheetIDs(ctx context.Context) (map[string]int64, error)
	BatchUpdate(ctx context.Context, reqs []*gsheets.Request) error
}

type Backend struct {
	spreadsheetID string
	api           api
	logger        *zap.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// New connects with the given client options, typically
// option.WithCredentialsJSON for a service-account key.
func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Backend, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	opts = append([]option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &tablestore.Error{Kind: tablestore.KindConnectionOrAuth, Op: "connect", Err: err}
	}
	return newWithAPI(spreadsheetID, &serviceAPI{svc: svc, id: spreadsheetID}), nil
}

func newWithAPI(spreadsheetID string, a api) *Backend {
	return &Backend{
		spreadsheetID: spreadsheetID,
		api:           a,
		logger:        zap.L().Named("tablestore.sheets"),
	}
}

func (b *Backend) ID() string { return b.spreadsheetID }

func (b *Backend) Values(ctx context.Context, table tablestore.Table) ([][]string, error) {
	raw, err := b.api.Get(ctx, string(table))
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(raw))
	for i, r := range raw {
		row := make([]string, len(r))
		for j, cell := range r {
			if cell != nil {
				row[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

func toCells(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = v
		}
		out[i] = row
	}
	return out
}

func (b *Backend) AppendRows(ctx context.Context, table tablestore.Table, rows [][]string) error {
	return b.api.Append(ctx, fmt.Sprintf("%s!A1", table), toCells(rows))
}

func (b *Backend) UpdateRow(ctx context.Context, table tablestore.Table, index int, row []string) error {
	return b.api.Update(ctx, fmt.Sprintf("%s!A%d", table, index+1), toCells([][]string{row}))
}

func (b *Backend) sheetID(ctx context.Context, table tablestore.Table, refresh bool) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sheetIDs == nil || refresh {
		ids, err := b.api.SheetIDs(ctx)
		if err != nil {
			return 0, err
		}
		b.sheetIDs = ids
	}
	id, ok := b.sheetIDs[string(table)]
	if !ok {
		return 0, tablestore.ErrTableNotFound
	}
	return id, nil
}

// DeleteRows sends one batchUpdate. Contiguous indexes collapse into a
// single range and ranges stay ordered last to first.
func (b *Backend) DeleteRows(ctx context.Context, table tablestore.Table, indexes []int) error {
	if len(indexes) == 0 {
		return nil
	}
	sid, err := b.sheetID(ctx, table, false)
	if err != nil {
		return err
	}

	var reqs []*gsheets.Request
	for _, span := range descendingSpans(indexes) {
		reqs = append(reqs, &gsheets.Request{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:         sid,
					Dimension:       "ROWS",
					StartIndex:      int64(span[0]),
					EndIndex:        int64(span[1]),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		})
	}
	return b.api.BatchUpdate(ctx, reqs)
}

// descendingSpans turns [9 8 7 4 2 1] into half-open spans [7,10) [4,5) [1,3).
func descendingSpans(indexes []int) [][2]int {
	var spans [][2]int
	start, end := indexes[0], indexes[0]+1
	for _, i := range indexes[1:] {
		if i == start-1 {
			start = i
			continue
		}
		spans = append(spans, [2]int{start, end})
		start, end = i, i+1
	}
	return append(spans, [2]int{start, end})
}

func (b *Backend) EnsureTable(ctx context.Context, table tablestore.Table) error {
	if _, err := b.sheetID(ctx, table, true); err == nil {
		return nil
	} else if !errors.Is(err, tablestore.ErrTableNotFound) {
		return err
	}
	err := b.api.BatchUpdate(ctx, []*gsheets.Request{{
		AddSheet: &gsheets.AddSheetRequest{
			Properties: &gsheets.SheetProperties{Title: string(table)},
		},
	}})
	if err != nil {
		return err
	}
	b.logger.Info("worksheet created", zap.String("table", string(table)))
	_, err = b.sheetID(ctx, table, true)
	return err
}

func (b *Backend) Classify(err error) tablestore.Kind {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests:
			return tablestore.KindRateLimited
		case gerr.Code == http.StatusForbidden && hasReason(gerr, "rateLimitExceeded", "userRateLimitExceeded"):
			return tablestore.KindRateLimited
		case gerr.Code == http.StatusUnauthorized, gerr.Code == http.StatusForbidden:
			return tablestore.KindConnectionOrAuth
		case gerr.Code == http.StatusNotFound:
			return tablestore.KindNotFound
		case gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"):
			return tablestore.KindNotFound
		case gerr.Code >= 500:
			return tablestore.KindConnectionOrAuth
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "Quota exceeded") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return tablestore.KindRateLimited
	}
	return tablestore.KindFatal
}

func hasReason(gerr *googleapi.Error, reasons ...string) bool {
	for _, item := range gerr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}

type serviceAPI struct {
	svc *gsheets.Service
	id  string
}

func (a *serviceAPI) Get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(a.id, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (a *serviceAPI) Append(ctx context.Context, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Append(a.id, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) Update(ctx context.Context, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Update(a.id, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) SheetIDs(ctx context.Context) (map[string]int64, error) {
	ss, err := a.svc.Spreadsheets.Get(a.id).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids, nil
}

func (a *serviceAPI) BatchUpdate(ctx context.Context, reqs []*gsheets.Request) error {
	_, err := a.svc.Spreadsheets.BatchUpdate(a.id, &gsheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).
		Do()
	return err
}
