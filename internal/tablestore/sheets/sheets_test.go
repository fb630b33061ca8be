package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-kintai/internal/shared/retry"
	"go-kintai/internal/tablestore"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	gsheets "google.golang.org/api/sheets/v4"
)

type fakeAPI struct {
	values    map[string][][]any
	ids       map[string]int64
	appended  map[string][][]any
	updated   map[string][][]any
	batches   [][]*gsheets.Request
	getErr    error
	idLookups int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		values:   map[string][][]any{},
		ids:      map[string]int64{"attendance_logs": 0, "events": 42},
		appended: map[string][][]any{},
		updated:  map[string][][]any{},
	}
}

func (f *fakeAPI) Get(ctx context.Context, rng string) ([][]any, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.values[rng], nil
}

func (f *fakeAPI) Append(ctx context.Context, rng string, rows [][]any) error {
	f.appended[rng] = append(f.appended[rng], rows...)
	return nil
}

func (f *fakeAPI) Update(ctx context.Context, rng string, rows [][]any) error {
	f.updated[rng] = rows
	return nil
}

func (f *fakeAPI) SheetIDs(ctx context.Context) (map[string]int64, error) {
	f.idLookups++
	out := make(map[string]int64, len(f.ids))
	for k, v := range f.ids {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAPI) BatchUpdate(ctx context.Context, reqs []*gsheets.Request) error {
	f.batches = append(f.batches, reqs)
	for _, r := range reqs {
		if r.AddSheet != nil {
			f.ids[r.AddSheet.Properties.Title] = int64(100 + len(f.ids))
		}
	}
	return nil
}

func TestValues_StringifiesCells(t *testing.T) {
	api := newFakeAPI()
	api.values["staff"] = [][]any{
		{"staff_id", "name", "password"},
		{"s1", "職員A", 1234},
		{"s2", nil},
	}
	b := newWithAPI("sheet-1", api)

	rows, err := b.Values(context.Background(), tablestore.Staff)
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"staff_id", "name", "password"},
		{"s1", "職員A", "1234"},
		{"s2", ""},
	}, rows)
}

func TestAppendAndUpdateRanges(t *testing.T) {
	api := newFakeAPI()
	b := newWithAPI("sheet-1", api)
	ctx := context.Background()

	assert.NoError(t, b.AppendRows(ctx, tablestore.Events, [][]string{{"ev1", "2026-04-01"}}))
	assert.NoError(t, b.UpdateRow(ctx, tablestore.Events, 0, []string{"event_id", "start_date"}))

	assert.Equal(t, [][]any{{"ev1", "2026-04-01"}}, api.appended["events!A1"])
	assert.Equal(t, [][]any{{"event_id", "start_date"}}, api.updated["events!A1"])
}

func TestDeleteRows_CollapsesSpansLastToFirst(t *testing.T) {
	api := newFakeAPI()
	b := newWithAPI("sheet-1", api)

	err := b.DeleteRows(context.Background(), tablestore.AttendanceLogs, []int{9, 8, 7, 4, 2, 1})
	assert.NoError(t, err)
	assert.Len(t, api.batches, 1)

	var got []string
	for _, r := range api.batches[0] {
		rng := r.DeleteDimension.Range
		assert.Equal(t, int64(0), rng.SheetId)
		assert.Contains(t, rng.ForceSendFields, "SheetId")
		got = append(got, fmt.Sprintf("%d-%d", rng.StartIndex, rng.EndIndex))
	}
	assert.Equal(t, []string{"7-10", "4-5", "1-3"}, got)
}

func TestDeleteRows_UnknownSheet(t *testing.T) {
	b := newWithAPI("sheet-1", newFakeAPI())
	err := b.DeleteRows(context.Background(), tablestore.BulletinBoard, []int{1})
	assert.ErrorIs(t, err, tablestore.ErrTableNotFound)
}

func TestEnsureTable_AddsMissingSheet(t *testing.T) {
	api := newFakeAPI()
	b := newWithAPI("sheet-1", api)
	ctx := context.Background()

	assert.NoError(t, b.EnsureTable(ctx, tablestore.Events))
	assert.Empty(t, api.batches)

	assert.NoError(t, b.EnsureTable(ctx, tablestore.Staff))
	assert.Len(t, api.batches, 1)
	assert.Equal(t, "staff", api.batches[0][0].AddSheet.Properties.Title)
	_, ok := api.ids["staff"]
	assert.True(t, ok)
}

func TestClassify(t *testing.T) {
	b := newWithAPI("sheet-1", newFakeAPI())

	cases := []struct {
		name string
		err  error
		want tablestore.Kind
	}{
		{"429", &googleapi.Error{Code: http.StatusTooManyRequests}, tablestore.KindRateLimited},
		{"403 quota", &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}}, tablestore.KindRateLimited},
		{"403 permission", &googleapi.Error{Code: http.StatusForbidden, Message: "The caller does not have permission"}, tablestore.KindConnectionOrAuth},
		{"401", &googleapi.Error{Code: http.StatusUnauthorized}, tablestore.KindConnectionOrAuth},
		{"404", &googleapi.Error{Code: http.StatusNotFound}, tablestore.KindNotFound},
		{"missing sheet", &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: staff"}, tablestore.KindNotFound},
		{"503", &googleapi.Error{Code: http.StatusServiceUnavailable}, tablestore.KindConnectionOrAuth},
		{"quota text", errors.New("APIError: Quota exceeded for quota metric 'Read requests'"), tablestore.KindRateLimited},
		{"other", errors.New("boom"), tablestore.KindFatal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Classify(fmt.Errorf("wrapped: %w", tc.err)))
		})
	}
}

func TestStoreOverSheets_RateLimitSurfaces(t *testing.T) {
	api := newFakeAPI()
	api.getErr = &googleapi.Error{Code: http.StatusTooManyRequests, Message: "Quota exceeded"}
	b := newWithAPI("sheet-1", api)
	s := tablestore.New(b, tablestore.WithRetryPolicy(retry.NoRetry()))

	_, err := s.ReadAll(context.Background(), tablestore.AttendanceLogs)
	assert.True(t, tablestore.IsRateLimited(err))
}
