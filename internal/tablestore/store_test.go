package tablestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-kintai/internal/cache"
	"go-kintai/internal/shared/retry"
	"go-kintai/internal/tablestore"
	"go-kintai/internal/tablestore/memory"
	storemock "go-kintai/internal/tablestore/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func noSleep(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}
}

func newStore(t *testing.T, attempts int) (tablestore.TableStore, *memory.Backend) {
	t.Helper()
	backend := memory.New("sheet-test")
	return tablestore.New(backend, tablestore.WithRetryPolicy(noSleep(attempts))), backend
}

func leaveRow(id, date string) tablestore.Record {
	return tablestore.Record{
		"event_id":       id,
		"date":           date,
		"staff_name":     "A",
		"type":           "年休",
		"start_time":     "08:30",
		"end_time":       "17:00",
		"duration_hours": "7.5",
		"day_equivalent": "0.94",
		"fiscal_year":    "2026",
		"remarks":        "",
	}
}

func TestStore_AppendProvisionsHeaderAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 1)

	rec := leaveRow("e1", "2026-03-02")
	assert.NoError(t, s.Append(ctx, tablestore.AttendanceLogs, rec))

	rows := backend.Rows(tablestore.AttendanceLogs)
	assert.Len(t, rows, 2)
	assert.Equal(t, tablestore.AttendanceLogs.Columns(), rows[0])

	got, err := s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.NoError(t, err)
	assert.Equal(t, []tablestore.Record{rec}, got)
}

func TestStore_AppendExtendsLegacyHeader(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 1)
	backend.Seed(tablestore.Events, [][]string{
		{"event_id", "start_date", "end_date", "title", "description", "color"},
		{"ev1", "2026-04-01", "2026-04-01", "Kickoff", "", "#4285F4"},
	})

	err := s.Append(ctx, tablestore.Events, tablestore.Record{
		"event_id": "ev2", "start_date": "2026-04-02", "end_date": "2026-04-03",
		"title": "Training", "color": "#95A5A6", "start_time": "10:00", "end_time": "12:00",
	})
	assert.NoError(t, err)

	rows := backend.Rows(tablestore.Events)
	assert.Equal(t, tablestore.Events.Columns(), rows[0])
	assert.Equal(t, []string{"ev2", "2026-04-02", "2026-04-03", "Training", "", "#95A5A6", "10:00", "12:00"}, rows[2])

	got, err := s.ReadAll(ctx, tablestore.Events)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "", got[0]["start_time"])
}

func TestStore_ReadAllTrimsAndSkipsBlankRows(t *testing.T) {
	backend := memory.New("")
	backend.Seed(tablestore.Staff, [][]string{
		{" staff_id ", "name ", "password"},
		{"s1", "  職員A ", "x"},
		{"", " ", ""},
		{"s2", "職員B"},
	})
	s := tablestore.New(backend)

	got, err := s.ReadAll(context.Background(), tablestore.Staff)
	assert.NoError(t, err)
	assert.Equal(t, []tablestore.Record{
		{"staff_id": "s1", "name": "職員A", "password": "x"},
		{"staff_id": "s2", "name": "職員B", "password": ""},
	}, got)
}

func TestStore_ReadAllOnEmptyTable(t *testing.T) {
	s, _ := newStore(t, 1)
	got, err := s.ReadAll(context.Background(), tablestore.BulletinBoard)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DeleteByKeyRemovesEveryMatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, 1)

	_, err := s.AppendAll(ctx, tablestore.AttendanceLogs, []tablestore.Record{
		leaveRow("grp", "2026-03-02"),
		leaveRow("other", "2026-03-02"),
		leaveRow("grp", "2026-03-03"),
		leaveRow("grp", "2026-03-04"),
	})
	assert.NoError(t, err)

	n, err := s.DeleteByKey(ctx, tablestore.AttendanceLogs, "event_id", "grp")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "other", got[0]["event_id"])
}

func TestStore_DeleteByKeyWithoutMatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, 1)
	assert.NoError(t, s.Append(ctx, tablestore.AttendanceLogs, leaveRow("a", "2026-03-02")))

	_, err := s.DeleteByKey(ctx, tablestore.AttendanceLogs, "event_id", "missing")
	assert.True(t, tablestore.IsNotFound(err))

	_, err = s.DeleteByKey(ctx, tablestore.AttendanceLogs, "nope", "a")
	assert.Equal(t, tablestore.KindValidation, tablestore.KindOf(err))
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, 1)
	_, _ = s.AppendAll(ctx, tablestore.AttendanceLogs, []tablestore.Record{
		leaveRow("grp", "2026-03-02"),
		leaveRow("grp", "2026-03-03"),
	})

	err := s.Replace(ctx, tablestore.AttendanceLogs, "event_id", "grp", leaveRow("grp", "2026-03-10"))
	assert.NoError(t, err)

	got, _ := s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.Len(t, got, 1)
	assert.Equal(t, "2026-03-10", got[0]["date"])
}

func TestStore_ReplaceReportsPartialWrite(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 1)
	_, _ = s.AppendAll(ctx, tablestore.AttendanceLogs, []tablestore.Record{leaveRow("grp", "2026-03-02")})

	appends := 0
	backend.FailWith(func(op string, table tablestore.Table) error {
		if op != "append" {
			return nil
		}
		appends++
		if appends == 2 {
			return tablestore.ErrUnauthorized
		}
		return nil
	})

	err := s.Replace(ctx, tablestore.AttendanceLogs, "event_id", "grp",
		leaveRow("grp", "2026-03-10"), leaveRow("grp", "2026-03-11"))

	var pw *tablestore.PartialWriteError
	assert.True(t, errors.As(err, &pw))
	assert.Equal(t, 2, pw.Requested)
	assert.Equal(t, 1, pw.Succeeded)
	assert.Equal(t, tablestore.KindPartialWrite, tablestore.KindOf(err))
}

func TestStore_RateLimitedWriteIsBoundedAndSurfaced(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 3)
	backend.FailWith(func(op string, table tablestore.Table) error {
		if op == "append" {
			return tablestore.ErrRateLimited
		}
		return nil
	})
	backend.Seed(tablestore.AttendanceLogs, [][]string{tablestore.AttendanceLogs.Columns()})

	err := s.Append(ctx, tablestore.AttendanceLogs, leaveRow("e1", "2026-03-02"))

	assert.Equal(t, tablestore.KindRateLimited, tablestore.KindOf(err))
	assert.Equal(t, 3, backend.Calls("append"))
	res := tablestore.Outcome(err)
	assert.False(t, res.Success)
	assert.Equal(t, "RateLimited", res.Kind)
}

func TestStore_RateLimitedWithoutRetryPolicyTriesOnce(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 1)
	backend.Seed(tablestore.AttendanceLogs, [][]string{tablestore.AttendanceLogs.Columns()})
	backend.FailWith(func(op string, table tablestore.Table) error {
		if op == "append" {
			return tablestore.ErrRateLimited
		}
		return nil
	})

	err := s.Append(ctx, tablestore.AttendanceLogs, leaveRow("e1", "2026-03-02"))

	assert.True(t, tablestore.IsRateLimited(err))
	assert.Equal(t, 1, backend.Calls("append"))
}

func TestStore_RateLimitRecovers(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 3)
	reads := 0
	backend.FailWith(func(op string, table tablestore.Table) error {
		if op == "values" {
			reads++
			if reads == 1 {
				return tablestore.ErrRateLimited
			}
		}
		return nil
	})

	got, err := s.ReadAll(ctx, tablestore.Events)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 2, backend.Calls("values"))
}

func TestStore_AuthFailureIsNotRetried(t *testing.T) {
	s, backend := newStore(t, 5)
	backend.FailWith(func(op string, table tablestore.Table) error {
		return tablestore.ErrUnauthorized
	})

	_, err := s.ReadAll(context.Background(), tablestore.Staff)

	assert.Equal(t, tablestore.KindConnectionOrAuth, tablestore.KindOf(err))
	assert.Equal(t, 1, backend.Calls("values"))
}

func TestStore_PurgeKeepsHeader(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t, 1)
	_, _ = s.AppendAll(ctx, tablestore.AttendanceLogs, []tablestore.Record{
		leaveRow("a", "2026-03-02"), leaveRow("b", "2026-03-03"),
	})

	assert.NoError(t, s.Purge(ctx, tablestore.AttendanceLogs))
	assert.Equal(t, [][]string{tablestore.AttendanceLogs.Columns()}, backend.Rows(tablestore.AttendanceLogs))

	assert.NoError(t, s.Purge(ctx, tablestore.AttendanceLogs))
}

func TestStore_UnknownTable(t *testing.T) {
	s, _ := newStore(t, 1)
	_, err := s.ReadAll(context.Background(), tablestore.Table("payroll"))
	assert.Equal(t, tablestore.KindValidation, tablestore.KindOf(err))
}

func TestProvision(t *testing.T) {
	backend := memory.New("")
	assert.NoError(t, tablestore.Provision(context.Background(), backend))
	for _, tbl := range tablestore.Tables() {
		assert.Equal(t, [][]string{tbl.Columns()}, backend.Rows(tbl))
	}
}

func TestCachedStore_ReadAfterWriteAndDelete(t *testing.T) {
	ctx := context.Background()
	inner, backend := newStore(t, 1)
	s := tablestore.NewCached(inner, cache.NewMemory[[]tablestore.Record](time.Minute))

	got, err := s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.NoError(t, err)
	assert.Empty(t, got)

	rec := leaveRow("e1", "2026-03-02")
	assert.NoError(t, s.Append(ctx, tablestore.AttendanceLogs, rec))
	got, _ = s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.Equal(t, []tablestore.Record{rec}, got)

	reads := backend.Calls("values")
	_, _ = s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.Equal(t, reads, backend.Calls("values"), "second read is served from cache")

	_, err = s.DeleteByKey(ctx, tablestore.AttendanceLogs, "event_id", "e1")
	assert.NoError(t, err)
	got, _ = s.ReadAll(ctx, tablestore.AttendanceLogs)
	assert.Empty(t, got)
}

func TestCachedStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	inner, _ := newStore(t, 1)
	s := tablestore.NewCached(inner, cache.NewMemory[[]tablestore.Record](time.Minute))
	_ = s.Append(ctx, tablestore.Staff, tablestore.Record{"staff_id": "s1", "name": "A"})

	first, _ := s.ReadAll(ctx, tablestore.Staff)
	first[0]["name"] = "mutated"
	second, _ := s.ReadAll(ctx, tablestore.Staff)
	assert.Equal(t, "A", second[0]["name"])
}

func TestCachedStore_InvalidateSeesForeignWrite(t *testing.T) {
	ctx := context.Background()
	inner, _ := newStore(t, 1)
	s := tablestore.NewCached(inner, cache.NewMemory[[]tablestore.Record](time.Minute))

	got, _ := s.ReadAll(ctx, tablestore.Staff)
	assert.Empty(t, got)

	// another process writes straight to the store
	assert.NoError(t, inner.Append(ctx, tablestore.Staff, tablestore.Record{"staff_id": "s1", "name": "A"}))
	got, _ = s.ReadAll(ctx, tablestore.Staff)
	assert.Empty(t, got, "stale until invalidated")

	assert.NoError(t, s.Invalidate(ctx, tablestore.Staff))
	got, _ = s.ReadAll(ctx, tablestore.Staff)
	assert.Len(t, got, 1)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, tablestore.Result{Success: true, Message: "ok"}, tablestore.Outcome(nil))

	res := tablestore.Outcome(&tablestore.Error{Kind: tablestore.KindNotFound, Op: "delete", Err: tablestore.ErrNoMatch})
	assert.False(t, res.Success)
	assert.Equal(t, "NotFound", res.Kind)
	assert.NotContains(t, res.Message, "no row matches")
}

type classifyingBackend struct {
	*storemock.MockBackend
	*storemock.MockClassifier
}

func TestStore_BackendClassifierDrivesRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := classifyingBackend{storemock.NewMockBackend(ctrl), storemock.NewMockClassifier(ctrl)}
	quota := errors.New("quota exceeded")

	backend.MockBackend.EXPECT().ID().Return("mock").AnyTimes()
	backend.MockBackend.EXPECT().Values(gomock.Any(), tablestore.Events).Return(nil, quota).Times(3)
	backend.MockClassifier.EXPECT().Classify(quota).Return(tablestore.KindRateLimited).AnyTimes()

	s := tablestore.New(backend, tablestore.WithRetryPolicy(noSleep(3)))
	_, err := s.ReadAll(context.Background(), tablestore.Events)

	assert.True(t, tablestore.IsRateLimited(err))
	assert.ErrorIs(t, err, quota)
}

func TestStore_UnclassifiedErrorIsNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := classifyingBackend{storemock.NewMockBackend(ctrl), storemock.NewMockClassifier(ctrl)}
	broken := errors.New("malformed response")

	backend.MockBackend.EXPECT().ID().Return("mock").AnyTimes()
	backend.MockBackend.EXPECT().Values(gomock.Any(), tablestore.Staff).Return(nil, broken).Times(1)
	backend.MockClassifier.EXPECT().Classify(broken).Return(tablestore.KindFatal).AnyTimes()

	s := tablestore.New(backend, tablestore.WithRetryPolicy(noSleep(3)))
	_, err := s.ReadAll(context.Background(), tablestore.Staff)

	assert.Equal(t, tablestore.KindFatal, tablestore.KindOf(err))
}
