package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-kintai/internal/event"
	eventerrors "go-kintai/internal/event/errors"
	eventMock "go-kintai/internal/event/mock"
	"go-kintai/internal/events"
	"go-kintai/internal/tablestore"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type recordingPublisher struct {
	got []events.LedgerChangedEvent
}

func (p *recordingPublisher) PublishLedgerChanged(ctx context.Context, ev events.LedgerChangedEvent) error {
	p.got = append(p.got, ev)
	return nil
}

func date(s string) time.Time {
	d, _ := time.Parse(event.DateLayout, s)
	return d
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := eventMock.NewMockRepository(ctrl)
	pub := &recordingPublisher{}
	service := event.NewService(mockRepo, pub)
	ctx := context.Background()

	t.Run("Success Defaults", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, e event.Event) error {
			assert.NotEmpty(t, e.ID)
			assert.Equal(t, "全体会議", e.Title)
			assert.Equal(t, e.StartDate, e.EndDate)
			assert.Equal(t, event.FormColor, e.Color)
			return nil
		})

		resp, err := service.Create(ctx, event.EventRequest{Title: " 全体会議 ", StartDate: "2026-05-11"})
		assert.NoError(t, err)
		assert.Equal(t, "2026-05-11", resp.EndDate)
		assert.Len(t, pub.got, 1)
		assert.Equal(t, events.EventCreated, pub.got[0].EventType)
		assert.Equal(t, string(tablestore.Events), pub.got[0].Table)
	})

	t.Run("Normalizes Times", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := service.Create(ctx, event.EventRequest{
			Title: "研修", StartDate: "2026-05-11", StartTime: "9:00", EndTime: "12:30",
		})
		assert.NoError(t, err)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.Equal(t, "12:30", resp.EndTime)
	})

	t.Run("Validation", func(t *testing.T) {
		cases := []struct {
			name string
			req  event.EventRequest
			want error
		}{
			{"blank title", event.EventRequest{Title: "  ", StartDate: "2026-05-11"}, eventerrors.ErrTitleRequired},
			{"bad date", event.EventRequest{Title: "x", StartDate: "2026/05/11"}, eventerrors.ErrInvalidDateFormat},
			{"reversed", event.EventRequest{Title: "x", StartDate: "2026-05-11", EndDate: "2026-05-10"}, eventerrors.ErrInvalidDateRange},
			{"bad time", event.EventRequest{Title: "x", StartDate: "2026-05-11", StartTime: "25:00", EndTime: "26:00"}, eventerrors.ErrInvalidTimeFormat},
			{"reversed time", event.EventRequest{Title: "x", StartDate: "2026-05-11", StartTime: "12:00", EndTime: "09:00"}, eventerrors.ErrInvalidTimeRange},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.Create(ctx, tc.req)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestService_GetAllSortsByStartDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := eventMock.NewMockRepository(ctrl)
	service := event.NewService(mockRepo, nil)

	mockRepo.EXPECT().FindAll(gomock.Any()).Return([]event.Event{
		{ID: "b", Title: "B", StartDate: date("2026-06-01"), EndDate: date("2026-06-01"), Color: "#000000"},
		{ID: "a", Title: "A", StartDate: date("2026-04-01"), EndDate: date("2026-04-02"), Color: "#000000"},
	}, nil)

	resp, err := service.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "a", resp[0].ID)
	assert.Equal(t, "2026-04-02", resp[0].EndDate)
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := eventMock.NewMockRepository(ctrl)
	pub := &recordingPublisher{}
	service := event.NewService(mockRepo, pub)
	ctx := context.Background()
	notFound := &tablestore.Error{Kind: tablestore.KindNotFound, Op: "delete", Table: tablestore.Events, Err: tablestore.ErrNoMatch}

	t.Run("Update Keeps ID", func(t *testing.T) {
		mockRepo.EXPECT().Replace(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, e event.Event) error {
			assert.Equal(t, "ev-1", e.ID)
			return nil
		})
		resp, err := service.Update(ctx, "ev-1", event.EventRequest{Title: "x", StartDate: "2026-05-11", Color: "#FF0000"})
		assert.NoError(t, err)
		assert.Equal(t, "#FF0000", resp.Color)
		assert.Equal(t, events.EventReplaced, pub.got[len(pub.got)-1].EventType)
	})

	t.Run("Update Missing", func(t *testing.T) {
		mockRepo.EXPECT().Replace(ctx, gomock.Any()).Return(notFound)
		_, err := service.Update(ctx, "nope", event.EventRequest{Title: "x", StartDate: "2026-05-11"})
		assert.ErrorIs(t, err, eventerrors.ErrEventNotFound)
	})

	t.Run("Delete Missing", func(t *testing.T) {
		mockRepo.EXPECT().Delete(ctx, "nope").Return(notFound)
		assert.ErrorIs(t, service.Delete(ctx, "nope"), eventerrors.ErrEventNotFound)
	})

	t.Run("Delete Store Failure", func(t *testing.T) {
		boom := errors.New("boom")
		mockRepo.EXPECT().Delete(ctx, "ev-2").Return(boom)
		assert.ErrorIs(t, service.Delete(ctx, "ev-2"), boom)
	})
}

func TestFromRow(t *testing.T) {
	e := event.FromRow(tablestore.Record{
		"event_id":   "ev-1",
		"start_date": "2026-05-11",
		"title":      "棚卸",
	})
	assert.Equal(t, e.StartDate, e.EndDate)
	assert.Equal(t, event.DefaultColor, e.Color)
}
