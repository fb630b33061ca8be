package calendar_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-kintai/internal/attendance"
	attendanceMock "go-kintai/internal/attendance/mock"
	"go-kintai/internal/calendar"
	"go-kintai/internal/event"
	eventMock "go-kintai/internal/event/mock"
	"go-kintai/internal/holiday"
	holidayMock "go-kintai/internal/holiday/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_Events(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	attRepo := attendanceMock.NewMockRepository(ctrl)
	evRepo := eventMock.NewMockRepository(ctrl)
	gen := holidayMock.NewMockGenerator(ctrl)
	svc := calendar.NewService(attRepo, evRepo, gen)

	t.Run("Success", func(t *testing.T) {
		attRepo.EXPECT().FindAll(gomock.Any()).Return([]attendance.Record{
			leave("g1", "A", attendance.Annual, "2026-03-02"),
			leave("g1", "A", attendance.Annual, "2026-03-03"),
		}, nil)
		evRepo.EXPECT().FindAll(gomock.Any()).Return([]event.Event{
			{ID: "ev", Title: "研修", StartDate: d("2026-03-10"), EndDate: d("2026-03-10")},
		}, nil)
		gen.EXPECT().Between(gomock.Any(), gomock.Any()).Return([]holiday.Holiday{
			{Date: d("2026-03-20"), Name: "春分の日"},
		})

		got, err := svc.Events(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 2, got[0].Days())
	})

	t.Run("Source Failure", func(t *testing.T) {
		boom := errors.New("quota")
		attRepo.EXPECT().FindAll(gomock.Any()).Return(nil, boom)
		evRepo.EXPECT().FindAll(gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := svc.Events(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	attRepo := attendanceMock.NewMockRepository(ctrl)
	evRepo := eventMock.NewMockRepository(ctrl)
	attRepo.EXPECT().FindAll(gomock.Any()).Return([]attendance.Record{
		leave("g1", "A", attendance.Annual, "2026-03-02"),
	}, nil).AnyTimes()
	evRepo.EXPECT().FindAll(gomock.Any()).Return(nil, nil).AnyTimes()
	handler := calendar.NewHandler(calendar.NewService(attRepo, evRepo, holiday.NewJapan()))

	serve := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.GET("/calendar", handler.Get)
		req, _ := http.NewRequest(http.MethodGet, "/calendar"+query, nil)
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("JSON", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"A - 年休"`)
		assert.Contains(t, w.Body.String(), `"end":"2026-03-03"`)
	})

	t.Run("ICS", func(t *testing.T) {
		w := serve("?format=ics")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
		assert.Contains(t, w.Body.String(), "SUMMARY:A - 年休")
	})

	t.Run("Unknown Format", func(t *testing.T) {
		w := serve("?format=pdf")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
