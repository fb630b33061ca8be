package event_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-kintai/internal/event"
	eventerrors "go-kintai/internal/event/errors"
	eventMock "go-kintai/internal/event/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := eventMock.NewMockService(ctrl)
	handler := event.NewHandler(mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(event.EventResponse{ID: "ev-1", Title: "会議"}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/events", handler.Create)

		body, _ := json.Marshal(event.EventRequest{Title: "会議", StartDate: "2026-05-11"})
		req, _ := http.NewRequest(http.MethodPost, "/events", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Missing Title", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/events", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"start_date":"2026-05-11"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetByIDNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := eventMock.NewMockService(ctrl)
	handler := event.NewHandler(mockService)
	mockService.EXPECT().GetByID(gomock.Any(), "nope").Return(event.EventResponse{}, eventerrors.ErrEventNotFound)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/events/:id", handler.GetByID)
	req, _ := http.NewRequest(http.MethodGet, "/events/nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var res map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, false, res["ok"])
}
