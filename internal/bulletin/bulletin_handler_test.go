package bulletin_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-kintai/internal/bulletin"
	bulletinerrors "go-kintai/internal/bulletin/errors"
	bulletinMock "go-kintai/internal/bulletin/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := bulletinMock.NewMockService(ctrl)
	handler := bulletin.NewHandler(mockService)

	t.Run("Forbidden", func(t *testing.T) {
		mockService.EXPECT().Update(gomock.Any(), "p1", gomock.Any()).Return(bulletin.PostResponse{}, bulletinerrors.ErrNotAuthor)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.PUT("/bulletin/:id", handler.Update)
		req, _ := http.NewRequest(http.MethodPut, "/bulletin/p1", bytes.NewBufferString(`{"title":"t","content":"c"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Missing Content", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.PUT("/bulletin/:id", handler.Update)
		req, _ := http.NewRequest(http.MethodPut, "/bulletin/p1", bytes.NewBufferString(`{"title":"t"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
