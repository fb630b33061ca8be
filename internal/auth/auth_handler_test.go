package auth_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-kintai/internal/auth"
	autherrors "go-kintai/internal/auth/errors"
	authMock "go-kintai/internal/auth/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, false)

	serve := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/auth/login", handler.Login)
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Success Sets Cookie", func(t *testing.T) {
		mockService.EXPECT().Login(gomock.Any(), "田中", "pw").Return(auth.LoginResponse{
			User:        auth.AuthResponse{ID: "s1", Name: "田中", Role: "staff"},
			AccessToken: "tok",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		}, nil)

		w := serve(`{"name":"田中","password":"pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=tok")
		assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		mockService.EXPECT().Login(gomock.Any(), "田中", "bad").Return(auth.LoginResponse{}, autherrors.ErrInvalidCredentials)

		w := serve(`{"name":"田中","password":"bad"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("Missing Name", func(t *testing.T) {
		w := serve(`{"password":"pw"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := auth.NewHandler(authMock.NewMockService(ctrl), true)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.POST("/auth/logout", handler.Logout)
	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Secure")
}
