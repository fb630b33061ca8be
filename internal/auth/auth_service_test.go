package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-kintai/internal/auth"
	autherrors "go-kintai/internal/auth/errors"
	authMock "go-kintai/internal/auth/mock"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/staff"
	stafferrors "go-kintai/internal/staff/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func adminHash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("root-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func parse(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	require.NoError(t, err)
	return parsed.Claims.(jwt.MapClaims)
}

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	staffAuth := authMock.NewMockStaffAuthenticator(ctrl)
	service := auth.NewService(auth.Config{
		Secret:            secret,
		AccessTTL:         time.Hour,
		AdminPasswordHash: adminHash(t),
	}, staffAuth)
	ctx := context.Background()

	t.Run("Admin", func(t *testing.T) {
		resp, err := service.Login(ctx, "admin", "root-pw")
		require.NoError(t, err)
		assert.Equal(t, contextutil.RoleAdmin, resp.User.Role)

		claims := parse(t, resp.AccessToken)
		assert.Equal(t, "admin", claims["sub"])
		assert.Equal(t, contextutil.RoleAdmin, claims["role"])
	})

	t.Run("Admin Wrong Password", func(t *testing.T) {
		_, err := service.Login(ctx, "ADMIN", "guess")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Staff", func(t *testing.T) {
		staffAuth.EXPECT().Authenticate(ctx, "田中", "pw").Return(staff.StaffResponse{ID: "s1", Name: "田中"}, nil)

		resp, err := service.Login(ctx, " 田中 ", "pw")
		require.NoError(t, err)
		assert.Equal(t, contextutil.RoleStaff, resp.User.Role)
		assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

		claims := parse(t, resp.AccessToken)
		assert.Equal(t, "s1", claims["sub"])
		assert.Equal(t, "田中", claims["name"])
	})

	t.Run("Staff Bad Credentials", func(t *testing.T) {
		staffAuth.EXPECT().Authenticate(ctx, "田中", "bad").Return(staff.StaffResponse{}, stafferrors.ErrInvalidCredentials)

		_, err := service.Login(ctx, "田中", "bad")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Store Failure", func(t *testing.T) {
		boom := errors.New("store down")
		staffAuth.EXPECT().Authenticate(ctx, "田中", "pw").Return(staff.StaffResponse{}, boom)

		_, err := service.Login(ctx, "田中", "pw")
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_AdminLoginDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := auth.NewService(auth.Config{Secret: secret}, authMock.NewMockStaffAuthenticator(ctrl))
	_, err := service.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := auth.NewService(auth.Config{Secret: secret}, authMock.NewMockStaffAuthenticator(ctrl))

	_, err := service.Me(context.Background())
	assert.Error(t, err)

	ctx := contextutil.WithActor(context.Background(), contextutil.Actor{ID: "s1", Name: "田中", Role: contextutil.RoleStaff})
	me, err := service.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.AuthResponse{ID: "s1", Name: "田中", Role: contextutil.RoleStaff}, me)
}

func TestHashPassword(t *testing.T) {
	h, err := auth.HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")))
}
