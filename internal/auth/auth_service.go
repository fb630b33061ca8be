package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-kintai/internal/auth/errors"
	"go-kintai/internal/shared/apperror"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/staff"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminActorID = "admin"

type Config struct {
	Secret            string
	AccessTTL         time.Duration
	AdminName         string
	AdminPasswordHash string // bcrypt; empty disables admin login
}

// StaffAuthenticator is satisfied by staff.Service.
type StaffAuthenticator interface {
	Authenticate(ctx context.Context, name, password string) (staff.StaffResponse, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, name, password string) (LoginResponse, error)
	Me(ctx context.Context) (AuthResponse, error)
}

type service struct {
	cfg    Config
	staff  StaffAuthenticator
	now    func() time.Time
	logger *zap.Logger
}

func NewService(cfg Config, staffAuth StaffAuthenticator, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 12 * time.Hour
	}
	if cfg.AdminName == "" {
		cfg.AdminName = staff.ReservedAdminName
	}
	return &service{cfg: cfg, staff: staffAuth, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, name, password string) (LoginResponse, error) {
	name = strings.TrimSpace(name)

	var user AuthResponse
	if strings.EqualFold(name, s.cfg.AdminName) {
		if s.cfg.AdminPasswordHash == "" ||
			bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) != nil {
			s.logger.Warn("admin login rejected")
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		user = AuthResponse{ID: adminActorID, Name: s.cfg.AdminName, Role: contextutil.RoleAdmin}
	} else {
		st, err := s.staff.Authenticate(ctx, name, password)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.HTTPStatus == autherrors.ErrInvalidCredentials.HTTPStatus {
				return LoginResponse{}, autherrors.ErrInvalidCredentials
			}
			return LoginResponse{}, err
		}
		user = AuthResponse{ID: st.ID, Name: st.Name, Role: contextutil.RoleStaff}
	}

	expiresAt := s.now().Add(s.cfg.AccessTTL)
	token, err := s.generateToken(user, expiresAt)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("actor_id", user.ID), zap.String("role", user.Role))
	return LoginResponse{User: user, AccessToken: token, ExpiresAt: expiresAt.Unix()}, nil
}

func (s *service) Me(ctx context.Context) (AuthResponse, error) {
	actor, ok := contextutil.GetActor(ctx)
	if !ok {
		return AuthResponse{}, apperror.ErrUnauthorized
	}
	return AuthResponse{ID: actor.ID, Name: actor.Name, Role: actor.Role}, nil
}

func (s *service) generateToken(user AuthResponse, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// HashPassword produces the bcrypt hash expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
