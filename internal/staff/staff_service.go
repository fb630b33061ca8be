package staff

import (
	"context"
	"crypto/subtle"
	"strings"

	"go-kintai/internal/shared/apperror"
	"go-kintai/internal/shared/contextutil"
	stafferrors "go-kintai/internal/staff/errors"
	"go-kintai/internal/tablestore"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ReservedAdminName cannot be used by a staff row.
const ReservedAdminName = "admin"

//go:generate mockgen -source=staff_service.go -destination=mock/staff_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]StaffResponse, error)
	GetByID(ctx context.Context, id string) (StaffResponse, error)
	Create(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)
	Update(ctx context.Context, id string, req UpdateStaffRequest) (StaffResponse, error)
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, name, password string) (StaffResponse, error)
}

type service struct {
	repo   Repository
	cost   int
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{repo: repo, cost: bcrypt.DefaultCost, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperror.ErrInternal.WithCause(err)
	}
	return string(hashed), nil
}

func (s *service) GetAll(ctx context.Context) ([]StaffResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]StaffResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (StaffResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StaffResponse{}, err
	}
	if st == nil {
		return StaffResponse{}, stafferrors.ErrStaffNotFound
	}
	return mapToResponse(*st), nil
}

func (s *service) Create(ctx context.Context, req CreateStaffRequest) (StaffResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return StaffResponse{}, apperror.RequiredField("Name")
	}
	if strings.EqualFold(name, ReservedAdminName) {
		return StaffResponse{}, stafferrors.ErrReservedName
	}
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return StaffResponse{}, err
	}
	if existing != nil {
		return StaffResponse{}, stafferrors.ErrStaffNameTaken
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return StaffResponse{}, err
	}
	st := Staff{ID: uuid.NewString(), Name: name, Password: hashed}
	if err := s.repo.Create(ctx, st); err != nil {
		s.log(ctx).Error("create staff failed", zap.Error(err))
		return StaffResponse{}, err
	}
	s.log(ctx).Info("staff created", zap.String("staff_id", st.ID))
	return mapToResponse(st), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateStaffRequest) (StaffResponse, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StaffResponse{}, err
	}
	if st == nil {
		return StaffResponse{}, stafferrors.ErrStaffNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != st.Name {
		if strings.EqualFold(name, ReservedAdminName) {
			return StaffResponse{}, stafferrors.ErrReservedName
		}
		other, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return StaffResponse{}, err
		}
		if other != nil {
			return StaffResponse{}, stafferrors.ErrStaffNameTaken
		}
		st.Name = name
	}
	if req.Password != "" {
		if st.Password, err = s.hash(req.Password); err != nil {
			return StaffResponse{}, err
		}
	} else if !isBcryptHash(st.Password) && st.Password != "" {
		if st.Password, err = s.hash(st.Password); err != nil {
			return StaffResponse{}, err
		}
	}

	if err := s.repo.Replace(ctx, *st); err != nil {
		if tablestore.IsNotFound(err) {
			return StaffResponse{}, stafferrors.ErrStaffNotFound
		}
		s.log(ctx).Error("update staff failed", zap.String("staff_id", id), zap.Error(err))
		return StaffResponse{}, err
	}
	return mapToResponse(*st), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if tablestore.IsNotFound(err) {
			return stafferrors.ErrStaffNotFound
		}
		return err
	}
	s.log(ctx).Info("staff deleted", zap.String("staff_id", id))
	return nil
}

// Authenticate checks a name/password pair. Legacy plain-text credentials
// are accepted and rehashed on the next update.
func (s *service) Authenticate(ctx context.Context, name, password string) (StaffResponse, error) {
	st, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return StaffResponse{}, err
	}
	if st == nil || st.Password == "" {
		return StaffResponse{}, stafferrors.ErrInvalidCredentials
	}

	if isBcryptHash(st.Password) {
		if bcrypt.CompareHashAndPassword([]byte(st.Password), []byte(password)) != nil {
			return StaffResponse{}, stafferrors.ErrInvalidCredentials
		}
		return mapToResponse(*st), nil
	}

	if subtle.ConstantTimeCompare([]byte(st.Password), []byte(password)) != 1 {
		return StaffResponse{}, stafferrors.ErrInvalidCredentials
	}
	s.log(ctx).Warn("staff authenticated with plain-text credential", zap.String("staff_id", st.ID))
	return mapToResponse(*st), nil
}
