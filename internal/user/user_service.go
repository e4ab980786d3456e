package user

import (
	"context"
	"database/sql"
	"errors"

	usererrors "github.com/mikexportit-jpg/attendance/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, nameQuery string) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	AssignNFC(ctx context.Context, id, nfcUID string) (UserResponse, error)
	AssignDevice(ctx context.Context, id, deviceID string) (UserResponse, error)
	ResetDevice(ctx context.Context, id string) (UserResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:             uuid.New(),
		Name:           req.Name,
		Username:       req.Username,
		Password:       string(hash),
		Role:           req.Role,
		SalaryPerMonth: req.SalaryPerMonth,
		SerialNumber:   req.SerialNumber,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrUsernameTaken
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, nameQuery string) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx, nameQuery)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.Name = req.Name
	u.Username = req.Username
	u.Role = req.Role
	u.SalaryPerMonth = req.SalaryPerMonth
	u.SerialNumber = req.SerialNumber

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		u.Password = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrUsernameTaken
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

// Delete removes a user while keeping attendance history: attendance rows are
// detached in the same transaction.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DetachAttendances(ctx, id); err != nil {
		s.logger.Error("detach attendances failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("user deleted, attendance records retained", zap.String("user_id", id))
	return nil
}

func (s *service) AssignNFC(ctx context.Context, id, nfcUID string) (UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	if nfcUID == "" {
		u.NFCUID = nil
	} else {
		u.NFCUID = &nfcUID
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) AssignDevice(ctx context.Context, id, deviceID string) (UserResponse, error) {
	if deviceID == "" {
		return UserResponse{}, usererrors.ErrNoDeviceDetected
	}

	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	if u.DeviceID != nil {
		return UserResponse{}, usererrors.ErrDeviceAlreadyAssigned
	}

	u.DeviceID = &deviceID
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) ResetDevice(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.DeviceID = nil
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) findUser(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID.String(),
		Name:           u.Name,
		Username:       u.Username,
		Role:           u.Role,
		SalaryPerMonth: u.SalaryPerMonth,
		SerialNumber:   u.SerialNumber,
		DeviceID:       u.DeviceID,
		NFCUID:         u.NFCUID,
	}
}
