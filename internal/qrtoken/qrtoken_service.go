package qrtoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/attendance"
	qrtokenerrors "github.com/mikexportit-jpg/attendance/internal/qrtoken/errors"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	tokenTTL       = 15 * time.Second
	tokenKeyPrefix = "qr:token:"
)

type IssueResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// Service issues short-lived single-use QR tokens for kiosk clocking. The
// kiosk refreshes its QR every few seconds; an employee's device posts the
// scanned token together with its registered device id, which resolves to
// the user and toggles their session.
//
//go:generate mockgen -source=qrtoken_service.go -destination=mock/qrtoken_service_mock.go -package=mock
type Service interface {
	Issue(ctx context.Context) (IssueResponse, error)
	Clock(ctx context.Context, token, deviceID string) (attendance.AttendanceResponse, error)
}

type service struct {
	rdb        *redis.Client
	userRepo   user.Repository
	attendance attendance.Service
	newToken   func() (string, error)
	logger     *zap.Logger
}

func NewService(rdb *redis.Client, userRepo user.Repository, attendanceService attendance.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("qrtoken.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("qrtoken.service")
	}
	return &service{
		rdb:        rdb,
		userRepo:   userRepo,
		attendance: attendanceService,
		newToken:   randomToken,
		logger:     l,
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) Issue(ctx context.Context) (IssueResponse, error) {
	token, err := s.newToken()
	if err != nil {
		return IssueResponse{}, err
	}

	if err := s.rdb.Set(ctx, tokenKeyPrefix+token, "1", tokenTTL).Err(); err != nil {
		s.logger.Error("qr token store failed", zap.Error(err))
		return IssueResponse{}, err
	}
	return IssueResponse{Token: token, ExpiresIn: int(tokenTTL.Seconds())}, nil
}

// Clock consumes the token atomically: GETDEL guarantees a token scans at
// most once even when two devices race on it.
func (s *service) Clock(ctx context.Context, token, deviceID string) (attendance.AttendanceResponse, error) {
	if err := s.rdb.GetDel(ctx, tokenKeyPrefix+token).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return attendance.AttendanceResponse{}, qrtokenerrors.ErrTokenInvalid
		}
		return attendance.AttendanceResponse{}, err
	}

	u, err := s.userRepo.FindByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendance.AttendanceResponse{}, qrtokenerrors.ErrUnknownDevice
		}
		return attendance.AttendanceResponse{}, err
	}

	resp, err := s.attendance.ClockToggle(ctx, u.ID.String(), attendance.SourceQR)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.logger.Info("qr clock accepted",
		zap.String("user_id", u.ID.String()),
		zap.Bool("open", resp.Open),
	)
	return resp, nil
}
