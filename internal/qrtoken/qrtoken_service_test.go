package qrtoken

import (
	"context"
	"testing"

	"github.com/mikexportit-jpg/attendance/internal/attendance"
	qrtokenerrors "github.com/mikexportit-jpg/attendance/internal/qrtoken/errors"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	user.Repository
	byDeviceID map[string]*user.User
}

func (f *fakeUserRepo) FindByDeviceID(ctx context.Context, deviceID string) (*user.User, error) {
	if u, ok := f.byDeviceID[deviceID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAttendanceService struct {
	attendance.Service
	toggleFn func(ctx context.Context, userID, source string) (attendance.AttendanceResponse, error)
}

func (f *fakeAttendanceService) ClockToggle(ctx context.Context, userID, source string) (attendance.AttendanceResponse, error) {
	return f.toggleFn(ctx, userID, source)
}

func newTestService(users *fakeUserRepo, att *fakeAttendanceService, token string) (*service, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	svc := &service{
		rdb:        client,
		userRepo:   users,
		attendance: att,
		newToken:   func() (string, error) { return token, nil },
		logger:     zap.NewNop(),
	}
	return svc, mock
}

func TestService_IssueStoresToken(t *testing.T) {
	svc, mock := newTestService(nil, nil, "abc123")
	mock.ExpectSet("qr:token:abc123", "1", tokenTTL).SetVal("OK")

	resp, err := svc.Issue(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "abc123", resp.Token)
	assert.Equal(t, 15, resp.ExpiresIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockConsumesTokenOnce(t *testing.T) {
	u := &user.User{ID: uuid.New()}
	att := &fakeAttendanceService{
		toggleFn: func(ctx context.Context, userID, source string) (attendance.AttendanceResponse, error) {
			assert.Equal(t, u.ID.String(), userID)
			assert.Equal(t, attendance.SourceQR, source)
			return attendance.AttendanceResponse{ID: uuid.NewString(), Open: true}, nil
		},
	}
	users := &fakeUserRepo{byDeviceID: map[string]*user.User{"device-1": u}}
	svc, mock := newTestService(users, att, "abc123")

	mock.ExpectGetDel("qr:token:abc123").SetVal("1")
	resp, err := svc.Clock(context.Background(), "abc123", "device-1")
	assert.NoError(t, err)
	assert.True(t, resp.Open)

	// Second scan of the same token is rejected.
	mock.ExpectGetDel("qr:token:abc123").RedisNil()
	_, err = svc.Clock(context.Background(), "abc123", "device-1")
	assert.ErrorIs(t, err, qrtokenerrors.ErrTokenInvalid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockUnknownDevice(t *testing.T) {
	svc, mock := newTestService(&fakeUserRepo{}, nil, "abc123")
	mock.ExpectGetDel("qr:token:abc123").SetVal("1")

	_, err := svc.Clock(context.Background(), "abc123", "stranger")

	assert.ErrorIs(t, err, qrtokenerrors.ErrUnknownDevice)
}
