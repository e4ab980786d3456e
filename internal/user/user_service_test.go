package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mikexportit-jpg/attendance/internal/user"
	usererrors "github.com/mikexportit-jpg/attendance/internal/user/errors"
	mock_user "github.com/mikexportit-jpg/attendance/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := user.NewService(nil, mockRepo)

		var stored *user.User
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				stored = u
				return nil
			})

		res, err := svc.Create(ctx, user.CreateUserRequest{
			Name:           "Alice",
			Username:       "alice",
			Password:       "secret123",
			Role:           user.RoleEmployee,
			SalaryPerMonth: 2700,
		})

		assert.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		assert.NotEqual(t, "secret123", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := user.NewService(nil, mockRepo)

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(errors.New("db down"))

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     "Alice",
			Username: "alice",
			Password: "secret123",
			Role:     user.RoleEmployee,
		})

		assert.Error(t, err)
	})
}

func TestUserService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(nil, mockRepo)

	mockRepo.EXPECT().
		FindAll(gomock.Any(), "ali").
		Return([]user.User{
			{ID: uuid.New(), Name: "Alice", Username: "alice", Role: user.RoleEmployee},
		}, nil)

	res, err := svc.GetAll(context.Background(), "ali")

	assert.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "alice", res[0].Username)
}

func TestUserService_DeleteDetachesAttendance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, dbMock, _ := sqlmock.New()
	defer db.Close()
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	id := uuid.New().String()
	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(db, mockRepo)

	mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo)
	mockRepo.EXPECT().DetachAttendances(gomock.Any(), id).Return(nil)
	mockRepo.EXPECT().Delete(gomock.Any(), id).Return(nil)

	err := svc.Delete(context.Background(), id)

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUserService_DeleteRejectsBadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := user.NewService(nil, mock_user.NewMockRepository(ctrl))

	err := svc.Delete(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
}

func TestUserService_AssignDevice(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("first device is accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := user.NewService(nil, mockRepo)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), id.String()).
			Return(&user.User{ID: id, Username: "alice"}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.AssignDevice(ctx, id.String(), "device-1")

		assert.NoError(t, err)
		assert.Equal(t, "device-1", *res.DeviceID)
	})

	t.Run("second device is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		existing := "device-1"
		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := user.NewService(nil, mockRepo)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), id.String()).
			Return(&user.User{ID: id, DeviceID: &existing}, nil)

		_, err := svc.AssignDevice(ctx, id.String(), "device-2")

		assert.ErrorIs(t, err, usererrors.ErrDeviceAlreadyAssigned)
	})
}
