package auth_test

import (
	"context"
	"testing"

	"github.com/mikexportit-jpg/attendance/internal/auth"
	autherrors "github.com/mikexportit-jpg/attendance/internal/auth/errors"
	"github.com/mikexportit-jpg/attendance/internal/user"
	mock_user "github.com/mikexportit-jpg/attendance/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := auth.NewService(mockRepo)

		mockRepo.EXPECT().
			FindByUsername(gomock.Any(), "alice").
			Return(&user.User{
				ID:       uuid.New(),
				Name:     "Alice",
				Username: "alice",
				Password: hashed(t, "secret123"),
				Role:     user.RoleEmployee,
			}, nil)

		token, resp, err := svc.Login(ctx, "alice", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, user.RoleEmployee, resp.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := auth.NewService(mockRepo)

		mockRepo.EXPECT().
			FindByUsername(gomock.Any(), "alice").
			Return(&user.User{Password: hashed(t, "secret123")}, nil)

		_, _, err := svc.Login(ctx, "alice", "wrong")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_user.NewMockRepository(ctrl)
		svc := auth.NewService(mockRepo)

		mockRepo.EXPECT().
			FindByUsername(gomock.Any(), "ghost").
			Return(nil, gorm.ErrRecordNotFound)

		_, _, err := svc.Login(ctx, "ghost", "whatever")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := auth.NewService(mockRepo)

	id := uuid.New()
	mockRepo.EXPECT().
		FindByID(gomock.Any(), id.String()).
		Return(&user.User{ID: id, Username: "alice"}, nil)

	resp, err := svc.GetMe(context.Background(), id.String())

	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
}
