package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/leave"
	leaveerrors "github.com/mikexportit-jpg/attendance/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

type fakeLeaveService struct {
	requestFn func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context, userID string, from, to *time.Time) ([]leave.LeaveResponse, error)
	approveFn func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, actorID, id, reason string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Request(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.requestFn(ctx, userID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, userID string, from, to *time.Time) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, userID, from, to)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}
func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actorID, id, reason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actorID, id, reason)
}
func (f *fakeLeaveService) ExportXLSX(ctx context.Context, userID string, from, to *time.Time) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func TestHandler_RequestAndList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()

	svc := &fakeLeaveService{
		requestFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, userID, uid)
			return leave.LeaveResponse{ID: uuid.NewString(), UserID: uid, Status: leave.StatusPending}, nil
		},
		getAllFn: func(ctx context.Context, uid string, from, to *time.Time) ([]leave.LeaveResponse, error) {
			// employees are pinned to their own records
			assert.Equal(t, userID, uid)
			return []leave.LeaveResponse{{ID: uuid.NewString()}}, nil
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", userID)
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves",
		strings.NewReader(`{"start_date":"2025-06-02","end_date":"2025-06-04","reason":"trip"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Request(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Set("user_id", userID)
	c2.Set("role", "employee")
	c2.Request = httptest.NewRequest(http.MethodGet, "/leaves?user_id=someone-else", nil)
	h.GetAll(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestHandler_RejectWithoutReason(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := leave.NewHandler(&fakeLeaveService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.NewString())
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/abc/reject", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Reject(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ApproveNotPending(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeLeaveService{
		approveFn: func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.NewString())
	c.Request = httptest.NewRequest(http.MethodPost, "/leaves/abc/approve", nil)
	h.Approve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}
