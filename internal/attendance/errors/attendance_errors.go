package attendanceerrors

import (
	"net/http"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"You are already clocked in",
		http.StatusConflict,
	)

	ErrNotClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"No open session to clock out",
		http.StatusBadRequest,
	)

	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrUnknownDevice = apperror.New(
		apperror.CodeNotFound,
		"No user registered for this device",
		http.StatusNotFound,
	)

	ErrClockOutBeforeIn = apperror.New(
		apperror.CodeInvalidInput,
		"Clock-out must not be before clock-in",
		http.StatusBadRequest,
	)
)
