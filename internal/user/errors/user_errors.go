package usererrors

import (
	"net/http"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUsernameTaken = apperror.New(
		apperror.CodeConflict,
		"Username already exists",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrDeviceAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"This user already has a registered device",
		http.StatusConflict,
	)

	ErrNoDeviceDetected = apperror.New(
		apperror.CodeInvalidState,
		"No device detected, the employee must scan the QR first",
		http.StatusBadRequest,
	)
)
