package qrtokenerrors

import (
	"net/http"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
)

var (
	ErrTokenInvalid  = apperror.New(apperror.CodeUnauthorized, "QR token is invalid or expired", http.StatusUnauthorized)
	ErrUnknownDevice = apperror.New(apperror.CodeNotFound, "Device is not registered to any user", http.StatusNotFound)
)
