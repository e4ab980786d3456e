package reporterrors

import (
	"net/http"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(apperror.CodeNotFound, "user not found", http.StatusNotFound)

	ErrInvalidDateFormat = apperror.New(apperror.CodeInvalidInput, "date must be in YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidDateRange  = apperror.New(apperror.CodeInvalidInput, "from date must not be after to date", http.StatusBadRequest)
	ErrInvalidPeriod     = apperror.New(apperror.CodeInvalidInput, "period must be in YYYY-MM format", http.StatusBadRequest)
)
