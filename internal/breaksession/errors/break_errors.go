package breakerrors

import (
	"net/http"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
)

var (
	ErrBreakAlreadyOpen = apperror.New(
		apperror.CodeInvalidState,
		"You are already on a break",
		http.StatusConflict,
	)

	ErrNoOpenBreak = apperror.New(
		apperror.CodeInvalidState,
		"No active break to end",
		http.StatusBadRequest,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
)
