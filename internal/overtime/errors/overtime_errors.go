package overtimeerrors

import (
	"net/http"

	"paytrack/internal/shared/apperror"
)

var (
	ErrOvertimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"overtime not found",
		http.StatusNotFound,
	)
	ErrInvalidOvertimeID = apperror.New(
		apperror.CodeValidation,
		"invalid overtime id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeValidation,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeValidation,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeAuthorization,
		"overtime does not belong to the acting user",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid overtime status transition",
		http.StatusBadRequest,
	)
	ErrDecidedImmutable = apperror.New(
		apperror.CodeInvalidState,
		"a decided overtime request can no longer be edited",
		http.StatusBadRequest,
	)
)
