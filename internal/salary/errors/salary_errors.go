package salaryerrors

import (
	"net/http"

	"paytrack/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary not found",
		http.StatusNotFound,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeValidation,
		"invalid salary id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeValidation,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentDate = apperror.New(
		apperror.CodeValidation,
		"invalid payment_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeAuthorization,
		"salary does not belong to the acting user",
		http.StatusForbidden,
	)
	ErrPeriodTaken = apperror.New(
		apperror.CodeConflict,
		"a salary already exists for this user and period",
		http.StatusConflict,
	)
)
