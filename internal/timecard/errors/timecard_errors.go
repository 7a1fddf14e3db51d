package timecarderrors

import (
	"blair-ops/internal/shared/apperror"
	"net/http"
)

var (
	ErrCastNameRequired = apperror.RequiredField("cast_name")

	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"Kind must be clock_in or clock_out",
		http.StatusBadRequest,
	)

	ErrInvalidTimeOfDay = apperror.New(
		apperror.CodeInvalidInput,
		"time_of_day must be HH:MM",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date and end_date must be YYYY-MM-DD with start_date <= end_date",
		http.StatusBadRequest,
	)

	ErrLogUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Time-card log is unavailable",
		http.StatusServiceUnavailable,
	)
)
