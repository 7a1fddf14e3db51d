package sliperrors

import (
	"blair-ops/internal/shared/apperror"
	"net/http"
)

var (
	ErrSlipNotFound = apperror.New(
		apperror.CodeNotFound,
		"Slip not found",
		http.StatusNotFound,
	)

	ErrInvalidSlipID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid slip ID",
		http.StatusBadRequest,
	)

	ErrInvalidSlipDate = apperror.New(
		apperror.CodeInvalidInput,
		"date must be YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrCastRequired = apperror.New(
		apperror.CodeValidation,
		"At least one cast name is required",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date and end_date must be YYYY-MM-DD with start_date <= end_date",
		http.StatusBadRequest,
	)
)
