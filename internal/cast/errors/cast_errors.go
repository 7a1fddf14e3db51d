package casterrors

import (
	"blair-ops/internal/shared/apperror"
	"net/http"
)

var (
	ErrCastNameRequired = apperror.RequiredField("name")

	ErrCastNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cast not found",
		http.StatusNotFound,
	)

	ErrCastAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A cast with the same name already exists",
		http.StatusConflict,
	)
)
