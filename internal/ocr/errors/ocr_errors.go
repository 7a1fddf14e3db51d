package ocrerrors

import (
	"blair-ops/internal/shared/apperror"
	"net/http"
)

const CodeUnparseable = "OCR_UNPARSEABLE"

var (
	ErrImageRequired = apperror.RequiredField("image")

	ErrNotAnImage = apperror.New(
		apperror.CodeInvalidInput,
		"Please upload an image file",
		http.StatusBadRequest,
	)

	ErrImageTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"Image is too large",
		http.StatusRequestEntityTooLarge,
	)

	ErrRateLimited = apperror.New(
		apperror.CodeRateLimited,
		"OCR request limit reached, wait about a minute and try again",
		http.StatusTooManyRequests,
	)

	ErrUnparseable = apperror.New(
		CodeUnparseable,
		"No slip data could be read from the image",
		http.StatusBadGateway,
	)

	ErrUpstream = apperror.New(
		apperror.CodeUpstreamError,
		"OCR provider request failed",
		http.StatusBadGateway,
	)

	ErrDisabled = apperror.New(
		apperror.CodeServiceUnavailable,
		"OCR is not configured",
		http.StatusServiceUnavailable,
	)
)
