package embeddingerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

var (
	ErrNoMatch = apperror.New(
		apperror.CodeNotFound,
		"No enrolled face matches the captured image",
		http.StatusNotFound,
	)

	ErrEmptyVector = apperror.New(
		apperror.CodeUnprocessable,
		"Face vector is empty",
		http.StatusUnprocessableEntity,
	)
)
