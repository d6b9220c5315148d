package attendanceerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

var (
	ErrAlreadyPunchedIn = apperror.New(
		apperror.CodeConflict,
		"Already punched in for today",
		http.StatusConflict,
	)

	ErrNoPunchIn = apperror.New(
		apperror.CodeNotFound,
		"No in-punch recorded for today",
		http.StatusNotFound,
	)

	ErrAlreadyPunchedOut = apperror.New(
		apperror.CodeConflict,
		"Already punched out for today",
		http.StatusConflict,
	)

	ErrInvalidImage = apperror.New(
		apperror.CodeInvalidInput,
		"image_base64 is not valid base64 data",
		http.StatusBadRequest,
	)

	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be formatted YYYY-MM",
		http.StatusBadRequest,
	)
)
