package payrollerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

var (
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
)
