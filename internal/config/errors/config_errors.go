package configerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

var (
	ErrInvalidMasterAdminCap = apperror.New(
		apperror.CodeInvalidInput,
		"max_master_admins must be at least 1",
		http.StatusBadRequest,
	)

	ErrInvalidMatchThreshold = apperror.New(
		apperror.CodeInvalidInput,
		"match_threshold must be greater than 0 and at most 1",
		http.StatusBadRequest,
	)
)
