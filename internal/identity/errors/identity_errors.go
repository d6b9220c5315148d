package identityerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

var (
	ErrIdentityNotFound = apperror.New(
		apperror.CodeNotFound,
		"Identity not found",
		http.StatusNotFound,
	)

	ErrNameAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An identity with this name already exists",
		http.StatusConflict,
	)

	ErrEmployeeIDAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An identity with this employee id already exists",
		http.StatusConflict,
	)

	ErrMasterAdminCapReached = apperror.New(
		apperror.CodeForbidden,
		"Master admin limit reached",
		http.StatusForbidden,
	)

	ErrLastMasterAdmin = apperror.New(
		apperror.CodeInvalidState,
		"Cannot delete the last remaining master admin",
		http.StatusConflict,
	)

	ErrInvalidOfficeStartTime = apperror.New(
		apperror.CodeInvalidInput,
		"office_start_time must be a HH:MM clock value",
		http.StatusBadRequest,
	)

	ErrInvalidImage = apperror.New(
		apperror.CodeInvalidInput,
		"image_base64 is not valid base64 data",
		http.StatusBadRequest,
	)
)
