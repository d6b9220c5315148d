package authzerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

// Reasons are kept distinct (unknown user vs bad credential vs role) so
// callers and tests can assert the exact denial. Collapsing them to avoid
// user enumeration is a deliberate non-choice here.
var (
	ErrUnknownIdentity = apperror.New(
		apperror.CodeNotFound,
		"Identity not found",
		http.StatusNotFound,
	)

	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid username or password",
		http.StatusUnauthorized,
	)

	ErrInsufficientRole = apperror.New(
		apperror.CodeForbidden,
		"Insufficient role for this operation",
		http.StatusForbidden,
	)
)
