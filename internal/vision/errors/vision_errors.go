package visionerrors

import (
	"net/http"

	"go-faceattend/internal/shared/apperror"
)

var (
	ErrNoFaceDetected = apperror.New(
		apperror.CodeUnprocessable,
		"No face detected in the submitted image",
		http.StatusUnprocessableEntity,
	)

	ErrDetectorUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Face detection service is unavailable",
		http.StatusServiceUnavailable,
	)
)
