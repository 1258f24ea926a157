package httpx

import (
	"context"
	"errors"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
)

// errorMessage maps an error to the text shown in toasts and error banners.
// Backend-provided messages win for rejected and validation responses; transport
// level failures get a fixed wording so internals never leak.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeRejected, apperrors.ErrCodeValidation, apperrors.ErrCodeConflict:
		return apperrors.UserMessage(err, fallback)
	case apperrors.ErrCodeNotFound:
		return "The requested record no longer exists."
	case apperrors.ErrCodeForbidden:
		return "You don't have permission to do that."
	case apperrors.ErrCodeTransport:
		return "The service is unreachable. Please try again."
	case apperrors.ErrCodeTimeout:
		return "Request timed out. Please try again."
	case apperrors.ErrCodeDecode:
		return "The service returned an unexpected response."
	}
	return fallback
}

// fieldErrorsFrom extracts a field-level error from a validation failure.
// It returns nil when err does not name a field.
func fieldErrorsFrom(err error) map[string]string {
	if !apperrors.IsValidation(err) {
		return nil
	}
	field := apperrors.GetField(err)
	if field == "" {
		return nil
	}
	return map[string]string{field: apperrors.UserMessage(err, "This field has an invalid value.")}
}
