package errors

import (
	stderrors "errors"
	"net/http"
)

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// MapToHTTPStatus translates a domain error into the status code returned by the API.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrInvalidLogin), Is(err, ErrInvalidPassword),
		Is(err, ErrInvalidRoom), Is(err, ErrEmptyContent), Is(err, ErrContentTooLong):
		return http.StatusBadRequest
	case Is(err, ErrInvalidCredentials), Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case Is(err, ErrNotInRoom):
		return http.StatusForbidden
	case Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case Is(err, ErrCommandDropped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
