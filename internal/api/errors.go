package api

import (
	"errors"
	"net/http"

	"laneboard/internal/services"
)

// ValidationError is a caller-facing failure reported as 400.
type ValidationError struct {
	Message     string
	LongMessage string
	Err         error
}

func (e *ValidationError) Error() string {
	if e.LongMessage != "" {
		return e.Message + ": " + e.LongMessage
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for services.KindOf.
func (e *ValidationError) ErrorKind() string {
	if e.Err != nil {
		if kind := services.KindOf(e.Err); kind != services.KindInternal {
			return string(kind)
		}
	}
	return string(services.KindValidation)
}

const (
	internalMessage     = "Internal server error"
	internalLongMessage = "The server failed to complete the request. Try again later."
)

// ErrorStatus maps an error onto an HTTP status and response body. Internal
// failures never expose their detail.
func ErrorStatus(err error) (int, ErrorResponse) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, ErrorResponse{Message: validation.Message, LongMessage: validation.LongMessage}
	}
	switch services.KindOf(err) {
	case services.KindNotFound:
		return http.StatusBadRequest, ErrorResponse{Message: "Client not found", LongMessage: err.Error()}
	case services.KindValidation, services.KindInvalidLane, services.KindInvalidPriority:
		return http.StatusBadRequest, ErrorResponse{Message: "Invalid request", LongMessage: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: internalMessage, LongMessage: internalLongMessage}
	}
}
