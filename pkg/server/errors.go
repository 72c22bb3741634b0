package server

import (
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
	"github.com/davejbarnes/pyngctl/pkg/serializer"
)

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code perrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr maps err to a status code and writes it. A
// StructuredError contributes its code, message, context and cause; any
// other error is reported as internal with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	se, ok := perrors.As(err)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, perrors.ErrCodeInternal, fallbackMessage,
			retryableFromCode(perrors.ErrCodeInternal), mergeDetails(extraDetails, map[string]any{"error": err.Error()}))
		return
	}

	details := mergeDetails(se.Context, extraDetails)
	if se.Cause != nil {
		details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
	}
	WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code perrors.ErrorCode) int {
	switch code {
	case perrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case perrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case perrors.ErrCodeNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case perrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case perrors.ErrCodeValidationRejected:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case perrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code perrors.ErrorCode) bool {
	switch code {
	case perrors.ErrCodeTimeout, perrors.ErrCodeUnavailable,
		perrors.ErrCodeRateLimitExceeded, perrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b overriding a, or nil when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}
