package inkwell

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiError is the error currency of the platform. Services return one of the
// sentinel errors below (optionally via New) and the transport layer maps it
// to the matching HTTP status.
type ApiError struct {
	Status    int    `json:"-"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

var (
	ErrInvalidInput = ApiError{Status: http.StatusBadRequest, ErrorCode: "INVALID_INPUT", Message: "%s"}
	ErrForbidden    = ApiError{Status: http.StatusForbidden, ErrorCode: "FORBIDDEN", Message: "%s"}
	ErrNotFound     = ApiError{Status: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "%s"}
	ErrStoreFailure = ApiError{Status: http.StatusInternalServerError, ErrorCode: "STORE_FAILURE", Message: "%s"}
)

// New returns a copy of the error with its message template filled in.
func (e ApiError) New(messages ...string) ApiError {
	args := make([]any, len(messages))
	for i, msg := range messages {
		args[i] = msg
	}

	message := fmt.Sprintf(e.Message, args...)
	return ApiError{
		Status:    e.Status,
		ErrorCode: e.ErrorCode,
		Message:   message,
	}
}

func (e ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is makes errors.Is match on the error code, so a formatted error still
// compares equal to its sentinel.
func (e ApiError) Is(target error) bool {
	var other ApiError
	if errors.As(target, &other) {
		return e.ErrorCode == other.ErrorCode
	}
	return false
}

type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func SendError(c *gin.Context, err error) {
	var customErr ApiError
	if errors.As(err, &customErr) {
		status := customErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResponse{
			ErrorCode: customErr.ErrorCode,
			Message:   customErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: "INTERNAL_SERVER_ERROR",
		Message:   "An unknown error occurred",
	})
}
