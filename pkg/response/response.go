package response

import (
	"errors"
	"net/http"
	"time"

	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope shared by every handler.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope(c, data, nil))
}

// Page sends a 200 response with data and pagination metadata.
func Page(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, envelope(c, data, meta))
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope(c, data, nil))
}

// Error sends an error response. *apperror.AppError values keep their
// status and code; anything else is a 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			Retryable: apperror.IsRetryable(appErr),
			RequestID: getRequestID(c),
			Timestamp: now(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: apperror.CodeInternal,
		Message:   "Internal server error",
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

// Unavailable sends a 503 so upstream senders redeliver later.
func Unavailable(c *gin.Context, err error) {
	code := apperror.CodeInternal
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		ErrorCode: code,
		Message:   "Temporarily unavailable, retry later",
		Retryable: true,
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

func envelope(c *gin.Context, data, meta interface{}) SuccessResponse {
	return SuccessResponse{
		Data:      data,
		Meta:      meta,
		RequestID: getRequestID(c),
		Timestamp: now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
