package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports code equality so errors.Is works against the constructors below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

const (
	CodeValidation          = "VAL_001"
	CodeWalletNotFound      = "WAL_001"
	CodeInsufficientFunds   = "WAL_002"
	CodeInvalidOperation    = "WAL_003"
	CodeSignatureMismatch   = "SEC_001"
	CodeInvalidToken        = "SEC_002"
	CodeRateLimitExceeded   = "RATE_001"
	CodeInternal            = "SYS_000"
	CodeConcurrencyConflict = "SYS_001"
	CodePersistenceFailure  = "SYS_002"
	CodeProcessorFailure    = "EXT_001"
)

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error carrying a caller-facing message.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return Validation("Amount must be positive with at most two decimal places")
}

// ---- Wallet Business Logic (WAL) ----

func ErrWalletNotFound() *AppError {
	return New(CodeWalletNotFound, "Wallet not found", http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrInvalidOperation(message string) *AppError {
	return New(CodeInvalidOperation, message, http.StatusUnprocessableEntity)
}

// ---- Security (SEC) ----

func ErrSignatureMismatch() *AppError {
	return New(CodeSignatureMismatch, "Invalid signature", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrConcurrencyConflict(err error) *AppError {
	return Wrap(CodeConcurrencyConflict, "Concurrent update conflict, retry the request", http.StatusConflict, err)
}

func ErrPersistenceFailure(err error) *AppError {
	return Wrap(CodePersistenceFailure, "Storage failure", http.StatusInternalServerError, err)
}

// ErrDataRejected is a value the database refused to store (SQLSTATE class
// 22). Replaying the same input fails the same way.
func ErrDataRejected(err error) *AppError {
	return Wrap(CodeValidation, "Value out of range for storage", http.StatusBadRequest, err)
}

// ErrConstraintViolation is an integrity constraint failure (SQLSTATE
// class 23).
func ErrConstraintViolation(err error) *AppError {
	return Wrap(CodeInvalidOperation, "Operation violates a ledger constraint", http.StatusUnprocessableEntity, err)
}

// ---- External processor (EXT) ----

func ErrProcessorFailure(err error) *AppError {
	return Wrap(CodeProcessorFailure, "Payment processor request failed", http.StatusBadGateway, err)
}

// InternalError wraps an unexpected error as SYS_000.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// IsRetryable reports whether err is transient and the caller may retry the
// whole operation.
func IsRetryable(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == CodeConcurrencyConflict || appErr.Code == CodePersistenceFailure
}

// HasCode reports whether err carries the given AppError code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// FromDB classifies a storage error. AppErrors pass through unchanged;
// serialization failures, deadlocks, lock timeouts and context deadlines
// become SYS_001; data exceptions and constraint violations are not
// retryable; everything else is SYS_002.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return ErrConcurrencyConflict(err)
		}
		switch {
		case strings.HasPrefix(pgErr.Code, "22"):
			return ErrDataRejected(err)
		case strings.HasPrefix(pgErr.Code, "23"):
			return ErrConstraintViolation(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrConcurrencyConflict(err)
	}
	return ErrPersistenceFailure(err)
}
