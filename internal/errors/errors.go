package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUserNotFound is returned when a user record is not found.
	ErrUserNotFound = errors.New("User not found")
	// ErrPaymentNotFound is returned when a payment record is not found.
	ErrPaymentNotFound = errors.New("Payment not found")
	// ErrExpenseNotFound is returned when an expense record is not found.
	ErrExpenseNotFound = errors.New("Expense not found")
	// ErrUsernameTaken is returned when the requested username already exists.
	ErrUsernameTaken = errors.New("Username exists")
	// ErrEmailTaken is returned when the requested email already exists.
	ErrEmailTaken = errors.New("Email already in use")
	// ErrInvalidMonth is returned when a month token is not YYYY-MM.
	ErrInvalidMonth = errors.New("month must be in format YYYY-MM")
	// ErrInvalidAmount is returned when an amount is not a positive number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrCompletedImmutable is returned on a completed -> pending transition attempt.
	ErrCompletedImmutable = errors.New("Completed payments cannot be changed back to pending")
	// ErrSelfBlock is returned when an admin tries to block their own account.
	ErrSelfBlock = errors.New("You cannot block your own account")
	// ErrExpenseType is returned when an expense type is missing or blank.
	ErrExpenseType = errors.New("type is required")
	// ErrInvalidCode is returned when an email verification code does not match.
	ErrInvalidCode = errors.New("Invalid or expired verification code")
	// ErrFileType is returned when an uploaded file's content type is not allowed.
	ErrFileType = errors.New("Only images or PDF are allowed")
	// ErrFileTooLarge is returned when an uploaded file exceeds the size cap.
	ErrFileTooLarge = errors.New("File exceeds the maximum allowed size")
)

// ErrorResponse is the wire shape for all error replies.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors are hidden
// behind a generic 500 so storage detail never leaks to clients.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrExpenseNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidMonth),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrExpenseType),
		errors.Is(err, ErrCompletedImmutable),
		errors.Is(err, ErrSelfBlock),
		errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrFileType),
		errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
