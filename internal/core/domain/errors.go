package domain

import "errors"

// ErrorCode is the machine-readable classification of an admission failure.
// The transport layer maps each code to an HTTP status; the core only decides
// the code and the message.
type ErrorCode string

const (
	CodeAuthenticationRequired  ErrorCode = "AUTHENTICATION_REQUIRED"
	CodeInvalidToken            ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired            ErrorCode = "TOKEN_EXPIRED"
	CodeUnauthorized            ErrorCode = "UNAUTHORIZED"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	CodeUserNotFound            ErrorCode = "USER_NOT_FOUND"
	CodeAccountDeactivated      ErrorCode = "ACCOUNT_DEACTIVATED"
	CodeSubscriptionRequired    ErrorCode = "SUBSCRIPTION_REQUIRED"
	CodeTooManyRequests         ErrorCode = "TOO_MANY_REQUESTS"
)

// AdmissionError is a typed failure raised by a pipeline gate. It aborts the
// remaining gates and the route handler; the error handler renders it.
type AdmissionError struct {
	Code    ErrorCode
	Message string
	// RetryAfter is the retry hint in seconds. Only set for TOO_MANY_REQUESTS.
	RetryAfter int
}

func (e *AdmissionError) Error() string { return e.Message }

// Is matches two AdmissionErrors by code, so errors.Is works against the
// package sentinels regardless of the message variant.
func (e *AdmissionError) Is(target error) bool {
	var t *AdmissionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels with the default message for each code. Use the constructors
// below when the message varies by reason.
var (
	ErrAuthenticationRequired  = &AdmissionError{Code: CodeAuthenticationRequired, Message: "authentication required"}
	ErrInvalidToken            = &AdmissionError{Code: CodeInvalidToken, Message: "invalid authorization header"}
	ErrTokenExpired            = &AdmissionError{Code: CodeTokenExpired, Message: "token is invalid or expired"}
	ErrUnauthorized            = &AdmissionError{Code: CodeUnauthorized, Message: "missing required claims"}
	ErrInsufficientPermissions = &AdmissionError{Code: CodeInsufficientPermissions, Message: "insufficient permissions"}
	ErrUserNotFound            = &AdmissionError{Code: CodeUserNotFound, Message: "user not found"}
	ErrAccountDeactivated      = &AdmissionError{Code: CodeAccountDeactivated, Message: "account is deactivated"}
	ErrSubscriptionRequired    = &AdmissionError{Code: CodeSubscriptionRequired, Message: "active subscription required"}
	ErrTooManyRequests         = &AdmissionError{Code: CodeTooManyRequests, Message: "too many requests"}
)

// SubscriptionError returns a SUBSCRIPTION_REQUIRED failure with a
// reason-specific message (expired vs canceled, strict vs lenient wording).
func SubscriptionError(msg string) *AdmissionError {
	return &AdmissionError{Code: CodeSubscriptionRequired, Message: msg}
}

// RateLimitError returns a TOO_MANY_REQUESTS failure carrying the number of
// seconds the caller should wait before retrying.
func RateLimitError(retryAfter int) *AdmissionError {
	return &AdmissionError{
		Code:       CodeTooManyRequests,
		Message:    "too many requests, please try again later",
		RetryAfter: retryAfter,
	}
}

// Errors raised by the auth endpoints rather than the admission pipeline.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)
