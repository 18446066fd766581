// Package apperror defines a centralized system for application-specific errors.
// Every layer (stores, services, handlers) returns *AppError values so that the
// HTTP layer can turn them into consistent responses without knowing where they came from.
//
// The taxonomy mirrors the request lifecycle of the task tracker:
// validation failures, duplicate identifiers, invalid credentials, missing authentication,
// missing (or not owned) resources and store outages.
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType defines the type of application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents a store failure (connectivity, unexpected SQL errors).
	// It is fatal to the request and always surfaced as a generic server error.
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents invalid credentials. It never says which credential was wrong.
	AuthError
	// UnauthenticatedError means a protected operation was invoked from an anonymous session.
	UnauthenticatedError
	// NotFoundError represents a missing resource, or one owned by somebody else.
	NotFoundError
	// ValidationError represents field-level input validation failures
	ValidationError
	// BadRequestError represents a generic bad request (malformed body, bad path parameter)
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents an error from an external service (e.g. the SMTP relay)
	ExternalServiceError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a duplicate identifier (username or email already taken)
	ConflictError
	// TooManyRequestsError is returned when a client is throttled
	TooManyRequestsError
)

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for debugging while exposing only `Message`
// (and, for validation problems, `Fields`) to clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
	// Fields holds per-field messages for validation and conflict errors.
	// The key is the form field name; all messages for that field are kept in order.
	Fields map[string][]string
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case ConfigError:
		return http.StatusInternalServerError
	case AuthError:
		return http.StatusUnauthorized
	case UnauthenticatedError:
		// Browsers are redirected to the login page before this is ever written;
		// API clients without a session get a plain 401.
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ExternalServiceError:
		return http.StatusBadGateway
	case MigrationError:
		return http.StatusInternalServerError
	case ConflictError:
		return http.StatusConflict
	case TooManyRequestsError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WithField attaches a message to a form field and returns the same error,
// so constructors can be chained: apperror.NewConflictError(...).WithField("email", msg).
func (e *AppError) WithField(field, message string) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// NewAppError creates a new AppError. This is a generic constructor.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// Constructor functions for specific error types.
// `NewDatabaseError("message", err)` reads better than `NewAppError(DatabaseError, "message", err)`.

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (invalid credentials)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewUnauthenticatedError creates a new UnauthenticatedError (login required)
func NewUnauthenticatedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthenticatedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError with the collected field messages.
func NewValidationError(message string, fields map[string][]string) *AppError {
	e := NewAppError(ValidationError, message, nil)
	e.Fields = fields
	return e
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// NewTooManyRequestsError creates a new TooManyRequestsError
func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(TooManyRequestsError, message, nil)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Error  string              `json:"error" example:"A description of the error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing `Message` is included, never the underlying `Err` details.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Fields: e.Fields}
}

// FromError attempts to convert a generic error to an *AppError, looking through wrapped errors.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types.
// These use `errors.As` so they keep working when errors are wrapped with fmt.Errorf("%w").

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return is(err, NotFoundError)
}

// IsAuthError checks if an error is an AuthError (invalid credentials)
func IsAuthError(err error) bool {
	return is(err, AuthError)
}

// IsUnauthenticated checks if an error signals that authentication is required
func IsUnauthenticated(err error) bool {
	return is(err, UnauthenticatedError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return is(err, ValidationError)
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	return is(err, ConflictError)
}

// IsDatabaseError checks if an error is a store failure
func IsDatabaseError(err error) bool {
	return is(err, DatabaseError)
}

func is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
