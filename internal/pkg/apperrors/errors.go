package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Authorization errors
	ErrInvalidAPIKey = errors.New("invalid or missing API key")
)

// Course and hierarchy errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseUIDExists      = errors.New("course with this UID already exists")
	ErrParentLinkNotFound   = errors.New("parent link not found")
	ErrSelfParent           = errors.New("course cannot be its own parent")
	ErrCycleDetected        = errors.New("parent edge would create a cycle")
	ErrDuplicateParents     = errors.New("parent list contains duplicates")
	ErrOrderConflict        = errors.New("order payload is not a permutation of the scope members")
	ErrInvalidOrderPosition = errors.New("order position must be positive")
)

// Link errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTeacherLinkNotFound = errors.New("teacher is not linked to this course")
	ErrUserCourseNotFound  = errors.New("user is not enrolled in this course")
	ErrCourseHasParents    = errors.New("course has parents; links are inherited from the root course")
	ErrMaterialNotFound    = errors.New("material not found")
	ErrMaterialUIDExists   = errors.New("material with this external UID already exists in the course")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewCycleError wraps ErrCycleDetected naming the parent that closed the cycle.
func NewCycleError(message string, parentID int64) error {
	return &CustomError{
		Err:     ErrCycleDetected,
		Message: message,
		Details: map[string]interface{}{"parentCourseId": parentID},
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
