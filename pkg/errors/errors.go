package errors

import "fmt"

// Error codes
const (
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeStorage    = "STORAGE_ERROR"
)

type AnalyticsError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *AnalyticsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalyticsError) Unwrap() error {
	return e.Cause
}

type APIError struct {
	*AnalyticsError
	Reason string
}

func NewAPIError(message, reason string, cause error) *APIError {
	return &APIError{
		AnalyticsError: &AnalyticsError{
			Message: message,
			Code:    CodeAPIError,
			Context: map[string]any{
				"reason": reason,
			},
			Cause: cause,
		},
		Reason: reason,
	}
}

type ValidationError struct {
	*AnalyticsError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AnalyticsError: &AnalyticsError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type StorageError struct {
	*AnalyticsError
	Path      string
	Operation string
}

func NewStorageError(message, path, operation string, cause error) *StorageError {
	return &StorageError{
		AnalyticsError: &AnalyticsError{
			Message: message,
			Code:    CodeStorage,
			Context: map[string]any{
				"path":      path,
				"operation": operation,
			},
			Cause: cause,
		},
		Path:      path,
		Operation: operation,
	}
}
