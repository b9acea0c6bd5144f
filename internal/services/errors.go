package services

import (
	"errors"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrValidation   = errors.New("validation failed")

	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInactiveUser         = errors.New("account is inactive")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrGroupNotFound        = errors.New("group not found, run setup-groups first")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// Validation rules reported in ValidationError.Rule.
const (
	RuleRequired        = "required"
	RuleMinLength       = "min_length"
	RuleMaxLength       = "max_length"
	RuleInvalidAssignee = "invalid_assignee"
	RuleOneOf           = "one_of"
	RuleEmail           = "email"
)

// ValidationError reports the input field and the rule it violated.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}
