package service

import (
	"fmt"
	"strings"
)

// ValidationError reports a field-level validation failure detected locally,
// before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates the target entity no longer exists server-side.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "not found"
	}
	return fmt.Sprintf("not found: %s", e.ID)
}

// OperationError is a generic remote-operation failure: network error,
// server error, or an unexpected payload. Detail carries the server's
// human-readable message when one was available.
type OperationError struct {
	Detail string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "operation failed"
}

func (e *OperationError) Unwrap() error { return e.Err }

// ConcurrentOperationError indicates a mutation was attempted while an
// incompatible one was already in flight for the same entity.
type ConcurrentOperationError struct {
	ID string
}

func (e *ConcurrentOperationError) Error() string {
	if e.ID == "" {
		return "operation already in flight"
	}
	return fmt.Sprintf("operation already in flight for %s", e.ID)
}

// ValidateDraft checks a draft's fields against the local limits.
func ValidateDraft(d TaskDraft) error {
	if err := validateTitle(d.Title); err != nil {
		return err
	}
	return validateDescription(d.Description)
}

// ValidatePatch checks the set fields of a patch against the local limits.
func ValidatePatch(p TaskPatch) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len([]rune(title)) > MaxTitleLen {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLen)}
	}
	return nil
}

func validateDescription(desc string) error {
	if len([]rune(desc)) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLen)}
	}
	return nil
}
