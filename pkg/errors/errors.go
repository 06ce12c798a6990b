package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies one kind of rejection the core can return.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrIncompleteRequest
	ErrInvalidSchedule
	ErrDoctorSlotTaken
	ErrPatientSlotTaken
	ErrIllegalTransition
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrVersionConflict
)

// AppError is the typed result every core operation fails with. The core
// never panics on bad input; callers branch on Code.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two AppErrors by code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the ErrorCode from err, or ErrInternal when err is not an
// AppError.
func CodeOf(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrInternal
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func IncompleteRequest(field string) *AppError {
	return &AppError{
		Code:    ErrIncompleteRequest,
		Message: fmt.Sprintf("missing required field: %s", field),
	}
}

func InvalidSchedule(reason string) *AppError {
	return &AppError{
		Code:    ErrInvalidSchedule,
		Message: reason,
	}
}

func DoctorSlotTaken(doctorID, date, t string) *AppError {
	return &AppError{
		Code:    ErrDoctorSlotTaken,
		Message: fmt.Sprintf("doctor %s already has a booking at %s %s", doctorID, date, t),
	}
}

func PatientSlotTaken(patientID, date, t string) *AppError {
	return &AppError{
		Code:    ErrPatientSlotTaken,
		Message: fmt.Sprintf("patient %s already has a booking at %s %s", patientID, date, t),
	}
}

func IllegalTransition(from, to string) *AppError {
	return &AppError{
		Code:    ErrIllegalTransition,
		Message: fmt.Sprintf("transition from %s to %s is not permitted", from, to),
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Err:     err,
	}
}

func VersionConflict(key string) *AppError {
	return &AppError{
		Code:    ErrVersionConflict,
		Message: fmt.Sprintf("stale write to %s", key),
	}
}
