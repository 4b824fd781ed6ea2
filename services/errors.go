package services

import (
	"errors"
	"fmt"

	"github.com/adirsaban8-oss/ADIRS/models"
)

// Code identifies an expected, user-facing outcome. These are returned
// as structured results and rendered as actionable messages, never as
// panics.
type Code string

const (
	CodeInvalidPhone            Code = "InvalidPhone"
	CodeInvalidInput            Code = "InvalidInput"
	CodeNoActiveCode            Code = "NoActiveCode"
	CodeExpired                 Code = "Expired"
	CodeCooldownActive          Code = "CooldownActive"
	CodeWrongCode               Code = "WrongCode"
	CodeTooManyAttempts         Code = "TooManyAttempts"
	CodeCustomerNotFound        Code = "CustomerNotFound"
	CodeInvalidService          Code = "InvalidService"
	CodeInvalidDateTime         Code = "InvalidDateTime"
	CodeOutOfHorizon            Code = "OutOfHorizon"
	CodeActiveAppointmentExists Code = "ActiveAppointmentExists"
	CodeSlotUnavailable         Code = "SlotUnavailable"
	CodeInvalidTransition       Code = "InvalidTransition"
	CodeSameDayCancelBlocked    Code = "CancelSameDayBlocked"
	CodeStorageUnavailable      Code = "StorageUnavailable"
)

type DomainError struct {
	Code    Code
	Message string

	// Conflict carries the customer's existing appointment for
	// ActiveAppointmentExists so callers can show its date and time.
	Conflict *models.Appointment
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

func domainErr(code Code, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrCode extracts the domain code from err, or "" when err is not a
// DomainError.
func ErrCode(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsCode(err error, code Code) bool {
	return ErrCode(err) == code
}
