/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Service and API layers classify errors with the helpers at the bottom.

ERROR CATEGORIES:
  1. Recoverable input - never an error; coerced at the boundary
     (bad time string -> no time, bad number -> 0, unknown shift -> open)
  2. Missing prerequisites - operation aborts before any write
     (no employees, no attendance for the month, payroll not run)
  3. Invalid configuration - rejected, stored document untouched
  4. Client errors - validation failures and illegal lifecycle transitions

USAGE:
  if errors.Is(err, generic.ErrNoAttendance) {
      // tell the user to upload punches first
  }

SEE ALSO:
  - factory/rules.go: produces ConfigError
  - service/: wraps these errors with operation context
  - api/handlers.go: maps categories to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when an employee code has no record.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRecordNotFound is returned when an attendance row or leave
	// application does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoEmployees aborts a payroll run when the employee table is empty.
	ErrNoEmployees = errors.New("no employees found")

	// ErrNoAttendance aborts a payroll run when the month has no attendance.
	ErrNoAttendance = errors.New("no attendance data found")

	// ErrPayrollNotRun is returned when a payslip or report is requested for
	// a period that has no stored payroll.
	ErrPayrollNotRun = errors.New("payroll has not been run for this period")

	// ErrNoPayrollForEmployee is returned when a stored period has no row for
	// the requested employee.
	ErrNoPayrollForEmployee = errors.New("no payroll data for this employee")

	// ErrInvalidConfig is returned when a rules document fails to parse or validate.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPeriod is returned when a range is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidTransition is returned when a leave application is moved out
	// of a state it cannot leave.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateLeave is returned when an open application already covers
	// the same employee, type and dates.
	ErrDuplicateLeave = errors.New("leave application already exists")

	// ErrValidation marks input that failed field validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedFormat is returned for uploads/downloads in an unknown format.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfigError collects every problem found in a rules document.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// TransitionError describes a rejected leave status change.
type TransitionError struct {
	ID   string
	From LeaveStatus
	To   LeaveStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("leave %s: cannot move from %s to %s", e.ID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrDuplicateLeave) ||
		errors.Is(err, ErrUnsupportedFormat)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrNoPayrollForEmployee)
}

// IsPrecondition returns true if the operation could not start because
// required data is missing.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoEmployees) ||
		errors.Is(err, ErrNoAttendance) ||
		errors.Is(err, ErrPayrollNotRun)
}
