/*
store.go - Persistence interfaces for the payroll tables

PURPOSE:
  Defines the interface between the services and storage. Every table is a
  keyed upsert store: writing a record whose key already exists replaces the
  prior record entirely (last write wins). Nothing is ever auto-deleted.

KEY INTERFACES:
  EmployeeStore:   keyed by employee code
  AttendanceStore: keyed by (employee code, date)
  LeaveStore:      keyed by (employee code, leave type, from, to)
  PayrollStore:    one result set per PayPeriod, replaced as a whole
  RulesStore:      the single rules document

NOT FOUND:
  Single-record getters return (nil, nil) when the key is absent. Callers
  decide whether absence is an error.

CONCURRENCY:
  Implementations are safe for concurrent use by one process, but there is
  no cross-process locking. Two writers racing on the same table lose one
  write silently.

IMPLEMENTATIONS:
  - store/csvstore: flat CSV files, whole-file replace
  - store/sqlite: indexed SQLite tables
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - records.go: The record types stored here
  - store/store.go: Open() selects an implementation
*/
package generic

import "context"

// =============================================================================
// TABLE STORES
// =============================================================================

type EmployeeStore interface {
	// SaveEmployees upserts every employee by code in one write.
	SaveEmployees(ctx context.Context, employees []Employee) error

	// GetEmployee returns nil, nil when the code is unknown.
	GetEmployee(ctx context.Context, code EmployeeCode) (*Employee, error)

	// ListEmployees returns all employees ordered by code.
	ListEmployees(ctx context.Context) ([]Employee, error)
}

type AttendanceStore interface {
	// SaveAttendance upserts every record by (code, date) in one write.
	SaveAttendance(ctx context.Context, records []AttendanceRecord) error

	// GetAttendance returns nil, nil when no row exists for the key.
	GetAttendance(ctx context.Context, key AttendanceKey) (*AttendanceRecord, error)

	// ListAttendance returns rows dated within the period, ordered by code then date.
	ListAttendance(ctx context.Context, period Period) ([]AttendanceRecord, error)
}

type LeaveStore interface {
	// SaveLeave upserts one application by its key.
	SaveLeave(ctx context.Context, leave LeaveRecord) error

	// ListLeaves returns every application ordered by applied date, then code.
	ListLeaves(ctx context.Context) ([]LeaveRecord, error)
}

type PayrollStore interface {
	// SavePayroll replaces the whole result set of a period.
	SavePayroll(ctx context.Context, period PayPeriod, results []PayrollResult) error

	// GetPayroll returns found=false when the period was never run.
	GetPayroll(ctx context.Context, period PayPeriod) (results []PayrollResult, found bool, err error)

	// ListPayrollPeriods returns every stored period, oldest first.
	ListPayrollPeriods(ctx context.Context) ([]PayPeriod, error)
}

type RulesStore interface {
	// LoadRulesDocument returns nil, nil when no document was ever saved.
	LoadRulesDocument(ctx context.Context) ([]byte, error)

	// SaveRulesDocument replaces the stored document. Callers validate first.
	SaveRulesDocument(ctx context.Context, doc []byte) error
}

// Store is everything the services need.
type Store interface {
	EmployeeStore
	AttendanceStore
	LeaveStore
	PayrollStore
	RulesStore
	Close() error
}
