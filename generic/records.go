package generic

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
)

// ParseEmployeeStatus maps "active" (any case) and blank to Active; every
// other label is Inactive.
func ParseEmployeeStatus(s string) EmployeeStatus {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(EmployeeActive)) {
		return EmployeeActive
	}
	return EmployeeInactive
}

// SalaryStructure is the fixed monthly salary split. Every component is
// non-negative; the import boundary coerces anything else to zero.
type SalaryStructure struct {
	Basic      decimal.Decimal
	HRA        decimal.Decimal
	Conveyance decimal.Decimal
	Special    decimal.Decimal
	Medical    decimal.Decimal
	Food       decimal.Decimal
}

// Gross is the unprorated monthly total of all six components.
func (s SalaryStructure) Gross() decimal.Decimal {
	return Sum(s.Basic, s.HRA, s.Conveyance, s.Special, s.Medical, s.Food)
}

type Employee struct {
	Code        EmployeeCode
	Name        string
	Department  string
	Designation string

	// Personal
	DateOfJoining   string
	DateOfBirth     string
	Gender          string
	Mobile          string
	Email           string
	Address         string
	FatherName      string
	MotherName      string
	SpouseName      string
	NomineeName     string
	NomineeRelation string
	NomineeDOB      string

	// Bank and statutory identifiers
	BankName  string
	AccountNo string
	IFSC      string
	UAN       string
	PFNo      string
	ESICNo    string

	// Shift assignment: a configured shift name, or OpenShift for
	// boundary-less working hours.
	Shift     string
	OpenShift bool

	Salary         SalaryStructure
	PFApplicable   bool
	ESICApplicable bool

	Status   EmployeeStatus
	ExitDate string
}

func (e Employee) IsActive() bool { return e.Status == EmployeeActive }

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceKey identifies one employee on one day.
type AttendanceKey struct {
	Code EmployeeCode
	Date Date
}

type AttendanceRecord struct {
	Code              EmployeeCode
	Name              string
	Date              Date
	Shift             string
	InTime            string // raw punch as received
	OutTime           string
	WorkingHours      decimal.Decimal
	OvertimeHours     decimal.Decimal
	EarlyGoingMinutes int
	LateEntryMinutes  int
	Status            AttendanceStatus
	Remarks           string
}

func (r AttendanceRecord) Key() AttendanceKey { return AttendanceKey{Code: r.Code, Date: r.Date} }

// Day is the weekday name of the record's date ("Monday").
func (r AttendanceRecord) Day() string { return r.Date.WeekdayName() }

// =============================================================================
// LEAVE
// =============================================================================

type LeaveType string

const (
	LeavePL LeaveType = "PL"
	LeaveCL LeaveType = "CL"
	LeaveSL LeaveType = "SL"
)

// LeaveTypes lists the tracked leave categories in display order.
var LeaveTypes = []LeaveType{LeavePL, LeaveCL, LeaveSL}

func ParseLeaveType(s string) (LeaveType, bool) {
	t := LeaveType(strings.ToUpper(strings.TrimSpace(s)))
	for _, lt := range LeaveTypes {
		if t == lt {
			return t, true
		}
	}
	return "", false
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// LeaveKey is the natural key of an application.
type LeaveKey struct {
	Code EmployeeCode
	Type LeaveType
	From Date
	To   Date
}

var leaveNamespace = uuid.MustParse("8f0d3c5e-5a8e-4c39-9a57-3f1f4e2b7c10")

// ID derives a stable identifier from the key, so the stored column set
// needs no id column.
func (k LeaveKey) ID() string {
	return uuid.NewSHA1(leaveNamespace, []byte(string(k.Code)+"|"+string(k.Type)+"|"+k.From.String()+"|"+k.To.String())).String()
}

type LeaveRecord struct {
	Code      EmployeeCode
	Name      string
	Type      LeaveType
	From      Date
	To        Date
	Days      decimal.Decimal
	Reason    string
	Status    LeaveStatus
	AppliedOn Date
}

func (l LeaveRecord) Key() LeaveKey {
	return LeaveKey{Code: l.Code, Type: l.Type, From: l.From, To: l.To}
}

func (l LeaveRecord) ID() string { return l.Key().ID() }

// =============================================================================
// PAYROLL
// =============================================================================

// PayrollResult is one employee's computed pay for one PayPeriod. Money
// fields are rounded to two places.
type PayrollResult struct {
	Code             EmployeeCode
	Name             string
	PresentDays      int
	GrossSalary      decimal.Decimal
	EarnedBasic      decimal.Decimal
	EarnedHRA        decimal.Decimal
	EarnedConveyance decimal.Decimal
	EarnedSpecial    decimal.Decimal
	EarnedMedical    decimal.Decimal
	EarnedFood       decimal.Decimal
	EarnedGross      decimal.Decimal
	OvertimeHours    decimal.Decimal
	OvertimePay      decimal.Decimal
	PFEmployee       decimal.Decimal
	PFEmployer       decimal.Decimal
	EPS              decimal.Decimal
	ESICEmployee     decimal.Decimal
	ESICEmployer     decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal
}
