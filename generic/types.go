/*
Package generic provides the core data model of the payroll engine.

PURPOSE:
  This package holds the types every other package shares: employees,
  attendance rows, leave applications, payroll results, the validated rule
  set, calendar helpers, errors and the store interfaces. It contains no
  calculation logic beyond small value helpers.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 5 days, 8.5 hours, 12000 rupees)
  - EmployeeCode: The normalized identity key of an employee
  - Round2: The single rounding rule used for money and hours

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Statuses and leave types are typed, not bare strings
  3. Boundary Parsing: Lenient string parsing lives in tabular/, never here

USAGE:
  taken := generic.NewAmount(2.5, generic.UnitDays)
  pay := generic.Round2(hourly.Mul(hours))

SEE ALSO:
  - records.go: Employee, AttendanceRecord, LeaveRecord, PayrollResult
  - status.go: Attendance status enumeration
  - rules.go: Validated rule configuration
*/
package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays    Unit = "days"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitRupees  Unit = "INR"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// Round2 rounds half away from zero to two places.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Sum adds values left to right.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeCode is the unique employee key ("ecode"). Always upper-case and
// trimmed; use NormalizeCode on anything that came from outside.
type EmployeeCode string

func NormalizeCode(s string) EmployeeCode {
	return EmployeeCode(strings.ToUpper(strings.TrimSpace(s)))
}

func (c EmployeeCode) String() string { return string(c) }
