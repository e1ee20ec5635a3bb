/*
Package leave tracks PL/CL/SL applications and yearly balances.

PURPOSE:
  Balances answers "how many days of each leave type does this employee
  have left this year". RequestService owns the application lifecycle.

BALANCE:
  entitled = configured annual days for the type
  taken    = sum of days over the employee's Approved applications of that
             type whose from-date falls in the year
  balance  = max(0, entitled - taken)

  Pending and Rejected applications never reduce a balance. An application
  crossing a year boundary counts entirely in the year it starts.

LIFECYCLE:
  Pending ──► Approved
     └──────► Rejected

  Both transitions are one-way. A Rejected application may be replaced by a
  new application with the same key; a Pending or Approved one may not.

SEE ALSO:
  - request.go: Apply, Approve, Reject
  - generic/records.go: LeaveRecord and its derived ID
*/
package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// Balance is one leave type's position for one employee-year.
type Balance struct {
	Type     generic.LeaveType
	Entitled generic.Amount
	Taken    generic.Amount
	Balance  generic.Amount
}

// Balances returns one entry per leave type, in generic.LeaveTypes order.
// Types missing from the rules are entitled to zero days.
func Balances(code generic.EmployeeCode, year int, rules *generic.Rules, records []generic.LeaveRecord) []Balance {
	taken := make(map[generic.LeaveType]decimal.Decimal, len(generic.LeaveTypes))
	for _, r := range records {
		if r.Code != code || r.Status != generic.LeaveApproved || r.From.Year() != year {
			continue
		}
		taken[r.Type] = taken[r.Type].Add(r.Days)
	}

	out := make([]Balance, 0, len(generic.LeaveTypes))
	for _, lt := range generic.LeaveTypes {
		entitled := generic.Amount{Value: rules.Leave[lt].Annual, Unit: generic.UnitDays}
		used := generic.Amount{Value: taken[lt], Unit: generic.UnitDays}
		out = append(out, Balance{
			Type:     lt,
			Entitled: entitled,
			Taken:    used,
			Balance:  entitled.Sub(used).Max(entitled.Zero()),
		})
	}
	return out
}

// InclusiveDays counts calendar days from..to, both ends included.
func InclusiveDays(from, to generic.Date) int {
	return generic.DaysBetween(from, to) + 1
}
