package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// PERIOD RUN - Every active employee for one month
// =============================================================================

// MonthAttendance is what payroll reads from a month of attendance rows.
type MonthAttendance struct {
	PresentDays   int
	OvertimeHours decimal.Decimal
}

// AggregateAttendance counts "Present" rows and sums overtime per employee.
// Half days, leave and week-offs are not present days.
func AggregateAttendance(rows []generic.AttendanceRecord) map[generic.EmployeeCode]MonthAttendance {
	agg := make(map[generic.EmployeeCode]MonthAttendance)
	for _, r := range rows {
		a := agg[r.Code]
		if r.Status == generic.StatusPresent {
			a.PresentDays++
		}
		a.OvertimeHours = a.OvertimeHours.Add(r.OvertimeHours)
		agg[r.Code] = a
	}
	return agg
}

// Totals summarizes a result set.
type Totals struct {
	Employees   int
	Gross       decimal.Decimal
	PFEmployee  decimal.Decimal
	PFEmployer  decimal.Decimal
	OvertimePay decimal.Decimal
	Deductions  decimal.Decimal
	NetPay      decimal.Decimal
}

func Summarize(results []generic.PayrollResult) Totals {
	t := Totals{Employees: len(results)}
	for _, r := range results {
		t.Gross = t.Gross.Add(r.EarnedGross)
		t.PFEmployee = t.PFEmployee.Add(r.PFEmployee)
		t.PFEmployer = t.PFEmployer.Add(r.PFEmployer)
		t.OvertimePay = t.OvertimePay.Add(r.OvertimePay)
		t.Deductions = t.Deductions.Add(r.TotalDeductions)
		t.NetPay = t.NetPay.Add(r.NetPay)
	}
	return t
}

// Run is a computed, not yet persisted, month of payroll.
type Run struct {
	Period      generic.PayPeriod
	WorkingDays int
	Results     []generic.PayrollResult
	Totals      Totals
}

// RunPeriod computes every active employee. monthRows must already be
// limited to the period. It fails before computing anything when there are
// no employees or no attendance rows at all.
func RunPeriod(period generic.PayPeriod, employees []generic.Employee, monthRows []generic.AttendanceRecord, rules *generic.Rules) (*Run, error) {
	if len(employees) == 0 {
		return nil, generic.ErrNoEmployees
	}
	if len(monthRows) == 0 {
		return nil, generic.ErrNoAttendance
	}

	workingDays := period.Period().WorkingDays(rules.Attendance.WeekOff)
	agg := AggregateAttendance(monthRows)

	results := make([]generic.PayrollResult, 0, len(employees))
	for _, emp := range employees {
		if !emp.IsActive() {
			continue
		}
		a := agg[emp.Code]
		results = append(results, Calculate(Input{
			Employee:      emp,
			PresentDays:   a.PresentDays,
			WorkingDays:   workingDays,
			OvertimeHours: a.OvertimeHours,
		}, rules))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })

	return &Run{
		Period:      period,
		WorkingDays: workingDays,
		Results:     results,
		Totals:      Summarize(results),
	}, nil
}
