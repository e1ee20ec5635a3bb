/*
Package payroll computes monthly pay from salary structure and attendance.

PURPOSE:
  Calculate turns one employee's salary structure, present days, working
  days and overtime hours into a PayrollResult: prorated earnings, overtime
  pay, PF and ESIC contributions on both sides, and net pay. RunPeriod does
  that for every active employee of a month.

PRORATION:
  ratio = present_days / working_days (0 when there are no working days).
  Every earned component is the monthly value times the ratio.

OVERTIME:
  hourly rate = base / (26 * 8), a fixed standard-month divisor that does not
  depend on the period's real working-day count.
  pay = hourly rate * hours * multiplier.

PF:
  base = earned basic, or earned gross for any other configured base.
  With the cap on, base = min(base, 15000 * ratio); the cap is prorated too.

ESIC:
  Eligibility compares the UNPRORATED gross with the ceiling, while the
  contribution is a percentage of the EARNED gross. Both are kept as is.

ROUNDING:
  Contributions are rounded to two places before they are summed into
  deductions; net pay is rounded after. Round2 rounds half away from zero.

SEE ALSO:
  - generic/records.go: PayrollResult
  - service/payroll.go: Persistence and payslips
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

var (
	standardMonthHours = decimal.NewFromInt(26 * 8)
	pfWageCap          = decimal.NewFromInt(15000)
	hundred            = decimal.NewFromInt(100)
)

// Input is everything Calculate needs about one employee and one month.
type Input struct {
	Employee      generic.Employee
	PresentDays   int
	WorkingDays   int
	OvertimeHours decimal.Decimal
}

// AttendanceRatio is present/working, or zero when working is not positive.
func AttendanceRatio(present, working int) decimal.Decimal {
	if working <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).Div(decimal.NewFromInt(int64(working)))
}

// Calculate is deterministic: identical input and rules give identical output.
func Calculate(in Input, rules *generic.Rules) generic.PayrollResult {
	salary := in.Employee.Salary
	gross := salary.Gross()
	ratio := AttendanceRatio(in.PresentDays, in.WorkingDays)

	earnedBasic := salary.Basic.Mul(ratio)
	earnedGross := gross.Mul(ratio)

	overtimeHours := in.OvertimeHours
	otPay := decimal.Zero
	if rules.Overtime.Enabled && overtimeHours.IsPositive() {
		base := earnedGross
		if rules.Overtime.Base.UsesBasic() {
			base = earnedBasic
		}
		hourly := base.Div(standardMonthHours)
		otPay = hourly.Mul(overtimeHours).Mul(rules.Overtime.Multiplier)
	}

	pfEmployee, pfEmployer, eps := decimal.Zero, decimal.Zero, decimal.Zero
	if rules.PF.Enabled && in.Employee.PFApplicable {
		base := earnedGross
		if rules.PF.Base.UsesBasic() {
			base = earnedBasic
		}
		if rules.PF.CapAt15000 {
			base = decimal.Min(base, pfWageCap.Mul(ratio))
		}
		pfEmployee = percentOf(base, rules.PF.EmployeePercent)
		pfEmployer = percentOf(base, rules.PF.EmployerPercent)
		eps = percentOf(base, rules.PF.EPSPercent)
	}

	esicEmployee, esicEmployer := decimal.Zero, decimal.Zero
	if rules.ESIC.Enabled && in.Employee.ESICApplicable && gross.LessThanOrEqual(rules.ESIC.WageCeiling) {
		esicEmployee = percentOf(earnedGross, rules.ESIC.EmployeePercent)
		esicEmployer = percentOf(earnedGross, rules.ESIC.EmployerPercent)
	}

	deductions := pfEmployee.Add(esicEmployee)
	net := generic.Round2(earnedGross.Add(otPay).Sub(deductions))

	return generic.PayrollResult{
		Code:             in.Employee.Code,
		Name:             in.Employee.Name,
		PresentDays:      in.PresentDays,
		GrossSalary:      generic.Round2(gross),
		EarnedBasic:      generic.Round2(earnedBasic),
		EarnedHRA:        generic.Round2(salary.HRA.Mul(ratio)),
		EarnedConveyance: generic.Round2(salary.Conveyance.Mul(ratio)),
		EarnedSpecial:    generic.Round2(salary.Special.Mul(ratio)),
		EarnedMedical:    generic.Round2(salary.Medical.Mul(ratio)),
		EarnedFood:       generic.Round2(salary.Food.Mul(ratio)),
		EarnedGross:      generic.Round2(earnedGross),
		OvertimeHours:    generic.Round2(overtimeHours),
		OvertimePay:      generic.Round2(otPay),
		PFEmployee:       pfEmployee,
		PFEmployer:       pfEmployer,
		EPS:              eps,
		ESICEmployee:     esicEmployee,
		ESICEmployer:     esicEmployer,
		TotalDeductions:  generic.Round2(deductions),
		NetPay:           net,
	}
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return generic.Round2(base.Mul(percent).Div(hundred))
}
