package attendance

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// CALCULATOR - One punch pair -> one day's figures
// =============================================================================

const minutesPerDay = 24 * 60

var sixty = decimal.NewFromInt(60)

// Result is the computed part of an attendance row. All numbers are >= 0.
type Result struct {
	WorkingHours      decimal.Decimal
	OvertimeHours     decimal.Decimal
	LateEntryMinutes  int
	EarlyGoingMinutes int
	Status            generic.AttendanceStatus
}

// Calculator holds the tolerances it measures punches with.
type Calculator struct {
	GraceMinutes             int
	OvertimeThresholdMinutes int
}

func NewCalculator(rules *generic.Rules) *Calculator {
	return &Calculator{
		GraceMinutes:             rules.Shifts.GraceMinutes,
		OvertimeThresholdMinutes: rules.Shifts.OvertimeThresholdMinutes,
	}
}

// Calculate resolves the shift by name and computes the day.
func Calculate(in, out, shiftName string, rules *generic.Rules) Result {
	return NewCalculator(rules).Compute(in, out, ResolveShift(shiftName, rules))
}

// Compute classifies missing punches first; a day with both punches is
// always Present whatever its lateness or overtime.
func (c *Calculator) Compute(in, out string, shift Shift) Result {
	inClock, inOK := ParseTime(in)
	outClock, outOK := ParseTime(out)

	switch {
	case !inOK && !outOK:
		return missing(generic.StatusMissingPunch)
	case !inOK:
		return missing(generic.StatusMissingInPunch)
	case !outOK:
		return missing(generic.StatusMissingOutPunch)
	}

	inMins := inClock.Minutes()
	outMins := outClock.Minutes()
	if outMins < inMins {
		// Out punch belongs to the next calendar day.
		outMins += minutesPerDay
	}

	res := Result{
		WorkingHours:  hours(outMins - inMins),
		OvertimeHours: decimal.Zero,
		Status:        generic.StatusPresent,
	}
	if shift.Open {
		return res
	}

	if inMins > shift.StartMinute+c.GraceMinutes {
		res.LateEntryMinutes = inMins - shift.StartMinute
	}
	if outMins < shift.EndMinute {
		res.EarlyGoingMinutes = shift.EndMinute - outMins
	}
	if outMins > shift.EndMinute+c.OvertimeThresholdMinutes {
		res.OvertimeHours = hours(outMins - shift.EndMinute)
	}
	return res
}

func missing(status generic.AttendanceStatus) Result {
	return Result{
		WorkingHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
		Status:        status,
	}
}

func hours(minutes int) decimal.Decimal {
	return generic.Round2(decimal.NewFromInt(int64(minutes)).Div(sixty))
}

// Apply copies the computed figures onto a row.
func (r Result) Apply(rec *generic.AttendanceRecord) {
	rec.WorkingHours = r.WorkingHours
	rec.OvertimeHours = r.OvertimeHours
	rec.LateEntryMinutes = r.LateEntryMinutes
	rec.EarlyGoingMinutes = r.EarlyGoingMinutes
	rec.Status = r.Status
}
