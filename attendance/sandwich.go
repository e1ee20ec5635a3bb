package attendance

import (
	"sort"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// SANDWICH RULE - Week-offs flanked by absences count as absences
// =============================================================================

const (
	SandwichRemark = "Sandwich Rule Applied"
	LowWeekMarker  = "Low Week Attendance"
	remarkSep      = " | "
)

// ApplySandwichRule post-processes one employee's rows. It returns the rows
// sorted by date with two passes applied:
//
//  1. A week-off row whose previous and next rows are both Absent becomes
//     "Absent (Sandwich)". The first and last rows have only one neighbor
//     and are never reclassified.
//  2. Per ISO week, when fewer than MinDaysPerWeek non-week-off rows are
//     Present, each of those Present rows gets the low-week marker appended
//     to its remarks. Status is not changed.
//
// The marker is appended unconditionally: running the rule again over rows
// that already carry it appends it a second time.
//
// With the rule disabled the input is returned untouched.
func ApplySandwichRule(rows []generic.AttendanceRecord, rules *generic.Rules) []generic.AttendanceRecord {
	if !rules.Attendance.SandwichRule {
		return rows
	}

	out := make([]generic.AttendanceRecord, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	weekOff := rules.Attendance.WeekOff
	for i := 1; i < len(out)-1; i++ {
		if out[i].Day() != weekOff {
			continue
		}
		if out[i-1].Status == generic.StatusAbsent && out[i+1].Status == generic.StatusAbsent {
			out[i].Status = generic.StatusSandwichAbsent
			out[i].Remarks = SandwichRemark
		}
	}

	type isoWeek struct{ year, week int }
	present := make(map[isoWeek][]int)
	var order []isoWeek
	for i, r := range out {
		y, w := r.Date.ISOWeek()
		k := isoWeek{y, w}
		if _, seen := present[k]; !seen {
			present[k] = nil
			order = append(order, k)
		}
		if r.Day() != weekOff && r.Status == generic.StatusPresent {
			present[k] = append(present[k], i)
		}
	}
	for _, k := range order {
		idx := present[k]
		if len(idx) >= rules.Attendance.MinDaysPerWeek {
			continue
		}
		for _, i := range idx {
			out[i].Remarks = AppendRemark(out[i].Remarks, LowWeekMarker)
		}
	}
	return out
}

// AppendRemark joins remarks with " | ".
func AppendRemark(remarks, note string) string {
	if remarks == "" {
		return note
	}
	return remarks + remarkSep + note
}
