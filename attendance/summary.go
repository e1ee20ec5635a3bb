package attendance

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// Summary aggregates one employee's rows over a period.
type Summary struct {
	Code           generic.EmployeeCode
	Name           string
	PresentDays    int
	AbsentDays     int
	MissingPunches int
	LateEntries    int
	WorkingHours   decimal.Decimal
	OvertimeHours  decimal.Decimal
	LateMinutes    int
	EarlyMinutes   int
}

// Summarize groups rows by employee. Present counts only "Present" rows, the
// same rule payroll uses; absent counts both plain and sandwich absences.
func Summarize(rows []generic.AttendanceRecord) []Summary {
	byCode := make(map[generic.EmployeeCode]*Summary)
	for _, r := range rows {
		s, ok := byCode[r.Code]
		if !ok {
			s = &Summary{Code: r.Code, Name: r.Name, WorkingHours: decimal.Zero, OvertimeHours: decimal.Zero}
			byCode[r.Code] = s
		}
		switch {
		case r.Status == generic.StatusPresent:
			s.PresentDays++
		case r.Status.Category() == generic.CategoryAbsent:
			s.AbsentDays++
		case r.Status.IsMissingPunch():
			s.MissingPunches++
		}
		if r.LateEntryMinutes > 0 {
			s.LateEntries++
		}
		s.WorkingHours = s.WorkingHours.Add(r.WorkingHours)
		s.OvertimeHours = s.OvertimeHours.Add(r.OvertimeHours)
		s.LateMinutes += r.LateEntryMinutes
		s.EarlyMinutes += r.EarlyGoingMinutes
	}

	result := make([]Summary, 0, len(byCode))
	for _, s := range byCode {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}
