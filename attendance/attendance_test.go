package attendance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/generic"
)

func march(day int) generic.Date { return generic.NewDate(2026, time.March, day) }

func row(day int, status generic.AttendanceStatus) generic.AttendanceRecord {
	return generic.AttendanceRecord{Code: "E001", Date: march(day), Status: status}
}

// =============================================================================
// CLOCK PARSING
// =============================================================================

func TestParseTime(t *testing.T) {
	tests := []struct {
		in     string
		want   attendance.Clock
		wantOK bool
	}{
		{"09:00", attendance.Clock{Hour: 9}, true},
		{" 18:30:15 ", attendance.Clock{Hour: 18, Minute: 30, Second: 15}, true},
		{"9:05 pm", attendance.Clock{Hour: 21, Minute: 5}, true},
		{"12:00AM", attendance.Clock{}, true},
		{"9:5", attendance.Clock{Hour: 9, Minute: 5}, true},
		{"9:5:7 pm", attendance.Clock{}, false},
		{"7:5 pm", attendance.Clock{Hour: 19, Minute: 5}, true},
		{"18:60", attendance.Clock{}, false},
		{"00:00", attendance.Clock{}, true},
		{"", attendance.Clock{}, false},
		{"25:00", attendance.Clock{}, false},
		{"late", attendance.Clock{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := attendance.ParseTime(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// DAY CALCULATION
// =============================================================================

func TestCalculate_FixedShift(t *testing.T) {
	rules := factory.DefaultRules()

	tests := []struct {
		name      string
		in, out   string
		hours     string
		overtime  string
		late      int
		early     int
		wantState generic.AttendanceStatus
	}{
		{"on time", "09:00", "18:00", "9", "0", 0, 0, generic.StatusPresent},
		{"within grace", "09:05", "18:00", "8.92", "0", 0, 0, generic.StatusPresent},
		{"late and overtime", "09:10", "19:00", "9.83", "1", 10, 0, generic.StatusPresent},
		{"below overtime threshold", "09:00", "18:30", "9.5", "0", 0, 0, generic.StatusPresent},
		{"early going", "09:00", "17:30", "8.5", "0", 0, 30, generic.StatusPresent},
		{"missing out", "09:00", "", "0", "0", 0, 0, generic.StatusMissingOutPunch},
		{"missing in", "", "18:00", "0", "0", 0, 0, generic.StatusMissingInPunch},
		{"missing both", "", "??", "0", "0", 0, 0, generic.StatusMissingPunch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := attendance.Calculate(tt.in, tt.out, "Morning 9-6", rules)

			assert.Equal(t, tt.wantState, res.Status)
			assert.True(t, res.WorkingHours.Equal(decimal.RequireFromString(tt.hours)), "hours = %s", res.WorkingHours)
			assert.True(t, res.OvertimeHours.Equal(decimal.RequireFromString(tt.overtime)), "overtime = %s", res.OvertimeHours)
			assert.Equal(t, tt.late, res.LateEntryMinutes)
			assert.Equal(t, tt.early, res.EarlyGoingMinutes)
		})
	}
}

func TestCalculate_OpenShiftOvernight(t *testing.T) {
	// GIVEN: A night worker on the open shift
	rules := factory.DefaultRules()

	// WHEN: The out punch is on the next calendar day
	res := attendance.Calculate("22:00", "06:00", generic.OpenShiftName, rules)

	// THEN: Only elapsed time counts
	assert.Equal(t, generic.StatusPresent, res.Status)
	assert.True(t, res.WorkingHours.Equal(decimal.NewFromInt(8)))
	assert.True(t, res.OvertimeHours.IsZero())
	assert.Zero(t, res.LateEntryMinutes)
	assert.Zero(t, res.EarlyGoingMinutes)
}

func TestResolveShift(t *testing.T) {
	rules := factory.DefaultRules()

	s := attendance.ResolveShift("Late 10-6:30", rules)
	assert.False(t, s.Open)
	assert.Equal(t, 600, s.StartMinute)
	assert.Equal(t, 1110, s.EndMinute)

	assert.True(t, attendance.ResolveShift("Graveyard", rules).Open)
	assert.True(t, attendance.ResolveShift("morning 9-6", rules).Open, "names match exactly")

	emp := generic.Employee{Shift: "Morning 9-6", OpenShift: true}
	assert.True(t, attendance.ResolveEmployeeShift(emp, rules).Open)
}

// =============================================================================
// SANDWICH RULE
// =============================================================================

func TestApplySandwichRule_ReclassifiesFlankedWeekOff(t *testing.T) {
	// GIVEN: Sunday Mar 8 sits between two absences, rows out of order
	rules := factory.DefaultRules()
	rows := []generic.AttendanceRecord{
		row(10, generic.StatusPresent),
		row(8, generic.StatusWeekOff),
		row(6, generic.StatusPresent),
		row(9, generic.StatusAbsent),
		row(7, generic.StatusAbsent),
	}

	// WHEN
	out := attendance.ApplySandwichRule(rows, rules)

	// THEN: Rows come back sorted and the week-off is an absence
	require.Len(t, out, 5)
	for i, day := range []int{6, 7, 8, 9, 10} {
		assert.Equal(t, march(day), out[i].Date)
	}
	assert.Equal(t, generic.StatusSandwichAbsent, out[2].Status)
	assert.Equal(t, attendance.SandwichRemark, out[2].Remarks)

	// AND: Both weeks have one Present day, below the minimum of three
	assert.Equal(t, attendance.LowWeekMarker, out[0].Remarks)
	assert.Equal(t, attendance.LowWeekMarker, out[4].Remarks)

	// AND: The input is untouched
	assert.Equal(t, generic.StatusWeekOff, rows[1].Status)
}

func TestApplySandwichRule_EdgesAndFullWeeks(t *testing.T) {
	rules := factory.DefaultRules()

	t.Run("first and last rows keep their status", func(t *testing.T) {
		rows := []generic.AttendanceRecord{
			row(1, generic.StatusWeekOff),
			row(2, generic.StatusAbsent),
			row(7, generic.StatusAbsent),
			row(8, generic.StatusWeekOff),
		}
		out := attendance.ApplySandwichRule(rows, rules)
		assert.Equal(t, generic.StatusWeekOff, out[0].Status)
		assert.Equal(t, generic.StatusWeekOff, out[3].Status)
	})

	t.Run("a week-off next to a Present day is untouched", func(t *testing.T) {
		sides := map[string][2]generic.AttendanceStatus{
			"absent before, present after": {generic.StatusAbsent, generic.StatusPresent},
			"present before, absent after": {generic.StatusPresent, generic.StatusAbsent},
		}
		for name, side := range sides {
			t.Run(name, func(t *testing.T) {
				rows := []generic.AttendanceRecord{
					row(6, generic.StatusAbsent),
					row(7, side[0]),
					row(8, generic.StatusWeekOff),
					row(9, side[1]),
					row(10, generic.StatusAbsent),
				}
				out := attendance.ApplySandwichRule(rows, rules)
				assert.Equal(t, generic.StatusWeekOff, out[2].Status)
				assert.Empty(t, out[2].Remarks)
			})
		}
	})

	t.Run("a week meeting the minimum is not marked", func(t *testing.T) {
		rows := []generic.AttendanceRecord{
			row(2, generic.StatusPresent),
			row(3, generic.StatusPresent),
			{Code: "E001", Date: march(4), Status: generic.StatusPresent, Remarks: "manual"},
		}
		out := attendance.ApplySandwichRule(rows, rules)
		for _, r := range out {
			assert.NotContains(t, r.Remarks, attendance.LowWeekMarker)
		}
		assert.Equal(t, "manual", out[2].Remarks)
	})

	t.Run("marker is appended after existing remarks", func(t *testing.T) {
		rows := []generic.AttendanceRecord{
			{Code: "E001", Date: march(2), Status: generic.StatusPresent, Remarks: "fixed"},
		}
		out := attendance.ApplySandwichRule(rows, rules)
		assert.Equal(t, "fixed | "+attendance.LowWeekMarker, out[0].Remarks)
	})

	t.Run("disabled rule returns input", func(t *testing.T) {
		off := factory.DefaultRules()
		off.Attendance.SandwichRule = false
		rows := []generic.AttendanceRecord{
			row(7, generic.StatusAbsent),
			row(8, generic.StatusWeekOff),
			row(9, generic.StatusAbsent),
		}
		out := attendance.ApplySandwichRule(rows, off)
		assert.Equal(t, rows, out)
	})
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize(t *testing.T) {
	rows := []generic.AttendanceRecord{
		{Code: "E002", Date: march(2), Status: generic.StatusPresent, WorkingHours: decimal.NewFromInt(8)},
		{Code: "E001", Date: march(2), Status: generic.StatusPresent, WorkingHours: decimal.NewFromInt(9),
			OvertimeHours: decimal.NewFromInt(1), LateEntryMinutes: 12},
		{Code: "E001", Date: march(3), Status: generic.StatusAbsent},
		{Code: "E001", Date: march(8), Status: generic.StatusSandwichAbsent},
		{Code: "E001", Date: march(9), Status: generic.StatusMissingOutPunch},
		{Code: "E001", Date: march(10), Status: generic.StatusHalfDay, EarlyGoingMinutes: 240},
	}

	got := attendance.Summarize(rows)

	require.Len(t, got, 2)
	e1 := got[0]
	assert.Equal(t, generic.EmployeeCode("E001"), e1.Code)
	assert.Equal(t, 1, e1.PresentDays)
	assert.Equal(t, 2, e1.AbsentDays)
	assert.Equal(t, 1, e1.MissingPunches)
	assert.Equal(t, 1, e1.LateEntries)
	assert.Equal(t, 12, e1.LateMinutes)
	assert.Equal(t, 240, e1.EarlyMinutes)
	assert.True(t, e1.WorkingHours.Equal(decimal.NewFromInt(9)))
	assert.True(t, e1.OvertimeHours.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 1, got[1].PresentDays)
}
