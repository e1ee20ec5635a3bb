package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/generic/store"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/service"
	"github.com/warp/payroll-engine/tabular"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// March 2026 starts on a Sunday: five Sundays, 26 working days.
func march(day int) generic.Date { return generic.NewDate(2026, time.March, day) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var march2026 = generic.PayPeriod{Year: 2026, Month: time.March}

func seedEmployees() []generic.Employee {
	return []generic.Employee{
		{
			Code: "E001", Name: "Asha Rao", Department: "Ops", Shift: "Morning 9-6",
			BankName: "State Bank", AccountNo: "001122", UAN: "100200300",
			Salary: generic.SalaryStructure{
				Basic: dec("20000"), HRA: dec("8000"), Conveyance: dec("1600"), Special: dec("5000"),
			},
			PFApplicable: true, Status: generic.EmployeeActive,
		},
		{
			Code: "E002", Name: "Ravi Kumar", Department: "Sales", OpenShift: true,
			Salary: generic.SalaryStructure{Basic: dec("10000")},
			Status: generic.EmployeeActive,
		},
		{
			Code: "E003", Name: "Old Hand", Department: "Ops", Shift: "Morning 9-6",
			Salary: generic.SalaryStructure{Basic: dec("15000")},
			Status: generic.EmployeeInactive,
		},
	}
}

func newService(t *testing.T, seed bool) (*service.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if seed {
		require.NoError(t, mem.SaveEmployees(context.Background(), seedEmployees()))
	}
	clock := func() time.Time { return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC) }
	return service.New(mem, service.WithClock(clock)), mem
}

func present(code generic.EmployeeCode, d generic.Date) generic.AttendanceRecord {
	return generic.AttendanceRecord{
		Code: code, Date: d, InTime: "09:00", OutTime: "18:00",
		WorkingHours: dec("9"), OvertimeHours: decimal.Zero, Status: generic.StatusPresent,
	}
}

// seedHalfMonth marks E001 Present on 13 of March's 26 working days.
func seedHalfMonth(t *testing.T, mem *store.Memory) {
	t.Helper()
	var rows []generic.AttendanceRecord
	for _, d := range []int{2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 13, 14, 16} {
		rows = append(rows, present("E001", march(d)))
	}
	require.NoError(t, mem.SaveAttendance(context.Background(), rows))
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestSaveEmployee_NormalizesAndValidates(t *testing.T) {
	svc, _ := newService(t, false)
	ctx := context.Background()

	emp, err := svc.SaveEmployee(ctx, service.EmployeeInput{Code: " e020 ", Name: "Kiran", Basic: dec("12000")})
	require.NoError(t, err)
	assert.Equal(t, generic.EmployeeCode("E020"), emp.Code)
	assert.Equal(t, generic.EmployeeActive, emp.Status)
	assert.True(t, emp.PFApplicable, "PF applies unless turned off")
	assert.False(t, emp.ESICApplicable)

	off := false
	emp, err = svc.SaveEmployee(ctx, service.EmployeeInput{Code: "E024", Name: "Meera", PFApplicable: &off})
	require.NoError(t, err)
	assert.False(t, emp.PFApplicable)

	_, err = svc.SaveEmployee(ctx, service.EmployeeInput{Code: "E021", Name: "Kiran", Basic: dec("-1")})
	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "basic", verr.Field)

	_, err = svc.SaveEmployee(ctx, service.EmployeeInput{Code: "E022"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = svc.SaveEmployee(ctx, service.EmployeeInput{Code: "E023", Name: "X", Email: "not-an-email"})
	assert.True(t, generic.IsClientError(err))

	_, err = svc.GetEmployee(ctx, "E404")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}

func TestListEmployees_Filters(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	got, err := svc.ListEmployees(ctx, service.EmployeeFilter{Search: "asha"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, generic.EmployeeCode("E001"), got[0].Code)

	got, err = svc.ListEmployees(ctx, service.EmployeeFilter{Department: "ops", Status: generic.EmployeeActive})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.ListEmployees(ctx, service.EmployeeFilter{Search: "e00"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestImportEmployees_SkipsIncompleteRows(t *testing.T) {
	// GIVEN: An upload without a pf_applicable column, one good row and two
	//        rows missing ecode or name
	// WHEN: Importing
	// THEN: One imported, two skipped, PF defaults on

	svc, _ := newService(t, false)
	ctx := context.Background()

	table := tabular.NewTable([]string{"Ecode", "Name", "Basic"})
	table.Append("e010", "Meera", "25,000")
	table.Append("", "No Code", "1")
	table.Append("E011", "", "1")

	res, err := svc.ImportEmployees(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)

	emp, err := svc.GetEmployee(ctx, "E010")
	require.NoError(t, err)
	assert.True(t, emp.PFApplicable)
	assert.True(t, emp.Salary.Basic.Equal(dec("25000")))
}

// =============================================================================
// ATTENDANCE TESTS
// =============================================================================

func TestProcessPunches_ComputesSandwichesAndSkips(t *testing.T) {
	// GIVEN: E001 absent Saturday and Monday around a Sunday week-off, a full
	//        day with an hour of overtime, an overnight open-shift day for
	//        E002, one unknown employee and one unreadable date
	// WHEN: Processing the upload
	// THEN: Sunday becomes a sandwich absence, bad rows are counted

	svc, mem := newService(t, true)
	ctx := context.Background()

	table := tabular.NewTable(tabular.PunchColumns)
	table.Append("E001", "2026-03-07", "", "", "Absent", "")
	table.Append("E001", "2026-03-08", "", "", "Week Off", "")
	table.Append("E001", "2026-03-09", "", "", "Absent", "")
	table.Append("e001", "2026-03-10", "09:00", "19:00", "", "")
	table.Append("E002", "2026-03-10", "22:00", "06:00", "", "")
	table.Append("E999", "2026-03-10", "09:00", "18:00", "", "")
	table.Append("E001", "not a date", "09:00", "18:00", "", "")

	report, err := svc.ProcessPunches(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Processed)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []string{"E999"}, report.UnknownEmployees)
	assert.Equal(t, 1, report.Sandwiched)

	sunday, err := mem.GetAttendance(ctx, generic.AttendanceKey{Code: "E001", Date: march(8)})
	require.NoError(t, err)
	require.NotNil(t, sunday)
	assert.Equal(t, generic.StatusSandwichAbsent, sunday.Status)
	assert.Equal(t, attendance.SandwichRemark, sunday.Remarks)

	full, err := mem.GetAttendance(ctx, generic.AttendanceKey{Code: "E001", Date: march(10)})
	require.NoError(t, err)
	require.NotNil(t, full)
	assert.Equal(t, generic.StatusPresent, full.Status)
	assert.Equal(t, "Asha Rao", full.Name)
	assert.True(t, full.WorkingHours.Equal(dec("10")), "working = %s", full.WorkingHours)
	assert.True(t, full.OvertimeHours.Equal(dec("1")), "overtime = %s", full.OvertimeHours)
	assert.Equal(t, attendance.LowWeekMarker, full.Remarks)

	night, err := mem.GetAttendance(ctx, generic.AttendanceKey{Code: "E002", Date: march(10)})
	require.NoError(t, err)
	require.NotNil(t, night)
	assert.Equal(t, generic.OpenShiftName, night.Shift)
	assert.True(t, night.WorkingHours.Equal(dec("8")))
	assert.True(t, night.OvertimeHours.IsZero())
}

func TestRecordAttendance_StatusOverrideZeroesFigures(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	rec, err := svc.RecordAttendance(ctx, service.AttendanceEntry{
		Code: "E001", Date: "2026-03-11", InTime: "09:30", OutTime: "20:00", Status: "On Leave",
	})
	require.NoError(t, err)
	assert.Equal(t, generic.StatusOnLeave, rec.Status)
	assert.True(t, rec.WorkingHours.IsZero())
	assert.True(t, rec.OvertimeHours.IsZero())
	assert.Zero(t, rec.LateEntryMinutes)

	rec, err = svc.RecordAttendance(ctx, service.AttendanceEntry{
		Code: "E001", Date: "2026-03-12", InTime: "09:20", OutTime: "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, generic.StatusPresent, rec.Status)
	assert.Equal(t, 20, rec.LateEntryMinutes)

	_, err = svc.RecordAttendance(ctx, service.AttendanceEntry{Code: "E001", Date: "2026-03-12", Status: "Vacation"})
	assert.True(t, generic.IsClientError(err))

	_, err = svc.RecordAttendance(ctx, service.AttendanceEntry{Code: "E404", Date: "2026-03-12"})
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}

func TestMissingPunchesAndFixPunch(t *testing.T) {
	// GIVEN: E001 missing the out punch, E002 missing both punches
	// WHEN: Filtering by side, then fixing E001
	// THEN: "in" includes missing-both only; the fix recomputes to Present

	svc, _ := newService(t, true)
	ctx := context.Background()

	_, err := svc.RecordAttendance(ctx, service.AttendanceEntry{Code: "E001", Date: "2026-03-12", InTime: "09:00"})
	require.NoError(t, err)
	_, err = svc.RecordAttendance(ctx, service.AttendanceEntry{Code: "E002", Date: "2026-03-12"})
	require.NoError(t, err)

	all, err := svc.MissingPunches(ctx, march(12), service.SideAny)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	in, err := svc.MissingPunches(ctx, march(12), service.SideIn)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, generic.EmployeeCode("E002"), in[0].Code)

	out, err := svc.MissingPunches(ctx, march(12), service.SideOut)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	fixed, err := svc.FixPunch(ctx, service.PunchFix{
		Code: "E001", Date: "2026-03-12", InTime: "09:00", OutTime: "18:00", Remark: "forgot to punch out",
	})
	require.NoError(t, err)
	assert.Equal(t, generic.StatusPresent, fixed.Status)
	assert.True(t, fixed.WorkingHours.Equal(dec("9")))
	assert.Equal(t, "forgot to punch out", fixed.Remarks)

	remaining, err := svc.MissingPunches(ctx, march(12), service.SideAny)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	_, err = svc.FixPunch(ctx, service.PunchFix{Code: "E001", Date: "2026-03-13", InTime: "09:00", OutTime: "18:00"})
	assert.ErrorIs(t, err, generic.ErrRecordNotFound)

	_, err = service.ParsePunchSide("sideways")
	assert.True(t, generic.IsClientError(err))
}

func TestListAttendance_CategoryFilter(t *testing.T) {
	svc, mem := newService(t, true)
	ctx := context.Background()
	seedHalfMonth(t, mem)
	require.NoError(t, mem.SaveAttendance(ctx, []generic.AttendanceRecord{
		{Code: "E002", Date: march(2), Status: generic.StatusAbsent},
	}))

	absent, err := svc.ListAttendance(ctx, service.AttendanceFilter{Category: generic.CategoryAbsent})
	require.NoError(t, err)
	require.Len(t, absent, 1)
	assert.Equal(t, generic.EmployeeCode("E002"), absent[0].Code)

	week := generic.Period{Start: march(2), End: march(8)}
	rows, err := svc.ListAttendance(ctx, service.AttendanceFilter{Period: &week, Code: "E001"})
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	summary, err := svc.AttendanceSummary(ctx, march2026.Period())
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, 13, summary[0].PresentDays)
	assert.Equal(t, 1, summary[1].AbsentDays)
}

// =============================================================================
// PAYROLL TESTS
// =============================================================================

func TestRunPayroll_ProratesActiveEmployees(t *testing.T) {
	// GIVEN: E001 present 13 of 26 working days on 34,600 gross, 20,000 basic;
	//        E002 active with no attendance; E003 inactive
	// WHEN: Running March 2026
	// THEN: E001 earns half, PF is 12% of earned basic, E003 is left out

	svc, mem := newService(t, true)
	ctx := context.Background()
	seedHalfMonth(t, mem)

	run, err := svc.RunPayroll(ctx, "March", 2026)
	require.NoError(t, err)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 26, run.WorkingDays)
	require.Len(t, run.Results, 2)

	e001 := run.Results[0]
	assert.Equal(t, generic.EmployeeCode("E001"), e001.Code)
	assert.Equal(t, 13, e001.PresentDays)
	assert.True(t, e001.EarnedGross.Equal(dec("17300")), "earned gross = %s", e001.EarnedGross)
	assert.True(t, e001.PFEmployee.Equal(dec("1200")), "pf = %s", e001.PFEmployee)
	assert.True(t, e001.NetPay.Equal(dec("16100")), "net = %s", e001.NetPay)

	e002 := run.Results[1]
	assert.Zero(t, e002.PresentDays)
	assert.True(t, e002.NetPay.IsZero())
	assert.True(t, run.Totals.NetPay.Equal(dec("16100")))

	again, err := svc.RunPayroll(ctx, "3", 2026)
	require.NoError(t, err)
	assert.Equal(t, run.Results, again.Results, "rerun over unchanged inputs is identical")

	periods, err := svc.ListPayrollPeriods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []generic.PayPeriod{march2026}, periods)

	report, err := svc.PayrollReport(ctx, march2026)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Employees)
	assert.True(t, report.Gross.Equal(dec("17300")))
	assert.True(t, report.PFTotal.Equal(dec("2400")))
}

func TestRunPayroll_Preconditions(t *testing.T) {
	ctx := context.Background()

	empty, _ := newService(t, false)
	_, err := empty.RunPayroll(ctx, "March", 2026)
	assert.ErrorIs(t, err, generic.ErrNoEmployees)

	noRows, _ := newService(t, true)
	_, err = noRows.RunPayroll(ctx, "March", 2026)
	assert.ErrorIs(t, err, generic.ErrNoAttendance)
	assert.True(t, generic.IsPrecondition(err))

	_, err = noRows.GetPayroll(ctx, march2026)
	assert.ErrorIs(t, err, generic.ErrPayrollNotRun, "an aborted run writes nothing")

	_, err = noRows.RunPayroll(ctx, "Smarch", 2026)
	assert.True(t, generic.IsClientError(err))
}

func TestPayslip(t *testing.T) {
	svc, mem := newService(t, true)
	ctx := context.Background()

	_, err := svc.Payslip(ctx, march2026, "E001")
	assert.ErrorIs(t, err, generic.ErrPayrollNotRun)

	seedHalfMonth(t, mem)
	_, err = svc.RunPayroll(ctx, "March", 2026)
	require.NoError(t, err)

	ps, err := svc.Payslip(ctx, march2026, "e001")
	require.NoError(t, err)
	assert.Equal(t, "My Company", ps.Company)
	assert.Equal(t, "State Bank", ps.BankName)
	assert.Equal(t, march(10), ps.GeneratedOn)
	assert.True(t, ps.NetPay.Equal(dec("16100")))

	_, err = svc.Payslip(ctx, march2026, "E003")
	assert.ErrorIs(t, err, generic.ErrNoPayrollForEmployee)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePayslipPDF(ctx, &buf, march2026, "E001"))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))

	var csv bytes.Buffer
	require.NoError(t, svc.ExportPayroll(ctx, &csv, march2026, tabular.FormatCSV))
	assert.Contains(t, csv.String(), "E001")
}

// =============================================================================
// LEAVE TESTS
// =============================================================================

func TestLeaveBalances(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	rec, err := svc.ApplyLeave(ctx, leave.Application{Code: "E001", Type: "pl", From: "2026-03-16", To: "2026-03-18"})
	require.NoError(t, err)
	assert.Equal(t, generic.LeavePending, rec.Status)
	assert.Equal(t, march(10), rec.AppliedOn)

	_, err = svc.ApproveLeave(ctx, rec.ID())
	require.NoError(t, err)
	_, err = svc.RejectLeave(ctx, rec.ID())
	assert.ErrorIs(t, err, generic.ErrInvalidTransition)

	bal, err := svc.LeaveBalance(ctx, "E001", 2026)
	require.NoError(t, err)
	require.Len(t, bal.Balances, 3)
	assert.True(t, bal.Balances[0].Taken.Value.Equal(dec("3")))
	assert.True(t, bal.Balances[0].Balance.Value.Equal(dec("9")))

	report, err := svc.LeaveBalanceReport(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, report, 2, "inactive employees are left out")

	_, err = svc.LeaveBalance(ctx, "E404", 2026)
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	approved, err := svc.ListLeaves(ctx, leave.Filter{Status: generic.LeaveApproved})
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

// =============================================================================
// SETTINGS AND DASHBOARD TESTS
// =============================================================================

func TestSaveRulesDocument_RejectsAndRetainsPrior(t *testing.T) {
	svc, _ := newService(t, false)
	ctx := context.Background()

	_, err := svc.SaveRulesDocument(ctx, []byte(`{"company":{"name":"Warp Textiles"}}`))
	require.NoError(t, err)

	_, err = svc.SaveRulesDocument(ctx, []byte(`{"attendance":{"week_off":"Funday"}}`))
	require.Error(t, err)
	assert.True(t, generic.IsClientError(err))
	assert.True(t, errors.Is(err, generic.ErrInvalidConfig))

	rules, err := svc.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Warp Textiles", rules.Company.Name)
	assert.Equal(t, "Sunday", rules.Attendance.WeekOff)

	_, err = svc.ResetRules(ctx)
	require.NoError(t, err)
	doc, err := svc.RulesDocument(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"name": "My Company"`)
}

func TestDashboard(t *testing.T) {
	svc, mem := newService(t, true)
	ctx := context.Background()
	require.NoError(t, mem.SaveAttendance(ctx, []generic.AttendanceRecord{
		present("E001", march(10)),
		present("E003", march(10)),
		{Code: "E002", Date: march(9), Status: generic.StatusMissingInPunch},
		{Code: "E002", Date: march(1), Status: generic.StatusMissingPunch},
	}))

	d, err := svc.Dashboard(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 2, d.ActiveEmployees)
	assert.Equal(t, 1, d.PresentToday)
	assert.Equal(t, 1, d.AbsentToday)
	assert.Zero(t, d.MissingToday)
	require.Len(t, d.Alerts, 1, "alerts reach back seven days")
	assert.Equal(t, march(9), d.Alerts[0].Date)
	assert.Equal(t, []service.DepartmentCount{
		{Department: "Ops", Employees: 1},
		{Department: "Sales", Employees: 1},
	}, d.Departments)
}
