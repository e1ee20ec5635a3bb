package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/store"
	"github.com/warp/payroll-engine/tabular"
)

// Every driver must behave the same through generic.Store.
func openAll(t *testing.T) map[string]generic.Store {
	t.Helper()
	stores := map[string]generic.Store{}
	for _, driver := range []string{store.DriverCSV, store.DriverSQLite, store.DriverMemory} {
		dir := t.TempDir()
		s, err := store.Open(driver, dir, "")
		require.NoError(t, err, driver)
		t.Cleanup(func() { s.Close() })
		stores[driver] = s
	}
	return stores
}

func day(d int) generic.Date { return generic.NewDate(2026, time.March, d) }

func TestStores_EmployeeUpsertReplaces(t *testing.T) {
	for driver, s := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveEmployees(ctx, []generic.Employee{
				{Code: "E002", Name: "Ravi", Status: generic.EmployeeActive, PFApplicable: true},
				{Code: "E001", Name: "Asha", Status: generic.EmployeeActive,
					Salary: generic.SalaryStructure{Basic: decimal.NewFromInt(20000), HRA: decimal.NewFromInt(8000)}},
			}))
			require.NoError(t, s.SaveEmployees(ctx, []generic.Employee{
				{Code: "E001", Name: "Asha R", Status: generic.EmployeeInactive},
			}))

			emps, err := s.ListEmployees(ctx)
			require.NoError(t, err)
			require.Len(t, emps, 2)
			assert.Equal(t, generic.EmployeeCode("E001"), emps[0].Code)
			assert.Equal(t, "Asha R", emps[0].Name)
			assert.Equal(t, generic.EmployeeInactive, emps[0].Status)
			assert.True(t, emps[0].Salary.Basic.IsZero(), "full replace, not merge")
			assert.True(t, emps[1].PFApplicable)

			missing, err := s.GetEmployee(ctx, "E404")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

func TestStores_AttendanceKeyedByCodeAndDate(t *testing.T) {
	for driver, s := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveAttendance(ctx, []generic.AttendanceRecord{
				{Code: "E001", Date: day(3), Status: generic.StatusAbsent},
				{Code: "E001", Date: day(2), Status: generic.StatusPresent, WorkingHours: decimal.NewFromInt(9)},
				{Code: "E001", Date: generic.NewDate(2026, time.April, 1), Status: generic.StatusPresent},
			}))
			require.NoError(t, s.SaveAttendance(ctx, []generic.AttendanceRecord{
				{Code: "E001", Date: day(3), Status: generic.StatusHalfDay, Remarks: "fixed"},
			}))

			rows, err := s.ListAttendance(ctx, generic.MonthPeriod(2026, time.March))
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "2026-03-02", rows[0].Date.String())
			assert.Equal(t, generic.StatusHalfDay, rows[1].Status)
			assert.Equal(t, "fixed", rows[1].Remarks)

			got, err := s.GetAttendance(ctx, generic.AttendanceKey{Code: "E001", Date: day(2)})
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.WorkingHours.Equal(decimal.NewFromInt(9)))
		})
	}
}

func TestStores_LeaveUpsertByKey(t *testing.T) {
	for driver, s := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			rec := generic.LeaveRecord{
				Code: "E001", Name: "Asha", Type: generic.LeaveCL, From: day(10), To: day(11),
				Days: decimal.NewFromInt(2), Status: generic.LeavePending, AppliedOn: day(1),
			}
			require.NoError(t, s.SaveLeave(ctx, rec))
			rec.Status = generic.LeaveApproved
			require.NoError(t, s.SaveLeave(ctx, rec))

			leaves, err := s.ListLeaves(ctx)
			require.NoError(t, err)
			require.Len(t, leaves, 1)
			assert.Equal(t, generic.LeaveApproved, leaves[0].Status)
			assert.Equal(t, rec.ID(), leaves[0].ID())
		})
	}
}

func TestStores_PayrollReplacesPeriod(t *testing.T) {
	for driver, s := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			march := generic.PayPeriod{Year: 2026, Month: time.March}
			feb := generic.PayPeriod{Year: 2026, Month: time.February}

			_, found, err := s.GetPayroll(ctx, march)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.SavePayroll(ctx, march, []generic.PayrollResult{
				{Code: "E001", NetPay: decimal.NewFromInt(100)},
				{Code: "E002", NetPay: decimal.NewFromInt(200)},
			}))
			require.NoError(t, s.SavePayroll(ctx, march, []generic.PayrollResult{
				{Code: "E001", NetPay: decimal.RequireFromString("150.50")},
			}))
			require.NoError(t, s.SavePayroll(ctx, feb, nil))

			results, found, err := s.GetPayroll(ctx, march)
			require.NoError(t, err)
			require.True(t, found)
			require.Len(t, results, 1)
			assert.Equal(t, "150.5", results[0].NetPay.String())

			_, found, err = s.GetPayroll(ctx, feb)
			require.NoError(t, err)
			assert.True(t, found, "an empty run still counts as run")

			periods, err := s.ListPayrollPeriods(ctx)
			require.NoError(t, err)
			assert.Equal(t, []generic.PayPeriod{feb, march}, periods)
		})
	}
}

func TestStores_RulesDocument(t *testing.T) {
	for driver, s := range openAll(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			doc, err := s.LoadRulesDocument(ctx)
			require.NoError(t, err)
			assert.Nil(t, doc)

			require.NoError(t, s.SaveRulesDocument(ctx, []byte(`{"company":{"name":"Acme"}}`)))
			doc, err = s.LoadRulesDocument(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"company":{"name":"Acme"}}`, string(doc))
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := store.Open("mongo", t.TempDir(), "")
	assert.Error(t, err)
}

func readCSVFile(t *testing.T, path string) *tabular.Table {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	table, err := tabular.ReadCSV(f)
	require.NoError(t, err)
	return table
}

func TestCSVStore_RewriteKeepsUnreadableRowsAndExtraColumns(t *testing.T) {
	// GIVEN: Hand-edited files with an extra column and rows the codecs
	//        cannot read
	dir := t.TempDir()
	attendanceCSV := "ecode,name,date,status,biometric_id\n" +
		"E001,Asha,2026-03-02,Present,BIO-7\n" +
		"E001,Asha,02/03/2026 9am,Present,BIO-8\n"
	leavesCSV := "ecode,name,leave_type,from_date,to_date,days,reason,status,applied_on\n" +
		"E001,Asha,ML,2026-03-05,2026-03-06,2,surgery,Approved,2026-03-01\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance.csv"), []byte(attendanceCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaves.csv"), []byte(leavesCSV), 0o644))

	s, err := store.Open(store.DriverCSV, dir, "")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	// WHEN: An unrelated row is saved, then the readable row is updated
	require.NoError(t, s.SaveAttendance(ctx, []generic.AttendanceRecord{
		{Code: "E002", Date: day(2), Status: generic.StatusAbsent},
	}))
	require.NoError(t, s.SaveAttendance(ctx, []generic.AttendanceRecord{
		{Code: "E001", Date: day(2), Status: generic.StatusHalfDay},
	}))
	require.NoError(t, s.SaveLeave(ctx, generic.LeaveRecord{
		Code: "E001", Type: generic.LeaveCL, From: day(10), To: day(10),
		Days: decimal.NewFromInt(1), Status: generic.LeavePending, AppliedOn: day(9),
	}))

	// THEN: The unreadable row and the extra column survive both rewrites
	table := readCSVFile(t, filepath.Join(dir, "attendance.csv"))
	assert.Equal(t, "biometric_id", table.Header[len(table.Header)-1])
	require.Equal(t, 3, table.Len())

	updated := table.Row(0)
	assert.Equal(t, "Half Day", updated.Get("status"))
	assert.Equal(t, "BIO-7", updated.Get("biometric_id"), "an update keeps extra cells")

	legacy := table.Row(1)
	assert.Equal(t, "02/03/2026 9am", legacy.Get("date"))
	assert.Equal(t, "BIO-8", legacy.Get("biometric_id"))

	added := table.Row(2)
	assert.Equal(t, "E002", added.Get("ecode"))
	assert.Empty(t, added.Get("biometric_id"))

	leaves := readCSVFile(t, filepath.Join(dir, "leaves.csv"))
	require.Equal(t, 2, leaves.Len())
	assert.Equal(t, "ML", leaves.Row(0).Get("leave_type"))
	assert.Equal(t, "CL", leaves.Row(1).Get("leave_type"))

	// AND: Reads skip what they cannot decode
	rows, err := s.ListAttendance(ctx, generic.MonthPeriod(2026, time.March))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	listed, err := s.ListLeaves(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCSVStore_NegativePayrollSurvivesReload(t *testing.T) {
	s, err := store.Open(store.DriverCSV, t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()
	march := generic.PayPeriod{Year: 2026, Month: time.March}

	require.NoError(t, s.SavePayroll(ctx, march, []generic.PayrollResult{
		{Code: "E001", TotalDeductions: decimal.RequireFromString("1250.40"), NetPay: decimal.RequireFromString("-250.40")},
	}))

	results, found, err := s.GetPayroll(ctx, march)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, results, 1)
	assert.Equal(t, "-250.4", results[0].NetPay.String())
}
