package tabular

import (
	"strconv"
	"strings"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

func EncodeEmployees(employees []generic.Employee) *Table {
	t := NewTable(EmployeeColumns)
	for _, e := range employees {
		s := e.Salary
		t.Append(
			e.Code.String(), e.Name, e.Department, e.Designation, e.DateOfJoining, e.DateOfBirth,
			e.Gender, e.Mobile, e.Email, e.Address, e.FatherName, e.MotherName, e.SpouseName,
			e.NomineeName, e.NomineeRelation, e.NomineeDOB, e.BankName, e.AccountNo, e.IFSC,
			e.UAN, e.PFNo, e.ESICNo, e.Shift, FormatFlag(e.OpenShift),
			FormatAmount(s.Gross()), FormatAmount(s.Basic), FormatAmount(s.HRA),
			FormatAmount(s.Conveyance), FormatAmount(s.Special), FormatAmount(s.Medical),
			FormatAmount(s.Food), FormatFlag(e.PFApplicable), FormatFlag(e.ESICApplicable),
			string(e.Status), e.ExitDate,
		)
	}
	return t
}

// DecodeEmployees skips rows without an ecode or name and reports how many.
// gross_salary is ignored on read; it is always the sum of the components.
func DecodeEmployees(t *Table) (employees []generic.Employee, skipped int) {
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if r.Blank() {
			continue
		}
		emp, ok := DecodeEmployee(r)
		if !ok {
			skipped++
			continue
		}
		employees = append(employees, emp)
	}
	return employees, skipped
}

// DecodeEmployee reads one row; false when the ecode or name is missing.
// A table without a pf_applicable column means PF applies.
func DecodeEmployee(r Row) (generic.Employee, bool) {
	code := generic.NormalizeCode(r.Get("ecode"))
	name := r.Get("name")
	if code == "" || name == "" {
		return generic.Employee{}, false
	}
	shift := r.Get("shift")
	return generic.Employee{
		Code:            code,
		Name:            name,
		Department:      r.Get("department"),
		Designation:     r.Get("designation"),
		DateOfJoining:   dateText(r.Get("doj")),
		DateOfBirth:     dateText(r.Get("dob")),
		Gender:          r.Get("gender"),
		Mobile:          r.Get("mobile"),
		Email:           r.Get("email"),
		Address:         r.Get("address"),
		FatherName:      r.Get("father_name"),
		MotherName:      r.Get("mother_name"),
		SpouseName:      r.Get("spouse_name"),
		NomineeName:     r.Get("nominee_name"),
		NomineeRelation: r.Get("nominee_relation"),
		NomineeDOB:      dateText(r.Get("nominee_dob")),
		BankName:        r.Get("bank_name"),
		AccountNo:       r.Get("account_no"),
		IFSC:            r.Get("ifsc"),
		UAN:             r.Get("uan"),
		PFNo:            r.Get("pf_no"),
		ESICNo:          r.Get("esic_no"),
		Shift:           shift,
		OpenShift:       ParseFlag(r.Get("is_open_shift")) || strings.EqualFold(shift, generic.OpenShiftName),
		Salary: generic.SalaryStructure{
			Basic:      ParseAmount(r.Get("basic")),
			HRA:        ParseAmount(r.Get("hra")),
			Conveyance: ParseAmount(r.Get("conveyance")),
			Special:    ParseAmount(r.Get("special_allowance")),
			Medical:    ParseAmount(r.Get("medical_allowance")),
			Food:       ParseAmount(r.Get("food_allowance")),
		},
		PFApplicable:   !r.Has("pf_applicable") || ParseFlag(r.Get("pf_applicable")),
		ESICApplicable: ParseFlag(r.Get("esic_applicable")),
		Status:         generic.ParseEmployeeStatus(r.Get("status")),
		ExitDate:       dateText(r.Get("exit_date")),
	}, true
}

// dateText normalizes a parseable date to YYYY-MM-DD and keeps anything
// else as typed.
func dateText(s string) string {
	if d, ok := ParseDate(s); ok {
		return d.String()
	}
	return s
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func EncodeAttendance(records []generic.AttendanceRecord) *Table {
	t := NewTable(AttendanceColumns)
	for _, a := range records {
		t.Append(
			a.Code.String(), a.Name, a.Date.String(), a.Day(), a.Shift, a.InTime, a.OutTime,
			FormatAmount(a.WorkingHours), FormatAmount(a.OvertimeHours),
			strconv.Itoa(a.EarlyGoingMinutes), strconv.Itoa(a.LateEntryMinutes),
			a.Status.String(), a.Remarks,
		)
	}
	return t
}

// DecodeAttendance reads stored rows. Rows without an ecode or a readable
// date are skipped and counted.
func DecodeAttendance(t *Table) (records []generic.AttendanceRecord, skipped int) {
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if r.Blank() {
			continue
		}
		rec, ok := DecodeAttendanceRow(r)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// DecodeAttendanceRow reads one row; false without an ecode or a readable date.
func DecodeAttendanceRow(r Row) (generic.AttendanceRecord, bool) {
	code := generic.NormalizeCode(r.Get("ecode"))
	date, ok := ParseDate(r.Get("date"))
	if code == "" || !ok {
		return generic.AttendanceRecord{}, false
	}
	status, _ := generic.ParseAttendanceStatus(r.Get("status"))
	return generic.AttendanceRecord{
		Code:              code,
		Name:              r.Get("name"),
		Date:              date,
		Shift:             r.Get("shift"),
		InTime:            r.Get("in_time"),
		OutTime:           r.Get("out_time"),
		WorkingHours:      ParseAmount(r.Get("working_hours")),
		OvertimeHours:     ParseAmount(r.Get("overtime_hours")),
		EarlyGoingMinutes: ParseCount(r.Get("early_going_minutes")),
		LateEntryMinutes:  ParseCount(r.Get("late_entry_minutes")),
		Status:            status,
		Remarks:           r.Get("remarks"),
	}, true
}

// Punch is one uploaded punch row before any calculation.
type Punch struct {
	Code    generic.EmployeeCode
	Date    generic.Date
	InTime  string
	OutTime string
	Status  string // optional override
	Remarks string
}

// DecodePunches skips rows without an ecode or a readable date.
func DecodePunches(t *Table) (punches []Punch, skipped int) {
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if r.Blank() {
			continue
		}
		code := generic.NormalizeCode(r.Get("ecode"))
		date, ok := ParseDate(r.Get("date"))
		if code == "" || !ok {
			skipped++
			continue
		}
		punches = append(punches, Punch{
			Code:    code,
			Date:    date,
			InTime:  r.Get("in_time"),
			OutTime: r.Get("out_time"),
			Status:  r.Get("status"),
			Remarks: r.Get("remarks"),
		})
	}
	return punches, skipped
}

// =============================================================================
// LEAVES
// =============================================================================

func EncodeLeaves(leaves []generic.LeaveRecord) *Table {
	t := NewTable(LeaveColumns)
	for _, l := range leaves {
		t.Append(
			l.Code.String(), l.Name, string(l.Type), l.From.String(), l.To.String(),
			l.Days.String(), l.Reason, string(l.Status), l.AppliedOn.String(),
		)
	}
	return t
}

func DecodeLeaves(t *Table) (leaves []generic.LeaveRecord, skipped int) {
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if r.Blank() {
			continue
		}
		l, ok := DecodeLeave(r)
		if !ok {
			skipped++
			continue
		}
		leaves = append(leaves, l)
	}
	return leaves, skipped
}

// DecodeLeave reads one row; false unless the ecode, leave type and both
// range dates are readable.
func DecodeLeave(r Row) (generic.LeaveRecord, bool) {
	code := generic.NormalizeCode(r.Get("ecode"))
	lt, okType := generic.ParseLeaveType(r.Get("leave_type"))
	from, okFrom := ParseDate(r.Get("from_date"))
	to, okTo := ParseDate(r.Get("to_date"))
	if code == "" || !okType || !okFrom || !okTo {
		return generic.LeaveRecord{}, false
	}
	applied, _ := ParseDate(r.Get("applied_on"))
	return generic.LeaveRecord{
		Code:      code,
		Name:      r.Get("name"),
		Type:      lt,
		From:      from,
		To:        to,
		Days:      ParseAmount(r.Get("days")),
		Reason:    r.Get("reason"),
		Status:    parseLeaveStatus(r.Get("status")),
		AppliedOn: applied,
	}, true
}

func parseLeaveStatus(s string) generic.LeaveStatus {
	for _, st := range []generic.LeaveStatus{generic.LeavePending, generic.LeaveApproved, generic.LeaveRejected} {
		if strings.EqualFold(s, string(st)) {
			return st
		}
	}
	return generic.LeaveStatus(s)
}

// =============================================================================
// PAYROLL
// =============================================================================

func EncodePayroll(results []generic.PayrollResult) *Table {
	t := NewTable(PayrollColumns)
	for _, p := range results {
		t.Append(
			p.Code.String(), p.Name, strconv.Itoa(p.PresentDays),
			FormatAmount(p.GrossSalary), FormatAmount(p.EarnedBasic), FormatAmount(p.EarnedHRA),
			FormatAmount(p.EarnedConveyance), FormatAmount(p.EarnedSpecial),
			FormatAmount(p.EarnedMedical), FormatAmount(p.EarnedFood), FormatAmount(p.EarnedGross),
			FormatAmount(p.OvertimeHours), FormatAmount(p.OvertimePay),
			FormatAmount(p.PFEmployee), FormatAmount(p.PFEmployer), FormatAmount(p.EPS),
			FormatAmount(p.ESICEmployee), FormatAmount(p.ESICEmployer),
			FormatAmount(p.TotalDeductions), FormatAmount(p.NetPay),
		)
	}
	return t
}

// DecodePayroll reads stored figures with their sign; a negative net pay
// is a legitimate result.
func DecodePayroll(t *Table) []generic.PayrollResult {
	var results []generic.PayrollResult
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		code := generic.NormalizeCode(r.Get("ecode"))
		if code == "" {
			continue
		}
		results = append(results, generic.PayrollResult{
			Code:             code,
			Name:             r.Get("name"),
			PresentDays:      ParseCount(r.Get("present_days")),
			GrossSalary:      ParseSignedAmount(r.Get("gross_salary")),
			EarnedBasic:      ParseSignedAmount(r.Get("earned_basic")),
			EarnedHRA:        ParseSignedAmount(r.Get("earned_hra")),
			EarnedConveyance: ParseSignedAmount(r.Get("earned_conveyance")),
			EarnedSpecial:    ParseSignedAmount(r.Get("earned_special")),
			EarnedMedical:    ParseSignedAmount(r.Get("earned_medical")),
			EarnedFood:       ParseSignedAmount(r.Get("earned_food")),
			EarnedGross:      ParseSignedAmount(r.Get("earned_gross")),
			OvertimeHours:    ParseSignedAmount(r.Get("overtime_hours")),
			OvertimePay:      ParseSignedAmount(r.Get("overtime_pay")),
			PFEmployee:       ParseSignedAmount(r.Get("pf_employee")),
			PFEmployer:       ParseSignedAmount(r.Get("pf_employer")),
			EPS:              ParseSignedAmount(r.Get("eps")),
			ESICEmployee:     ParseSignedAmount(r.Get("esic_employee")),
			ESICEmployer:     ParseSignedAmount(r.Get("esic_employer")),
			TotalDeductions:  ParseSignedAmount(r.Get("total_deductions")),
			NetPay:           ParseSignedAmount(r.Get("net_pay")),
		})
	}
	return results
}
