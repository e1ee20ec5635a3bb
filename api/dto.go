/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal records from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Money and hours leave the API as JSON numbers rounded to two places.
  Dates are YYYY-MM-DD strings; statuses use their display labels.

VALIDATION:
  Request bodies reuse the service input types, which carry validator tags.
  The few request types defined here are validated in handlers.

SEE ALSO:
  - handlers.go: Uses these types
  - service/: Input types decoded directly from request bodies
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payslip"
	"github.com/warp/payroll-engine/service"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	Code        string `json:"ecode"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Designation string `json:"designation"`

	DateOfJoining   string `json:"doj,omitempty"`
	DateOfBirth     string `json:"dob,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Mobile          string `json:"mobile,omitempty"`
	Email           string `json:"email,omitempty"`
	Address         string `json:"address,omitempty"`
	FatherName      string `json:"father_name,omitempty"`
	MotherName      string `json:"mother_name,omitempty"`
	SpouseName      string `json:"spouse_name,omitempty"`
	NomineeName     string `json:"nominee_name,omitempty"`
	NomineeRelation string `json:"nominee_relation,omitempty"`
	NomineeDOB      string `json:"nominee_dob,omitempty"`

	BankName  string `json:"bank_name,omitempty"`
	AccountNo string `json:"account_no,omitempty"`
	IFSC      string `json:"ifsc,omitempty"`
	UAN       string `json:"uan,omitempty"`
	PFNo      string `json:"pf_no,omitempty"`
	ESICNo    string `json:"esic_no,omitempty"`

	Shift     string `json:"shift"`
	OpenShift bool   `json:"is_open_shift"`

	GrossSalary float64 `json:"gross_salary"`
	Basic       float64 `json:"basic"`
	HRA         float64 `json:"hra"`
	Conveyance  float64 `json:"conveyance"`
	Special     float64 `json:"special_allowance"`
	Medical     float64 `json:"medical_allowance"`
	Food        float64 `json:"food_allowance"`

	PFApplicable   bool   `json:"pf_applicable"`
	ESICApplicable bool   `json:"esic_applicable"`
	Status         string `json:"status"`
	ExitDate       string `json:"exit_date,omitempty"`
}

func toEmployeeDTO(e generic.Employee) EmployeeDTO {
	return EmployeeDTO{
		Code:            e.Code.String(),
		Name:            e.Name,
		Department:      e.Department,
		Designation:     e.Designation,
		DateOfJoining:   e.DateOfJoining,
		DateOfBirth:     e.DateOfBirth,
		Gender:          e.Gender,
		Mobile:          e.Mobile,
		Email:           e.Email,
		Address:         e.Address,
		FatherName:      e.FatherName,
		MotherName:      e.MotherName,
		SpouseName:      e.SpouseName,
		NomineeName:     e.NomineeName,
		NomineeRelation: e.NomineeRelation,
		NomineeDOB:      e.NomineeDOB,
		BankName:        e.BankName,
		AccountNo:       e.AccountNo,
		IFSC:            e.IFSC,
		UAN:             e.UAN,
		PFNo:            e.PFNo,
		ESICNo:          e.ESICNo,
		Shift:           e.Shift,
		OpenShift:       e.OpenShift,
		GrossSalary:     num(e.Salary.Gross()),
		Basic:           num(e.Salary.Basic),
		HRA:             num(e.Salary.HRA),
		Conveyance:      num(e.Salary.Conveyance),
		Special:         num(e.Salary.Special),
		Medical:         num(e.Salary.Medical),
		Food:            num(e.Salary.Food),
		PFApplicable:    e.PFApplicable,
		ESICApplicable:  e.ESICApplicable,
		Status:          string(e.Status),
		ExitDate:        e.ExitDate,
	}
}

// ImportDTO reports a bulk employee upload.
type ImportDTO struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceDTO struct {
	Code              string  `json:"ecode"`
	Name              string  `json:"name"`
	Date              string  `json:"date"`
	Day               string  `json:"day"`
	Shift             string  `json:"shift"`
	InTime            string  `json:"in_time"`
	OutTime           string  `json:"out_time"`
	WorkingHours      float64 `json:"working_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	EarlyGoingMinutes int     `json:"early_going_minutes"`
	LateEntryMinutes  int     `json:"late_entry_minutes"`
	Status            string  `json:"status"`
	Category          string  `json:"category"`
	Remarks           string  `json:"remarks"`
}

func toAttendanceDTO(r generic.AttendanceRecord) AttendanceDTO {
	return AttendanceDTO{
		Code:              r.Code.String(),
		Name:              r.Name,
		Date:              r.Date.String(),
		Day:               r.Day(),
		Shift:             r.Shift,
		InTime:            r.InTime,
		OutTime:           r.OutTime,
		WorkingHours:      num(r.WorkingHours),
		OvertimeHours:     num(r.OvertimeHours),
		EarlyGoingMinutes: r.EarlyGoingMinutes,
		LateEntryMinutes:  r.LateEntryMinutes,
		Status:            r.Status.String(),
		Category:          string(r.Status.Category()),
		Remarks:           r.Remarks,
	}
}

func toAttendanceDTOs(rows []generic.AttendanceRecord) []AttendanceDTO {
	out := make([]AttendanceDTO, len(rows))
	for i, r := range rows {
		out[i] = toAttendanceDTO(r)
	}
	return out
}

type AttendanceSummaryDTO struct {
	Code           string  `json:"ecode"`
	Name           string  `json:"name"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	MissingPunches int     `json:"missing_punches"`
	LateEntries    int     `json:"late_entries"`
	WorkingHours   float64 `json:"total_working_hours"`
	OvertimeHours  float64 `json:"total_overtime_hours"`
	LateMinutes    int     `json:"total_late_minutes"`
	EarlyMinutes   int     `json:"total_early_minutes"`
}

func toSummaryDTOs(summaries []attendance.Summary) []AttendanceSummaryDTO {
	out := make([]AttendanceSummaryDTO, len(summaries))
	for i, s := range summaries {
		out[i] = AttendanceSummaryDTO{
			Code:           s.Code.String(),
			Name:           s.Name,
			PresentDays:    s.PresentDays,
			AbsentDays:     s.AbsentDays,
			MissingPunches: s.MissingPunches,
			LateEntries:    s.LateEntries,
			WorkingHours:   num(s.WorkingHours),
			OvertimeHours:  num(s.OvertimeHours),
			LateMinutes:    s.LateMinutes,
			EarlyMinutes:   s.EarlyMinutes,
		}
	}
	return out
}

// =============================================================================
// PAYROLL
// =============================================================================

// RunPayrollRequest accepts the month as a name ("March") or number ("3").
type RunPayrollRequest struct {
	Month string `json:"month" validate:"required"`
	Year  int    `json:"year" validate:"required,gte=1"`
}

type PayrollResultDTO struct {
	Code             string  `json:"ecode"`
	Name             string  `json:"name"`
	PresentDays      int     `json:"present_days"`
	GrossSalary      float64 `json:"gross_salary"`
	EarnedBasic      float64 `json:"earned_basic"`
	EarnedHRA        float64 `json:"earned_hra"`
	EarnedConveyance float64 `json:"earned_conveyance"`
	EarnedSpecial    float64 `json:"earned_special"`
	EarnedMedical    float64 `json:"earned_medical"`
	EarnedFood       float64 `json:"earned_food"`
	EarnedGross      float64 `json:"earned_gross"`
	OvertimeHours    float64 `json:"ot_hours"`
	OvertimePay      float64 `json:"ot_pay"`
	PFEmployee       float64 `json:"pf_employee"`
	PFEmployer       float64 `json:"pf_employer"`
	EPS              float64 `json:"eps"`
	ESICEmployee     float64 `json:"esic_employee"`
	ESICEmployer     float64 `json:"esic_employer"`
	TotalDeductions  float64 `json:"total_deductions"`
	NetPay           float64 `json:"net_pay"`
}

func toPayrollDTOs(results []generic.PayrollResult) []PayrollResultDTO {
	out := make([]PayrollResultDTO, len(results))
	for i, r := range results {
		out[i] = PayrollResultDTO{
			Code:             r.Code.String(),
			Name:             r.Name,
			PresentDays:      r.PresentDays,
			GrossSalary:      num(r.GrossSalary),
			EarnedBasic:      num(r.EarnedBasic),
			EarnedHRA:        num(r.EarnedHRA),
			EarnedConveyance: num(r.EarnedConveyance),
			EarnedSpecial:    num(r.EarnedSpecial),
			EarnedMedical:    num(r.EarnedMedical),
			EarnedFood:       num(r.EarnedFood),
			EarnedGross:      num(r.EarnedGross),
			OvertimeHours:    num(r.OvertimeHours),
			OvertimePay:      num(r.OvertimePay),
			PFEmployee:       num(r.PFEmployee),
			PFEmployer:       num(r.PFEmployer),
			EPS:              num(r.EPS),
			ESICEmployee:     num(r.ESICEmployee),
			ESICEmployer:     num(r.ESICEmployer),
			TotalDeductions:  num(r.TotalDeductions),
			NetPay:           num(r.NetPay),
		}
	}
	return out
}

type PayrollTotalsDTO struct {
	Employees   int     `json:"employees"`
	Gross       float64 `json:"total_gross"`
	PFEmployee  float64 `json:"total_pf_employee"`
	PFEmployer  float64 `json:"total_pf_employer"`
	OvertimePay float64 `json:"total_ot_pay"`
	Deductions  float64 `json:"total_deductions"`
	NetPay      float64 `json:"total_net_pay"`
}

func toTotalsDTO(t payroll.Totals) PayrollTotalsDTO {
	return PayrollTotalsDTO{
		Employees:   t.Employees,
		Gross:       num(t.Gross),
		PFEmployee:  num(t.PFEmployee),
		PFEmployer:  num(t.PFEmployer),
		OvertimePay: num(t.OvertimePay),
		Deductions:  num(t.Deductions),
		NetPay:      num(t.NetPay),
	}
}

type PayrollRunDTO struct {
	RunID       string             `json:"run_id"`
	Period      string             `json:"period"`
	WorkingDays int                `json:"working_days"`
	Totals      PayrollTotalsDTO   `json:"totals"`
	Results     []PayrollResultDTO `json:"results"`
}

func toPayrollRunDTO(run *service.PayrollRun) PayrollRunDTO {
	return PayrollRunDTO{
		RunID:       run.RunID,
		Period:      run.Period.String(),
		WorkingDays: run.WorkingDays,
		Totals:      toTotalsDTO(run.Totals),
		Results:     toPayrollDTOs(run.Results),
	}
}

type PayrollReportDTO struct {
	Period     string             `json:"period"`
	Employees  int                `json:"employees"`
	Gross      float64            `json:"total_gross"`
	PFEmployee float64            `json:"total_pf_employee"`
	PFEmployer float64            `json:"total_pf_employer"`
	PFTotal    float64            `json:"total_pf"`
	NetPay     float64            `json:"total_net_pay"`
	Results    []PayrollResultDTO `json:"results"`
}

type PeriodDTO struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
}

type PayslipLineDTO struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type PayslipDTO struct {
	Company               string           `json:"company"`
	CompanyAddress        string           `json:"company_address,omitempty"`
	Period                string           `json:"period"`
	Code                  string           `json:"ecode"`
	Name                  string           `json:"name"`
	Department            string           `json:"department,omitempty"`
	Designation           string           `json:"designation,omitempty"`
	BankName              string           `json:"bank_name,omitempty"`
	AccountNo             string           `json:"account_no,omitempty"`
	UAN                   string           `json:"uan,omitempty"`
	PresentDays           int              `json:"present_days"`
	Earnings              []PayslipLineDTO `json:"earnings"`
	GrossEarned           float64          `json:"gross_earned"`
	Deductions            []PayslipLineDTO `json:"deductions"`
	TotalDeductions       float64          `json:"total_deductions"`
	EmployerContributions []PayslipLineDTO `json:"employer_contributions"`
	NetPay                float64          `json:"net_pay"`
	GeneratedOn           string           `json:"generated_on"`
}

func toPayslipDTO(ps *payslip.Payslip) PayslipDTO {
	lines := func(in []payslip.Line) []PayslipLineDTO {
		out := make([]PayslipLineDTO, len(in))
		for i, l := range in {
			out[i] = PayslipLineDTO{Label: l.Label, Amount: num(l.Amount)}
		}
		return out
	}
	return PayslipDTO{
		Company:               ps.Company,
		CompanyAddress:        ps.CompanyAddress,
		Period:                ps.Period.String(),
		Code:                  ps.Code.String(),
		Name:                  ps.Name,
		Department:            ps.Department,
		Designation:           ps.Designation,
		BankName:              ps.BankName,
		AccountNo:             ps.AccountNo,
		UAN:                   ps.UAN,
		PresentDays:           ps.PresentDays,
		Earnings:              lines(ps.Earnings),
		GrossEarned:           num(ps.GrossEarned),
		Deductions:            lines(ps.Deductions),
		TotalDeductions:       num(ps.TotalDeductions),
		EmployerContributions: lines(ps.EmployerContributions),
		NetPay:                num(ps.NetPay),
		GeneratedOn:           ps.GeneratedOn.String(),
	}
}

// =============================================================================
// LEAVES
// =============================================================================

type LeaveDTO struct {
	ID        string  `json:"id"`
	Code      string  `json:"ecode"`
	Name      string  `json:"name"`
	Type      string  `json:"leave_type"`
	From      string  `json:"from_date"`
	To        string  `json:"to_date"`
	Days      float64 `json:"days"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	AppliedOn string  `json:"applied_on"`
}

func toLeaveDTO(l generic.LeaveRecord) LeaveDTO {
	return LeaveDTO{
		ID:        l.ID(),
		Code:      l.Code.String(),
		Name:      l.Name,
		Type:      string(l.Type),
		From:      l.From.String(),
		To:        l.To.String(),
		Days:      num(l.Days),
		Reason:    l.Reason,
		Status:    string(l.Status),
		AppliedOn: l.AppliedOn.String(),
	}
}

type LeaveBalanceDTO struct {
	Type     string  `json:"leave_type"`
	Entitled float64 `json:"entitled"`
	Taken    float64 `json:"taken"`
	Balance  float64 `json:"balance"`
}

type EmployeeBalancesDTO struct {
	Code       string            `json:"ecode"`
	Name       string            `json:"name"`
	Department string            `json:"department"`
	Year       int               `json:"year"`
	Balances   []LeaveBalanceDTO `json:"balances"`
}

func toEmployeeBalancesDTO(b service.EmployeeBalances, year int) EmployeeBalancesDTO {
	out := EmployeeBalancesDTO{
		Code:       b.Code.String(),
		Name:       b.Name,
		Department: b.Department,
		Year:       year,
		Balances:   make([]LeaveBalanceDTO, len(b.Balances)),
	}
	for i, lb := range b.Balances {
		out.Balances[i] = toLeaveBalanceDTO(lb)
	}
	return out
}

func toLeaveBalanceDTO(b leave.Balance) LeaveBalanceDTO {
	return LeaveBalanceDTO{
		Type:     string(b.Type),
		Entitled: num(b.Entitled.Value),
		Taken:    num(b.Taken.Value),
		Balance:  num(b.Balance.Value),
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

type DashboardDTO struct {
	Date            string                    `json:"date"`
	ActiveEmployees int                       `json:"active_employees"`
	PresentToday    int                       `json:"present_today"`
	AbsentToday     int                       `json:"absent_today"`
	MissingToday    int                       `json:"missing_punches_today"`
	Alerts          []AttendanceDTO           `json:"missing_punch_alerts"`
	Departments     []service.DepartmentCount `json:"departments"`
}

func toDashboardDTO(d *service.Dashboard) DashboardDTO {
	depts := d.Departments
	if depts == nil {
		depts = []service.DepartmentCount{}
	}
	return DashboardDTO{
		Date:            d.Date.String(),
		ActiveEmployees: d.ActiveEmployees,
		PresentToday:    d.PresentToday,
		AbsentToday:     d.AbsentToday,
		MissingToday:    d.MissingToday,
		Alerts:          toAttendanceDTOs(d.Alerts),
		Departments:     depts,
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func num(d decimal.Decimal) float64 {
	return generic.Round2(d).InexactFloat64()
}
