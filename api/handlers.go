/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the service operations via REST API. Handles HTTP request and
  response, JSON serialization, uploads and downloads, and delegates all
  domain work to service.Service.

ENDPOINTS:
  Employees:
    GET    /api/employees                  List (search, department, status)
    POST   /api/employees                  Create or replace one employee
    GET    /api/employees/{ecode}          Get one employee
    POST   /api/employees/import           Multipart CSV/XLSX upload ("file")
    GET    /api/employees/export           Download (format=csv|xlsx)

  Attendance:
    GET    /api/attendance                 List (month+year or from+to, ecode, category)
    POST   /api/attendance                 Manual single-day entry
    POST   /api/attendance/punches         Multipart punch upload ("file")
    POST   /api/attendance/fix             Correct the punches of one row
    GET    /api/attendance/missing         Missing punches on a date (side=any|in|out)
    GET    /api/attendance/summary         Per-employee totals for a period
    GET    /api/attendance/export          Download a period

  Payroll:
    POST   /api/payroll/run                        Run a month
    GET    /api/payroll/periods                    Stored periods
    GET    /api/payroll/{year}/{month}             Stored results
    GET    /api/payroll/{year}/{month}/report      Month rollup
    GET    /api/payroll/{year}/{month}/export      Download results
    GET    /api/payroll/{year}/{month}/payslips/{ecode}      Payslip JSON
    GET    /api/payroll/{year}/{month}/payslips/{ecode}/pdf  Payslip PDF

  Leaves:
    GET    /api/leaves                     List (ecode, leave_type, status)
    POST   /api/leaves                     Apply
    GET    /api/leaves/balances            Balance report for active employees
    GET    /api/leaves/balances/{ecode}    One employee's balances
    GET    /api/leaves/{id}                Get one application
    POST   /api/leaves/{id}/approve        Pending -> Approved
    POST   /api/leaves/{id}/reject         Pending -> Rejected

  Settings and dashboard:
    GET    /api/settings/rules             Current rules document
    PUT    /api/settings/rules             Replace the rules document
    POST   /api/settings/rules/reset       Restore defaults
    GET    /api/dashboard                  Today's counts (date=YYYY-MM-DD)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unsupported formats
  - 404: Employee, record or payroll row not found
  - 409: Duplicate leave application or invalid status transition
  - 422: Operation preconditions unmet (no employees, no attendance,
         payroll not run)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. Deploy behind a trusted proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/service"
	"github.com/warp/payroll-engine/tabular"
	"go.uber.org/zap"
)

// maxUploadBytes bounds multipart uploads and JSON bodies.
const maxUploadBytes = 32 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *service.Service
	Logger  *zap.Logger
}

func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger}
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns employees matching the query filters.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.EmployeeFilter{
		Search:     q.Get("search"),
		Department: q.Get("department"),
	}
	if s := q.Get("status"); s != "" {
		filter.Status = generic.ParseEmployeeStatus(s)
	}

	employees, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveEmployee creates or fully replaces an employee.
// POST /api/employees
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if !decodeBody(w, r, &req) {
		return
	}
	emp, err := h.Service.SaveEmployee(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

// GetEmployee returns a single employee.
// GET /api/employees/{ecode}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "ecode"))
	if err != nil {
		h.fail(w, r, "Employee not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// ImportEmployees upserts every row of an uploaded sheet.
// POST /api/employees/import
func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	table, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	res, err := h.Service.ImportEmployees(r.Context(), table)
	if err != nil {
		h.fail(w, r, "Failed to import employees", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportDTO{Imported: res.Imported, Skipped: res.Skipped})
}

// ExportEmployees downloads the employee table.
// GET /api/employees/export
func (h *Handler) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	format, err := tabular.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, r, "Unsupported format", err)
		return
	}
	var buf bytes.Buffer
	if err := h.Service.ExportEmployees(r.Context(), &buf, format); err != nil {
		h.fail(w, r, "Failed to export employees", err)
		return
	}
	writeFile(w, "employees"+format.Ext(), format.ContentType(), &buf)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns rows matching the query filters.
// GET /api/attendance
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := periodFromQuery(q.Get("month"), q.Get("year"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}
	filter := service.AttendanceFilter{Period: period, Code: generic.NormalizeCode(q.Get("ecode"))}
	if c := q.Get("category"); c != "" {
		cat, ok := generic.ParseStatusCategory(c)
		if !ok {
			h.fail(w, r, "Invalid category", &generic.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", c)})
			return
		}
		filter.Category = cat
	}

	rows, err := h.Service.ListAttendance(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTOs(rows))
}

// RecordAttendance stores one manually entered day.
// POST /api/attendance
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req service.AttendanceEntry
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := h.Service.RecordAttendance(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to record attendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttendanceDTO(*rec))
}

// ProcessPunches computes attendance from an uploaded punch sheet.
// POST /api/attendance/punches
func (h *Handler) ProcessPunches(w http.ResponseWriter, r *http.Request) {
	table, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	report, err := h.Service.ProcessPunches(r.Context(), table)
	if err != nil {
		h.fail(w, r, "Failed to process punches", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// FixPunch corrects one row's punches.
// POST /api/attendance/fix
func (h *Handler) FixPunch(w http.ResponseWriter, r *http.Request) {
	var req service.PunchFix
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := h.Service.FixPunch(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to fix punch", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(*rec))
}

// MissingPunches lists rows on a date with a missing punch.
// GET /api/attendance/missing
func (h *Handler) MissingPunches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := h.dateParam(q.Get("date"))
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	side, err := service.ParsePunchSide(q.Get("side"))
	if err != nil {
		h.fail(w, r, "Invalid side", err)
		return
	}
	rows, err := h.Service.MissingPunches(r.Context(), date, side)
	if err != nil {
		h.fail(w, r, "Failed to list missing punches", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTOs(rows))
}

// AttendanceSummary returns per-employee totals for a period.
// GET /api/attendance/summary
func (h *Handler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	period, ok := h.requiredPeriod(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.AttendanceSummary(r.Context(), period)
	if err != nil {
		h.fail(w, r, "Failed to summarize attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTOs(summary))
}

// ExportAttendance downloads a period of attendance.
// GET /api/attendance/export
func (h *Handler) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	period, ok := h.requiredPeriod(w, r)
	if !ok {
		return
	}
	format, err := tabular.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, r, "Unsupported format", err)
		return
	}
	var buf bytes.Buffer
	if err := h.Service.ExportAttendance(r.Context(), &buf, period, format); err != nil {
		h.fail(w, r, "Failed to export attendance", err)
		return
	}
	name := fmt.Sprintf("attendance_%s_%s%s", period.Start, period.End, format.Ext())
	writeFile(w, name, format.ContentType(), &buf)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// RunPayroll computes and stores a month.
// POST /api/payroll/run
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req RunPayrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := generic.ValidateStruct(req); err != nil {
		h.fail(w, r, "Invalid request", err)
		return
	}
	run, err := h.Service.RunPayroll(r.Context(), req.Month, req.Year)
	if err != nil {
		h.fail(w, r, "Payroll run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollRunDTO(run))
}

// ListPayrollPeriods returns every stored period, oldest first.
// GET /api/payroll/periods
func (h *Handler) ListPayrollPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Service.ListPayrollPeriods(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list payroll periods", err)
		return
	}
	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = PeriodDTO{Month: p.Month.String(), Year: p.Year, Label: p.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayroll returns a stored month.
// GET /api/payroll/{year}/{month}
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	period, ok := h.payPeriod(w, r)
	if !ok {
		return
	}
	results, err := h.Service.GetPayroll(r.Context(), period)
	if err != nil {
		h.fail(w, r, "Payroll not available", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTOs(results))
}

// PayrollReport returns the month rollup.
// GET /api/payroll/{year}/{month}/report
func (h *Handler) PayrollReport(w http.ResponseWriter, r *http.Request) {
	period, ok := h.payPeriod(w, r)
	if !ok {
		return
	}
	rep, err := h.Service.PayrollReport(r.Context(), period)
	if err != nil {
		h.fail(w, r, "Payroll not available", err)
		return
	}
	writeJSON(w, http.StatusOK, PayrollReportDTO{
		Period:     rep.Period.String(),
		Employees:  rep.Employees,
		Gross:      num(rep.Gross),
		PFEmployee: num(rep.PFEmployee),
		PFEmployer: num(rep.PFEmployer),
		PFTotal:    num(rep.PFTotal),
		NetPay:     num(rep.NetPay),
		Results:    toPayrollDTOs(rep.Results),
	})
}

// ExportPayroll downloads a stored month.
// GET /api/payroll/{year}/{month}/export
func (h *Handler) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	period, ok := h.payPeriod(w, r)
	if !ok {
		return
	}
	format, err := tabular.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, r, "Unsupported format", err)
		return
	}
	var buf bytes.Buffer
	if err := h.Service.ExportPayroll(r.Context(), &buf, period, format); err != nil {
		h.fail(w, r, "Failed to export payroll", err)
		return
	}
	writeFile(w, "payroll_"+period.Slug()+format.Ext(), format.ContentType(), &buf)
}

// GetPayslip returns one employee's slip as JSON.
// GET /api/payroll/{year}/{month}/payslips/{ecode}
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	period, ok := h.payPeriod(w, r)
	if !ok {
		return
	}
	ps, err := h.Service.Payslip(r.Context(), period, chi.URLParam(r, "ecode"))
	if err != nil {
		h.fail(w, r, "Payslip not available", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayslipDTO(ps))
}

// GetPayslipPDF renders one employee's slip.
// GET /api/payroll/{year}/{month}/payslips/{ecode}/pdf
func (h *Handler) GetPayslipPDF(w http.ResponseWriter, r *http.Request) {
	period, ok := h.payPeriod(w, r)
	if !ok {
		return
	}
	code := generic.NormalizeCode(chi.URLParam(r, "ecode"))
	var buf bytes.Buffer
	if err := h.Service.WritePayslipPDF(r.Context(), &buf, period, code.String()); err != nil {
		h.fail(w, r, "Payslip not available", err)
		return
	}
	writeFile(w, fmt.Sprintf("payslip_%s_%s.pdf", code, period.Slug()), "application/pdf", &buf)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListLeaves returns applications, most recently applied first.
// GET /api/leaves
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := leave.Filter{
		Code:   generic.NormalizeCode(q.Get("ecode")),
		Status: generic.LeaveStatus(q.Get("status")),
	}
	if t := q.Get("leave_type"); t != "" {
		lt, ok := generic.ParseLeaveType(t)
		if !ok {
			h.fail(w, r, "Invalid leave type", &generic.ValidationError{Field: "leave_type", Message: "must be one of PL, CL, SL"})
			return
		}
		filter.Type = lt
	}
	period, err := periodFromQuery(q.Get("month"), q.Get("year"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}
	filter.Period = period

	leaves, err := h.Service.ListLeaves(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list leaves", err)
		return
	}
	dtos := make([]LeaveDTO, len(leaves))
	for i, l := range leaves {
		dtos[i] = toLeaveDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApplyLeave stores a Pending application.
// POST /api/leaves
func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	var req leave.Application
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := h.Service.ApplyLeave(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to apply for leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(*rec))
}

// GetLeave returns one application.
// GET /api/leaves/{id}
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.GetLeave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Leave not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(*rec))
}

// ApproveLeave moves a Pending application to Approved.
// POST /api/leaves/{id}/approve
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.ApproveLeave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to approve leave", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(*rec))
}

// RejectLeave moves a Pending application to Rejected.
// POST /api/leaves/{id}/reject
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.RejectLeave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to reject leave", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(*rec))
}

// LeaveBalance returns one employee's balances for a year.
// GET /api/leaves/balances/{ecode}
func (h *Handler) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r.URL.Query().Get("year"))
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	b, err := h.Service.LeaveBalance(r.Context(), chi.URLParam(r, "ecode"), year)
	if err != nil {
		h.fail(w, r, "Failed to compute leave balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeBalancesDTO(*b, year))
}

// LeaveBalanceReport returns balances for every active employee.
// GET /api/leaves/balances
func (h *Handler) LeaveBalanceReport(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r.URL.Query().Get("year"))
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	report, err := h.Service.LeaveBalanceReport(r.Context(), year)
	if err != nil {
		h.fail(w, r, "Failed to compute leave balances", err)
		return
	}
	dtos := make([]EmployeeBalancesDTO, len(report))
	for i, b := range report {
		dtos[i] = toEmployeeBalancesDTO(b, year)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SETTINGS AND DASHBOARD HANDLERS
// =============================================================================

// GetRules returns the effective rules document.
// GET /api/settings/rules
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.RulesDocument(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load rules", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// SaveRules validates and replaces the rules document. A rejected document
// leaves the stored one in place.
// PUT /api/settings/rules
func (h *Handler) SaveRules(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	if _, err := h.Service.SaveRulesDocument(r.Context(), raw); err != nil {
		h.fail(w, r, "Invalid rules document", err)
		return
	}
	h.GetRules(w, r)
}

// ResetRules restores the built-in defaults.
// POST /api/settings/rules/reset
func (h *Handler) ResetRules(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.ResetRules(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset rules", err)
		return
	}
	h.GetRules(w, r)
}

// Dashboard returns the counts for a day (today when date is omitted).
// GET /api/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	d, err := h.Service.Dashboard(r.Context(), date)
	if err != nil {
		h.fail(w, r, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(d))
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// readUpload parses the "file" field of a multipart upload.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*tabular.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return nil, false
	}
	defer file.Close()

	table, err := tabular.Read(header.Filename, file)
	if err != nil {
		h.fail(w, r, "Failed to read upload", err)
		return nil, false
	}
	return table, true
}

// payPeriod reads {year} and {month} route parameters.
func (h *Handler) payPeriod(w http.ResponseWriter, r *http.Request) (generic.PayPeriod, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return generic.PayPeriod{}, false
	}
	period, err := generic.ParsePayPeriod(chi.URLParam(r, "month"), year)
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return generic.PayPeriod{}, false
	}
	return period, true
}

func (h *Handler) requiredPeriod(w http.ResponseWriter, r *http.Request) (generic.Period, bool) {
	q := r.URL.Query()
	period, err := periodFromQuery(q.Get("month"), q.Get("year"), q.Get("from"), q.Get("to"))
	if err == nil && period == nil {
		err = &generic.ValidationError{Field: "month", Message: "month and year, or from and to, are required"}
	}
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return generic.Period{}, false
	}
	return *period, true
}

// periodFromQuery accepts month+year or from+to. Neither yields nil.
func periodFromQuery(month, year, from, to string) (*generic.Period, error) {
	switch {
	case month != "" || year != "":
		y, err := strconv.Atoi(year)
		if err != nil {
			return nil, &generic.ValidationError{Field: "year", Message: "must be a number"}
		}
		pp, err := generic.ParsePayPeriod(month, y)
		if err != nil {
			return nil, err
		}
		p := pp.Period()
		return &p, nil
	case from != "" || to != "":
		start, err := generic.ParseDate(from)
		if err != nil {
			return nil, &generic.ValidationError{Field: "from", Message: "must be YYYY-MM-DD"}
		}
		end, err := generic.ParseDate(to)
		if err != nil {
			return nil, &generic.ValidationError{Field: "to", Message: "must be YYYY-MM-DD"}
		}
		p, err := generic.NewPeriod(start, end)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, nil
}

func (h *Handler) dateParam(s string) (generic.Date, error) {
	if strings.TrimSpace(s) == "" {
		return h.Service.Today(), nil
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		return generic.Date{}, &generic.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	return d, nil
}

func (h *Handler) yearParam(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return h.Service.Today().Year(), nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 {
		return 0, &generic.ValidationError{Field: "year", Message: "must be a positive number"}
	}
	return y, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeFile(w http.ResponseWriter, filename, contentType string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	body.WriteTo(w)
}

// fail maps a service error to its status code. Unclassified errors are
// logged and returned as 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(message, zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generic.ErrDuplicateLeave), errors.Is(err, generic.ErrInvalidTransition):
		return http.StatusConflict
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsPrecondition(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
