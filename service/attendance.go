package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/tabular"
	"go.uber.org/zap"
)

// =============================================================================
// PUNCH PROCESSING - Upload -> calculator -> sandwich rule -> upsert
// =============================================================================

// PunchReport summarizes one ProcessPunches call.
type PunchReport struct {
	Processed        int      `json:"processed"`
	Skipped          int      `json:"skipped"`
	UnknownEmployees []string `json:"unknown_employees,omitempty"`
	Sandwiched       int      `json:"sandwiched"`
}

// ProcessPunches computes and stores one attendance row per valid punch
// row. Rows with an unreadable date or an unknown employee are skipped.
// Rows are grouped per employee and run through the sandwich rule before a
// single upsert.
func (s *Service) ProcessPunches(ctx context.Context, t *tabular.Table) (*PunchReport, error) {
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employeeIndex(ctx)
	if err != nil {
		return nil, err
	}

	punches, skipped := tabular.DecodePunches(t)
	report := &PunchReport{Skipped: skipped}
	calc := attendance.NewCalculator(rules)

	unknown := map[generic.EmployeeCode]bool{}
	byEmployee := map[generic.EmployeeCode][]generic.AttendanceRecord{}
	for _, p := range punches {
		emp, ok := employees[p.Code]
		if !ok {
			report.Skipped++
			if !unknown[p.Code] {
				unknown[p.Code] = true
				report.UnknownEmployees = append(report.UnknownEmployees, p.Code.String())
			}
			continue
		}
		rec := s.computeDay(calc, rules, emp, p.Date, p.InTime, p.OutTime, p.Status, p.Remarks)
		byEmployee[p.Code] = append(byEmployee[p.Code], rec)
	}

	var rows []generic.AttendanceRecord
	for _, code := range sortedCodes(byEmployee) {
		processed := attendance.ApplySandwichRule(byEmployee[code], rules)
		for _, r := range processed {
			if r.Status == generic.StatusSandwichAbsent {
				report.Sandwiched++
			}
		}
		rows = append(rows, processed...)
	}
	report.Processed = len(rows)

	if len(rows) > 0 {
		if err := s.store.SaveAttendance(ctx, rows); err != nil {
			return nil, fmt.Errorf("save attendance: %w", err)
		}
	}

	s.metrics.PunchRows(report.Processed, report.Skipped)
	s.metrics.SandwichReclassified(report.Sandwiched)
	s.logger.Info("punches processed",
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("sandwiched", report.Sandwiched),
		zap.Strings("unknown_employees", report.UnknownEmployees),
	)
	return report, nil
}

// computeDay builds one row. A recognized status other than Present
// overrides the computation and zeroes every figure.
func (s *Service) computeDay(calc *attendance.Calculator, rules *generic.Rules, emp generic.Employee,
	date generic.Date, in, out, status, remarks string) generic.AttendanceRecord {

	shift := attendance.ResolveEmployeeShift(emp, rules)
	shiftName := emp.Shift
	if shift.Open && shiftName == "" {
		shiftName = generic.OpenShiftName
	}

	rec := generic.AttendanceRecord{
		Code:    emp.Code,
		Name:    emp.Name,
		Date:    date,
		Shift:   shiftName,
		InTime:  strings.TrimSpace(in),
		OutTime: strings.TrimSpace(out),
		Remarks: strings.TrimSpace(remarks),
	}

	override, recognized := generic.ParseAttendanceStatus(status)
	if recognized && override != generic.StatusPresent {
		rec.Status = override
		rec.WorkingHours = decimal.Zero
		rec.OvertimeHours = decimal.Zero
		return rec
	}
	calc.Compute(rec.InTime, rec.OutTime, shift).Apply(&rec)
	return rec
}

func (s *Service) employeeIndex(ctx context.Context) (map[generic.EmployeeCode]generic.Employee, error) {
	emps, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	idx := make(map[generic.EmployeeCode]generic.Employee, len(emps))
	for _, e := range emps {
		idx[e.Code] = e
	}
	return idx, nil
}

func sortedCodes[V any](m map[generic.EmployeeCode]V) []generic.EmployeeCode {
	codes := make([]generic.EmployeeCode, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// =============================================================================
// MANUAL ENTRY AND FIXES
// =============================================================================

// AttendanceEntry is one manually entered day.
type AttendanceEntry struct {
	Code    string `json:"ecode" validate:"required"`
	Date    string `json:"date" validate:"required"`
	InTime  string `json:"in_time"`
	OutTime string `json:"out_time"`
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// RecordAttendance computes and upserts a single day. A blank status takes
// the computed one; any status other than Present zeroes the figures.
func (s *Service) RecordAttendance(ctx context.Context, e AttendanceEntry) (*generic.AttendanceRecord, error) {
	if err := generic.ValidateStruct(e); err != nil {
		return nil, err
	}
	date, ok := tabular.ParseDate(e.Date)
	if !ok {
		return nil, &generic.ValidationError{Field: "date", Message: "is not a valid date"}
	}
	if strings.TrimSpace(e.Status) != "" {
		if _, known := generic.ParseAttendanceStatus(e.Status); !known {
			return nil, &generic.ValidationError{Field: "status", Message: "is not a known attendance status"}
		}
	}
	emp, err := s.GetEmployee(ctx, e.Code)
	if err != nil {
		return nil, err
	}
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}

	rec := s.computeDay(attendance.NewCalculator(rules), rules, *emp, date, e.InTime, e.OutTime, e.Status, e.Remarks)
	if err := s.store.SaveAttendance(ctx, []generic.AttendanceRecord{rec}); err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}
	s.logger.Info("attendance recorded",
		zap.String("ecode", rec.Code.String()),
		zap.String("date", rec.Date.String()),
		zap.String("status", rec.Status.String()),
	)
	return &rec, nil
}

// PunchFix corrects the punches of an existing row.
type PunchFix struct {
	Code    string `json:"ecode" validate:"required"`
	Date    string `json:"date" validate:"required"`
	InTime  string `json:"in_time"`
	OutTime string `json:"out_time"`
	Remark  string `json:"remark"`
}

// FixPunch recomputes an existing row from corrected punches. The status
// becomes whatever the calculator says: Present when both punches parse.
func (s *Service) FixPunch(ctx context.Context, fix PunchFix) (*generic.AttendanceRecord, error) {
	if err := generic.ValidateStruct(fix); err != nil {
		return nil, err
	}
	date, ok := tabular.ParseDate(fix.Date)
	if !ok {
		return nil, &generic.ValidationError{Field: "date", Message: "is not a valid date"}
	}
	key := generic.AttendanceKey{Code: generic.NormalizeCode(fix.Code), Date: date}
	rec, err := s.store.GetAttendance(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%s on %s: %w", key.Code, date, generic.ErrRecordNotFound)
	}
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}

	shift := attendance.ResolveShift(rec.Shift, rules)
	if emp, err := s.store.GetEmployee(ctx, key.Code); err == nil && emp != nil {
		shift = attendance.ResolveEmployeeShift(*emp, rules)
	}

	rec.InTime = strings.TrimSpace(fix.InTime)
	rec.OutTime = strings.TrimSpace(fix.OutTime)
	attendance.NewCalculator(rules).Compute(rec.InTime, rec.OutTime, shift).Apply(rec)
	if note := strings.TrimSpace(fix.Remark); note != "" {
		rec.Remarks = attendance.AppendRemark(rec.Remarks, note)
	}

	if err := s.store.SaveAttendance(ctx, []generic.AttendanceRecord{*rec}); err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}
	s.logger.Info("punch fixed",
		zap.String("ecode", rec.Code.String()),
		zap.String("date", rec.Date.String()),
		zap.String("status", rec.Status.String()),
	)
	return rec, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// AttendanceFilter narrows ListAttendance. A nil Period means all dates.
type AttendanceFilter struct {
	Period   *generic.Period
	Code     generic.EmployeeCode
	Category generic.StatusCategory
}

func (s *Service) ListAttendance(ctx context.Context, f AttendanceFilter) ([]generic.AttendanceRecord, error) {
	period := allTime
	if f.Period != nil {
		period = *f.Period
	}
	rows, err := s.store.ListAttendance(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	out := rows[:0]
	for _, r := range rows {
		if f.Code != "" && r.Code != f.Code {
			continue
		}
		if f.Category != "" && r.Status.Category() != f.Category {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// PunchSideFilter selects which missing punches MissingPunches returns.
type PunchSideFilter string

const (
	SideAny PunchSideFilter = "any"
	SideIn  PunchSideFilter = "in"
	SideOut PunchSideFilter = "out"
)

func ParsePunchSide(s string) (PunchSideFilter, error) {
	switch side := PunchSideFilter(strings.ToLower(strings.TrimSpace(s))); side {
	case "", SideAny:
		return SideAny, nil
	case SideIn, SideOut:
		return side, nil
	}
	return "", &generic.ValidationError{Field: "side", Message: "must be one of any, in, out"}
}

// MissingPunches lists rows on date with a missing punch. "in" includes
// rows missing both punches, as does "out".
func (s *Service) MissingPunches(ctx context.Context, date generic.Date, side PunchSideFilter) ([]generic.AttendanceRecord, error) {
	rows, err := s.store.ListAttendance(ctx, generic.Period{Start: date, End: date})
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	var out []generic.AttendanceRecord
	for _, r := range rows {
		if !r.Status.IsMissingPunch() {
			continue
		}
		switch side {
		case SideIn:
			if r.Status.Missing == generic.MissingOut {
				continue
			}
		case SideOut:
			if r.Status.Missing == generic.MissingIn {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Service) AttendanceSummary(ctx context.Context, period generic.Period) ([]attendance.Summary, error) {
	rows, err := s.store.ListAttendance(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return attendance.Summarize(rows), nil
}

func (s *Service) ExportAttendance(ctx context.Context, w io.Writer, period generic.Period, format tabular.Format) error {
	rows, err := s.store.ListAttendance(ctx, period)
	if err != nil {
		return fmt.Errorf("export attendance: %w", err)
	}
	return tabular.Write(w, format, "Attendance", tabular.EncodeAttendance(rows))
}
