package leave

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// REQUEST SERVICE - Application lifecycle
// =============================================================================

type RequestService struct {
	Leaves    generic.LeaveStore
	Employees generic.EmployeeStore
	Logger    *zap.Logger
	Today     func() generic.Date
}

func NewRequestService(leaves generic.LeaveStore, employees generic.EmployeeStore, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{Leaves: leaves, Employees: employees, Logger: logger, Today: generic.Today}
}

// Application is the raw input of a new leave request.
type Application struct {
	Code   string `json:"ecode" validate:"required"`
	Type   string `json:"leave_type" validate:"required"`
	From   string `json:"from_date" validate:"required"`
	To     string `json:"to_date" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

// =============================================================================
// APPLY
// =============================================================================

// Apply validates and stores a Pending application. Days are inclusive
// calendar days; week-offs and holidays inside the range are not excluded.
func (rs *RequestService) Apply(ctx context.Context, app Application) (*generic.LeaveRecord, error) {
	if err := generic.ValidateStruct(app); err != nil {
		return nil, err
	}
	lt, ok := generic.ParseLeaveType(app.Type)
	if !ok {
		return nil, &generic.ValidationError{Field: "leave_type", Message: "must be one of PL, CL, SL"}
	}
	from, err := generic.ParseDate(app.From)
	if err != nil {
		return nil, &generic.ValidationError{Field: "from_date", Message: "must be YYYY-MM-DD"}
	}
	to, err := generic.ParseDate(app.To)
	if err != nil {
		return nil, &generic.ValidationError{Field: "to_date", Message: "must be YYYY-MM-DD"}
	}
	if to.Before(from) {
		return nil, generic.ErrInvalidPeriod
	}

	code := generic.NormalizeCode(app.Code)
	emp, err := rs.Employees.GetEmployee(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load employee %s: %w", code, err)
	}
	if emp == nil {
		return nil, fmt.Errorf("apply leave for %s: %w", code, generic.ErrEmployeeNotFound)
	}

	rec := generic.LeaveRecord{
		Code:      code,
		Name:      emp.Name,
		Type:      lt,
		From:      from,
		To:        to,
		Days:      decimal.NewFromInt(int64(InclusiveDays(from, to))),
		Reason:    strings.TrimSpace(app.Reason),
		Status:    generic.LeavePending,
		AppliedOn: rs.Today(),
	}

	existing, err := rs.find(ctx, rec.ID())
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != generic.LeaveRejected {
		return nil, fmt.Errorf("%s %s %s..%s is %s: %w",
			code, lt, from, to, existing.Status, generic.ErrDuplicateLeave)
	}

	if err := rs.Leaves.SaveLeave(ctx, rec); err != nil {
		return nil, fmt.Errorf("save leave: %w", err)
	}
	rs.Logger.Info("leave applied",
		zap.String("ecode", code.String()),
		zap.String("type", string(lt)),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("days", rec.Days.String()),
	)
	return &rec, nil
}

// =============================================================================
// APPROVE / REJECT - One-way transitions out of Pending
// =============================================================================

func (rs *RequestService) Approve(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	return rs.transition(ctx, id, generic.LeaveApproved)
}

func (rs *RequestService) Reject(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	return rs.transition(ctx, id, generic.LeaveRejected)
}

func (rs *RequestService) transition(ctx context.Context, id string, to generic.LeaveStatus) (*generic.LeaveRecord, error) {
	rec, err := rs.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("leave %s: %w", id, generic.ErrRecordNotFound)
	}
	if rec.Status != generic.LeavePending {
		return nil, &generic.TransitionError{ID: id, From: rec.Status, To: to}
	}

	rec.Status = to
	if err := rs.Leaves.SaveLeave(ctx, *rec); err != nil {
		return nil, fmt.Errorf("save leave: %w", err)
	}
	rs.Logger.Info("leave status changed",
		zap.String("id", id),
		zap.String("ecode", rec.Code.String()),
		zap.String("status", string(to)),
	)
	return rec, nil
}

// Get returns the application with the given ID.
func (rs *RequestService) Get(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	rec, err := rs.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("leave %s: %w", id, generic.ErrRecordNotFound)
	}
	return rec, nil
}

func (rs *RequestService) find(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	all, err := rs.Leaves.ListLeaves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	for i := range all {
		if all[i].ID() == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// =============================================================================
// LISTING
// =============================================================================

// Filter narrows List. Zero fields match everything; Period matches on the
// from-date.
type Filter struct {
	Code   generic.EmployeeCode
	Type   generic.LeaveType
	Status generic.LeaveStatus
	Period *generic.Period
}

func (f Filter) Match(r generic.LeaveRecord) bool {
	if f.Code != "" && r.Code != f.Code {
		return false
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Period != nil && !f.Period.Contains(r.From) {
		return false
	}
	return true
}

// List returns matching applications, most recently applied first.
func (rs *RequestService) List(ctx context.Context, f Filter) ([]generic.LeaveRecord, error) {
	all, err := rs.Leaves.ListLeaves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	out := make([]generic.LeaveRecord, 0, len(all))
	for _, r := range all {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedOn.After(out[j].AppliedOn) })
	return out, nil
}
