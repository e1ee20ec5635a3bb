package service

import (
	"context"
	"fmt"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
)

// =============================================================================
// LEAVE
// =============================================================================

func (s *Service) ApplyLeave(ctx context.Context, app leave.Application) (*generic.LeaveRecord, error) {
	rec, err := s.leaves.Apply(ctx, app)
	if err != nil {
		return nil, err
	}
	s.metrics.LeaveTransition(string(rec.Status))
	return rec, nil
}

func (s *Service) ApproveLeave(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	rec, err := s.leaves.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.LeaveTransition(string(rec.Status))
	return rec, nil
}

func (s *Service) RejectLeave(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	rec, err := s.leaves.Reject(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.LeaveTransition(string(rec.Status))
	return rec, nil
}

func (s *Service) GetLeave(ctx context.Context, id string) (*generic.LeaveRecord, error) {
	return s.leaves.Get(ctx, id)
}

func (s *Service) ListLeaves(ctx context.Context, f leave.Filter) ([]generic.LeaveRecord, error) {
	return s.leaves.List(ctx, f)
}

// EmployeeBalances is one row of the leave balance report.
type EmployeeBalances struct {
	Code       generic.EmployeeCode
	Name       string
	Department string
	Balances   []leave.Balance
}

// LeaveBalance returns one employee's PL/CL/SL position for the year.
func (s *Service) LeaveBalance(ctx context.Context, code string, year int) (*EmployeeBalances, error) {
	emp, err := s.GetEmployee(ctx, code)
	if err != nil {
		return nil, err
	}
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListLeaves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return &EmployeeBalances{
		Code:       emp.Code,
		Name:       emp.Name,
		Department: emp.Department,
		Balances:   leave.Balances(emp.Code, year, rules, records),
	}, nil
}

// LeaveBalanceReport covers every Active employee, ordered by code.
func (s *Service) LeaveBalanceReport(ctx context.Context, year int) ([]EmployeeBalances, error) {
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	emps, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	records, err := s.store.ListLeaves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}

	out := make([]EmployeeBalances, 0, len(emps))
	for _, e := range emps {
		if !e.IsActive() {
			continue
		}
		out = append(out, EmployeeBalances{
			Code:       e.Code,
			Name:       e.Name,
			Department: e.Department,
			Balances:   leave.Balances(e.Code, year, rules, records),
		})
	}
	return out, nil
}
