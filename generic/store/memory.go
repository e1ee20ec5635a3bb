// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps every table in a map keyed by the table's natural key.
type Memory struct {
	mu         sync.RWMutex
	employees  map[generic.EmployeeCode]generic.Employee
	attendance map[generic.AttendanceKey]generic.AttendanceRecord
	leaves     map[generic.LeaveKey]generic.LeaveRecord
	payroll    map[generic.PayPeriod][]generic.PayrollResult
	rules      []byte
}

func NewMemory() *Memory {
	return &Memory{
		employees:  make(map[generic.EmployeeCode]generic.Employee),
		attendance: make(map[generic.AttendanceKey]generic.AttendanceRecord),
		leaves:     make(map[generic.LeaveKey]generic.LeaveRecord),
		payroll:    make(map[generic.PayPeriod][]generic.PayrollResult),
	}
}

func (m *Memory) Close() error { return nil }

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployees(_ context.Context, employees []generic.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range employees {
		m.employees[e.Code] = e
	}
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, code generic.EmployeeCode) (*generic.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[code]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]generic.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (m *Memory) SaveAttendance(_ context.Context, records []generic.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.attendance[r.Key()] = r
	}
	return nil
}

func (m *Memory) GetAttendance(_ context.Context, k generic.AttendanceKey) (*generic.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.attendance[k]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) ListAttendance(_ context.Context, period generic.Period) ([]generic.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.AttendanceRecord
	for _, r := range m.attendance {
		if period.Contains(r.Date) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Code != result[j].Code {
			return result[i].Code < result[j].Code
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// =============================================================================
// LEAVES
// =============================================================================

func (m *Memory) SaveLeave(_ context.Context, leave generic.LeaveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[leave.Key()] = leave
	return nil
}

func (m *Memory) ListLeaves(_ context.Context) ([]generic.LeaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.LeaveRecord, 0, len(m.leaves))
	for _, l := range m.leaves {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AppliedOn.Equal(result[j].AppliedOn) {
			return result[i].AppliedOn.Before(result[j].AppliedOn)
		}
		if result[i].Code != result[j].Code {
			return result[i].Code < result[j].Code
		}
		return result[i].From.Before(result[j].From)
	})
	return result, nil
}

// =============================================================================
// PAYROLL
// =============================================================================

func (m *Memory) SavePayroll(_ context.Context, period generic.PayPeriod, results []generic.PayrollResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payroll[period] = append([]generic.PayrollResult{}, results...)
	return nil
}

func (m *Memory) GetPayroll(_ context.Context, period generic.PayPeriod) ([]generic.PayrollResult, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results, ok := m.payroll[period]
	if !ok {
		return nil, false, nil
	}
	return append([]generic.PayrollResult{}, results...), true, nil
}

func (m *Memory) ListPayrollPeriods(_ context.Context) ([]generic.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	periods := make([]generic.PayPeriod, 0, len(m.payroll))
	for p := range m.payroll {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods, nil
}

// =============================================================================
// RULES
// =============================================================================

func (m *Memory) LoadRulesDocument(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rules == nil {
		return nil, nil
	}
	return append([]byte{}, m.rules...), nil
}

func (m *Memory) SaveRulesDocument(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append([]byte{}, doc...)
	return nil
}
