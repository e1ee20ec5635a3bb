package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// DASHBOARD
// =============================================================================

// alertWindowDays is how far back missing-punch alerts reach, today included.
const alertWindowDays = 7

type DepartmentCount struct {
	Department string `json:"department"`
	Employees  int    `json:"employees"`
}

type Dashboard struct {
	Date            generic.Date
	ActiveEmployees int
	PresentToday    int
	AbsentToday     int
	MissingToday    int
	Alerts          []generic.AttendanceRecord
	Departments     []DepartmentCount
}

// Dashboard counts today's attendance of Active employees. Absent is every
// active employee not Present, so unmarked employees count as absent.
func (s *Service) Dashboard(ctx context.Context, today generic.Date) (*Dashboard, error) {
	emps, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	active := make(map[generic.EmployeeCode]bool, len(emps))
	heads := map[string]int{}
	for _, e := range emps {
		if !e.IsActive() {
			continue
		}
		active[e.Code] = true
		heads[e.Department]++
	}

	window := generic.Period{Start: today.AddDays(-(alertWindowDays - 1)), End: today}
	rows, err := s.store.ListAttendance(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	d := &Dashboard{Date: today, ActiveEmployees: len(active)}
	for _, r := range rows {
		if r.Status.IsMissingPunch() {
			d.Alerts = append(d.Alerts, r)
		}
		if !r.Date.Equal(today) || !active[r.Code] {
			continue
		}
		switch {
		case r.Status == generic.StatusPresent:
			d.PresentToday++
		case r.Status.IsMissingPunch():
			d.MissingToday++
		}
	}
	d.AbsentToday = d.ActiveEmployees - d.PresentToday
	sort.SliceStable(d.Alerts, func(i, j int) bool { return d.Alerts[i].Date.After(d.Alerts[j].Date) })

	for dept, n := range heads {
		d.Departments = append(d.Departments, DepartmentCount{Department: dept, Employees: n})
	}
	sort.Slice(d.Departments, func(i, j int) bool { return d.Departments[i].Department < d.Departments[j].Department })
	return d, nil
}
