/*
Package csvstore keeps every payroll table as a flat CSV file in one directory.

LAYOUT:
  employees.csv               keyed by ecode
  attendance.csv              keyed by (ecode, date)
  leaves.csv                  keyed by (ecode, leave_type, from_date, to_date)
  payroll_<Month>_<Year>.csv  one file per period, replaced as a whole
  settings.json               the rules document

WRITES:
  A write reads the whole table, merges the new rows in by key (replacing in
  place, appending unseen keys), and replaces the file through a temp file
  and rename. A crash mid-write leaves the previous file intact.

  Rewrites never lose data. Stored rows the codecs cannot read (a hand-typed
  date, an unknown leave type) are written back cell for cell, and columns
  outside the known set keep their values. Reads skip such rows.

CONCURRENCY:
  One mutex per store. Nothing coordinates two processes sharing a
  directory; the last rename wins.
*/
package csvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/tabular"
)

const (
	employeesFile  = "employees.csv"
	attendanceFile = "attendance.csv"
	leavesFile     = "leaves.csv"
	settingsFile   = "settings.json"
	payrollPrefix  = "payroll_"
)

type Store struct {
	dir string
	mu  sync.RWMutex
}

// New creates dir if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Close() error { return nil }

// Dir is the data directory.
func (s *Store) Dir() string { return s.dir }

// =============================================================================
// FILE HELPERS
// =============================================================================

// readTable returns an empty table when the file does not exist yet.
func (s *Store) readTable(name string, columns []string) (*tabular.Table, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return tabular.NewTable(columns), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	t, err := tabular.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return t, nil
}

func (s *Store) writeTable(name string, t *tabular.Table) error {
	return s.replaceFile(name, func(f *os.File) error { return tabular.WriteCSV(f, t) })
}

func (s *Store) replaceFile(name string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) loadEmployees() ([]generic.Employee, error) {
	t, err := s.readTable(employeesFile, tabular.EmployeeColumns)
	if err != nil {
		return nil, err
	}
	emps, _ := tabular.DecodeEmployees(t)
	return emps, nil
}

func (s *Store) SaveEmployees(_ context.Context, employees []generic.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.readTable(employeesFile, tabular.EmployeeColumns)
	if err != nil {
		return err
	}
	merged := mergeTable(stored, tabular.EmployeeColumns, employees,
		tabular.DecodeEmployee, tabular.EncodeEmployees,
		func(e generic.Employee) generic.EmployeeCode { return e.Code })
	return s.writeTable(employeesFile, merged)
}

func (s *Store) GetEmployee(_ context.Context, code generic.EmployeeCode) (*generic.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emps, err := s.loadEmployees()
	if err != nil {
		return nil, err
	}
	for i := range emps {
		if emps[i].Code == code {
			return &emps[i], nil
		}
	}
	return nil, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]generic.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emps, err := s.loadEmployees()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(emps, func(i, j int) bool { return emps[i].Code < emps[j].Code })
	return emps, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) loadAttendance() ([]generic.AttendanceRecord, error) {
	t, err := s.readTable(attendanceFile, tabular.AttendanceColumns)
	if err != nil {
		return nil, err
	}
	rows, _ := tabular.DecodeAttendance(t)
	return rows, nil
}

func (s *Store) SaveAttendance(_ context.Context, records []generic.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.readTable(attendanceFile, tabular.AttendanceColumns)
	if err != nil {
		return err
	}
	merged := mergeTable(stored, tabular.AttendanceColumns, records,
		tabular.DecodeAttendanceRow, tabular.EncodeAttendance, generic.AttendanceRecord.Key)
	return s.writeTable(attendanceFile, merged)
}

func (s *Store) GetAttendance(_ context.Context, key generic.AttendanceKey) (*generic.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.loadAttendance()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Key() == key {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (s *Store) ListAttendance(_ context.Context, period generic.Period) ([]generic.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.loadAttendance()
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, r := range rows {
		if period.Contains(r.Date) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// =============================================================================
// LEAVES
// =============================================================================

func (s *Store) loadLeaves() ([]generic.LeaveRecord, error) {
	t, err := s.readTable(leavesFile, tabular.LeaveColumns)
	if err != nil {
		return nil, err
	}
	leaves, _ := tabular.DecodeLeaves(t)
	return leaves, nil
}

func (s *Store) SaveLeave(_ context.Context, leave generic.LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.readTable(leavesFile, tabular.LeaveColumns)
	if err != nil {
		return err
	}
	merged := mergeTable(stored, tabular.LeaveColumns, []generic.LeaveRecord{leave},
		tabular.DecodeLeave, tabular.EncodeLeaves, generic.LeaveRecord.Key)
	return s.writeTable(leavesFile, merged)
}

func (s *Store) ListLeaves(_ context.Context) ([]generic.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leaves, err := s.loadLeaves()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		a, b := leaves[i], leaves[j]
		if !a.AppliedOn.Equal(b.AppliedOn) {
			return a.AppliedOn.Before(b.AppliedOn)
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.From.Before(b.From)
	})
	return leaves, nil
}

// =============================================================================
// PAYROLL
// =============================================================================

func payrollFile(period generic.PayPeriod) string {
	return payrollPrefix + period.Slug() + ".csv"
}

func (s *Store) SavePayroll(_ context.Context, period generic.PayPeriod, results []generic.PayrollResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeTable(payrollFile(period), tabular.EncodePayroll(results))
}

func (s *Store) GetPayroll(_ context.Context, period generic.PayPeriod) ([]generic.PayrollResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := payrollFile(period)
	if _, err := os.Stat(filepath.Join(s.dir, name)); errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	t, err := s.readTable(name, tabular.PayrollColumns)
	if err != nil {
		return nil, false, err
	}
	return tabular.DecodePayroll(t), true, nil
}

func (s *Store) ListPayrollPeriods(_ context.Context) ([]generic.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, payrollPrefix+"*_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list payroll files: %w", err)
	}
	var periods []generic.PayPeriod
	for _, m := range matches {
		if p, ok := parsePayrollFile(filepath.Base(m)); ok {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods, nil
}

// parsePayrollFile reads "payroll_March_2026.csv".
func parsePayrollFile(name string) (generic.PayPeriod, bool) {
	slug := strings.TrimSuffix(strings.TrimPrefix(name, payrollPrefix), ".csv")
	month, yearText, ok := strings.Cut(slug, "_")
	if !ok {
		return generic.PayPeriod{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return generic.PayPeriod{}, false
	}
	p, err := generic.ParsePayPeriod(month, year)
	return p, err == nil
}

// =============================================================================
// RULES DOCUMENT
// =============================================================================

func (s *Store) LoadRulesDocument(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := os.ReadFile(filepath.Join(s.dir, settingsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", settingsFile, err)
	}
	return b, nil
}

func (s *Store) SaveRulesDocument(_ context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceFile(settingsFile, func(f *os.File) error {
		_, err := f.Write(doc)
		return err
	})
}

// =============================================================================
// MERGE
// =============================================================================

// mergeTable folds updates into the stored table by key and returns the
// table to write: the known columns first, then any extra stored columns
// in their original order.
//
// A stored row that decodes is kept cell for cell unless an update shares
// its key, in which case the known columns take the update's values and the
// extra columns keep theirs. Duplicate stored keys collapse onto the first
// position, last row winning. Rows that do not decode are kept as they are.
// Unseen update keys are appended in input order, last update winning.
func mergeTable[T any, K comparable](
	stored *tabular.Table,
	columns []string,
	updates []T,
	decode func(tabular.Row) (T, bool),
	encode func([]T) *tabular.Table,
	key func(T) K,
) *tabular.Table {
	header := append([]string(nil), columns...)
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	for _, h := range stored.Header {
		if h != "" && !known[h] {
			known[h] = true
			header = append(header, h)
		}
	}
	out := tabular.NewTable(header)

	pending := make(map[K]T, len(updates))
	var order []K
	for _, u := range updates {
		k := key(u)
		if _, seen := pending[k]; !seen {
			order = append(order, k)
		}
		pending[k] = u
	}

	encoded := func(u T) []string {
		cells := make([]string, len(header))
		copy(cells, encode([]T{u}).Rows[0])
		return cells
	}

	pos := make(map[K]int, stored.Len())
	for i := 0; i < stored.Len(); i++ {
		r := stored.Row(i)
		if r.Blank() {
			continue
		}
		cells := make([]string, len(header))
		for j, h := range header {
			cells[j] = r.Get(h)
		}
		rec, ok := decode(r)
		if !ok {
			out.Append(cells...)
			continue
		}
		k := key(rec)
		if u, hit := pending[k]; hit {
			copy(cells, encoded(u)[:len(columns)])
		}
		if j, dup := pos[k]; dup {
			out.Rows[j] = cells
			continue
		}
		pos[k] = out.Len()
		out.Append(cells...)
	}
	for _, k := range order {
		if _, done := pos[k]; !done {
			out.Append(encoded(pending[k])...)
		}
	}
	return out
}

var _ generic.Store = (*Store)(nil)
