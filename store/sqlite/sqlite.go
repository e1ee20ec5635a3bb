/*
Package sqlite provides a SQLite-backed implementation of generic.Store.

PURPOSE:
  Same tables and columns as the flat-file layout, but indexed and updated
  with keyed upserts instead of whole-file rewrites.

KEY TABLES:
  employees:    PRIMARY KEY (ecode)
  attendance:   PRIMARY KEY (ecode, date)
  leaves:       PRIMARY KEY (ecode, leave_type, from_date, to_date)
  payroll:      PRIMARY KEY (period_year, period_month, ecode)
  payroll_runs: one row per period that was ever run, so a run that
                produced no rows is still "found"
  settings:     key/value; the rules document lives under "rules"

STORAGE FORMAT:
  Cells are stored as the same text the CSV files carry, encoded and
  decoded by package tabular. Dates are YYYY-MM-DD, so range filters on
  the date column compare lexically.

UPSERTS:
  INSERT ... ON CONFLICT (<key>) DO UPDATE SET <every other column>.
  Batches run in one transaction; a failure rolls the whole batch back.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - tabular/codec.go: Row encoding
  - store/csvstore: Flat-file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/tabular"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if needed) the database at dbPath and migrates it.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store, err := NewFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewFromDB wraps an already opened handle and migrates it.
func NewFromDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// SCHEMA
// =============================================================================

type table struct {
	name    string
	columns []string
	key     []string
}

var (
	employeesTable  = table{"employees", tabular.EmployeeColumns, []string{"ecode"}}
	attendanceTable = table{"attendance", tabular.AttendanceColumns, []string{"ecode", "date"}}
	leavesTable     = table{"leaves", tabular.LeaveColumns, []string{"ecode", "leave_type", "from_date", "to_date"}}
	payrollTable    = table{"payroll", append([]string{"period_year", "period_month"}, tabular.PayrollColumns...),
		[]string{"period_year", "period_month", "ecode"}}
)

func (t table) createSQL() string {
	defs := make([]string, 0, len(t.columns)+1)
	for _, c := range t.columns {
		if c == "period_year" || c == "period_month" {
			defs = append(defs, c+" INTEGER NOT NULL")
			continue
		}
		defs = append(defs, c+" TEXT NOT NULL DEFAULT ''")
	}
	defs = append(defs, "PRIMARY KEY ("+strings.Join(t.key, ", ")+")")
	return "CREATE TABLE IF NOT EXISTS " + t.name + " (\n\t\t" + strings.Join(defs, ",\n\t\t") + "\n\t);\n"
}

// upsertSQL builds INSERT ... ON CONFLICT DO UPDATE over every non-key column.
func (t table) upsertSQL() string {
	isKey := make(map[string]bool, len(t.key))
	for _, k := range t.key {
		isKey[k] = true
	}
	var sets []string
	for _, c := range t.columns {
		if !isKey[c] {
			sets = append(sets, c+" = excluded."+c)
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		t.name, strings.Join(t.columns, ", "), placeholders, strings.Join(t.key, ", "), strings.Join(sets, ", "))
}

func (t table) selectSQL(where, orderBy string) string {
	q := "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name
	if where != "" {
		q += " WHERE " + where
	}
	if orderBy != "" {
		q += " ORDER BY " + orderBy
	}
	return q
}

func (s *Store) migrate() error {
	schema := employeesTable.createSQL() +
		attendanceTable.createSQL() +
		leavesTable.createSQL() +
		payrollTable.createSQL() + `
	CREATE INDEX IF NOT EXISTS idx_attendance_date
		ON attendance(date);
	CREATE INDEX IF NOT EXISTS idx_leaves_applied
		ON leaves(applied_on, ecode);

	CREATE TABLE IF NOT EXISTS payroll_runs (
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		run_at TEXT NOT NULL,
		PRIMARY KEY (period_year, period_month)
	);

	CREATE TABLE IF NOT EXISTS settings (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// GENERIC ROW HELPERS
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// upsertRows writes every data row of data in one transaction. prefix is
// prepended to each row (the payroll period columns).
func (s *Store) upsertRows(ctx context.Context, t table, data *tabular.Table, prefix ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRows(ctx, tx, t, data, prefix...); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRows(ctx context.Context, db execer, t table, data *tabular.Table, prefix ...any) error {
	query := t.upsertSQL()
	for _, row := range data.Rows {
		args := make([]any, 0, len(prefix)+len(row))
		args = append(args, prefix...)
		for _, v := range row {
			args = append(args, v)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", t.name, err)
		}
	}
	return nil
}

// queryTable reads rows back into a tabular.Table with the given columns.
func (s *Store) queryTable(ctx context.Context, columns []string, query string, args ...any) (*tabular.Table, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	out := tabular.NewTable(columns)
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String
		}
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployees(ctx context.Context, employees []generic.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertRows(ctx, employeesTable, tabular.EncodeEmployees(employees))
}

func (s *Store) GetEmployee(ctx context.Context, code generic.EmployeeCode) (*generic.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.queryTable(ctx, employeesTable.columns, employeesTable.selectSQL("ecode = ?", ""), string(code))
	if err != nil {
		return nil, err
	}
	emps, _ := tabular.DecodeEmployees(t)
	if len(emps) == 0 {
		return nil, nil
	}
	return &emps[0], nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]generic.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.queryTable(ctx, employeesTable.columns, employeesTable.selectSQL("", "ecode"))
	if err != nil {
		return nil, err
	}
	emps, _ := tabular.DecodeEmployees(t)
	return emps, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) SaveAttendance(ctx context.Context, records []generic.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertRows(ctx, attendanceTable, tabular.EncodeAttendance(records))
}

func (s *Store) GetAttendance(ctx context.Context, key generic.AttendanceKey) (*generic.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.queryTable(ctx, attendanceTable.columns,
		attendanceTable.selectSQL("ecode = ? AND date = ?", ""), string(key.Code), key.Date.String())
	if err != nil {
		return nil, err
	}
	rows, _ := tabular.DecodeAttendance(t)
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListAttendance(ctx context.Context, period generic.Period) ([]generic.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.queryTable(ctx, attendanceTable.columns,
		attendanceTable.selectSQL("date >= ? AND date <= ?", "ecode, date"),
		period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	rows, _ := tabular.DecodeAttendance(t)
	return rows, nil
}

// =============================================================================
// LEAVES
// =============================================================================

func (s *Store) SaveLeave(ctx context.Context, leave generic.LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertRows(ctx, s.db, leavesTable, tabular.EncodeLeaves([]generic.LeaveRecord{leave}))
}

func (s *Store) ListLeaves(ctx context.Context) ([]generic.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.queryTable(ctx, leavesTable.columns, leavesTable.selectSQL("", "applied_on, ecode, from_date"))
	if err != nil {
		return nil, err
	}
	leaves, _ := tabular.DecodeLeaves(t)
	return leaves, nil
}

// =============================================================================
// PAYROLL
// =============================================================================

// SavePayroll deletes the period's rows and inserts the new set atomically.
func (s *Store) SavePayroll(ctx context.Context, period generic.PayPeriod, results []generic.PayrollResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	year, month := period.Year, int(period.Month)
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM payroll WHERE period_year = ? AND period_month = ?", year, month); err != nil {
		return fmt.Errorf("failed to clear payroll: %w", err)
	}
	if err := insertRows(ctx, tx, payrollTable, tabular.EncodePayroll(results), year, month); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO payroll_runs (period_year, period_month, run_at) VALUES (?, ?, ?)
		ON CONFLICT (period_year, period_month) DO UPDATE SET run_at = excluded.run_at`,
		year, month, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to record payroll run: %w", err)
	}
	return tx.Commit()
}

func (s *Store) GetPayroll(ctx context.Context, period generic.PayPeriod) ([]generic.PayrollResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM payroll_runs WHERE period_year = ? AND period_month = ?",
		period.Year, int(period.Month)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up payroll run: %w", err)
	}

	t, err := s.queryTable(ctx, tabular.PayrollColumns,
		"SELECT "+strings.Join(tabular.PayrollColumns, ", ")+
			" FROM payroll WHERE period_year = ? AND period_month = ? ORDER BY ecode",
		period.Year, int(period.Month))
	if err != nil {
		return nil, false, err
	}
	return tabular.DecodePayroll(t), true, nil
}

func (s *Store) ListPayrollPeriods(ctx context.Context) ([]generic.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT period_year, period_month FROM payroll_runs ORDER BY period_year, period_month")
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var periods []generic.PayPeriod
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		periods = append(periods, generic.PayPeriod{Year: year, Month: time.Month(month)})
	}
	return periods, rows.Err()
}

// =============================================================================
// RULES DOCUMENT
// =============================================================================

const rulesKey = "rules"

func (s *Store) LoadRulesDocument(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE name = ?", rulesKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return []byte(value), nil
}

func (s *Store) SaveRulesDocument(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		rulesKey, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save rules: %w", err)
	}
	return nil
}

var _ generic.Store = (*Store)(nil)
