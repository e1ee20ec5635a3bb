package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payslip"
	"github.com/warp/payroll-engine/tabular"
	"go.uber.org/zap"
)

// =============================================================================
// PAYROLL RUNS
// =============================================================================

// PayrollRun is the outcome of RunPayroll. RunID only correlates log lines;
// it is not stored.
type PayrollRun struct {
	RunID       string
	Period      generic.PayPeriod
	WorkingDays int
	Results     []generic.PayrollResult
	Totals      payroll.Totals
}

// RunPayroll computes every active employee for the month and replaces the
// stored result set. Running the same month twice over unchanged inputs
// stores identical results.
func (s *Service) RunPayroll(ctx context.Context, month string, year int) (*PayrollRun, error) {
	period, err := generic.ParsePayPeriod(month, year)
	if err != nil {
		return nil, err
	}
	return s.RunPayrollPeriod(ctx, period)
}

func (s *Service) RunPayrollPeriod(ctx context.Context, period generic.PayPeriod) (*PayrollRun, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("period", period.String()))

	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	rows, err := s.store.ListAttendance(ctx, period.Period())
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	run, err := payroll.RunPeriod(period, employees, rows, rules)
	if err != nil {
		log.Warn("payroll run aborted", zap.Error(err))
		return nil, fmt.Errorf("run payroll %s: %w", period, err)
	}
	if err := s.store.SavePayroll(ctx, period, run.Results); err != nil {
		return nil, fmt.Errorf("save payroll %s: %w", period, err)
	}

	took := time.Since(start)
	net, _ := run.Totals.NetPay.Float64()
	s.metrics.PayrollRun(net, took)
	log.Info("payroll run completed",
		zap.Int("employees", run.Totals.Employees),
		zap.Int("working_days", run.WorkingDays),
		zap.String("net_pay", run.Totals.NetPay.StringFixed(2)),
		zap.Duration("took", took),
	)
	return &PayrollRun{
		RunID:       runID,
		Period:      run.Period,
		WorkingDays: run.WorkingDays,
		Results:     run.Results,
		Totals:      run.Totals,
	}, nil
}

// GetPayroll returns the stored results, or ErrPayrollNotRun.
func (s *Service) GetPayroll(ctx context.Context, period generic.PayPeriod) ([]generic.PayrollResult, error) {
	results, found, err := s.store.GetPayroll(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("get payroll %s: %w", period, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", period, generic.ErrPayrollNotRun)
	}
	return results, nil
}

func (s *Service) ListPayrollPeriods(ctx context.Context) ([]generic.PayPeriod, error) {
	periods, err := s.store.ListPayrollPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payroll periods: %w", err)
	}
	return periods, nil
}

// PayrollReport is the month-level rollup shown on the reports page.
type PayrollReport struct {
	Period     generic.PayPeriod
	Employees  int
	Gross      decimal.Decimal
	PFEmployee decimal.Decimal
	PFEmployer decimal.Decimal
	PFTotal    decimal.Decimal
	NetPay     decimal.Decimal
	Results    []generic.PayrollResult
}

func (s *Service) PayrollReport(ctx context.Context, period generic.PayPeriod) (*PayrollReport, error) {
	results, err := s.GetPayroll(ctx, period)
	if err != nil {
		return nil, err
	}
	t := payroll.Summarize(results)
	return &PayrollReport{
		Period:     period,
		Employees:  t.Employees,
		Gross:      t.Gross,
		PFEmployee: t.PFEmployee,
		PFEmployer: t.PFEmployer,
		PFTotal:    t.PFEmployee.Add(t.PFEmployer),
		NetPay:     t.NetPay,
		Results:    results,
	}, nil
}

// Payslip builds one employee's slip from the stored run. The employee
// record is optional: a slip still renders for someone since removed.
func (s *Service) Payslip(ctx context.Context, period generic.PayPeriod, code string) (*payslip.Payslip, error) {
	results, err := s.GetPayroll(ctx, period)
	if err != nil {
		return nil, err
	}
	c := generic.NormalizeCode(code)
	var row *generic.PayrollResult
	for i := range results {
		if results[i].Code == c {
			row = &results[i]
			break
		}
	}
	if row == nil {
		return nil, fmt.Errorf("%s in %s: %w", c, period, generic.ErrNoPayrollForEmployee)
	}

	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	emp, err := s.store.GetEmployee(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", c, err)
	}
	ps := payslip.Build(period, *row, emp, rules, s.Today())
	return &ps, nil
}

// WritePayslipPDF renders the slip of Payslip as a PDF.
func (s *Service) WritePayslipPDF(ctx context.Context, w io.Writer, period generic.PayPeriod, code string) error {
	ps, err := s.Payslip(ctx, period, code)
	if err != nil {
		return err
	}
	return payslip.RenderPDF(w, *ps)
}

func (s *Service) ExportPayroll(ctx context.Context, w io.Writer, period generic.PayPeriod, format tabular.Format) error {
	results, err := s.GetPayroll(ctx, period)
	if err != nil {
		return err
	}
	return tabular.Write(w, format, "Payroll "+period.String(), tabular.EncodePayroll(results))
}
