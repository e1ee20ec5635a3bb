package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/service"
	"github.com/warp/payroll-engine/tabular"
)

// =============================================================================
// UPLOADS
// =============================================================================

func newImportEmployeesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-employees FILE",
		Short: "Upsert employees from a CSV or XLSX sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0])
			if err != nil {
				return err
			}
			return a.withService(func(svc *service.Service) error {
				res, err := svc.ImportEmployees(cmd.Context(), table)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newProcessPunchesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "process-punches FILE",
		Short: "Compute attendance from a punch sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0])
			if err != nil {
				return err
			}
			return a.withService(func(svc *service.Service) error {
				report, err := svc.ProcessPunches(cmd.Context(), table)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

func newRunPayrollCmd(a *app) *cobra.Command {
	var month string
	var year int

	cmd := &cobra.Command{
		Use:   "run-payroll",
		Short: "Run and store payroll for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *service.Service) error {
				run, err := svc.RunPayroll(cmd.Context(), month, year)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "ECODE\tNAME\tPRESENT\tEARNED\tPF\tESIC\tNET\t")
				for _, r := range run.Results {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
						r.Code, r.Name, r.PresentDays,
						r.EarnedGross.StringFixed(2), r.PFEmployee.StringFixed(2),
						r.ESICEmployee.StringFixed(2), r.NetPay.StringFixed(2))
				}
				fmt.Fprintf(tw, "TOTAL\t%d employees\t%d days\t%s\t%s\t\t%s\t\n",
					run.Totals.Employees, run.WorkingDays,
					run.Totals.Gross.StringFixed(2), run.Totals.PFEmployee.StringFixed(2),
					run.Totals.NetPay.StringFixed(2))
				return tw.Flush()
			})
		},
	}
	periodFlags(cmd, &month, &year)
	return cmd
}

func newPayslipCmd(a *app) *cobra.Command {
	var month, code, out string
	var year int

	cmd := &cobra.Command{
		Use:   "payslip",
		Short: "Render one employee's payslip as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := generic.ParsePayPeriod(month, year)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("payslip_%s_%s.pdf", generic.NormalizeCode(code), period.Slug())
			}
			return a.withService(func(svc *service.Service) error {
				return writeOutput(cmd, out, func(w io.Writer) error {
					return svc.WritePayslipPDF(cmd.Context(), w, period, code)
				})
			})
		},
	}
	periodFlags(cmd, &month, &year)
	cmd.Flags().StringVar(&code, "ecode", "", "Employee code")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default payslip_<ecode>_<period>.pdf)")
	cmd.MarkFlagRequired("ecode")
	return cmd
}

// =============================================================================
// LEAVES
// =============================================================================

func newLeaveBalanceCmd(a *app) *cobra.Command {
	var code string
	var year int

	cmd := &cobra.Command{
		Use:   "leave-balance",
		Short: "Show leave balances for one employee or every active employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *service.Service) error {
				if year == 0 {
					year = svc.Today().Year()
				}
				var report []service.EmployeeBalances
				if code != "" {
					b, err := svc.LeaveBalance(cmd.Context(), code, year)
					if err != nil {
						return err
					}
					report = append(report, *b)
				} else {
					var err error
					if report, err = svc.LeaveBalanceReport(cmd.Context(), year); err != nil {
						return err
					}
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ECODE\tNAME\tTYPE\tENTITLED\tTAKEN\tBALANCE")
				for _, e := range report {
					for _, b := range e.Balances {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
							e.Code, e.Name, b.Type,
							b.Entitled.Value.String(), b.Taken.Value.String(), b.Balance.Value.String())
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&code, "ecode", "", "Employee code (default every active employee)")
	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (default current year)")
	return cmd
}

// =============================================================================
// EXPORT
// =============================================================================

func newExportCmd(a *app) *cobra.Command {
	var month, format, out string
	var year int

	cmd := &cobra.Command{
		Use:       "export employees|attendance|payroll",
		Short:     "Download a table as CSV or XLSX",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"employees", "attendance", "payroll"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := tabular.ParseFormat(format)
			if err != nil {
				return err
			}
			table := args[0]

			var period generic.PayPeriod
			if table != "employees" {
				if period, err = generic.ParsePayPeriod(month, year); err != nil {
					return err
				}
			}
			if out == "" {
				out = table + f.Ext()
				if table != "employees" {
					out = table + "_" + period.Slug() + f.Ext()
				}
			}

			return a.withService(func(svc *service.Service) error {
				return writeOutput(cmd, out, func(w io.Writer) error {
					switch table {
					case "employees":
						return svc.ExportEmployees(cmd.Context(), w, f)
					case "attendance":
						return svc.ExportAttendance(cmd.Context(), w, period.Period(), f)
					case "payroll":
						return svc.ExportPayroll(cmd.Context(), w, period, f)
					}
					return fmt.Errorf("unknown table %q", args[0])
				})
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month name or number (attendance, payroll)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (attendance, payroll)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout")
	return cmd
}

// =============================================================================
// HELPERS
// =============================================================================

func periodFlags(cmd *cobra.Command, month *string, year *int) {
	cmd.Flags().StringVar(month, "month", "", "Month name or number")
	cmd.Flags().IntVar(year, "year", 0, "Year")
	cmd.MarkFlagRequired("month")
	cmd.MarkFlagRequired("year")
}

func readTable(path string) (*tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.Read(filepath.Base(path), f)
}

// writeOutput renders into path, or the command's stdout for "-". A failed
// render removes the partial file.
func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "-" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
