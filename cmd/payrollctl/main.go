/*
main.go - Command-line operations against the payroll store

PURPOSE:
  Runs the batch operations of the payroll engine without the HTTP server:
  uploads, payroll runs, payslips, balances and exports. Reads the same
  settings as the server; flags override them.

COMMANDS:
  import-employees FILE             Upsert employees from CSV/XLSX
  process-punches FILE              Compute attendance from a punch sheet
  run-payroll --month M --year Y    Run and store a month
  payslip --month M --year Y --ecode E [--out FILE]
  leave-balance --ecode E [--year Y]
  export employees|attendance|payroll [--month M --year Y] [--format csv|xlsx]

EXAMPLES:
  payrollctl import-employees staff.xlsx
  payrollctl run-payroll --month March --year 2026
  payrollctl payslip --month 3 --year 2026 --ecode E001 --out e001.pdf
  payrollctl --driver sqlite export payroll --month 3 --year 2026 --format xlsx

SEE ALSO:
  - cmd/server/main.go: The HTTP server over the same service
  - service/: Operations invoked here
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/logging"
	"github.com/warp/payroll-engine/service"
	"github.com/warp/payroll-engine/store"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	driver     string
	dataDir    string
	sqlitePath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Attendance and payroll batch operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			if !cmd.Flags().Changed("driver") {
				a.driver = cfg.Store.Driver
			}
			if !cmd.Flags().Changed("data-dir") {
				a.dataDir = cfg.Store.DataDir
			}
			if !cmd.Flags().Changed("sqlite-path") {
				a.sqlitePath = cfg.Store.SQLitePath
			}
			// Progress goes to stderr; stdout carries command output.
			cfg.Log.Format = "console"
			a.logger, err = logging.New(cfg)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&a.driver, "driver", "", "Store driver: csv, sqlite or memory (default from STORE_DRIVER)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory of the CSV tables (default from DATA_DIR)")
	cmd.PersistentFlags().StringVar(&a.sqlitePath, "sqlite-path", "", "SQLite database file (default from SQLITE_PATH)")

	cmd.AddCommand(
		newImportEmployeesCmd(a),
		newProcessPunchesCmd(a),
		newRunPayrollCmd(a),
		newPayslipCmd(a),
		newLeaveBalanceCmd(a),
		newExportCmd(a),
	)
	return cmd
}

// withService opens the store for one command and closes it afterwards.
func (a *app) withService(fn func(svc *service.Service) error) error {
	st, err := store.Open(a.driver, a.dataDir, a.sqlitePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	defer a.logger.Sync()

	return fn(service.New(st, service.WithLogger(a.logger)))
}
