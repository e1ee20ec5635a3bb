// Package store selects a generic.Store implementation from settings.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/warp/payroll-engine/generic"
	memstore "github.com/warp/payroll-engine/generic/store"
	"github.com/warp/payroll-engine/store/csvstore"
	"github.com/warp/payroll-engine/store/sqlite"
)

const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the store for driver. dataDir holds the CSV files; a blank
// sqlitePath defaults to payroll.db inside dataDir.
func Open(driver, dataDir, sqlitePath string) (generic.Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverCSV, "":
		return csvstore.New(dataDir)
	case DriverSQLite:
		if sqlitePath == "" {
			sqlitePath = filepath.Join(dataDir, "payroll.db")
		}
		return sqlite.New(sqlitePath)
	case DriverMemory:
		return memstore.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
