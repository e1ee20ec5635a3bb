package factory

import "github.com/warp/payroll-engine/generic"

// DefaultRulesJSON is the document used when none has been saved, and the
// base every stored document is decoded over.
func DefaultRulesJSON() RulesJSON {
	return RulesJSON{
		Company: CompanyJSON{Name: "My Company"},
		Shifts: ShiftsJSON{
			Fixed: []ShiftJSON{
				{Name: "Morning 9-6", Start: "09:00", End: "18:00", TotalHours: 9.0},
				{Name: "Morning 9-6:30", Start: "09:00", End: "18:30", TotalHours: 9.5},
				{Name: "Late 10-6:30", Start: "10:00", End: "18:30", TotalHours: 8.5},
				{Name: "Long 9-9", Start: "09:00", End: "21:00", TotalHours: 12.0},
			},
			OpenShift:                true,
			GracePeriodMinutes:       5,
			OvertimeThresholdMinutes: 30,
		},
		Attendance: AttendanceJSON{
			WeekOff:        "Sunday",
			WorkingDays:    []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
			SandwichRule:   true,
			MinDaysPerWeek: 3,
		},
		SalaryComponents: SalaryComponentsJSON{
			Components: []ComponentJSON{
				{Name: "Basic", Type: "fixed", Taxable: true, Enabled: true},
				{Name: "HRA", Type: "percentage", PercentageOf: "Basic", Value: 40, Taxable: true, Enabled: true},
				{Name: "Conveyance Allowance", Type: "fixed", Taxable: false, Enabled: true},
				{Name: "Special Allowance", Type: "calculated", Taxable: true, Enabled: true},
				{Name: "Medical Allowance", Type: "fixed", Taxable: false, Enabled: false},
				{Name: "Food Allowance", Type: "fixed", Taxable: false, Enabled: false},
			},
		},
		PF: PFJSON{
			Enabled:            true,
			EmployeePercentage: 12,
			EmployerPercentage: 12,
			PFBase:             "Basic",
			CapAt15000:         false,
			EPSPercentage:      8.33,
			EDLIEnabled:        true,
		},
		ESIC: ESICJSON{
			Enabled:            false,
			EmployeePercentage: 0.75,
			EmployerPercentage: 3.25,
			WageCeiling:        21000,
		},
		Leave: LeaveJSON{
			PL: LeavePolicyJSON{Annual: 12, CarryForward: true, MaxCarryForward: 30, Encashable: true},
			CL: LeavePolicyJSON{Annual: 6},
			SL: LeavePolicyJSON{Annual: 6},
		},
		Overtime: OvertimeJSON{
			Enabled:         true,
			RateMultiplier:  1.5,
			CalculationBase: "Basic",
		},
	}
}

// DefaultRules builds the default document. It panics only if the defaults
// themselves stop validating.
func DefaultRules() *generic.Rules {
	rules, err := NewRulesFactory().Build(DefaultRulesJSON())
	if err != nil {
		panic(err)
	}
	return rules
}
