package tabular

// Column sets of the persisted tables, in file order.
var (
	EmployeeColumns = []string{
		"ecode", "name", "department", "designation", "doj", "dob", "gender", "mobile", "email",
		"address", "father_name", "mother_name", "spouse_name", "nominee_name", "nominee_relation",
		"nominee_dob", "bank_name", "account_no", "ifsc", "uan", "pf_no", "esic_no", "shift",
		"is_open_shift", "gross_salary", "basic", "hra", "conveyance", "special_allowance",
		"medical_allowance", "food_allowance", "pf_applicable", "esic_applicable", "status", "exit_date",
	}

	AttendanceColumns = []string{
		"ecode", "name", "date", "day", "shift", "in_time", "out_time", "working_hours",
		"overtime_hours", "early_going_minutes", "late_entry_minutes", "status", "remarks",
	}

	LeaveColumns = []string{
		"ecode", "name", "leave_type", "from_date", "to_date", "days", "reason", "status", "applied_on",
	}

	PayrollColumns = []string{
		"ecode", "name", "present_days", "gross_salary", "earned_basic", "earned_hra",
		"earned_conveyance", "earned_special", "earned_medical", "earned_food", "earned_gross",
		"overtime_hours", "overtime_pay", "pf_employee", "pf_employer", "eps", "esic_employee",
		"esic_employer", "total_deductions", "net_pay",
	}

	// PunchColumns is the upload layout read by ProcessPunches. status and
	// remarks are optional.
	PunchColumns = []string{"ecode", "date", "in_time", "out_time", "status", "remarks"}
)
