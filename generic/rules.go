package generic

import "github.com/shopspring/decimal"

// =============================================================================
// RULES - Validated, admin-editable configuration
// =============================================================================

// Rules is the validated form of the rules document. It is built by
// factory.ParseRules, loaded fresh for each operation, and passed explicitly
// to every calculator. Calculators never see an unvalidated document.
type Rules struct {
	Company         Company
	Shifts          ShiftRules
	Attendance      AttendanceRules
	Components      []SalaryComponent
	PF              PFRule
	ESIC            ESICRule
	TDS             Toggle
	ProfessionalTax Toggle
	Leave           map[LeaveType]LeaveEntitlement
	Overtime        OvertimeRule
}

type Company struct {
	Name    string
	Address string
	Logo    string
}

// OpenShiftName is the shift name that always means "no fixed boundaries".
const OpenShiftName = "Open Shift"

type ShiftRules struct {
	Fixed                    []Shift
	OpenShiftAllowed         bool
	GraceMinutes             int
	OvertimeThresholdMinutes int
}

// Shift is a fixed shift with parsed boundaries in minutes since midnight.
type Shift struct {
	Name        string
	Start       string
	End         string
	StartMinute int
	EndMinute   int
	TotalHours  decimal.Decimal
}

// Shift finds a fixed shift by exact name.
func (r *Rules) Shift(name string) (Shift, bool) {
	for _, s := range r.Shifts.Fixed {
		if s.Name == name {
			return s, true
		}
	}
	return Shift{}, false
}

type AttendanceRules struct {
	WeekOff        string // weekday name, e.g. "Sunday"
	WorkingDays    []string
	SandwichRule   bool
	MinDaysPerWeek int
}

type ComponentKind string

const (
	ComponentFixed      ComponentKind = "fixed"
	ComponentPercentage ComponentKind = "percentage"
	ComponentCalculated ComponentKind = "calculated"
)

type SalaryComponent struct {
	Name         string
	Kind         ComponentKind
	PercentageOf string
	Value        decimal.Decimal
	Taxable      bool
	Enabled      bool
}

// Component finds a salary component by exact name.
func (r *Rules) Component(name string) (SalaryComponent, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return SalaryComponent{}, false
}

// SalaryBase selects which earned amount a percentage applies to.
type SalaryBase string

const (
	BaseBasic   SalaryBase = "Basic"
	BaseBasicDA SalaryBase = "Basic + DA"
	BaseGross   SalaryBase = "Gross"
)

// UsesBasic is true only for the plain "Basic" base; every other base
// (including "Basic + DA", as there is no DA component) resolves to gross.
func (b SalaryBase) UsesBasic() bool { return b == BaseBasic }

type PFRule struct {
	Enabled         bool
	EmployeePercent decimal.Decimal
	EmployerPercent decimal.Decimal
	Base            SalaryBase
	CapAt15000      bool
	EPSPercent      decimal.Decimal
	EDLIEnabled     bool
}

type ESICRule struct {
	Enabled         bool
	EmployeePercent decimal.Decimal
	EmployerPercent decimal.Decimal
	WageCeiling     decimal.Decimal
}

type Toggle struct {
	Enabled bool
}

type LeaveEntitlement struct {
	Annual          decimal.Decimal
	CarryForward    bool
	MaxCarryForward decimal.Decimal
	Encashable      bool
}

type OvertimeRule struct {
	Enabled    bool
	Multiplier decimal.Decimal
	Base       SalaryBase
}
