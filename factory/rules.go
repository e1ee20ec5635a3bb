/*
Package factory provides JSON to Go rules conversion.

PURPOSE:
  Converts the admin-editable rules document into a validated generic.Rules.
  Nothing downstream ever reads the raw document: shift times are parsed,
  percentages become decimals, and every cross-reference is checked here so
  bad values fail fast instead of flowing into payroll arithmetic.

JSON SCHEMA (abridged):
  {
    "company": {"name": "My Company", "address": "", "logo": ""},
    "shifts": {
      "fixed": [{"name": "Morning 9-6", "start": "09:00", "end": "18:00", "total_hours": 9.0}],
      "open_shift": true,
      "grace_period_minutes": 5,
      "overtime_threshold_minutes": 30
    },
    "attendance": {"week_off": "Sunday", "working_days": [...], "sandwich_rule": true, "min_days_per_week": 3},
    "salary_components": {"components": [{"name": "HRA", "type": "percentage", "percentage_of": "Basic", "value": 40, ...}]},
    "pf": {...}, "esic": {...}, "tds": {...}, "professional_tax": {...},
    "leave": {"pl": {...}, "cl": {...}, "sl": {...}},
    "overtime": {"enabled": true, "rate_multiplier": 1.5, "calculation_base": "Basic"}
  }

MISSING FIELDS:
  A document is decoded over the defaults, so an older document that lacks a
  newer field keeps the default for it.

VALIDATION:
  - Struct tags (go-playground/validator) for ranges and enumerations
  - Custom tags: "clock" (parses as a punch time), "weekday" (English day name)
  - Cross-field: percentage components reference an existing component, at
    most one "Basic" component, unique shift names, start != end

USAGE:
  f := factory.NewRulesFactory()
  rules, doc, err := f.ParseRules(raw)
  if errors.Is(err, generic.ErrInvalidConfig) {
      // reject the edit, keep the stored document
  }

SEE ALSO:
  - generic/rules.go: Rules type definition
  - service/settings.go: Load/save with rejection semantics
*/
package factory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the stored rules document.
type RulesJSON struct {
	Company          CompanyJSON          `json:"company"`
	Shifts           ShiftsJSON           `json:"shifts"`
	Attendance       AttendanceJSON       `json:"attendance"`
	SalaryComponents SalaryComponentsJSON `json:"salary_components"`
	PF               PFJSON               `json:"pf"`
	ESIC             ESICJSON             `json:"esic"`
	TDS              ToggleJSON           `json:"tds"`
	ProfessionalTax  ToggleJSON           `json:"professional_tax"`
	Leave            LeaveJSON            `json:"leave"`
	Overtime         OvertimeJSON         `json:"overtime"`
}

type CompanyJSON struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Logo    string `json:"logo"`
}

type ShiftsJSON struct {
	Fixed                    []ShiftJSON `json:"fixed" validate:"dive"`
	OpenShift                bool        `json:"open_shift"`
	GracePeriodMinutes       int         `json:"grace_period_minutes" validate:"gte=0,lte=1440"`
	OvertimeThresholdMinutes int         `json:"overtime_threshold_minutes" validate:"gte=0,lte=1440"`
}

type ShiftJSON struct {
	Name       string  `json:"name" validate:"required"`
	Start      string  `json:"start" validate:"required,clock"`
	End        string  `json:"end" validate:"required,clock"`
	TotalHours float64 `json:"total_hours" validate:"gte=0,lte=24"`
}

type AttendanceJSON struct {
	WeekOff        string   `json:"week_off" validate:"required,weekday"`
	WorkingDays    []string `json:"working_days" validate:"dive,weekday"`
	SandwichRule   bool     `json:"sandwich_rule"`
	MinDaysPerWeek int      `json:"min_days_per_week" validate:"gte=0,lte=7"`
}

type SalaryComponentsJSON struct {
	Components []ComponentJSON `json:"components" validate:"dive"`
}

type ComponentJSON struct {
	Name         string  `json:"name" validate:"required"`
	Type         string  `json:"type" validate:"oneof=fixed percentage calculated"`
	PercentageOf string  `json:"percentage_of,omitempty"`
	Value        float64 `json:"value,omitempty" validate:"gte=0"`
	Taxable      bool    `json:"taxable"`
	Enabled      bool    `json:"enabled"`
}

type PFJSON struct {
	Enabled            bool    `json:"enabled"`
	EmployeePercentage float64 `json:"employee_percentage" validate:"gte=0,lte=100"`
	EmployerPercentage float64 `json:"employer_percentage" validate:"gte=0,lte=100"`
	PFBase             string  `json:"pf_base" validate:"required,salarybase"`
	CapAt15000         bool    `json:"cap_at_15000"`
	EPSPercentage      float64 `json:"eps_percentage" validate:"gte=0,lte=100"`
	EDLIEnabled        bool    `json:"edli_enabled"`
}

type ESICJSON struct {
	Enabled            bool    `json:"enabled"`
	EmployeePercentage float64 `json:"employee_percentage" validate:"gte=0,lte=100"`
	EmployerPercentage float64 `json:"employer_percentage" validate:"gte=0,lte=100"`
	WageCeiling        float64 `json:"wage_ceiling" validate:"gte=0"`
}

type ToggleJSON struct {
	Enabled bool `json:"enabled"`
}

type LeaveJSON struct {
	PL LeavePolicyJSON `json:"pl"`
	CL LeavePolicyJSON `json:"cl"`
	SL LeavePolicyJSON `json:"sl"`
}

type LeavePolicyJSON struct {
	Annual          float64 `json:"annual" validate:"gte=0"`
	CarryForward    bool    `json:"carry_forward"`
	MaxCarryForward float64 `json:"max_carry_forward,omitempty" validate:"gte=0"`
	Encashable      bool    `json:"encashable"`
}

type OvertimeJSON struct {
	Enabled         bool    `json:"enabled"`
	RateMultiplier  float64 `json:"rate_multiplier" validate:"gte=0"`
	CalculationBase string  `json:"calculation_base" validate:"oneof=Basic Gross"`
}

// =============================================================================
// RULES FACTORY
// =============================================================================

// RulesFactory converts rules documents to validated Rules.
type RulesFactory struct {
	validate *validator.Validate
}

// NewRulesFactory creates a factory with the custom validations registered.
func NewRulesFactory() *RulesFactory {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, ok := attendance.ParseTime(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := generic.ParseWeekday(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("salarybase", func(fl validator.FieldLevel) bool {
		switch generic.SalaryBase(fl.Field().String()) {
		case generic.BaseBasic, generic.BaseBasicDA, generic.BaseGross:
			return true
		}
		return false
	})
	return &RulesFactory{validate: v}
}

// Decode reads a document over the defaults. It does not validate.
func (f *RulesFactory) Decode(data []byte) (RulesJSON, error) {
	defaults := DefaultRulesJSON()
	doc := DefaultRulesJSON()
	// Lists are decoded from scratch; decoding into the default elements
	// would leak default fields into user entries.
	doc.Shifts.Fixed = nil
	doc.Attendance.WorkingDays = nil
	doc.SalaryComponents.Components = nil

	if err := json.Unmarshal(data, &doc); err != nil {
		return RulesJSON{}, &generic.ConfigError{Problems: []string{fmt.Sprintf("failed to parse rules JSON: %v", err)}}
	}
	if doc.Shifts.Fixed == nil {
		doc.Shifts.Fixed = defaults.Shifts.Fixed
	}
	if doc.Attendance.WorkingDays == nil {
		doc.Attendance.WorkingDays = defaults.Attendance.WorkingDays
	}
	if doc.SalaryComponents.Components == nil {
		doc.SalaryComponents.Components = defaults.SalaryComponents.Components
	}
	return doc, nil
}

// ParseRules decodes and validates a stored document. An empty document
// yields the defaults.
func (f *RulesFactory) ParseRules(data []byte) (*generic.Rules, RulesJSON, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		doc := DefaultRulesJSON()
		rules, err := f.Build(doc)
		return rules, doc, err
	}
	doc, err := f.Decode(data)
	if err != nil {
		return nil, RulesJSON{}, err
	}
	rules, err := f.Build(doc)
	if err != nil {
		return nil, RulesJSON{}, err
	}
	return rules, doc, nil
}

// Build validates a document and converts it.
func (f *RulesFactory) Build(doc RulesJSON) (*generic.Rules, error) {
	if problems := f.check(doc); len(problems) > 0 {
		return nil, &generic.ConfigError{Problems: problems}
	}

	rules := &generic.Rules{
		Company: generic.Company{Name: doc.Company.Name, Address: doc.Company.Address, Logo: doc.Company.Logo},
		Shifts: generic.ShiftRules{
			OpenShiftAllowed:         doc.Shifts.OpenShift,
			GraceMinutes:             doc.Shifts.GracePeriodMinutes,
			OvertimeThresholdMinutes: doc.Shifts.OvertimeThresholdMinutes,
		},
		Attendance: generic.AttendanceRules{
			WeekOff:        canonicalWeekday(doc.Attendance.WeekOff),
			SandwichRule:   doc.Attendance.SandwichRule,
			MinDaysPerWeek: doc.Attendance.MinDaysPerWeek,
		},
		PF: generic.PFRule{
			Enabled:         doc.PF.Enabled,
			EmployeePercent: decimal.NewFromFloat(doc.PF.EmployeePercentage),
			EmployerPercent: decimal.NewFromFloat(doc.PF.EmployerPercentage),
			Base:            generic.SalaryBase(doc.PF.PFBase),
			CapAt15000:      doc.PF.CapAt15000,
			EPSPercent:      decimal.NewFromFloat(doc.PF.EPSPercentage),
			EDLIEnabled:     doc.PF.EDLIEnabled,
		},
		ESIC: generic.ESICRule{
			Enabled:         doc.ESIC.Enabled,
			EmployeePercent: decimal.NewFromFloat(doc.ESIC.EmployeePercentage),
			EmployerPercent: decimal.NewFromFloat(doc.ESIC.EmployerPercentage),
			WageCeiling:     decimal.NewFromFloat(doc.ESIC.WageCeiling),
		},
		TDS:             generic.Toggle{Enabled: doc.TDS.Enabled},
		ProfessionalTax: generic.Toggle{Enabled: doc.ProfessionalTax.Enabled},
		Leave: map[generic.LeaveType]generic.LeaveEntitlement{
			generic.LeavePL: entitlement(doc.Leave.PL),
			generic.LeaveCL: entitlement(doc.Leave.CL),
			generic.LeaveSL: entitlement(doc.Leave.SL),
		},
		Overtime: generic.OvertimeRule{
			Enabled:    doc.Overtime.Enabled,
			Multiplier: decimal.NewFromFloat(doc.Overtime.RateMultiplier),
			Base:       generic.SalaryBase(doc.Overtime.CalculationBase),
		},
	}

	for _, s := range doc.Shifts.Fixed {
		start, _ := attendance.ParseTime(s.Start)
		end, _ := attendance.ParseTime(s.End)
		rules.Shifts.Fixed = append(rules.Shifts.Fixed, generic.Shift{
			Name:        s.Name,
			Start:       s.Start,
			End:         s.End,
			StartMinute: start.Minutes(),
			EndMinute:   end.Minutes(),
			TotalHours:  decimal.NewFromFloat(s.TotalHours),
		})
	}
	for _, d := range doc.Attendance.WorkingDays {
		rules.Attendance.WorkingDays = append(rules.Attendance.WorkingDays, canonicalWeekday(d))
	}
	for _, c := range doc.SalaryComponents.Components {
		rules.Components = append(rules.Components, generic.SalaryComponent{
			Name:         c.Name,
			Kind:         generic.ComponentKind(c.Type),
			PercentageOf: c.PercentageOf,
			Value:        decimal.NewFromFloat(c.Value),
			Taxable:      c.Taxable,
			Enabled:      c.Enabled,
		})
	}
	return rules, nil
}

// Validate reports whether the document would build.
func (f *RulesFactory) Validate(doc RulesJSON) error {
	if problems := f.check(doc); len(problems) > 0 {
		return &generic.ConfigError{Problems: problems}
	}
	return nil
}

// Marshal renders a document the way it is stored.
func Marshal(doc RulesJSON) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func (f *RulesFactory) check(doc RulesJSON) []string {
	var problems []string

	if err := f.validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}

	names := make(map[string]bool)
	basics := 0
	for _, c := range doc.SalaryComponents.Components {
		names[c.Name] = true
		if c.Name == string(generic.BaseBasic) {
			basics++
		}
	}
	if basics > 1 {
		problems = append(problems, fmt.Sprintf("salary_components: %d components named Basic, at most one allowed", basics))
	}
	for _, c := range doc.SalaryComponents.Components {
		if c.Type != string(generic.ComponentPercentage) {
			continue
		}
		if c.PercentageOf == "" || !names[c.PercentageOf] || c.PercentageOf == c.Name {
			problems = append(problems, fmt.Sprintf("salary_components: %q is a percentage of unknown component %q", c.Name, c.PercentageOf))
		}
	}

	seen := make(map[string]bool)
	for _, s := range doc.Shifts.Fixed {
		if seen[s.Name] {
			problems = append(problems, fmt.Sprintf("shifts.fixed: duplicate shift %q", s.Name))
		}
		seen[s.Name] = true
		start, okStart := attendance.ParseTime(s.Start)
		end, okEnd := attendance.ParseTime(s.End)
		if okStart && okEnd && start.Minutes() == end.Minutes() {
			problems = append(problems, fmt.Sprintf("shifts.fixed: shift %q starts and ends at %s", s.Name, s.Start))
		}
	}
	return problems
}

func entitlement(lp LeavePolicyJSON) generic.LeaveEntitlement {
	return generic.LeaveEntitlement{
		Annual:          decimal.NewFromFloat(lp.Annual),
		CarryForward:    lp.CarryForward,
		MaxCarryForward: decimal.NewFromFloat(lp.MaxCarryForward),
		Encashable:      lp.Encashable,
	}
}

// canonicalWeekday normalizes "sunday" to "Sunday" so day-name comparisons
// downstream are exact.
func canonicalWeekday(name string) string {
	if wd, ok := generic.ParseWeekday(name); ok {
		return wd.String()
	}
	return strings.TrimSpace(name)
}
