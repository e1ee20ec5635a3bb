package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/tabular"
	"go.uber.org/zap"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeInput is a single-employee form submission.
type EmployeeInput struct {
	Code        string `json:"ecode" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=200"`
	Department  string `json:"department"`
	Designation string `json:"designation"`

	DateOfJoining   string `json:"doj"`
	DateOfBirth     string `json:"dob"`
	Gender          string `json:"gender"`
	Mobile          string `json:"mobile"`
	Email           string `json:"email" validate:"omitempty,email"`
	Address         string `json:"address"`
	FatherName      string `json:"father_name"`
	MotherName      string `json:"mother_name"`
	SpouseName      string `json:"spouse_name"`
	NomineeName     string `json:"nominee_name"`
	NomineeRelation string `json:"nominee_relation"`
	NomineeDOB      string `json:"nominee_dob"`

	BankName  string `json:"bank_name"`
	AccountNo string `json:"account_no"`
	IFSC      string `json:"ifsc"`
	UAN       string `json:"uan"`
	PFNo      string `json:"pf_no"`
	ESICNo    string `json:"esic_no"`

	Shift     string `json:"shift"`
	OpenShift bool   `json:"is_open_shift"`

	Basic      decimal.Decimal `json:"basic"`
	HRA        decimal.Decimal `json:"hra"`
	Conveyance decimal.Decimal `json:"conveyance"`
	Special    decimal.Decimal `json:"special_allowance"`
	Medical    decimal.Decimal `json:"medical_allowance"`
	Food       decimal.Decimal `json:"food_allowance"`

	// PFApplicable is on unless the submission turns it off.
	PFApplicable   *bool  `json:"pf_applicable"`
	ESICApplicable bool   `json:"esic_applicable"`
	Status         string `json:"status" validate:"omitempty,oneof=Active Inactive active inactive"`
	ExitDate       string `json:"exit_date"`
}

func (in EmployeeInput) toEmployee() (generic.Employee, error) {
	salary := []struct {
		field string
		value decimal.Decimal
	}{
		{"basic", in.Basic}, {"hra", in.HRA}, {"conveyance", in.Conveyance},
		{"special_allowance", in.Special}, {"medical_allowance", in.Medical}, {"food_allowance", in.Food},
	}
	for _, c := range salary {
		if c.value.IsNegative() {
			return generic.Employee{}, &generic.ValidationError{Field: c.field, Message: "must not be negative"}
		}
	}
	return generic.Employee{
		Code:            generic.NormalizeCode(in.Code),
		Name:            strings.TrimSpace(in.Name),
		Department:      strings.TrimSpace(in.Department),
		Designation:     strings.TrimSpace(in.Designation),
		DateOfJoining:   in.DateOfJoining,
		DateOfBirth:     in.DateOfBirth,
		Gender:          in.Gender,
		Mobile:          in.Mobile,
		Email:           in.Email,
		Address:         in.Address,
		FatherName:      in.FatherName,
		MotherName:      in.MotherName,
		SpouseName:      in.SpouseName,
		NomineeName:     in.NomineeName,
		NomineeRelation: in.NomineeRelation,
		NomineeDOB:      in.NomineeDOB,
		BankName:        in.BankName,
		AccountNo:       in.AccountNo,
		IFSC:            in.IFSC,
		UAN:             in.UAN,
		PFNo:            in.PFNo,
		ESICNo:          in.ESICNo,
		Shift:           in.Shift,
		OpenShift:       in.OpenShift || in.Shift == generic.OpenShiftName,
		Salary: generic.SalaryStructure{
			Basic: in.Basic, HRA: in.HRA, Conveyance: in.Conveyance,
			Special: in.Special, Medical: in.Medical, Food: in.Food,
		},
		PFApplicable:   in.PFApplicable == nil || *in.PFApplicable,
		ESICApplicable: in.ESICApplicable,
		Status:         generic.ParseEmployeeStatus(in.Status),
		ExitDate:       in.ExitDate,
	}, nil
}

// SaveEmployee replaces any prior record with the same code.
func (s *Service) SaveEmployee(ctx context.Context, in EmployeeInput) (*generic.Employee, error) {
	if err := generic.ValidateStruct(in); err != nil {
		return nil, err
	}
	emp, err := in.toEmployee()
	if err != nil {
		return nil, err
	}
	if emp.Code == "" {
		return nil, &generic.ValidationError{Field: "ecode", Message: "is required"}
	}
	if err := s.store.SaveEmployees(ctx, []generic.Employee{emp}); err != nil {
		return nil, fmt.Errorf("save employee %s: %w", emp.Code, err)
	}
	s.logger.Info("employee saved", zap.String("ecode", emp.Code.String()))
	return &emp, nil
}

func (s *Service) GetEmployee(ctx context.Context, code string) (*generic.Employee, error) {
	c := generic.NormalizeCode(code)
	emp, err := s.store.GetEmployee(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", c, err)
	}
	if emp == nil {
		return nil, fmt.Errorf("%s: %w", c, generic.ErrEmployeeNotFound)
	}
	return emp, nil
}

// EmployeeFilter narrows ListEmployees. Zero fields match everything.
type EmployeeFilter struct {
	Search     string // case-insensitive substring of name or code
	Department string
	Status     generic.EmployeeStatus
}

func (f EmployeeFilter) match(e generic.Employee) bool {
	if f.Department != "" && !strings.EqualFold(e.Department, f.Department) {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Code.String()), q) {
			return false
		}
	}
	return true
}

func (s *Service) ListEmployees(ctx context.Context, f EmployeeFilter) ([]generic.Employee, error) {
	all, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	out := make([]generic.Employee, 0, len(all))
	for _, e := range all {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ImportResult reports a bulk upload.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportEmployees upserts every valid row by code in one write.
func (s *Service) ImportEmployees(ctx context.Context, t *tabular.Table) (*ImportResult, error) {
	emps, skipped := tabular.DecodeEmployees(t)
	if len(emps) > 0 {
		if err := s.store.SaveEmployees(ctx, emps); err != nil {
			return nil, fmt.Errorf("import employees: %w", err)
		}
	}
	s.metrics.ImportedRows("employees", len(emps))
	s.logger.Info("employees imported", zap.Int("imported", len(emps)), zap.Int("skipped", skipped))
	return &ImportResult{Imported: len(emps), Skipped: skipped}, nil
}

func (s *Service) ExportEmployees(ctx context.Context, w io.Writer, format tabular.Format) error {
	emps, err := s.store.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("export employees: %w", err)
	}
	return tabular.Write(w, format, "Employees", tabular.EncodeEmployees(emps))
}
