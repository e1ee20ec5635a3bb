// Package payslip builds the salary slip of one employee for one month and
// renders it as PDF.
package payslip

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// Line is one labelled amount on the slip.
type Line struct {
	Label  string
	Amount decimal.Decimal
}

type Payslip struct {
	Company        string
	CompanyAddress string
	Period         generic.PayPeriod

	Code        generic.EmployeeCode
	Name        string
	Department  string
	Designation string
	BankName    string
	AccountNo   string
	UAN         string
	PresentDays int

	Earnings              []Line
	GrossEarned           decimal.Decimal
	Deductions            []Line
	TotalDeductions       decimal.Decimal
	EmployerContributions []Line
	NetPay                decimal.Decimal

	GeneratedOn generic.Date
}

// componentLines pairs each earned column with the salary component whose
// enabled flag decides whether a zero amount is still printed.
var componentLines = []struct {
	label     string
	component string
	amount    func(generic.PayrollResult) decimal.Decimal
}{
	{"Basic", "Basic", func(r generic.PayrollResult) decimal.Decimal { return r.EarnedBasic }},
	{"HRA", "HRA", func(r generic.PayrollResult) decimal.Decimal { return r.EarnedHRA }},
	{"Conveyance", "Conveyance Allowance", func(r generic.PayrollResult) decimal.Decimal { return r.EarnedConveyance }},
	{"Special Allowance", "Special Allowance", func(r generic.PayrollResult) decimal.Decimal { return r.EarnedSpecial }},
	{"Medical", "Medical Allowance", func(r generic.PayrollResult) decimal.Decimal { return r.EarnedMedical }},
	{"Food", "Food Allowance", func(r generic.PayrollResult) decimal.Decimal { return r.EarnedFood }},
}

// Build assembles a slip. emp may be nil when the employee record has since
// been removed; the slip then carries only what the payroll row knows.
func Build(period generic.PayPeriod, result generic.PayrollResult, emp *generic.Employee, rules *generic.Rules, today generic.Date) Payslip {
	ps := Payslip{
		Company:         rules.Company.Name,
		CompanyAddress:  rules.Company.Address,
		Period:          period,
		Code:            result.Code,
		Name:            result.Name,
		PresentDays:     result.PresentDays,
		GrossEarned:     result.EarnedGross,
		TotalDeductions: result.TotalDeductions,
		NetPay:          result.NetPay,
		GeneratedOn:     today,
	}
	if emp != nil {
		ps.Department = emp.Department
		ps.Designation = emp.Designation
		ps.BankName = emp.BankName
		ps.AccountNo = emp.AccountNo
		ps.UAN = emp.UAN
	}

	for _, cl := range componentLines {
		amount := cl.amount(result)
		c, known := rules.Component(cl.component)
		if amount.IsZero() && known && !c.Enabled {
			continue
		}
		ps.Earnings = append(ps.Earnings, Line{Label: cl.label, Amount: amount})
	}
	ps.Earnings = append(ps.Earnings, Line{Label: "Overtime Pay", Amount: result.OvertimePay})

	ps.Deductions = []Line{
		{Label: fmt.Sprintf("PF Employee (%s%%)", rules.PF.EmployeePercent), Amount: result.PFEmployee},
		{Label: "ESIC Employee", Amount: result.ESICEmployee},
	}
	ps.EmployerContributions = []Line{
		{Label: fmt.Sprintf("PF Employer (%s%%)", rules.PF.EmployerPercent), Amount: result.PFEmployer},
		{Label: "EPS", Amount: result.EPS},
		{Label: "ESIC Employer", Amount: result.ESICEmployer},
	}
	return ps
}
