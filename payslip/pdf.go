package payslip

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pageWidth = 190.0
	half      = pageWidth / 2
)

// RenderPDF writes the slip as a single A4 page.
func RenderPDF(w io.Writer, ps Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(26, 35, 126)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 10, ps.Company, "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pageWidth, 7, "SALARY SLIP - "+strings.ToUpper(ps.Period.String()), "", 1, "L", true, 0, "")
	if ps.CompanyAddress != "" {
		pdf.CellFormat(pageWidth, 6, ps.CompanyAddress, "", 1, "L", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// Employee block
	pdf.SetFont("Arial", "", 10)
	pairs := [][2]string{
		{"Employee: " + ps.Name, "E-Code: " + ps.Code.String()},
		{"Department: " + ps.Department, "Designation: " + ps.Designation},
		{"Bank: " + ps.BankName, "Account: " + ps.AccountNo},
		{"UAN: " + ps.UAN, fmt.Sprintf("Days Worked: %d", ps.PresentDays)},
	}
	for _, p := range pairs {
		pdf.CellFormat(half, 6, p[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 6, p[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Earnings | Deductions side by side
	top := pdf.GetY()
	section(pdf, 10, "EARNINGS", ps.Earnings, "Gross Earned", ps.GrossEarned)
	left := pdf.GetY()
	pdf.SetY(top)
	section(pdf, 10+half, "DEDUCTIONS", ps.Deductions, "Total Deductions", ps.TotalDeductions)
	pdf.Ln(3)
	section(pdf, 10+half, "EMPLOYER CONTRIBUTION", ps.EmployerContributions, "", decimal.Zero)
	if left > pdf.GetY() {
		pdf.SetY(left)
	}
	pdf.Ln(6)

	pdf.SetFillColor(26, 35, 126)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(pageWidth, 10, "NET PAY: "+money(ps.NetPay), "", 1, "C", true, 0, "")
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(pageWidth, 6, "Computer generated payslip. Generated on "+ps.GeneratedOn.String(), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render payslip pdf: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, x float64, title string, lines []Line, totalLabel string, total decimal.Decimal) {
	width := half - 4
	pdf.SetX(x)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(width, 7, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, l := range lines {
		pdf.SetX(x)
		pdf.CellFormat(width*0.6, 6, l.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(width*0.4, 6, money(l.Amount), "", 1, "R", false, 0, "")
	}
	if totalLabel == "" {
		return
	}
	pdf.SetX(x)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(width*0.6, 7, totalLabel, "T", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.4, 7, money(total), "T", 1, "R", false, 0, "")
}

// money renders "Rs. 12,345.60"; the core PDF fonts have no rupee glyph.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "Rs. " + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
