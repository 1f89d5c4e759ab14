package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslip lays out one salary record on a single A4 page.
func RenderPayslip(d SalaryDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+d.PayslipNo, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip No: %s", d.PayslipNo))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", time.Month(d.Month).String(), d.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", d.User.Name, d.User.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", d.User.Email))
	pdf.Ln(7)
	if d.User.Department != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", d.User.Department.Name))
		pdf.Ln(7)
	}
	if d.User.Designation != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", d.User.Designation.Name))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.Cell(0, 8, fmt.Sprintf("Basic: %.2f", d.Amount))
	pdf.Ln(9)
	section(pdf, "Earnings", d.Earnings.Lines())
	section(pdf, "Deductions", d.Deductions.Lines())

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net Salary: %.2f", d.NetSalary))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string, lines []Line) {
	if len(lines) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.CellFormat(90, 7, line.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", line.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}
