package accidents

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"hrrecords/internal/domain/employees"
)

func renderReport(a Accident, employee *employees.Employee) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Accident report "+a.ID, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Workplace Accident Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, value, "", "", false)
	}

	employeeName := a.EmployeeID
	if employee != nil {
		employeeName = fmt.Sprintf("%s %s", employee.FirstName, employee.LastName)
		if employee.Department != nil {
			employeeName += " (" + *employee.Department + ")"
		}
	}

	line("Report ID:", a.ID)
	line("Employee:", employeeName)
	line("Date:", a.AccidentDate.Format("2006-01-02 15:04"))
	line("Severity:", string(a.Severity))
	line("Location:", orDash(a.Location))
	pdf.Ln(3)
	line("Description:", a.Description)
	line("Witnesses:", orDash(a.Witnesses))
	line("Treatment:", orDash(a.TreatmentProvided))
	pdf.Ln(3)
	line("Reported by:", orDash(a.ReportedBy))
	line("Recorded:", a.CreatedAt.Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render accident report: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
