package employee

import (
	"context"

	"github.com/xuri/excelize/v2"

	"hrms/internal/domain/apperr"
)

const exportSheet = "Employees"

var exportHeader = []string{
	"Employee ID", "Name", "Email", "Role", "Department", "Designation",
	"Phone", "Joining Date", "Certificates", "Created At",
}

// Export renders every user as an XLSX workbook, newest first.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out, err := Workbook(users)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func Workbook(users []Detail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(exportSheet, cell, v)
	}
	for i, u := range users {
		row := i + 2
		values := []any{
			u.EmployeeID, u.Name, u.Email, u.Role,
			"", "", u.Phone, "", len(u.Certificates), u.CreatedAt.Format("2006-01-02 15:04"),
		}
		if u.Department != nil {
			values[4] = u.Department.Name
		}
		if u.Designation != nil {
			values[5] = u.Designation.Name
		}
		if u.JoiningDate != nil {
			values[7] = u.JoiningDate.Format("2006-01-02")
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 12)
	_ = f.SetColWidth(exportSheet, "B", "C", 28)
	_ = f.SetColWidth(exportSheet, "D", "D", 12)
	_ = f.SetColWidth(exportSheet, "E", "F", 22)
	_ = f.SetColWidth(exportSheet, "G", "H", 16)
	_ = f.SetColWidth(exportSheet, "I", "I", 12)
	_ = f.SetColWidth(exportSheet, "J", "J", 18)

	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(exportSheet, "A1", "J1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
