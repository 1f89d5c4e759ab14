package payroll

import (
	"time"

	"hrms/internal/domain/patch"
)

// Breakdown is a free-form set of named salary components.
type Breakdown map[string]any

type Salary struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Amount     float64   `json:"amount"`
	Earnings   Breakdown `json:"earnings"`
	Deductions Breakdown `json:"deductions"`
	NetSalary  float64   `json:"netSalary"`
	PayslipNo  string    `json:"payslipNo"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type DepartmentRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DepartmentCode string `json:"departmentCode"`
}

type DesignationRef struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DesignationCode string `json:"designationCode"`
}

type SalaryUser struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Name        string          `json:"name"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	Department  *DepartmentRef  `json:"department"`
	Designation *DesignationRef `json:"designation"`
}

type SalaryDetail struct {
	Salary
	User SalaryUser `json:"user"`
}

// SalaryInput is keyed by (UserID, Month, Year). A nil NetSalary is
// computed from the amount and the breakdowns.
type SalaryInput struct {
	UserID     string
	Month      int
	Year       int
	Amount     float64
	Earnings   Breakdown
	Deductions Breakdown
	NetSalary  *float64
}

type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	AmountType   string    `json:"amountType"`
	DefaultValue float64   `json:"defaultValue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ItemInput struct {
	Name         string
	Category     string
	AmountType   string
	DefaultValue float64
}

// ItemPatch applies only the fields that were sent.
type ItemPatch struct {
	Name         patch.Field[string]
	Category     patch.Field[string]
	AmountType   patch.Field[string]
	DefaultValue patch.Field[float64]
}
