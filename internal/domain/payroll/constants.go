package payroll

import "hrms/internal/domain/guard"

const (
	EntitySalary = "Salary record"
	EntityItem   = "Payroll item"

	ConstraintSalaryPeriod = "salaries_user_id_month_year_key"
	ConstraintPayslipNo    = "salaries_payslip_no_key"

	PayslipPrefix = "PS-"

	MsgUserRequired     = "userId is required"
	MsgMonthRange       = "month must be between 1 and 12"
	MsgYearRange        = "year must be a four digit year"
	MsgNotANumber       = "must be a finite number"
	MsgItemNameRequired = "Payroll item name is required"

	CategoryEarning   = "Earning"
	CategoryDeduction = "Deduction"
)

var salaryConstraints = guard.Constraints{
	ConstraintSalaryPeriod:  {Field: "month"},
	ConstraintPayslipNo:     {Field: "payslipNo"},
	"salaries_user_id_fkey": {Field: "userId", Target: "user"},
}
