package events

const (
	DepartmentCreated = "departmentCreated"
	DepartmentUpdated = "departmentUpdated"
	DepartmentDeleted = "departmentDeleted"

	DesignationCreated = "designationCreated"
	DesignationUpdated = "designationUpdated"
	DesignationDeleted = "designationDeleted"

	PolicyCreated = "policyCreated"
	PolicyUpdated = "policyUpdated"
	PolicyDeleted = "policyDeleted"

	UserCreated = "userCreated"
	UserUpdated = "userUpdated"

	SalaryCreated = "salaryCreated"
	SalaryUpdated = "salaryUpdated"

	PayrollItemCreated = "payrollItemCreated"
	PayrollItemUpdated = "payrollItemUpdated"
	PayrollItemDeleted = "payrollItemDeleted"
)

// Deleted is the payload of every *Deleted event.
type Deleted struct {
	ID string `json:"id"`
}

// Discard drops every event. Useful where no subscriber is wired.
type Discard struct{}

func (Discard) Publish(string, any) {}
