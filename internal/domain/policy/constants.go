package policy

import "hrms/internal/domain/guard"

const (
	Entity         = "Policy"
	StatusActive   = "Active"
	ConstraintCode = "policies_policy_code_key"

	MsgFieldsRequired = "Policy name and description are required"
)

var constraints = guard.Constraints{
	ConstraintCode:                {Field: "policyCode"},
	"policies_name_key":           {Field: "name"},
	"policies_department_id_fkey": {Field: "departmentId", Target: "department"},
}
