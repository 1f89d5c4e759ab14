package org

import "hrms/internal/domain/guard"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"

	EntityDepartment  = "Department"
	EntityDesignation = "Designation"
)

const (
	MsgDepartmentNameRequired   = "Department name is required"
	MsgDesignationFieldsMissing = "Name and department are required"
	MsgDepartmentHasEmployees   = "Cannot delete department because it still has employees assigned to it."
	MsgDesignationHasEmployees  = "Cannot delete designation because employees are assigned to it."
)

// Constraint names from migrations/0001_init.sql.
const (
	ConstraintDepartmentCode  = "departments_department_code_key"
	ConstraintDesignationCode = "designations_designation_code_key"
)

var departmentConstraints = guard.Constraints{
	ConstraintDepartmentCode:          {Field: "departmentCode"},
	"departments_name_key":            {Field: "name"},
	"departments_manager_id_fkey":     {Field: "managerId", Target: "user"},
	"designations_department_id_fkey": {Field: "departmentId", Target: "designations"},
	"policies_department_id_fkey":     {Field: "departmentId", Target: "policies"},
	"users_department_id_fkey":        {Field: "departmentId", Target: "employees"},
}

var designationConstraints = guard.Constraints{
	ConstraintDesignationCode:         {Field: "designationCode"},
	"designations_name_key":           {Field: "name"},
	"designations_department_id_fkey": {Field: "departmentId", Target: "department"},
	"users_designation_id_fkey":       {Field: "designationId", Target: "employees"},
}
