package org

import (
	"time"

	"hrms/internal/domain/patch"
)

type Department struct {
	ID             string
	DepartmentCode string
	Name           string
	Status         string
	ManagerID      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ManagerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type DepartmentView struct {
	SerialNo       int             `json:"serialNo,omitempty"`
	ID             string          `json:"id"`
	DepartmentCode string          `json:"departmentCode"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	Manager        *ManagerSummary `json:"manager"`
	EmployeeCount  int             `json:"employeeCount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type DepartmentInput struct {
	Name      string
	Status    string
	ManagerID string
}

// DepartmentPatch applies name and status only when non-empty. ManagerID
// is applied whenever sent; an empty value clears the manager.
type DepartmentPatch struct {
	Name      patch.Field[string] `json:"name"`
	Status    patch.Field[string] `json:"status"`
	ManagerID patch.Field[string] `json:"managerId"`
}

type Designation struct {
	ID              string
	DesignationCode string
	Name            string
	DepartmentID    string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type DesignationView struct {
	SerialNo        int       `json:"serialNo,omitempty"`
	ID              string    `json:"id"`
	DesignationCode string    `json:"designationCode"`
	Name            string    `json:"name"`
	DepartmentID    string    `json:"departmentId"`
	DepartmentCode  string    `json:"departmentCode"`
	DepartmentName  string    `json:"departmentName"`
	EmployeeCount   int       `json:"employeeCount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type DesignationInput struct {
	Name         string
	DepartmentID string
	Status       string
}

// DesignationPatch applies every field only when non-empty.
type DesignationPatch struct {
	Name         patch.Field[string] `json:"name"`
	DepartmentID patch.Field[string] `json:"departmentId"`
	Status       patch.Field[string] `json:"status"`
}
