package policy

import (
	"time"

	"hrms/internal/domain/patch"
)

type Policy struct {
	ID           string
	PolicyCode   string
	Name         string
	Description  string
	DepartmentID *string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type View struct {
	SerialNo    int            `json:"serialNo,omitempty"`
	ID          string         `json:"id"`
	PolicyCode  string         `json:"policyCode"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Department  *DepartmentRef `json:"department"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type Input struct {
	Name         string
	Description  string
	DepartmentID string
	Status       string
}

// Patch applies name, description and status when non-empty.
// DepartmentID is applied whenever sent; an empty value detaches the policy.
type Patch struct {
	Name         patch.Field[string] `json:"name"`
	Description  patch.Field[string] `json:"description"`
	DepartmentID patch.Field[string] `json:"departmentId"`
	Status       patch.Field[string] `json:"status"`
}
