package employee

import (
	"time"

	"hrms/internal/domain/payroll"
)

type User struct {
	ID                    string     `json:"id"`
	EmployeeID            string     `json:"employeeId"`
	Email                 string     `json:"email"`
	Username              *string    `json:"username"`
	PasswordHash          *string    `json:"-"`
	Role                  string     `json:"role"`
	Name                  string     `json:"name"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	Phone                 string     `json:"phone"`
	Company               string     `json:"company"`
	About                 string     `json:"about"`
	Gender                string     `json:"gender"`
	MaritalStatus         string     `json:"maritalStatus"`
	Nationality           string     `json:"nationality"`
	PlaceOfBirth          string     `json:"placeOfBirth"`
	DependentChildren     int        `json:"dependentChildren"`
	CertificateLevel      string     `json:"certificateLevel"`
	FieldOfStudy          string     `json:"fieldOfStudy"`
	DepartmentID          *string    `json:"departmentId"`
	DesignationID         *string    `json:"designationId"`
	JoiningDate           *time.Time `json:"joiningDate"`
	DateOfBirth           *time.Time `json:"dateOfBirth"`
	ProfilePhotoURL       string     `json:"profilePhotoUrl"`
	ResumeURL             string     `json:"resumeUrl"`
	IdentificationNo      string     `json:"identificationNo"`
	SSNNo                 string     `json:"ssnNo"`
	PassportNo            string     `json:"passportNo"`
	BankAccounts          string     `json:"bankAccounts"`
	VisaNo                string     `json:"visaNo"`
	WorkPermitNo          string     `json:"workPermitNo"`
	EmergencyContactName  string     `json:"emergencyContactName"`
	EmergencyContactPhone string     `json:"emergencyContactPhone"`
	PrivateAddress        string     `json:"privateAddress"`
	PrivateEmail          string     `json:"privateEmail"`
	PrivatePhone          string     `json:"privatePhone"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

type Certificate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
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

// Detail is a user with its department, designation, certificates and
// salaries (newest first).
type Detail struct {
	User
	Department   *DepartmentRef   `json:"department"`
	Designation  *DesignationRef  `json:"designation"`
	Certificates []Certificate    `json:"certificates"`
	Salaries     []payroll.Salary `json:"salaries"`
}

type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResult struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}
