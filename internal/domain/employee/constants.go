package employee

import "hrms/internal/domain/guard"

const (
	Entity = "User"

	// MaxCertificates bounds certificate uploads per request.
	MaxCertificates = 10

	ConstraintEmployeeID = "users_employee_id_key"

	MsgEmailRequired       = "Email is required"
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidPassword     = "Invalid password"
	MsgRoleRequired        = "Role is required"
)

// Form field names shared by create and update.
const (
	FieldEmail                 = "email"
	FieldPassword              = "password"
	FieldFirstName             = "firstName"
	FieldLastName              = "lastName"
	FieldUsername              = "username"
	FieldRole                  = "role"
	FieldPhone                 = "phone"
	FieldCompany               = "company"
	FieldAbout                 = "about"
	FieldDepartmentID          = "departmentId"
	FieldDesignationID         = "designationId"
	FieldJoiningDate           = "joiningDate"
	FieldDateOfBirth           = "dateOfBirth"
	FieldGender                = "gender"
	FieldMaritalStatus         = "maritalStatus"
	FieldNationality           = "nationality"
	FieldIdentificationNo      = "identificationNo"
	FieldSSNNo                 = "ssnNo"
	FieldPassportNo            = "passportNo"
	FieldEmergencyContactName  = "emergencyContactName"
	FieldEmergencyContactPhone = "emergencyContactPhone"
	FieldPrivateAddress        = "privateAddress"
	FieldDependentChildren     = "dependentChildren"
	FieldPlaceOfBirth          = "placeOfBirth"
	FieldVisaNo                = "visaNo"
	FieldWorkPermitNo          = "workPermitNo"
	FieldPrivateEmail          = "privateEmail"
	FieldPrivatePhone          = "privatePhone"
	FieldBankAccounts          = "bankAccounts"
	FieldCertificateLevel      = "certificateLevel"
	FieldFieldOfStudy          = "fieldOfStudy"
)

var constraints = guard.Constraints{
	ConstraintEmployeeID:        {Field: "employeeId"},
	"users_email_key":           {Field: "email"},
	"users_username_key":        {Field: "username"},
	"users_department_id_fkey":  {Field: "departmentId", Target: "department"},
	"users_designation_id_fkey": {Field: "designationId", Target: "designation"},
}
