package employee

import (
	"fmt"
	"strings"
	"time"

	"hrms/internal/domain/patch"
	"hrms/internal/platform/storage"
)

// Submission is a create or update request: the submitted form fields plus
// any uploaded files.
type Submission struct {
	Fields       patch.Values
	ProfilePhoto *storage.File
	Resume       *storage.File
	Certificates []storage.File
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// textFields maps form keys onto the plain string fields of a user. Each is
// applied whenever the key is present, even when empty.
func textFields(u *User) map[string]*string {
	return map[string]*string{
		FieldFirstName:             &u.FirstName,
		FieldLastName:              &u.LastName,
		FieldPhone:                 &u.Phone,
		FieldCompany:               &u.Company,
		FieldAbout:                 &u.About,
		FieldGender:                &u.Gender,
		FieldMaritalStatus:         &u.MaritalStatus,
		FieldNationality:           &u.Nationality,
		FieldIdentificationNo:      &u.IdentificationNo,
		FieldSSNNo:                 &u.SSNNo,
		FieldPassportNo:            &u.PassportNo,
		FieldEmergencyContactName:  &u.EmergencyContactName,
		FieldEmergencyContactPhone: &u.EmergencyContactPhone,
		FieldPrivateAddress:        &u.PrivateAddress,
		FieldPlaceOfBirth:          &u.PlaceOfBirth,
		FieldVisaNo:                &u.VisaNo,
		FieldWorkPermitNo:          &u.WorkPermitNo,
		FieldPrivateEmail:          &u.PrivateEmail,
		FieldPrivatePhone:          &u.PrivatePhone,
		FieldBankAccounts:          &u.BankAccounts,
		FieldCertificateLevel:      &u.CertificateLevel,
		FieldFieldOfStudy:          &u.FieldOfStudy,
	}
}
