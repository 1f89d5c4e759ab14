package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/payroll"
	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
)

type Store struct {
	pool   *pgxpool.Pool
	q      db.DBTX
	crypto *cryptoutil.Service
}

// NewStore keeps identification, SSN, passport and bank details sealed at
// rest when crypto is configured.
func NewStore(pool *pgxpool.Pool, crypto *cryptoutil.Service) *Store {
	return &Store{pool: pool, q: pool, crypto: crypto}
}

func (s *Store) InTx(ctx context.Context, fn func(StoreAPI) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{q: tx, crypto: s.crypto})
	})
}

func (s *Store) LastCode(ctx context.Context, scheme codes.Scheme) (string, error) {
	if scheme.Entity != codes.Employee.Entity {
		return "", fmt.Errorf("employee store has no %s codes", scheme.Entity)
	}
	return db.LastCode(ctx, s.q, "users", "employee_id", scheme.Prefix)
}

func (s *Store) IncrementCounter(ctx context.Context, scheme codes.Scheme, seed int) (int, error) {
	return db.IncrementCounter(ctx, s.q, scheme.Entity, seed)
}

const userColumns = `
    u.id, COALESCE(u.employee_id, ''), u.email, u.username, u.password_hash, u.role, u.name,
    COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.phone, ''),
    COALESCE(u.company, ''), COALESCE(u.about, ''), COALESCE(u.gender, ''),
    COALESCE(u.marital_status, ''), COALESCE(u.nationality, ''), COALESCE(u.place_of_birth, ''),
    u.dependent_children, COALESCE(u.certificate_level, ''), COALESCE(u.field_of_study, ''),
    u.department_id, u.designation_id, u.joining_date, u.date_of_birth,
    COALESCE(u.profile_photo_url, ''), COALESCE(u.resume_url, ''),
    u.identification_no, u.identification_no_enc, u.ssn_no, u.ssn_no_enc,
    u.passport_no, u.passport_no_enc, u.bank_accounts, u.bank_accounts_enc,
    COALESCE(u.visa_no, ''), COALESCE(u.work_permit_no, ''),
    COALESCE(u.emergency_contact_name, ''), COALESCE(u.emergency_contact_phone, ''),
    COALESCE(u.private_address, ''), COALESCE(u.private_email, ''), COALESCE(u.private_phone, ''),
    u.created_at, u.updated_at`

const detailSelect = `
    SELECT` + userColumns + `,
           d.id, d.name, d.department_code,
           g.id, g.name, g.designation_code
    FROM users u
    LEFT JOIN departments d ON d.id = u.department_id
    LEFT JOIN designations g ON g.id = u.designation_id
`

// sealedColumns holds the plaintext and ciphertext halves of the
// sensitive fields while a row is scanned.
type sealedColumns struct {
	identification, ssn, passport, bank             *string
	identificationEnc, ssnEnc, passportEnc, bankEnc []byte
}

func (u *User) scanTargets(sealed *sealedColumns) []any {
	return []any{
		&u.ID, &u.EmployeeID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Name,
		&u.FirstName, &u.LastName, &u.Phone,
		&u.Company, &u.About, &u.Gender,
		&u.MaritalStatus, &u.Nationality, &u.PlaceOfBirth,
		&u.DependentChildren, &u.CertificateLevel, &u.FieldOfStudy,
		&u.DepartmentID, &u.DesignationID, &u.JoiningDate, &u.DateOfBirth,
		&u.ProfilePhotoURL, &u.ResumeURL,
		&sealed.identification, &sealed.identificationEnc, &sealed.ssn, &sealed.ssnEnc,
		&sealed.passport, &sealed.passportEnc, &sealed.bank, &sealed.bankEnc,
		&u.VisaNo, &u.WorkPermitNo,
		&u.EmergencyContactName, &u.EmergencyContactPhone,
		&u.PrivateAddress, &u.PrivateEmail, &u.PrivatePhone,
		&u.CreatedAt, &u.UpdatedAt,
	}
}

func (s *Store) open(u *User, sealed sealedColumns) {
	u.IdentificationNo = s.crypto.Open(sealed.identificationEnc, sealed.identification)
	u.SSNNo = s.crypto.Open(sealed.ssnEnc, sealed.ssn)
	u.PassportNo = s.crypto.Open(sealed.passportEnc, sealed.passport)
	u.BankAccounts = s.crypto.Open(sealed.bankEnc, sealed.bank)
}

func (s *Store) scanUser(row pgx.Row) (User, error) {
	var u User
	var sealed sealedColumns
	if err := row.Scan(u.scanTargets(&sealed)...); err != nil {
		return User{}, err
	}
	s.open(&u, sealed)
	return u, nil
}

func (s *Store) scanDetail(row pgx.Row) (Detail, error) {
	var d Detail
	var sealed sealedColumns
	var depID, depName, depCode, desID, desName, desCode *string
	targets := append(d.User.scanTargets(&sealed), &depID, &depName, &depCode, &desID, &desName, &desCode)
	if err := row.Scan(targets...); err != nil {
		return Detail{}, err
	}
	s.open(&d.User, sealed)
	if depID != nil {
		d.Department = &DepartmentRef{ID: *depID, Name: deref(depName), DepartmentCode: deref(depCode)}
	}
	if desID != nil {
		d.Designation = &DesignationRef{ID: *desID, Name: deref(desName), DesignationCode: deref(desCode)}
	}
	d.Certificates = []Certificate{}
	d.Salaries = []payroll.Salary{}
	return d, nil
}

func (s *Store) List(ctx context.Context) ([]Detail, error) {
	rows, err := s.q.Query(ctx, detailSelect+" ORDER BY u.created_at DESC")
	if err != nil {
		return nil, err
	}
	var out []Detail
	index := map[string]int{}
	for rows.Next() {
		d, err := s.scanDetail(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.ID)
	}
	certs, err := s.certificates(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range certs {
		i := index[c.UserID]
		out[i].Certificates = append(out[i].Certificates, c)
	}
	salaries, err := s.salaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, sal := range salaries {
		i := index[sal.UserID]
		out[i].Salaries = append(out[i].Salaries, sal)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.q.QueryRow(ctx, "SELECT"+userColumns+" FROM users u WHERE u.id = $1", id))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.q.QueryRow(ctx, "SELECT"+userColumns+" FROM users u WHERE u.email = $1", email))
}

func (s *Store) Detail(ctx context.Context, id string) (Detail, error) {
	d, err := s.scanDetail(s.q.QueryRow(ctx, detailSelect+" WHERE u.id = $1", id))
	if err != nil {
		return Detail{}, err
	}
	certs, err := s.certificates(ctx, []string{id})
	if err != nil {
		return Detail{}, err
	}
	d.Certificates = append(d.Certificates, certs...)
	salaries, err := s.salaries(ctx, []string{id})
	if err != nil {
		return Detail{}, err
	}
	d.Salaries = append(d.Salaries, salaries...)
	return d, nil
}

func (s *Store) certificates(ctx context.Context, userIDs []string) ([]Certificate, error) {
	rows, err := s.q.Query(ctx, `
    SELECT id, user_id, name, url, created_at
    FROM certificates
    WHERE user_id = ANY($1::uuid[])
    ORDER BY created_at ASC
  `, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Certificate
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.URL, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) salaries(ctx context.Context, userIDs []string) ([]payroll.Salary, error) {
	rows, err := s.q.Query(ctx, `
    SELECT id, user_id, month, year, amount::float8, earnings, deductions, net_salary::float8, payslip_no,
           created_at, updated_at
    FROM salaries
    WHERE user_id = ANY($1::uuid[])
    ORDER BY created_at DESC
  `, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Salary
	for rows.Next() {
		var sal payroll.Salary
		if err := rows.Scan(&sal.ID, &sal.UserID, &sal.Month, &sal.Year, &sal.Amount, &sal.Earnings,
			&sal.Deductions, &sal.NetSalary, &sal.PayslipNo, &sal.CreatedAt, &sal.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sal)
	}
	return out, rows.Err()
}

// sealedArgs returns the plaintext/ciphertext column pairs in column order.
func (s *Store) sealedArgs(u User) ([]any, error) {
	var args []any
	for _, value := range []string{u.IdentificationNo, u.SSNNo, u.PassportNo, u.BankAccounts} {
		plain, sealed, err := s.crypto.Seal(value)
		if err != nil {
			return nil, err
		}
		args = append(args, plain, sealed)
	}
	return args, nil
}

// writeColumns lists the mutable columns; the order matches writeArgs.
var writeColumns = []string{
	"employee_id", "email", "username", "password_hash", "role", "name",
	"first_name", "last_name", "phone", "company", "about", "gender",
	"marital_status", "nationality", "place_of_birth", "dependent_children",
	"certificate_level", "field_of_study", "department_id", "designation_id",
	"joining_date", "date_of_birth", "profile_photo_url", "resume_url",
	"identification_no", "identification_no_enc", "ssn_no", "ssn_no_enc",
	"passport_no", "passport_no_enc", "bank_accounts", "bank_accounts_enc",
	"visa_no", "work_permit_no", "emergency_contact_name", "emergency_contact_phone",
	"private_address", "private_email", "private_phone",
}

func (s *Store) writeArgs(u User) ([]any, error) {
	sealed, err := s.sealedArgs(u)
	if err != nil {
		return nil, err
	}
	args := []any{
		db.NullIfEmpty(u.EmployeeID), u.Email, db.NullIfNil(u.Username), db.NullIfNil(u.PasswordHash), u.Role, u.Name,
		db.NullIfEmpty(u.FirstName), db.NullIfEmpty(u.LastName), db.NullIfEmpty(u.Phone),
		db.NullIfEmpty(u.Company), db.NullIfEmpty(u.About), db.NullIfEmpty(u.Gender),
		db.NullIfEmpty(u.MaritalStatus), db.NullIfEmpty(u.Nationality), db.NullIfEmpty(u.PlaceOfBirth),
		u.DependentChildren, db.NullIfEmpty(u.CertificateLevel), db.NullIfEmpty(u.FieldOfStudy),
		db.NullIfNil(u.DepartmentID), db.NullIfNil(u.DesignationID),
		u.JoiningDate, u.DateOfBirth, db.NullIfEmpty(u.ProfilePhotoURL), db.NullIfEmpty(u.ResumeURL),
	}
	args = append(args, sealed...)
	args = append(args,
		db.NullIfEmpty(u.VisaNo), db.NullIfEmpty(u.WorkPermitNo),
		db.NullIfEmpty(u.EmergencyContactName), db.NullIfEmpty(u.EmergencyContactPhone),
		db.NullIfEmpty(u.PrivateAddress), db.NullIfEmpty(u.PrivateEmail), db.NullIfEmpty(u.PrivatePhone),
	)
	return args, nil
}

func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func (s *Store) Create(ctx context.Context, u User) (string, error) {
	args, err := s.writeArgs(u)
	if err != nil {
		return "", err
	}
	sql := fmt.Sprintf("INSERT INTO users (%s) VALUES (%s) RETURNING id",
		strings.Join(writeColumns, ", "), placeholders(1, len(writeColumns)))

	var id string
	err = s.q.QueryRow(ctx, sql, args...).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, u User) error {
	args, err := s.writeArgs(u)
	if err != nil {
		return err
	}
	sets := make([]string, len(writeColumns))
	for i, column := range writeColumns {
		sets[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	sql := fmt.Sprintf("UPDATE users SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(sets, ", "), len(writeColumns)+1)

	tag, err := s.q.Exec(ctx, sql, append(args, u.ID)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) AddCertificates(ctx context.Context, userID string, certs []Certificate) error {
	for _, c := range certs {
		if _, err := s.q.Exec(ctx, `
      INSERT INTO certificates (user_id, name, url) VALUES ($1, $2, $3)
    `, userID, c.Name, c.URL); err != nil {
			return err
		}
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
