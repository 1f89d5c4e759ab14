package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/platform/db"
)

type Store struct {
	pool *pgxpool.Pool
	q    db.DBTX
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(StoreAPI) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{q: tx})
	})
}

func (s *Store) FindSalary(ctx context.Context, userID string, month, year int) (Salary, error) {
	var sal Salary
	err := s.q.QueryRow(ctx, `
    SELECT id, user_id, month, year, amount, earnings, deductions, net_salary, payslip_no, created_at, updated_at
    FROM salaries WHERE user_id = $1 AND month = $2 AND year = $3
  `, userID, month, year).Scan(&sal.ID, &sal.UserID, &sal.Month, &sal.Year, &sal.Amount, &sal.Earnings,
		&sal.Deductions, &sal.NetSalary, &sal.PayslipNo, &sal.CreatedAt, &sal.UpdatedAt)
	return sal, err
}

func (s *Store) CreateSalary(ctx context.Context, sal Salary) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO salaries (user_id, month, year, amount, earnings, deductions, net_salary, payslip_no)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
  `, sal.UserID, sal.Month, sal.Year, sal.Amount, sal.Earnings, sal.Deductions, sal.NetSalary, sal.PayslipNo).Scan(&id)
	return id, err
}

// UpdateSalary overwrites the amounts; payslip_no and the natural key stay.
func (s *Store) UpdateSalary(ctx context.Context, sal Salary) error {
	tag, err := s.q.Exec(ctx, `
    UPDATE salaries SET amount = $1, earnings = $2, deductions = $3, net_salary = $4, updated_at = now()
    WHERE id = $5
  `, sal.Amount, sal.Earnings, sal.Deductions, sal.NetSalary, sal.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const salaryDetailSelect = `
    SELECT s.id, s.user_id, s.month, s.year, s.amount, s.earnings, s.deductions, s.net_salary, s.payslip_no,
           s.created_at, s.updated_at,
           u.id, COALESCE(u.employee_id, ''), u.name, COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
           u.email, u.role,
           d.id, d.name, d.department_code,
           g.id, g.name, g.designation_code
    FROM salaries s
    JOIN users u ON u.id = s.user_id
    LEFT JOIN departments d ON d.id = u.department_id
    LEFT JOIN designations g ON g.id = u.designation_id
`

func scanSalaryDetail(row pgx.Row) (SalaryDetail, error) {
	var d SalaryDetail
	var depID, depName, depCode, desID, desName, desCode *string
	err := row.Scan(&d.ID, &d.UserID, &d.Month, &d.Year, &d.Amount, &d.Earnings, &d.Deductions, &d.NetSalary,
		&d.PayslipNo, &d.CreatedAt, &d.UpdatedAt,
		&d.User.ID, &d.User.EmployeeID, &d.User.Name, &d.User.FirstName, &d.User.LastName, &d.User.Email, &d.User.Role,
		&depID, &depName, &depCode, &desID, &desName, &desCode)
	if err != nil {
		return SalaryDetail{}, err
	}
	if depID != nil {
		d.User.Department = &DepartmentRef{ID: *depID, Name: deref(depName), DepartmentCode: deref(depCode)}
	}
	if desID != nil {
		d.User.Designation = &DesignationRef{ID: *desID, Name: deref(desName), DesignationCode: deref(desCode)}
	}
	return d, nil
}

func (s *Store) SalaryDetail(ctx context.Context, id string) (SalaryDetail, error) {
	return scanSalaryDetail(s.q.QueryRow(ctx, salaryDetailSelect+" WHERE s.id = $1", id))
}

func (s *Store) ListSalaries(ctx context.Context) ([]SalaryDetail, error) {
	rows, err := s.q.Query(ctx, salaryDetailSelect+" ORDER BY s.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SalaryDetail
	for rows.Next() {
		d, err := scanSalaryDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.q.Query(ctx, `
    SELECT id, name, category, amount_type, default_value, created_at, updated_at
    FROM payroll_items ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.AmountType, &item.DefaultValue, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) GetItem(ctx context.Context, id string) (Item, error) {
	var item Item
	err := s.q.QueryRow(ctx, `
    SELECT id, name, category, amount_type, default_value, created_at, updated_at
    FROM payroll_items WHERE id = $1
  `, id).Scan(&item.ID, &item.Name, &item.Category, &item.AmountType, &item.DefaultValue, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

func (s *Store) CreateItem(ctx context.Context, item Item) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO payroll_items (name, category, amount_type, default_value)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, item.Name, item.Category, item.AmountType, item.DefaultValue).Scan(&id)
	return id, err
}

func (s *Store) UpdateItem(ctx context.Context, item Item) error {
	tag, err := s.q.Exec(ctx, `
    UPDATE payroll_items SET name = $1, category = $2, amount_type = $3, default_value = $4, updated_at = now()
    WHERE id = $5
  `, item.Name, item.Category, item.AmountType, item.DefaultValue, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, "DELETE FROM payroll_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
