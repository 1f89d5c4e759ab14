package org

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/codes"
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

func (s *Store) LastCode(ctx context.Context, scheme codes.Scheme) (string, error) {
	switch scheme.Entity {
	case codes.Department.Entity:
		return db.LastCode(ctx, s.q, "departments", "department_code", "")
	case codes.Designation.Entity:
		return db.LastCode(ctx, s.q, "designations", "designation_code", "")
	}
	return "", fmt.Errorf("org store has no %s codes", scheme.Entity)
}

func (s *Store) IncrementCounter(ctx context.Context, scheme codes.Scheme, seed int) (int, error) {
	return db.IncrementCounter(ctx, s.q, scheme.Entity, seed)
}

const departmentViewSelect = `
    SELECT d.id, d.department_code, d.name, d.status, d.created_at,
           m.id, m.name, m.email,
           (SELECT COUNT(1) FROM users u WHERE u.department_id = d.id)
    FROM departments d
    LEFT JOIN users m ON m.id = d.manager_id
`

func scanDepartmentView(row pgx.Row) (DepartmentView, error) {
	var view DepartmentView
	var managerID, managerName, managerEmail *string
	if err := row.Scan(&view.ID, &view.DepartmentCode, &view.Name, &view.Status, &view.CreatedAt,
		&managerID, &managerName, &managerEmail, &view.EmployeeCount); err != nil {
		return DepartmentView{}, err
	}
	if managerID != nil {
		view.Manager = &ManagerSummary{ID: *managerID}
		if managerName != nil {
			view.Manager.Name = *managerName
		}
		if managerEmail != nil {
			view.Manager.Email = *managerEmail
		}
	}
	return view, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]DepartmentView, error) {
	rows, err := s.q.Query(ctx, departmentViewSelect+" ORDER BY d.created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentView
	for rows.Next() {
		view, err := scanDepartmentView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentView(ctx context.Context, id string) (DepartmentView, error) {
	return scanDepartmentView(s.q.QueryRow(ctx, departmentViewSelect+" WHERE d.id = $1", id))
}

func (s *Store) GetDepartment(ctx context.Context, id string) (Department, error) {
	var dep Department
	err := s.q.QueryRow(ctx, `
    SELECT id, department_code, name, status, manager_id, created_at, updated_at
    FROM departments WHERE id = $1
  `, id).Scan(&dep.ID, &dep.DepartmentCode, &dep.Name, &dep.Status, &dep.ManagerID, &dep.CreatedAt, &dep.UpdatedAt)
	return dep, err
}

func (s *Store) CreateDepartment(ctx context.Context, dep Department) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO departments (department_code, name, status, manager_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, dep.DepartmentCode, dep.Name, dep.Status, db.NullIfNil(dep.ManagerID)).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, dep Department) error {
	tag, err := s.q.Exec(ctx, `
    UPDATE departments SET name = $1, status = $2, manager_id = $3, updated_at = now()
    WHERE id = $4
  `, dep.Name, dep.Status, db.NullIfNil(dep.ManagerID), dep.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) CountDepartmentEmployees(ctx context.Context, id string) (int, error) {
	var count int
	err := s.q.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE department_id = $1", id).Scan(&count)
	return count, err
}

const designationViewSelect = `
    SELECT g.id, g.designation_code, g.name, g.department_id, d.department_code, d.name,
           (SELECT COUNT(1) FROM users u WHERE u.designation_id = g.id),
           g.status, g.created_at
    FROM designations g
    JOIN departments d ON d.id = g.department_id
`

func scanDesignationView(row pgx.Row) (DesignationView, error) {
	var view DesignationView
	err := row.Scan(&view.ID, &view.DesignationCode, &view.Name, &view.DepartmentID, &view.DepartmentCode,
		&view.DepartmentName, &view.EmployeeCount, &view.Status, &view.CreatedAt)
	return view, err
}

func (s *Store) ListDesignations(ctx context.Context) ([]DesignationView, error) {
	rows, err := s.q.Query(ctx, designationViewSelect+" ORDER BY g.created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DesignationView
	for rows.Next() {
		view, err := scanDesignationView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

func (s *Store) DesignationView(ctx context.Context, id string) (DesignationView, error) {
	return scanDesignationView(s.q.QueryRow(ctx, designationViewSelect+" WHERE g.id = $1", id))
}

func (s *Store) GetDesignation(ctx context.Context, id string) (Designation, error) {
	var des Designation
	err := s.q.QueryRow(ctx, `
    SELECT id, designation_code, name, department_id, status, created_at, updated_at
    FROM designations WHERE id = $1
  `, id).Scan(&des.ID, &des.DesignationCode, &des.Name, &des.DepartmentID, &des.Status, &des.CreatedAt, &des.UpdatedAt)
	return des, err
}

func (s *Store) CreateDesignation(ctx context.Context, des Designation) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO designations (designation_code, name, department_id, status)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, des.DesignationCode, des.Name, des.DepartmentID, des.Status).Scan(&id)
	return id, err
}

func (s *Store) UpdateDesignation(ctx context.Context, des Designation) error {
	tag, err := s.q.Exec(ctx, `
    UPDATE designations SET name = $1, department_id = $2, status = $3, updated_at = now()
    WHERE id = $4
  `, des.Name, des.DepartmentID, des.Status, des.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteDesignation(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, "DELETE FROM designations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) CountDesignationEmployees(ctx context.Context, id string) (int, error) {
	var count int
	err := s.q.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE designation_id = $1", id).Scan(&count)
	return count, err
}
