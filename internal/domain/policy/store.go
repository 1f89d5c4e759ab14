package policy

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
	if scheme.Entity != codes.Policy.Entity {
		return "", fmt.Errorf("policy store has no %s codes", scheme.Entity)
	}
	return db.LastCode(ctx, s.q, "policies", "policy_code", "")
}

func (s *Store) IncrementCounter(ctx context.Context, scheme codes.Scheme, seed int) (int, error) {
	return db.IncrementCounter(ctx, s.q, scheme.Entity, seed)
}

const viewSelect = `
    SELECT p.id, p.policy_code, p.name, p.description, d.id, d.name, p.status, p.created_at
    FROM policies p
    LEFT JOIN departments d ON d.id = p.department_id
`

func scanView(row pgx.Row) (View, error) {
	var view View
	var departmentID, departmentName *string
	if err := row.Scan(&view.ID, &view.PolicyCode, &view.Name, &view.Description,
		&departmentID, &departmentName, &view.Status, &view.CreatedAt); err != nil {
		return View{}, err
	}
	if departmentID != nil {
		view.Department = &DepartmentRef{ID: *departmentID}
		if departmentName != nil {
			view.Department.Name = *departmentName
		}
	}
	return view, nil
}

func (s *Store) List(ctx context.Context) ([]View, error) {
	rows, err := s.q.Query(ctx, viewSelect+" ORDER BY p.created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []View
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, rows.Err()
}

func (s *Store) View(ctx context.Context, id string) (View, error) {
	return scanView(s.q.QueryRow(ctx, viewSelect+" WHERE p.id = $1", id))
}

func (s *Store) Get(ctx context.Context, id string) (Policy, error) {
	var p Policy
	err := s.q.QueryRow(ctx, `
    SELECT id, policy_code, name, description, department_id, status, created_at, updated_at
    FROM policies WHERE id = $1
  `, id).Scan(&p.ID, &p.PolicyCode, &p.Name, &p.Description, &p.DepartmentID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) Create(ctx context.Context, p Policy) (string, error) {
	var id string
	err := s.q.QueryRow(ctx, `
    INSERT INTO policies (policy_code, name, description, department_id, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, p.PolicyCode, p.Name, p.Description, db.NullIfNil(p.DepartmentID), p.Status).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, p Policy) error {
	tag, err := s.q.Exec(ctx, `
    UPDATE policies SET name = $1, description = $2, department_id = $3, status = $4, updated_at = now()
    WHERE id = $5
  `, p.Name, p.Description, db.NullIfNil(p.DepartmentID), p.Status, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, "DELETE FROM policies WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
