package memstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/policy"
)

type Policies struct{ session }

func (s *Policies) InTx(ctx context.Context, fn func(policy.StoreAPI) error) error {
	return s.inTx(func(tx session) error { return fn(&Policies{tx}) })
}

func (s *Policies) LastCode(ctx context.Context, scheme codes.Scheme) (code string, err error) {
	if scheme.Entity != codes.Policy.Entity {
		return "", fmt.Errorf("policy store has no %s codes", scheme.Entity)
	}
	err = s.do(func(t *tables) error {
		p, _ := newest(t, t.policies, func(policy.Policy) bool { return true })
		code = p.PolicyCode
		return nil
	})
	return code, err
}

func (s *Policies) IncrementCounter(ctx context.Context, scheme codes.Scheme, seed int) (value int, err error) {
	err = s.do(func(t *tables) error {
		value = incrementCounter(t, scheme.Entity, seed)
		return nil
	})
	return value, err
}

func policyView(t *tables, p policy.Policy) policy.View {
	view := policy.View{
		ID:          p.ID,
		PolicyCode:  p.PolicyCode,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
	if p.DepartmentID != nil {
		if dep, ok := t.departments[*p.DepartmentID]; ok {
			view.Department = &policy.DepartmentRef{ID: dep.ID, Name: dep.Name}
		}
	}
	return view
}

func (s *Policies) List(ctx context.Context) (out []policy.View, err error) {
	err = s.do(func(t *tables) error {
		for _, id := range ordered(t, t.policies, false) {
			out = append(out, policyView(t, t.policies[id]))
		}
		return nil
	})
	return out, err
}

func (s *Policies) Get(ctx context.Context, id string) (p policy.Policy, err error) {
	err = s.do(func(t *tables) error {
		var ok bool
		if p, ok = t.policies[id]; !ok {
			return pgx.ErrNoRows
		}
		return nil
	})
	return p, err
}

func (s *Policies) View(ctx context.Context, id string) (view policy.View, err error) {
	err = s.do(func(t *tables) error {
		p, ok := t.policies[id]
		if !ok {
			return pgx.ErrNoRows
		}
		view = policyView(t, p)
		return nil
	})
	return view, err
}

func checkPolicy(t *tables, p policy.Policy) error {
	for id, other := range t.policies {
		if id == p.ID {
			continue
		}
		if other.PolicyCode == p.PolicyCode {
			return unique(policy.ConstraintCode)
		}
		if other.Name == p.Name {
			return unique("policies_name_key")
		}
	}
	if p.DepartmentID != nil {
		if _, ok := t.departments[*p.DepartmentID]; !ok {
			return foreignKey("policies_department_id_fkey")
		}
	}
	return nil
}

func (s *Policies) Create(ctx context.Context, p policy.Policy) (id string, err error) {
	err = s.do(func(t *tables) error {
		if err := checkPolicy(t, p); err != nil {
			return err
		}
		id, p.CreatedAt = s.insert()
		p.ID, p.UpdatedAt = id, p.CreatedAt
		t.policies[id] = p
		return nil
	})
	return id, err
}

func (s *Policies) Update(ctx context.Context, p policy.Policy) error {
	return s.do(func(t *tables) error {
		current, ok := t.policies[p.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		if err := checkPolicy(t, p); err != nil {
			return err
		}
		p.PolicyCode, p.CreatedAt = current.PolicyCode, current.CreatedAt
		p.UpdatedAt = s.db.now()
		t.policies[p.ID] = p
		return nil
	})
}

func (s *Policies) Delete(ctx context.Context, id string) error {
	return s.do(func(t *tables) error {
		if _, ok := t.policies[id]; !ok {
			return pgx.ErrNoRows
		}
		delete(t.policies, id)
		return nil
	})
}
