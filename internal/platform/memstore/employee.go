package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/payroll"
)

type Employees struct{ session }

func (s *Employees) InTx(ctx context.Context, fn func(employee.StoreAPI) error) error {
	return s.inTx(func(tx session) error { return fn(&Employees{tx}) })
}

// LastCode only considers codes carrying the scheme prefix.
func (s *Employees) LastCode(ctx context.Context, scheme codes.Scheme) (code string, err error) {
	if scheme.Entity != codes.Employee.Entity {
		return "", fmt.Errorf("employee store has no %s codes", scheme.Entity)
	}
	err = s.do(func(t *tables) error {
		u, _ := newest(t, t.users, func(u employee.User) bool {
			return strings.HasPrefix(u.EmployeeID, scheme.Prefix)
		})
		code = u.EmployeeID
		return nil
	})
	return code, err
}

func (s *Employees) IncrementCounter(ctx context.Context, scheme codes.Scheme, seed int) (value int, err error) {
	err = s.do(func(t *tables) error {
		value = incrementCounter(t, scheme.Entity, seed)
		return nil
	})
	return value, err
}

func userDetail(t *tables, u employee.User) employee.Detail {
	d := employee.Detail{User: u, Certificates: []employee.Certificate{}, Salaries: []payroll.Salary{}}
	if u.DepartmentID != nil {
		if dep, ok := t.departments[*u.DepartmentID]; ok {
			d.Department = &employee.DepartmentRef{ID: dep.ID, Name: dep.Name, DepartmentCode: dep.DepartmentCode}
		}
	}
	if u.DesignationID != nil {
		if des, ok := t.designations[*u.DesignationID]; ok {
			d.Designation = &employee.DesignationRef{ID: des.ID, Name: des.Name, DesignationCode: des.DesignationCode}
		}
	}
	for _, c := range t.certificates {
		if c.UserID == u.ID {
			d.Certificates = append(d.Certificates, c)
		}
	}
	for _, id := range ordered(t, t.salaries, true) {
		if sal := t.salaries[id]; sal.UserID == u.ID {
			d.Salaries = append(d.Salaries, sal)
		}
	}
	return d
}

func (s *Employees) List(ctx context.Context) (out []employee.Detail, err error) {
	err = s.do(func(t *tables) error {
		for _, id := range ordered(t, t.users, true) {
			out = append(out, userDetail(t, t.users[id]))
		}
		return nil
	})
	return out, err
}

func (s *Employees) Get(ctx context.Context, id string) (u employee.User, err error) {
	err = s.do(func(t *tables) error {
		var ok bool
		if u, ok = t.users[id]; !ok {
			return pgx.ErrNoRows
		}
		return nil
	})
	return u, err
}

func (s *Employees) Detail(ctx context.Context, id string) (d employee.Detail, err error) {
	err = s.do(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return pgx.ErrNoRows
		}
		d = userDetail(t, u)
		return nil
	})
	return d, err
}

func (s *Employees) FindByEmail(ctx context.Context, email string) (u employee.User, err error) {
	err = s.do(func(t *tables) error {
		for _, candidate := range t.users {
			if candidate.Email == email {
				u = candidate
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return u, err
}

// checkUser reports violations in a fixed order so results do not depend
// on map iteration.
func checkUser(t *tables, u employee.User) error {
	ids := make([]string, 0, len(t.users))
	for id := range t.users {
		if id != u.ID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		other := t.users[id]
		switch {
		case u.EmployeeID != "" && other.EmployeeID == u.EmployeeID:
			return unique(employee.ConstraintEmployeeID)
		case other.Email == u.Email:
			return unique("users_email_key")
		case u.Username != nil && other.Username != nil && *other.Username == *u.Username:
			return unique("users_username_key")
		}
	}
	if u.DepartmentID != nil {
		if _, ok := t.departments[*u.DepartmentID]; !ok {
			return foreignKey("users_department_id_fkey")
		}
	}
	if u.DesignationID != nil {
		if _, ok := t.designations[*u.DesignationID]; !ok {
			return foreignKey("users_designation_id_fkey")
		}
	}
	return nil
}

func (s *Employees) Create(ctx context.Context, u employee.User) (id string, err error) {
	err = s.do(func(t *tables) error {
		if err := checkUser(t, u); err != nil {
			return err
		}
		id, u.CreatedAt = s.insert()
		u.ID, u.UpdatedAt = id, u.CreatedAt
		t.users[id] = u
		return nil
	})
	return id, err
}

func (s *Employees) Update(ctx context.Context, u employee.User) error {
	return s.do(func(t *tables) error {
		current, ok := t.users[u.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		if err := checkUser(t, u); err != nil {
			return err
		}
		u.CreatedAt = current.CreatedAt
		u.UpdatedAt = s.db.now()
		t.users[u.ID] = u
		return nil
	})
}

func (s *Employees) AddCertificates(ctx context.Context, userID string, certs []employee.Certificate) error {
	return s.do(func(t *tables) error {
		if len(certs) == 0 {
			return nil
		}
		if _, ok := t.users[userID]; !ok {
			return foreignKey("certificates_user_id_fkey")
		}
		for _, c := range certs {
			c.ID, c.CreatedAt = s.insert()
			c.UserID = userID
			t.certificates = append(t.certificates, c)
		}
		return nil
	})
}
