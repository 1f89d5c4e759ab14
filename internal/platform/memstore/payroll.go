package memstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrms/internal/domain/payroll"
)

type Payroll struct{ session }

func (s *Payroll) InTx(ctx context.Context, fn func(payroll.StoreAPI) error) error {
	return s.inTx(func(tx session) error { return fn(&Payroll{tx}) })
}

func (s *Payroll) FindSalary(ctx context.Context, userID string, month, year int) (sal payroll.Salary, err error) {
	err = s.do(func(t *tables) error {
		for _, candidate := range t.salaries {
			if candidate.UserID == userID && candidate.Month == month && candidate.Year == year {
				sal = candidate
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return sal, err
}

func checkSalary(t *tables, sal payroll.Salary) error {
	for id, other := range t.salaries {
		if id == sal.ID {
			continue
		}
		if other.UserID == sal.UserID && other.Month == sal.Month && other.Year == sal.Year {
			return unique(payroll.ConstraintSalaryPeriod)
		}
		if other.PayslipNo == sal.PayslipNo {
			return unique(payroll.ConstraintPayslipNo)
		}
	}
	if _, ok := t.users[sal.UserID]; !ok {
		return foreignKey("salaries_user_id_fkey")
	}
	return nil
}

func (s *Payroll) CreateSalary(ctx context.Context, sal payroll.Salary) (id string, err error) {
	err = s.do(func(t *tables) error {
		if err := checkSalary(t, sal); err != nil {
			return err
		}
		id, sal.CreatedAt = s.insert()
		sal.ID, sal.UpdatedAt = id, sal.CreatedAt
		t.salaries[id] = sal
		return nil
	})
	return id, err
}

func (s *Payroll) UpdateSalary(ctx context.Context, sal payroll.Salary) error {
	return s.do(func(t *tables) error {
		current, ok := t.salaries[sal.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		if err := checkSalary(t, sal); err != nil {
			return err
		}
		sal.CreatedAt = current.CreatedAt
		sal.UpdatedAt = s.db.now()
		t.salaries[sal.ID] = sal
		return nil
	})
}

func salaryDetail(t *tables, sal payroll.Salary) payroll.SalaryDetail {
	u := t.users[sal.UserID]
	d := payroll.SalaryDetail{
		Salary: sal,
		User: payroll.SalaryUser{
			ID:         u.ID,
			EmployeeID: u.EmployeeID,
			Name:       u.Name,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			Role:       u.Role,
		},
	}
	if u.DepartmentID != nil {
		if dep, ok := t.departments[*u.DepartmentID]; ok {
			d.User.Department = &payroll.DepartmentRef{ID: dep.ID, Name: dep.Name, DepartmentCode: dep.DepartmentCode}
		}
	}
	if u.DesignationID != nil {
		if des, ok := t.designations[*u.DesignationID]; ok {
			d.User.Designation = &payroll.DesignationRef{ID: des.ID, Name: des.Name, DesignationCode: des.DesignationCode}
		}
	}
	return d
}

func (s *Payroll) SalaryDetail(ctx context.Context, id string) (d payroll.SalaryDetail, err error) {
	err = s.do(func(t *tables) error {
		sal, ok := t.salaries[id]
		if !ok {
			return pgx.ErrNoRows
		}
		d = salaryDetail(t, sal)
		return nil
	})
	return d, err
}

func (s *Payroll) ListSalaries(ctx context.Context) (out []payroll.SalaryDetail, err error) {
	err = s.do(func(t *tables) error {
		for _, id := range ordered(t, t.salaries, true) {
			out = append(out, salaryDetail(t, t.salaries[id]))
		}
		return nil
	})
	return out, err
}

func (s *Payroll) ListItems(ctx context.Context) (out []payroll.Item, err error) {
	err = s.do(func(t *tables) error {
		for _, id := range ordered(t, t.items, true) {
			out = append(out, t.items[id])
		}
		return nil
	})
	return out, err
}

func (s *Payroll) GetItem(ctx context.Context, id string) (item payroll.Item, err error) {
	err = s.do(func(t *tables) error {
		var ok bool
		if item, ok = t.items[id]; !ok {
			return pgx.ErrNoRows
		}
		return nil
	})
	return item, err
}

func (s *Payroll) CreateItem(ctx context.Context, item payroll.Item) (id string, err error) {
	err = s.do(func(t *tables) error {
		id, item.CreatedAt = s.insert()
		item.ID, item.UpdatedAt = id, item.CreatedAt
		t.items[id] = item
		return nil
	})
	return id, err
}

func (s *Payroll) UpdateItem(ctx context.Context, item payroll.Item) error {
	return s.do(func(t *tables) error {
		current, ok := t.items[item.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		item.CreatedAt = current.CreatedAt
		item.UpdatedAt = s.db.now()
		t.items[item.ID] = item
		return nil
	})
}

func (s *Payroll) DeleteItem(ctx context.Context, id string) error {
	return s.do(func(t *tables) error {
		if _, ok := t.items[id]; !ok {
			return pgx.ErrNoRows
		}
		delete(t.items, id)
		return nil
	})
}
