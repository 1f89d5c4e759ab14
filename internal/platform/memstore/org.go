package memstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/org"
)

type Org struct{ session }

func (s *Org) InTx(ctx context.Context, fn func(org.StoreAPI) error) error {
	return s.inTx(func(tx session) error { return fn(&Org{tx}) })
}

func (s *Org) LastCode(ctx context.Context, scheme codes.Scheme) (code string, err error) {
	err = s.do(func(t *tables) error {
		switch scheme.Entity {
		case codes.Department.Entity:
			dep, _ := newest(t, t.departments, func(org.Department) bool { return true })
			code = dep.DepartmentCode
		case codes.Designation.Entity:
			des, _ := newest(t, t.designations, func(org.Designation) bool { return true })
			code = des.DesignationCode
		default:
			return fmt.Errorf("org store has no %s codes", scheme.Entity)
		}
		return nil
	})
	return code, err
}

func (s *Org) IncrementCounter(ctx context.Context, scheme codes.Scheme, seed int) (value int, err error) {
	err = s.do(func(t *tables) error {
		value = incrementCounter(t, scheme.Entity, seed)
		return nil
	})
	return value, err
}

func departmentView(t *tables, dep org.Department) org.DepartmentView {
	view := org.DepartmentView{
		ID:             dep.ID,
		DepartmentCode: dep.DepartmentCode,
		Name:           dep.Name,
		Status:         dep.Status,
		CreatedAt:      dep.CreatedAt,
	}
	if dep.ManagerID != nil {
		if m, ok := t.users[*dep.ManagerID]; ok {
			view.Manager = &org.ManagerSummary{ID: m.ID, Name: m.Name, Email: m.Email}
		}
	}
	for _, u := range t.users {
		if sameRef(u.DepartmentID, dep.ID) {
			view.EmployeeCount++
		}
	}
	return view
}

func (s *Org) ListDepartments(ctx context.Context) (out []org.DepartmentView, err error) {
	err = s.do(func(t *tables) error {
		for _, id := range ordered(t, t.departments, false) {
			out = append(out, departmentView(t, t.departments[id]))
		}
		return nil
	})
	return out, err
}

func (s *Org) GetDepartment(ctx context.Context, id string) (dep org.Department, err error) {
	err = s.do(func(t *tables) error {
		var ok bool
		if dep, ok = t.departments[id]; !ok {
			return pgx.ErrNoRows
		}
		return nil
	})
	return dep, err
}

func (s *Org) DepartmentView(ctx context.Context, id string) (view org.DepartmentView, err error) {
	err = s.do(func(t *tables) error {
		dep, ok := t.departments[id]
		if !ok {
			return pgx.ErrNoRows
		}
		view = departmentView(t, dep)
		return nil
	})
	return view, err
}

func checkDepartment(t *tables, dep org.Department) error {
	for id, other := range t.departments {
		if id == dep.ID {
			continue
		}
		if other.DepartmentCode == dep.DepartmentCode {
			return unique(org.ConstraintDepartmentCode)
		}
		if other.Name == dep.Name {
			return unique("departments_name_key")
		}
	}
	if dep.ManagerID != nil {
		if _, ok := t.users[*dep.ManagerID]; !ok {
			return foreignKey("departments_manager_id_fkey")
		}
	}
	return nil
}

func (s *Org) CreateDepartment(ctx context.Context, dep org.Department) (id string, err error) {
	err = s.do(func(t *tables) error {
		if err := checkDepartment(t, dep); err != nil {
			return err
		}
		id, dep.CreatedAt = s.insert()
		dep.ID, dep.UpdatedAt = id, dep.CreatedAt
		t.departments[id] = dep
		return nil
	})
	return id, err
}

func (s *Org) UpdateDepartment(ctx context.Context, dep org.Department) error {
	return s.do(func(t *tables) error {
		current, ok := t.departments[dep.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		if err := checkDepartment(t, dep); err != nil {
			return err
		}
		dep.DepartmentCode, dep.CreatedAt = current.DepartmentCode, current.CreatedAt
		dep.UpdatedAt = s.db.now()
		t.departments[dep.ID] = dep
		return nil
	})
}

// DeleteDepartment follows the schema: designations and users restrict the
// delete, policies are detached.
func (s *Org) DeleteDepartment(ctx context.Context, id string) error {
	return s.do(func(t *tables) error {
		if _, ok := t.departments[id]; !ok {
			return pgx.ErrNoRows
		}
		for _, des := range t.designations {
			if des.DepartmentID == id {
				return foreignKey("designations_department_id_fkey")
			}
		}
		for _, u := range t.users {
			if sameRef(u.DepartmentID, id) {
				return foreignKey("users_department_id_fkey")
			}
		}
		for pid, p := range t.policies {
			if sameRef(p.DepartmentID, id) {
				p.DepartmentID = nil
				t.policies[pid] = p
			}
		}
		delete(t.departments, id)
		return nil
	})
}

func (s *Org) CountDepartmentEmployees(ctx context.Context, id string) (count int, err error) {
	err = s.do(func(t *tables) error {
		for _, u := range t.users {
			if sameRef(u.DepartmentID, id) {
				count++
			}
		}
		return nil
	})
	return count, err
}

func designationView(t *tables, des org.Designation) org.DesignationView {
	dep := t.departments[des.DepartmentID]
	view := org.DesignationView{
		ID:              des.ID,
		DesignationCode: des.DesignationCode,
		Name:            des.Name,
		DepartmentID:    des.DepartmentID,
		DepartmentCode:  dep.DepartmentCode,
		DepartmentName:  dep.Name,
		Status:          des.Status,
		CreatedAt:       des.CreatedAt,
	}
	for _, u := range t.users {
		if sameRef(u.DesignationID, des.ID) {
			view.EmployeeCount++
		}
	}
	return view
}

func (s *Org) ListDesignations(ctx context.Context) (out []org.DesignationView, err error) {
	err = s.do(func(t *tables) error {
		for _, id := range ordered(t, t.designations, false) {
			out = append(out, designationView(t, t.designations[id]))
		}
		return nil
	})
	return out, err
}

func (s *Org) GetDesignation(ctx context.Context, id string) (des org.Designation, err error) {
	err = s.do(func(t *tables) error {
		var ok bool
		if des, ok = t.designations[id]; !ok {
			return pgx.ErrNoRows
		}
		return nil
	})
	return des, err
}

func (s *Org) DesignationView(ctx context.Context, id string) (view org.DesignationView, err error) {
	err = s.do(func(t *tables) error {
		des, ok := t.designations[id]
		if !ok {
			return pgx.ErrNoRows
		}
		view = designationView(t, des)
		return nil
	})
	return view, err
}

func checkDesignation(t *tables, des org.Designation) error {
	for id, other := range t.designations {
		if id == des.ID {
			continue
		}
		if other.DesignationCode == des.DesignationCode {
			return unique(org.ConstraintDesignationCode)
		}
		if other.Name == des.Name {
			return unique("designations_name_key")
		}
	}
	if _, ok := t.departments[des.DepartmentID]; !ok {
		return foreignKey("designations_department_id_fkey")
	}
	return nil
}

func (s *Org) CreateDesignation(ctx context.Context, des org.Designation) (id string, err error) {
	err = s.do(func(t *tables) error {
		if err := checkDesignation(t, des); err != nil {
			return err
		}
		id, des.CreatedAt = s.insert()
		des.ID, des.UpdatedAt = id, des.CreatedAt
		t.designations[id] = des
		return nil
	})
	return id, err
}

func (s *Org) UpdateDesignation(ctx context.Context, des org.Designation) error {
	return s.do(func(t *tables) error {
		current, ok := t.designations[des.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		if err := checkDesignation(t, des); err != nil {
			return err
		}
		des.DesignationCode, des.CreatedAt = current.DesignationCode, current.CreatedAt
		des.UpdatedAt = s.db.now()
		t.designations[des.ID] = des
		return nil
	})
}

func (s *Org) DeleteDesignation(ctx context.Context, id string) error {
	return s.do(func(t *tables) error {
		if _, ok := t.designations[id]; !ok {
			return pgx.ErrNoRows
		}
		for _, u := range t.users {
			if sameRef(u.DesignationID, id) {
				return foreignKey("users_designation_id_fkey")
			}
		}
		delete(t.designations, id)
		return nil
	})
}

func (s *Org) CountDesignationEmployees(ctx context.Context, id string) (count int, err error) {
	err = s.do(func(t *tables) error {
		for _, u := range t.users {
			if sameRef(u.DesignationID, id) {
				count++
			}
		}
		return nil
	})
	return count, err
}
