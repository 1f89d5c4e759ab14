package org

import (
	"context"
	"strings"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/codes"
	"hrms/internal/domain/guard"
	"hrms/internal/domain/patch"
	"hrms/internal/platform/cache"
	"hrms/internal/platform/events"
)

type Service struct {
	store     StoreAPI
	allocator codes.Allocator
	events    events.Publisher
	cache     *cache.Cache
}

func NewService(store StoreAPI, allocator codes.Allocator, publisher events.Publisher, listCache *cache.Cache) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{store: store, allocator: allocator, events: publisher, cache: listCache}
}

// committed runs after a write commits: the affected list caches are
// retired before the response, then the change is announced.
func (s *Service) committed(ctx context.Context, name string, payload any) {
	s.cache.Changed(ctx, name)
	s.events.Publish(name, payload)
}

func (s *Service) ListDepartments(ctx context.Context) ([]DepartmentView, error) {
	views, err := cache.Load(ctx, s.cache, cache.Departments, func(ctx context.Context) ([]DepartmentView, error) {
		views, err := s.store.ListDepartments(ctx)
		if err != nil {
			return nil, err
		}
		for i := range views {
			views[i].SerialNo = i + 1
		}
		return views, nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if views == nil {
		views = []DepartmentView{}
	}
	return views, nil
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (DepartmentView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return DepartmentView{}, apperr.Validation("name", MsgDepartmentNameRequired)
	}
	if err := guard.Reference("managerId", "user", in.ManagerID); err != nil {
		return DepartmentView{}, err
	}
	dep := Department{Name: name, Status: statusOrDefault(in.Status)}
	if in.ManagerID != "" {
		managerID := in.ManagerID
		dep.ManagerID = &managerID
	}

	var view DepartmentView
	err := guard.RetryOnConflict(ctx, guard.DefaultAttempts, func() error {
		return s.store.InTx(ctx, func(tx StoreAPI) error {
			code, err := s.allocator.Allocate(ctx, tx, codes.Department)
			if err != nil {
				return err
			}
			dep.DepartmentCode = code
			id, err := tx.CreateDepartment(ctx, dep)
			if err != nil {
				return err
			}
			view, err = tx.DepartmentView(ctx, id)
			return err
		})
	}, ConstraintDepartmentCode)
	if err != nil {
		return DepartmentView{}, guard.TranslateWrite(err, EntityDepartment, departmentConstraints)
	}

	s.committed(ctx, events.DepartmentCreated, view)
	return view, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id string, p DepartmentPatch) (DepartmentView, error) {
	if err := guard.KnownID(EntityDepartment, id); err != nil {
		return DepartmentView{}, err
	}
	if p.ManagerID.Set {
		if err := guard.Reference("managerId", "user", p.ManagerID.Value); err != nil {
			return DepartmentView{}, err
		}
	}

	var view DepartmentView
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		dep, err := tx.GetDepartment(ctx, id)
		if err != nil {
			return err
		}
		patch.ApplyNonZero(&dep.Name, trimmed(p.Name))
		patch.ApplyNonZero(&dep.Status, trimmed(p.Status))
		patch.ApplyNullable(&dep.ManagerID, p.ManagerID)
		if err := tx.UpdateDepartment(ctx, dep); err != nil {
			return err
		}
		view, err = tx.DepartmentView(ctx, id)
		return err
	})
	if err != nil {
		return DepartmentView{}, guard.TranslateWrite(err, EntityDepartment, departmentConstraints)
	}

	s.committed(ctx, events.DepartmentUpdated, view)
	return view, nil
}

// DeleteDepartment refuses while any employee is still assigned. The count
// and the delete share a transaction.
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	if err := guard.KnownID(EntityDepartment, id); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		if _, err := tx.GetDepartment(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountDepartmentEmployees(ctx, id)
		if err != nil {
			return err
		}
		if err := guard.EnsureUnreferenced(EntityDepartment, count, MsgDepartmentHasEmployees); err != nil {
			return err
		}
		return tx.DeleteDepartment(ctx, id)
	})
	if err != nil {
		return guard.TranslateDelete(err, EntityDepartment, departmentConstraints)
	}

	s.committed(ctx, events.DepartmentDeleted, events.Deleted{ID: id})
	return nil
}

func (s *Service) ListDesignations(ctx context.Context) ([]DesignationView, error) {
	views, err := cache.Load(ctx, s.cache, cache.Designations, func(ctx context.Context) ([]DesignationView, error) {
		views, err := s.store.ListDesignations(ctx)
		if err != nil {
			return nil, err
		}
		for i := range views {
			views[i].SerialNo = i + 1
		}
		return views, nil
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if views == nil {
		views = []DesignationView{}
	}
	return views, nil
}

func (s *Service) CreateDesignation(ctx context.Context, in DesignationInput) (DesignationView, error) {
	name := strings.TrimSpace(in.Name)
	departmentID := strings.TrimSpace(in.DepartmentID)
	if name == "" || departmentID == "" {
		field := "name"
		if name != "" {
			field = "departmentId"
		}
		return DesignationView{}, apperr.Validation(field, MsgDesignationFieldsMissing)
	}
	if err := guard.Reference("departmentId", "department", departmentID); err != nil {
		return DesignationView{}, err
	}
	des := Designation{Name: name, DepartmentID: departmentID, Status: statusOrDefault(in.Status)}

	var view DesignationView
	err := guard.RetryOnConflict(ctx, guard.DefaultAttempts, func() error {
		return s.store.InTx(ctx, func(tx StoreAPI) error {
			code, err := s.allocator.Allocate(ctx, tx, codes.Designation)
			if err != nil {
				return err
			}
			des.DesignationCode = code
			id, err := tx.CreateDesignation(ctx, des)
			if err != nil {
				return err
			}
			view, err = tx.DesignationView(ctx, id)
			return err
		})
	}, ConstraintDesignationCode)
	if err != nil {
		return DesignationView{}, guard.TranslateWrite(err, EntityDesignation, designationConstraints)
	}

	s.committed(ctx, events.DesignationCreated, view)
	return view, nil
}

func (s *Service) UpdateDesignation(ctx context.Context, id string, p DesignationPatch) (DesignationView, error) {
	if err := guard.KnownID(EntityDesignation, id); err != nil {
		return DesignationView{}, err
	}
	departmentID := trimmed(p.DepartmentID)
	if departmentID.Value != "" {
		if err := guard.Reference("departmentId", "department", departmentID.Value); err != nil {
			return DesignationView{}, err
		}
	}

	var view DesignationView
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		des, err := tx.GetDesignation(ctx, id)
		if err != nil {
			return err
		}
		patch.ApplyNonZero(&des.Name, trimmed(p.Name))
		patch.ApplyNonZero(&des.DepartmentID, departmentID)
		patch.ApplyNonZero(&des.Status, trimmed(p.Status))
		if err := tx.UpdateDesignation(ctx, des); err != nil {
			return err
		}
		view, err = tx.DesignationView(ctx, id)
		return err
	})
	if err != nil {
		return DesignationView{}, guard.TranslateWrite(err, EntityDesignation, designationConstraints)
	}

	s.committed(ctx, events.DesignationUpdated, view)
	return view, nil
}

func (s *Service) DeleteDesignation(ctx context.Context, id string) error {
	if err := guard.KnownID(EntityDesignation, id); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		if _, err := tx.GetDesignation(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountDesignationEmployees(ctx, id)
		if err != nil {
			return err
		}
		if err := guard.EnsureUnreferenced(EntityDesignation, count, MsgDesignationHasEmployees); err != nil {
			return err
		}
		return tx.DeleteDesignation(ctx, id)
	})
	if err != nil {
		return guard.TranslateDelete(err, EntityDesignation, designationConstraints)
	}

	s.committed(ctx, events.DesignationDeleted, events.Deleted{ID: id})
	return nil
}

func statusOrDefault(status string) string {
	if status = strings.TrimSpace(status); status != "" {
		return status
	}
	return StatusActive
}

func trimmed(f patch.Field[string]) patch.Field[string] {
	f.Value = strings.TrimSpace(f.Value)
	return f
}
