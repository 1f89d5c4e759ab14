package policy

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

func (s *Service) committed(ctx context.Context, name string, payload any) {
	s.cache.Changed(ctx, name)
	s.events.Publish(name, payload)
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	views, err := cache.Load(ctx, s.cache, cache.Policies, func(ctx context.Context) ([]View, error) {
		views, err := s.store.List(ctx)
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
		views = []View{}
	}
	return views, nil
}

func (s *Service) Create(ctx context.Context, in Input) (View, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" {
		field := "name"
		if name != "" {
			field = "description"
		}
		return View{}, apperr.Validation(field, MsgFieldsRequired)
	}
	if err := guard.Reference("departmentId", "department", in.DepartmentID); err != nil {
		return View{}, err
	}
	p := Policy{Name: name, Description: description, Status: StatusActive}
	if status := strings.TrimSpace(in.Status); status != "" {
		p.Status = status
	}
	if in.DepartmentID != "" {
		departmentID := in.DepartmentID
		p.DepartmentID = &departmentID
	}

	var view View
	err := guard.RetryOnConflict(ctx, guard.DefaultAttempts, func() error {
		return s.store.InTx(ctx, func(tx StoreAPI) error {
			code, err := s.allocator.Allocate(ctx, tx, codes.Policy)
			if err != nil {
				return err
			}
			p.PolicyCode = code
			id, err := tx.Create(ctx, p)
			if err != nil {
				return err
			}
			view, err = tx.View(ctx, id)
			return err
		})
	}, ConstraintCode)
	if err != nil {
		return View{}, guard.TranslateWrite(err, Entity, constraints)
	}

	s.committed(ctx, events.PolicyCreated, view)
	return view, nil
}

func (s *Service) Update(ctx context.Context, id string, in Patch) (View, error) {
	if err := guard.KnownID(Entity, id); err != nil {
		return View{}, err
	}
	if in.DepartmentID.Set {
		if err := guard.Reference("departmentId", "department", in.DepartmentID.Value); err != nil {
			return View{}, err
		}
	}

	var view View
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		p, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		patch.ApplyNonZero(&p.Name, trimmed(in.Name))
		patch.ApplyNonZero(&p.Description, trimmed(in.Description))
		patch.ApplyNonZero(&p.Status, trimmed(in.Status))
		patch.ApplyNullable(&p.DepartmentID, in.DepartmentID)
		if err := tx.Update(ctx, p); err != nil {
			return err
		}
		view, err = tx.View(ctx, id)
		return err
	})
	if err != nil {
		return View{}, guard.TranslateWrite(err, Entity, constraints)
	}

	s.committed(ctx, events.PolicyUpdated, view)
	return view, nil
}

// Delete only checks existence; nothing references a policy.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := guard.KnownID(Entity, id); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return guard.TranslateDelete(err, Entity, constraints)
	}

	s.committed(ctx, events.PolicyDeleted, events.Deleted{ID: id})
	return nil
}

func trimmed(f patch.Field[string]) patch.Field[string] {
	f.Value = strings.TrimSpace(f.Value)
	return f
}
