package payroll

import (
	"context"
	"strings"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/guard"
	"hrms/internal/domain/patch"
	"hrms/internal/platform/cache"
	"hrms/internal/platform/events"
)

type Service struct {
	store    StoreAPI
	events   events.Publisher
	cache    *cache.Cache
	payslips *PayslipClock
}

func NewService(store StoreAPI, publisher events.Publisher, listCache *cache.Cache) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{store: store, events: publisher, cache: listCache, payslips: NewPayslipClock()}
}

func (s *Service) committed(ctx context.Context, name string, payload any) {
	s.cache.Changed(ctx, name)
	s.events.Publish(name, payload)
}

// UpsertSalary stores the salary for (UserID, Month, Year), overwriting the
// amounts of an existing record and keeping its payslip number. created
// reports whether a new record was inserted.
func (s *Service) UpsertSalary(ctx context.Context, in SalaryInput) (SalaryDetail, bool, error) {
	if err := validateSalary(in); err != nil {
		return SalaryDetail{}, false, err
	}
	earnings := in.Earnings
	if earnings == nil {
		earnings = Breakdown{}
	}
	deductions := in.Deductions
	if deductions == nil {
		deductions = Breakdown{}
	}
	net := ComputeNet(in.Amount, earnings, deductions)
	if in.NetSalary != nil {
		net = *in.NetSalary
	}

	var detail SalaryDetail
	var created bool
	// A concurrent insert of the same period loses on the natural key; the
	// retry then finds the winner's row and updates it.
	err := guard.RetryOnConflict(ctx, guard.DefaultAttempts, func() error {
		return s.store.InTx(ctx, func(tx StoreAPI) error {
			existing, err := tx.FindSalary(ctx, in.UserID, in.Month, in.Year)
			var id string
			switch {
			case err == nil:
				existing.Amount = in.Amount
				existing.Earnings = earnings
				existing.Deductions = deductions
				existing.NetSalary = net
				if err := tx.UpdateSalary(ctx, existing); err != nil {
					return err
				}
				id, created = existing.ID, false
			case guard.IsMissing(err):
				id, err = tx.CreateSalary(ctx, Salary{
					UserID:     in.UserID,
					Month:      in.Month,
					Year:       in.Year,
					Amount:     in.Amount,
					Earnings:   earnings,
					Deductions: deductions,
					NetSalary:  net,
					PayslipNo:  s.payslips.Next(),
				})
				if err != nil {
					return err
				}
				created = true
			default:
				return err
			}
			detail, err = tx.SalaryDetail(ctx, id)
			return err
		})
	}, ConstraintSalaryPeriod, ConstraintPayslipNo)
	if err != nil {
		return SalaryDetail{}, false, guard.TranslateWrite(err, EntitySalary, salaryConstraints)
	}

	if created {
		s.committed(ctx, events.SalaryCreated, detail)
	} else {
		s.committed(ctx, events.SalaryUpdated, detail)
	}
	return detail, created, nil
}

func validateSalary(in SalaryInput) error {
	if strings.TrimSpace(in.UserID) == "" {
		return apperr.Validation("userId", MsgUserRequired)
	}
	if err := guard.Reference("userId", "user", in.UserID); err != nil {
		return err
	}
	if in.Month < 1 || in.Month > 12 {
		return apperr.Validation("month", MsgMonthRange)
	}
	if in.Year < 1000 || in.Year > 9999 {
		return apperr.Validation("year", MsgYearRange)
	}
	if !finite(in.Amount) {
		return apperr.Validation("amount", "amount "+MsgNotANumber)
	}
	if in.NetSalary != nil && !finite(*in.NetSalary) {
		return apperr.Validation("netSalary", "netSalary "+MsgNotANumber)
	}
	if name, bad := in.Earnings.invalidNumber(); bad {
		return apperr.Validation("earnings", "earnings."+name+" "+MsgNotANumber)
	}
	if name, bad := in.Deductions.invalidNumber(); bad {
		return apperr.Validation("deductions", "deductions."+name+" "+MsgNotANumber)
	}
	return nil
}

func (s *Service) ListSalaries(ctx context.Context) ([]SalaryDetail, error) {
	out, err := cache.Load(ctx, s.cache, cache.Salaries, s.store.ListSalaries)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if out == nil {
		out = []SalaryDetail{}
	}
	return out, nil
}

func (s *Service) GetSalary(ctx context.Context, id string) (SalaryDetail, error) {
	if err := guard.KnownID(EntitySalary, id); err != nil {
		return SalaryDetail{}, err
	}
	detail, err := s.store.SalaryDetail(ctx, id)
	if err != nil {
		return SalaryDetail{}, guard.TranslateWrite(err, EntitySalary, salaryConstraints)
	}
	return detail, nil
}

// Payslip renders the salary record as a PDF.
func (s *Service) Payslip(ctx context.Context, id string) ([]byte, SalaryDetail, error) {
	detail, err := s.GetSalary(ctx, id)
	if err != nil {
		return nil, SalaryDetail{}, err
	}
	pdf, err := RenderPayslip(detail)
	if err != nil {
		return nil, SalaryDetail{}, apperr.Internal(err)
	}
	return pdf, detail, nil
}

func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	items, err := cache.Load(ctx, s.cache, cache.PayrollItems, s.store.ListItems)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Item{}, apperr.Validation("name", MsgItemNameRequired)
	}
	if !finite(in.DefaultValue) {
		return Item{}, apperr.Validation("defaultValue", "defaultValue "+MsgNotANumber)
	}

	var item Item
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		id, err := tx.CreateItem(ctx, Item{
			Name:         name,
			Category:     strings.TrimSpace(in.Category),
			AmountType:   strings.TrimSpace(in.AmountType),
			DefaultValue: in.DefaultValue,
		})
		if err != nil {
			return err
		}
		item, err = tx.GetItem(ctx, id)
		return err
	})
	if err != nil {
		return Item{}, guard.TranslateWrite(err, EntityItem, nil)
	}

	s.committed(ctx, events.PayrollItemCreated, item)
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, in ItemPatch) (Item, error) {
	if err := guard.KnownID(EntityItem, id); err != nil {
		return Item{}, err
	}
	if in.Name.Set && strings.TrimSpace(in.Name.Value) == "" {
		return Item{}, apperr.Validation("name", MsgItemNameRequired)
	}
	if in.DefaultValue.Set && !finite(in.DefaultValue.Value) {
		return Item{}, apperr.Validation("defaultValue", "defaultValue "+MsgNotANumber)
	}

	var item Item
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		current, err := tx.GetItem(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(&current.Name, in.Name)
		patch.Apply(&current.Category, in.Category)
		patch.Apply(&current.AmountType, in.AmountType)
		patch.Apply(&current.DefaultValue, in.DefaultValue)
		if err := tx.UpdateItem(ctx, current); err != nil {
			return err
		}
		item, err = tx.GetItem(ctx, id)
		return err
	})
	if err != nil {
		return Item{}, guard.TranslateWrite(err, EntityItem, nil)
	}

	s.committed(ctx, events.PayrollItemUpdated, item)
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := guard.KnownID(EntityItem, id); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx StoreAPI) error {
		if _, err := tx.GetItem(ctx, id); err != nil {
			return err
		}
		return tx.DeleteItem(ctx, id)
	})
	if err != nil {
		return guard.TranslateDelete(err, EntityItem, nil)
	}

	s.committed(ctx, events.PayrollItemDeleted, events.Deleted{ID: id})
	return nil
}
