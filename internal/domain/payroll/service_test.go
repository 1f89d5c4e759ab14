package payroll_test

import (
	"context"
	"math"
	"testing"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/patch"
	"hrms/internal/domain/payroll"
	"hrms/internal/platform/events"
	"hrms/internal/platform/memstore"
)

type recorder struct{ names []string }

func (r *recorder) Publish(name string, _ any) { r.names = append(r.names, name) }

func setup(t *testing.T) (*payroll.Service, string, *recorder) {
	t.Helper()
	db := memstore.New()
	userID, err := db.Employees().Create(context.Background(), employee.User{EmployeeID: "EMP-0001", Email: "ana@example.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	rec := &recorder{}
	return payroll.NewService(db.Payroll(), rec, nil), userID, rec
}

func TestUpsertSalaryTwiceOnSamePeriod(t *testing.T) {
	ctx := context.Background()
	svc, userID, rec := setup(t)

	first, created, err := svc.UpsertSalary(ctx, payroll.SalaryInput{
		UserID: userID, Month: 5, Year: 2026, Amount: 1000,
		Earnings:   payroll.Breakdown{"bonus": 100.0},
		Deductions: payroll.Breakdown{"tax": 50.0},
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created || first.NetSalary != 1050 || first.User.Email != "ana@example.com" {
		t.Fatalf("unexpected first result created=%v %+v", created, first)
	}

	net := 1500.0
	second, created, err := svc.UpsertSalary(ctx, payroll.SalaryInput{UserID: userID, Month: 5, Year: 2026, Amount: 1400, NetSalary: &net})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("expected the second upsert to update")
	}
	if second.ID != first.ID || second.PayslipNo != first.PayslipNo {
		t.Fatalf("expected same record and payslip, got %+v", second)
	}
	if second.Amount != 1400 || second.NetSalary != 1500 || len(second.Earnings) != 0 {
		t.Fatalf("expected amounts overwritten, got %+v", second.Salary)
	}

	list, err := svc.ListSalaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one salary, got %d", len(list))
	}
	if len(rec.names) != 2 || rec.names[0] != events.SalaryCreated || rec.names[1] != events.SalaryUpdated {
		t.Fatalf("unexpected events %v", rec.names)
	}
}

func TestUpsertSalaryValidation(t *testing.T) {
	svc, userID, _ := setup(t)
	inf := math.Inf(1)
	tests := []struct {
		name  string
		in    payroll.SalaryInput
		field string
	}{
		{"missing user", payroll.SalaryInput{Month: 1, Year: 2026}, "userId"},
		{"malformed user", payroll.SalaryInput{UserID: "abc", Month: 1, Year: 2026}, "userId"},
		{"month zero", payroll.SalaryInput{UserID: userID, Month: 0, Year: 2026}, "month"},
		{"month thirteen", payroll.SalaryInput{UserID: userID, Month: 13, Year: 2026}, "month"},
		{"short year", payroll.SalaryInput{UserID: userID, Month: 1, Year: 26}, "year"},
		{"unknown user", payroll.SalaryInput{UserID: "7f8c3d4e-0000-4000-8000-000000000000", Month: 1, Year: 2026}, "userId"},
		{"NaN amount", payroll.SalaryInput{UserID: userID, Month: 1, Year: 2026, Amount: math.NaN()}, "amount"},
		{"infinite net", payroll.SalaryInput{UserID: userID, Month: 1, Year: 2026, NetSalary: &inf}, "netSalary"},
		{"infinite earning", payroll.SalaryInput{UserID: userID, Month: 1, Year: 2026, Earnings: payroll.Breakdown{"bonus": "Infinity"}}, "earnings"},
		{"NaN deduction", payroll.SalaryInput{UserID: userID, Month: 1, Year: 2026, Deductions: payroll.Breakdown{"tax": math.NaN()}}, "deductions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.UpsertSalary(context.Background(), tt.in)
			appErr, ok := apperr.As(err)
			if !ok || appErr.Kind != apperr.KindValidation || appErr.Field != tt.field {
				t.Fatalf("expected validation on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestSalaryLookupAndPayslip(t *testing.T) {
	ctx := context.Background()
	svc, userID, _ := setup(t)

	if _, err := svc.GetSalary(ctx, "7f8c3d4e-0000-4000-8000-000000000000"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	detail, _, err := svc.UpsertSalary(ctx, payroll.SalaryInput{UserID: userID, Month: 1, Year: 2026, Amount: 10})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	pdf, got, err := svc.Payslip(ctx, detail.ID)
	if err != nil {
		t.Fatalf("payslip: %v", err)
	}
	if len(pdf) == 0 || got.PayslipNo != detail.PayslipNo {
		t.Fatalf("unexpected payslip for %s", got.PayslipNo)
	}
}

func TestPayrollItems(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := setup(t)

	if _, err := svc.CreateItem(ctx, payroll.ItemInput{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected missing name, got %v", err)
	}
	item, err := svc.CreateItem(ctx, payroll.ItemInput{Name: "Transport", Category: payroll.CategoryEarning, AmountType: "Fixed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.DefaultValue != 0 {
		t.Fatalf("expected default value 0, got %v", item.DefaultValue)
	}

	item, err = svc.UpdateItem(ctx, item.ID, payroll.ItemPatch{DefaultValue: patch.Some(75.5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.DefaultValue != 75.5 || item.Name != "Transport" || item.Category != payroll.CategoryEarning {
		t.Fatalf("expected partial update, got %+v", item)
	}

	if _, err := svc.CreateItem(ctx, payroll.ItemInput{Name: "Tax", Category: payroll.CategoryDeduction}); err != nil {
		t.Fatalf("create tax: %v", err)
	}
	items, err := svc.ListItems(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Tax" {
		t.Fatalf("expected newest first, got %+v", items)
	}

	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteItem(ctx, item.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	want := []string{events.PayrollItemCreated, events.PayrollItemUpdated, events.PayrollItemCreated, events.PayrollItemDeleted}
	if len(rec.names) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.names)
	}
	for i := range want {
		if rec.names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, rec.names)
		}
	}
}
