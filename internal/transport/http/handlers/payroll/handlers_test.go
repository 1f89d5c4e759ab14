package payrollhandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/payroll"
	"hrms/internal/platform/memstore"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	db := memstore.New()
	userID, err := db.Employees().Create(context.Background(), employee.User{EmployeeID: "EMP-0001", Email: "ana@example.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	r := chi.NewRouter()
	payrollhandler.NewHandler(payroll.NewService(db.Payroll(), nil, nil)).RegisterRoutes(r)
	return r, userID
}

func call(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestSalaryUpsertOverHTTP(t *testing.T) {
	router, userID := newRouter(t)

	body := `{"userId":"` + userID + `","month":"5","year":2026,"amount":"1000","earnings":{"bonus":200},"deductions":{"tax":"50"}}`
	rec, env := call(t, router, http.MethodPost, "/payroll/salaries", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first upsert: %d %+v", rec.Code, env)
	}
	var first payroll.SalaryDetail
	if err := json.Unmarshal(env.Data, &first); err != nil {
		t.Fatalf("decode salary: %v", err)
	}
	if first.NetSalary != 1150 || first.User.Email != "ana@example.com" || !strings.HasPrefix(first.PayslipNo, "PS-") {
		t.Fatalf("unexpected salary %+v", first)
	}

	body = `{"userId":"` + userID + `","month":5,"year":2026,"amount":1200,"netSalary":1100}`
	rec, env = call(t, router, http.MethodPost, "/payroll/salaries", body)
	var second payroll.SalaryDetail
	if rec.Code != http.StatusOK || json.Unmarshal(env.Data, &second) != nil {
		t.Fatalf("second upsert: %d %+v", rec.Code, env)
	}
	if second.ID != first.ID || second.PayslipNo != first.PayslipNo || second.NetSalary != 1100 {
		t.Fatalf("expected same record updated, got %+v", second)
	}

	rec, env = call(t, router, http.MethodGet, "/payroll/salaries", "")
	var list []payroll.SalaryDetail
	if rec.Code != http.StatusOK || json.Unmarshal(env.Data, &list) != nil || len(list) != 1 {
		t.Fatalf("list: %d %s", rec.Code, env.Data)
	}

	rec, _ = call(t, router, http.MethodGet, "/payroll/salaries/"+first.ID+"/payslip", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("payslip: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	rec, env = call(t, router, http.MethodGet, "/payroll/salaries/00000000-0000-4000-8000-000000000000", "")
	if rec.Code != http.StatusNotFound || env.Error != payroll.EntitySalary+" not found" {
		t.Fatalf("expected 404, got %d %+v", rec.Code, env)
	}
}

func TestSalaryValidation(t *testing.T) {
	router, userID := newRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing user", body: `{"month":1,"year":2026,"amount":1}`},
		{name: "bad month", body: `{"userId":"` + userID + `","month":13,"year":2026,"amount":1}`},
		{name: "non numeric amount", body: `{"userId":"` + userID + `","month":1,"year":2026,"amount":"lots"}`},
		{name: "negative amount", body: `{"userId":"` + userID + `","month":1,"year":2026,"amount":-5}`},
		{name: "NaN net salary", body: `{"userId":"` + userID + `","month":1,"year":2026,"amount":1,"netSalary":"NaN"}`},
		{name: "infinite amount", body: `{"userId":"` + userID + `","month":1,"year":2026,"amount":"+Inf"}`},
		{name: "infinite earning", body: `{"userId":"` + userID + `","month":1,"year":2026,"amount":1,"earnings":{"bonus":"Inf"}}`},
		{name: "infinite deduction", body: `{"userId":"` + userID + `","month":1,"year":2026,"amount":1,"deductions":{"tax":"-Infinity"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := call(t, router, http.MethodPost, "/payroll/salaries", tc.body)
			if rec.Code != http.StatusBadRequest || env.Code != "validation_error" {
				t.Fatalf("expected 400, got %d %+v", rec.Code, env)
			}
		})
	}

	rec, env := call(t, router, http.MethodGet, "/payroll/salaries", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %+v", rec.Code, env)
	}
	var salaries []payroll.SalaryDetail
	if err := json.Unmarshal(env.Data, &salaries); err != nil || len(salaries) != 0 {
		t.Fatalf("expected nothing persisted, got %s %v", env.Data, err)
	}
}

func TestPayrollItemRoutes(t *testing.T) {
	router, _ := newRouter(t)

	rec, env := call(t, router, http.MethodPost, "/payroll/items", `{"category":"Earning"}`)
	if rec.Code != http.StatusBadRequest || env.Error != payroll.MsgItemNameRequired {
		t.Fatalf("expected name required, got %d %+v", rec.Code, env)
	}

	rec, env = call(t, router, http.MethodPost, "/payroll/items", `{"name":"Bonus","category":"Earning","amountType":"Fixed"}`)
	var item payroll.Item
	if rec.Code != http.StatusCreated || json.Unmarshal(env.Data, &item) != nil || item.DefaultValue != 0 {
		t.Fatalf("create: %d %s", rec.Code, env.Data)
	}

	rec, env = call(t, router, http.MethodPut, "/payroll/items/"+item.ID, `{"defaultValue":"250.5"}`)
	if rec.Code != http.StatusOK || json.Unmarshal(env.Data, &item) != nil || item.DefaultValue != 250.5 || item.Name != "Bonus" {
		t.Fatalf("update: %d %s", rec.Code, env.Data)
	}

	rec, env = call(t, router, http.MethodDelete, "/payroll/items/"+item.ID, "")
	if rec.Code != http.StatusOK || env.Message != "Payroll item deleted successfully" {
		t.Fatalf("delete: %d %+v", rec.Code, env)
	}
	rec, _ = call(t, router, http.MethodDelete, "/payroll/items/"+item.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}
