package policyhandler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/policy"
	"hrms/internal/platform/memstore"
	policyhandler "hrms/internal/transport/http/handlers/policy"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestPolicyRoutes(t *testing.T) {
	db := memstore.New()
	router := chi.NewRouter()
	policyhandler.NewHandler(policy.NewService(db.Policies(), codes.Allocator{}, nil, nil)).RegisterRoutes(router)

	status, env := call(t, router, http.MethodPost, "/policies", `{"name":"Leave"}`)
	if status != http.StatusBadRequest || env.Error != policy.MsgFieldsRequired {
		t.Fatalf("expected missing description rejection, got %d %+v", status, env)
	}

	var created struct {
		Policy policy.View `json:"policy"`
	}
	status, env = call(t, router, http.MethodPost, "/policies", `{"name":"Leave","description":"Annual leave rules"}`)
	if status != http.StatusCreated || json.Unmarshal(env.Data, &created) != nil {
		t.Fatalf("create: %d %+v", status, env)
	}
	if created.Policy.PolicyCode != "P-001" || created.Policy.Department != nil {
		t.Fatalf("unexpected policy %+v", created.Policy)
	}

	status, env = call(t, router, http.MethodPost, "/policies", `{"name":"Leave","description":"Copy"}`)
	if status != http.StatusBadRequest || env.Code != "duplicate_key" {
		t.Fatalf("expected duplicate, got %d %+v", status, env)
	}

	status, env = call(t, router, http.MethodPut, "/policies/"+created.Policy.ID, `{"description":"Updated rules","name":""}`)
	if status != http.StatusOK || json.Unmarshal(env.Data, &created) != nil || created.Policy.Description != "Updated rules" || created.Policy.Name != "Leave" {
		t.Fatalf("update: %d %s", status, env.Data)
	}

	status, _ = call(t, router, http.MethodDelete, "/policies/"+created.Policy.ID, "")
	if status != http.StatusOK {
		t.Fatalf("delete: %d", status)
	}
	status, env = call(t, router, http.MethodDelete, "/policies/"+created.Policy.ID, "")
	if status != http.StatusNotFound || env.Code != "not_found" {
		t.Fatalf("second delete: %d %+v", status, env)
	}
}
