package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrms/internal/app/server"
	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	RequestID string          `json:"requestId"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Addr:               ":0",
		StoreDriver:        config.StoreDriverMemory,
		JWTSecret:          "test-secret",
		Environment:        "test",
		AllowedOrigins:     []string{"*"},
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		MaxBodyBytes:       1048576,
		MaxUploadBytes:     8 << 20,
		RateLimitPerMinute: 1000,
		RequestTimeout:     10 * time.Second,
		StorageDriver:      config.StorageDriverLocal,
		UploadFolder:       "hrms-uploads",
		LocalUploadDir:     t.TempDir(),
		PublicBaseURL:      "http://localhost:5000",
		CodeAllocation:     config.CodeAllocationLastRow,
		EventBuffer:        64,
		MetricsEnabled:     true,
	}
}

func newApp(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := server.New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestRootRoutes(t *testing.T) {
	ts := newApp(t)

	for path, want := range map[string]string{"/": "HRMS Server API is running", "/healthz": "ok", "/readyz": "ready"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || string(body) != want {
			t.Fatalf("GET %s: %d %q", path, resp.StatusCode, body)
		}
		if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
			t.Fatalf("GET %s: missing security headers", path)
		}
	}

	do(t, ts, http.MethodGet, "/api/departments", "")
	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/api/departments") {
		t.Fatalf("expected request metrics, got %d", resp.StatusCode)
	}
}

func TestSeededAdminLogin(t *testing.T) {
	ts := newApp(t)

	status, env := do(t, ts, http.MethodPost, "/api/users/login", `{"email":"admin@test.local","password":"ChangeMe123!"}`)
	if status != http.StatusOK || !env.Success || env.RequestID == "" {
		t.Fatalf("login: %d %+v", status, env)
	}
	var result struct {
		User  struct{ Role string } `json:"user"`
		Token string                `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil || result.User.Role != auth.RoleAdmin {
		t.Fatalf("unexpected login data %s", env.Data)
	}
	claims, err := auth.ParseToken("test-secret", result.Token)
	if err != nil || claims.Role != auth.RoleAdmin {
		t.Fatalf("unexpected token %+v %v", claims, err)
	}

	status, env = do(t, ts, http.MethodPost, "/api/users/login", `{"email":"admin@test.local","password":"wrong"}`)
	if status != http.StatusUnauthorized || env.Code != "authentication_failed" {
		t.Fatalf("bad password: %d %+v", status, env)
	}
	status, _ = do(t, ts, http.MethodPost, "/api/users/login", `{"email":"nobody@test.local","password":"x"}`)
	if status != http.StatusNotFound {
		t.Fatalf("unknown email: %d", status)
	}
}

func TestOrgToPayrollJourney(t *testing.T) {
	ts := newApp(t)

	var dep struct {
		Department struct{ ID, DepartmentCode string } `json:"department"`
	}
	status, env := do(t, ts, http.MethodPost, "/api/departments", `{"name":"Engineering"}`)
	if status != http.StatusCreated || json.Unmarshal(env.Data, &dep) != nil || dep.Department.DepartmentCode != "D-001" {
		t.Fatalf("create department: %d %s", status, env.Data)
	}

	var user struct {
		User struct{ ID, EmployeeID string } `json:"user"`
	}
	status, env = do(t, ts, http.MethodPost, "/api/users", `{"email":"ana@example.com","firstName":"Ana","departmentId":"`+dep.Department.ID+`"}`)
	if status != http.StatusCreated || json.Unmarshal(env.Data, &user) != nil || !strings.HasPrefix(user.User.EmployeeID, "EMP-") {
		t.Fatalf("create user: %d %s", status, env.Data)
	}

	status, env = do(t, ts, http.MethodDelete, "/api/departments/"+dep.Department.ID, "")
	if status != http.StatusBadRequest || env.Code != "referential_integrity" {
		t.Fatalf("expected blocked delete, got %d %+v", status, env)
	}

	status, env = do(t, ts, http.MethodPost, "/api/payroll/salaries", `{"userId":"`+user.User.ID+`","month":1,"year":2026,"amount":500,"netSalary":450}`)
	if status != http.StatusCreated {
		t.Fatalf("create salary: %d %+v", status, env)
	}
	status, env = do(t, ts, http.MethodGet, "/api/users/"+user.User.ID, "")
	var detail struct {
		Salaries []struct{ NetSalary float64 } `json:"salaries"`
	}
	if status != http.StatusOK || json.Unmarshal(env.Data, &detail) != nil || len(detail.Salaries) != 1 || detail.Salaries[0].NetSalary != 450 {
		t.Fatalf("user detail: %d %s", status, env.Data)
	}
}

func TestConfigValidationStopsStartup(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "sqlite"
	if _, err := server.New(context.Background(), cfg); err == nil {
		t.Fatal("expected invalid store driver to fail")
	}
}
