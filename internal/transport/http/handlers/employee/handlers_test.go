package employeehandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"hrms/internal/domain/codes"
	"hrms/internal/domain/employee"
	"hrms/internal/platform/memstore"
	"hrms/internal/platform/storage"
	employeehandler "hrms/internal/transport/http/handlers/employee"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Field   string          `json:"field"`
}

type fakeUploader struct{ names []string }

func (f *fakeUploader) Upload(_ context.Context, file storage.File) (storage.Stored, error) {
	if err := storage.Check(file.Name); err != nil {
		return storage.Stored{}, err
	}
	f.names = append(f.names, file.Name)
	return storage.Stored{Name: file.Name, URL: "https://files.example.com/" + file.Name}, nil
}

func newRouter(t *testing.T) (http.Handler, *fakeUploader) {
	t.Helper()
	db := memstore.New()
	up := &fakeUploader{}
	svc := employee.NewService(db.Employees(), codes.Allocator{}, up, nil, nil, "test-secret")
	r := chi.NewRouter()
	employeehandler.NewHandler(svc, nil).RegisterRoutes(r)
	return r, up
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, files map[string][]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, names := range files {
		for _, name := range names {
			part, err := mw.CreateFormFile(field, name)
			if err != nil {
				t.Fatalf("create file: %v", err)
			}
			_, _ = part.Write([]byte("content"))
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateUserMultipart(t *testing.T) {
	router, up := newRouter(t)

	req := multipartRequest(t, http.MethodPost, "/users", map[string]string{
		"email":     "ana@example.com",
		"password":  "s3cret",
		"firstName": "Ana",
		"lastName":  "Smith",
	}, map[string][]string{
		"profilePhoto": {"me.png"},
		"certificates": {"a.pdf", "b.pdf"},
	})
	rec, env := serve(t, router, req)
	if rec.Code != http.StatusCreated || env.Message != "User created successfully" {
		t.Fatalf("create: %d %+v", rec.Code, env)
	}
	var created employee.CreateResult
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.Token == "" || created.User.Name != "Ana Smith" || len(created.User.Certificates) != 2 {
		t.Fatalf("unexpected result %+v", created)
	}
	if len(up.names) != 3 {
		t.Fatalf("expected three uploads, got %v", up.names)
	}

	req = multipartRequest(t, http.MethodPut, "/users/"+created.User.ID, map[string]string{"phone": "555"}, map[string][]string{
		"certificates": {"c.pdf"},
	})
	rec, env = serve(t, router, req)
	var updated struct {
		User employee.Detail `json:"user"`
	}
	if rec.Code != http.StatusOK || json.Unmarshal(env.Data, &updated) != nil {
		t.Fatalf("update: %d %+v", rec.Code, env)
	}
	if updated.User.Phone != "555" || updated.User.Name != "Ana Smith" || len(updated.User.Certificates) != 3 {
		t.Fatalf("unexpected update %+v", updated.User)
	}
}

func TestCreateUserRejectsBadUploads(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name  string
		files map[string][]string
		field string
	}{
		{name: "unsupported type", files: map[string][]string{"resume": {"cv.docx"}}, field: "resume"},
		{name: "two photos", files: map[string][]string{"profilePhoto": {"a.png", "b.png"}}, field: "profilePhoto"},
		{name: "too many certificates", files: map[string][]string{"certificates": {
			"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf", "7.pdf", "8.pdf", "9.pdf", "10.pdf", "11.pdf",
		}}, field: "certificates"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPost, "/users", map[string]string{"email": tc.name + "@example.com"}, tc.files)
			rec, env := serve(t, router, req)
			if rec.Code != http.StatusBadRequest || env.Field != tc.field {
				t.Fatalf("expected 400 on %s, got %d %+v", tc.field, rec.Code, env)
			}
		})
	}
}

func TestLoginScenario(t *testing.T) {
	router, _ := newRouter(t)

	rec, _ := serve(t, router, jsonRequest(http.MethodPost, "/users", `{"email":"lee@example.com","password":"correct","firstName":"Lee"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}

	tests := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{name: "missing password", body: `{"email":"lee@example.com"}`, status: http.StatusBadRequest, error: employee.MsgCredentialsRequired},
		{name: "wrong password", body: `{"email":"lee@example.com","password":"nope"}`, status: http.StatusUnauthorized, error: employee.MsgInvalidPassword},
		{name: "unknown email", body: `{"email":"ghost@example.com","password":"x"}`, status: http.StatusNotFound, error: "User not found"},
		{name: "success", body: `{"email":"lee@example.com","password":"correct"}`, status: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, router, jsonRequest(http.MethodPost, "/users/login", tc.body))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d %+v", tc.status, rec.Code, env)
			}
			if tc.error != "" && env.Error != tc.error {
				t.Fatalf("expected error %q, got %q", tc.error, env.Error)
			}
			if tc.status == http.StatusOK {
				var result employee.LoginResult
				if err := json.Unmarshal(env.Data, &result); err != nil || result.Token == "" || result.User.Name != "Lee" {
					t.Fatalf("unexpected login result %s", env.Data)
				}
			}
		})
	}
}

func TestRoleAndLookup(t *testing.T) {
	router, _ := newRouter(t)

	_, env := serve(t, router, jsonRequest(http.MethodPost, "/users", `{"email":"kim@example.com"}`))
	var created employee.CreateResult
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec, env := serve(t, router, jsonRequest(http.MethodPut, "/users/"+created.User.ID+"/role", `{}`))
	if rec.Code != http.StatusBadRequest || env.Error != employee.MsgRoleRequired {
		t.Fatalf("expected role required, got %d %+v", rec.Code, env)
	}
	rec, _ = serve(t, router, jsonRequest(http.MethodPut, "/users/"+created.User.ID+"/role", `{"role":"ADMIN"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("update role: %d", rec.Code)
	}

	rec, env = serve(t, router, httptest.NewRequest(http.MethodGet, "/users/"+created.User.ID, nil))
	var detail employee.Detail
	if rec.Code != http.StatusOK || json.Unmarshal(env.Data, &detail) != nil || detail.Role != "ADMIN" {
		t.Fatalf("get: %d %s", rec.Code, env.Data)
	}
	rec, env = serve(t, router, httptest.NewRequest(http.MethodGet, "/users/00000000-0000-4000-8000-000000000000", nil))
	if rec.Code != http.StatusNotFound || env.Code != "not_found" {
		t.Fatalf("expected 404, got %d %+v", rec.Code, env)
	}
}

func TestExportWorkbook(t *testing.T) {
	router, _ := newRouter(t)
	serve(t, router, jsonRequest(http.MethodPost, "/users", `{"email":"x@example.com","firstName":"Xi"}`))

	rec, _ := serve(t, router, httptest.NewRequest(http.MethodGet, "/users/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d", rec.Code)
	}
	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()
	email, err := book.GetCellValue("Employees", "C2")
	if err != nil || email != "x@example.com" {
		t.Fatalf("expected exported email, got %q (%v)", email, err)
	}
}
