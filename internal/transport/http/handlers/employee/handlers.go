package employeehandler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/patch"
	"hrms/internal/platform/storage"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

const (
	multipartMemory = 8 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	Service *employee.Service
	// LoginLimit wraps the login route when set.
	LoginLimit func(http.Handler) http.Handler
}

func NewHandler(service *employee.Service, loginLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{Service: service, LoginLimit: loginLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/export", h.handleExport)
		if h.LoginLimit != nil {
			r.With(h.LoginLimit).Post("/login", h.handleLogin)
		} else {
			r.Post("/login", h.handleLogin)
		}
		r.Get("/{userID}", h.handleGet)
		r.Put("/{userID}", h.handleUpdate)
		r.Put("/{userID}/role", h.handleUpdateRole)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"max=320"`
	Password string `json:"password" validate:"max=1024"`
}

type roleRequest struct {
	Role string `json:"role" validate:"max=50"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	sub, cleanup, err := parseSubmission(r)
	defer cleanup()
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	result, err := h.Service.Create(r.Context(), sub)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusCreated, "User created successfully", result, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	sub, cleanup, err := parseSubmission(r)
	defer cleanup()
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	user, err := h.Service.Update(r.Context(), chi.URLParam(r, "userID"), sub)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "User updated successfully", map[string]any{"user": user}, requestID)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload roleRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	user, err := h.Service.UpdateRole(r.Context(), chi.URLParam(r, "userID"), payload.Role)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Role updated successfully", map[string]any{"user": user}, requestID)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Login(r.Context(), strings.TrimSpace(payload.Email), payload.Password)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Login successful", result, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	workbook, err := h.Service.Export(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

// parseSubmission reads a multipart form with optional files, or a JSON
// object. The returned cleanup closes any opened files.
func parseSubmission(r *http.Request) (employee.Submission, func(), error) {
	noop := func() {}
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "multipart/") {
		fields, err := patch.FromJSON(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return employee.Submission{}, noop, apperr.Validation("", "request body too large")
			}
			return employee.Submission{}, noop, apperr.Validation("", "invalid request body")
		}
		return employee.Submission{Fields: fields}, noop, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return employee.Submission{}, noop, apperr.Validation("", "invalid multipart form")
	}
	form := r.MultipartForm
	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		_ = form.RemoveAll()
	}

	sub := employee.Submission{Fields: patch.FromForm(form.Value)}
	open := func(field string, header *multipart.FileHeader) (storage.File, error) {
		f, err := header.Open()
		if err != nil {
			return storage.File{}, apperr.Internal(fmt.Errorf("open %s: %w", field, err))
		}
		opened = append(opened, f)
		return storage.File{Name: header.Filename, Size: header.Size, Body: f}, nil
	}
	single := func(field string) (*storage.File, error) {
		headers := form.File[field]
		if len(headers) == 0 {
			return nil, nil
		}
		if len(headers) > 1 {
			return nil, apperr.Validation(field, fmt.Sprintf("only one %s file may be uploaded", field))
		}
		file, err := open(field, headers[0])
		if err != nil {
			return nil, err
		}
		return &file, nil
	}

	var err error
	if sub.ProfilePhoto, err = single("profilePhoto"); err != nil {
		return sub, cleanup, err
	}
	if sub.Resume, err = single("resume"); err != nil {
		return sub, cleanup, err
	}
	certificates := form.File["certificates"]
	if len(certificates) > employee.MaxCertificates {
		return sub, cleanup, apperr.Validation("certificates", fmt.Sprintf("at most %d certificates may be uploaded", employee.MaxCertificates))
	}
	for _, header := range certificates {
		file, err := open("certificates", header)
		if err != nil {
			return sub, cleanup, err
		}
		sub.Certificates = append(sub.Certificates, file)
	}
	return sub, cleanup, nil
}
