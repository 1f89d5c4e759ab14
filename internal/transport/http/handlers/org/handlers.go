package orghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/org"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *org.Service
}

func NewHandler(service *org.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.Post("/", h.handleCreateDepartment)
		r.Put("/{departmentID}", h.handleUpdateDepartment)
		r.Delete("/{departmentID}", h.handleDeleteDepartment)
	})
	r.Route("/designations", func(r chi.Router) {
		r.Get("/", h.handleListDesignations)
		r.Post("/", h.handleCreateDesignation)
		r.Put("/{designationID}", h.handleUpdateDesignation)
		r.Delete("/{designationID}", h.handleDeleteDesignation)
	})
}

type departmentRequest struct {
	Name      string `json:"name" validate:"max=200"`
	Status    string `json:"status" validate:"max=50"`
	ManagerID string `json:"managerId"`
}

type designationRequest struct {
	Name         string `json:"name" validate:"max=200"`
	DepartmentID string `json:"departmentId"`
	Status       string `json:"status" validate:"max=50"`
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload departmentRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	department, err := h.Service.CreateDepartment(r.Context(), org.DepartmentInput{
		Name:      payload.Name,
		Status:    payload.Status,
		ManagerID: payload.ManagerID,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusCreated, "Department created successfully", map[string]any{"department": department}, requestID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload org.DepartmentPatch
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	if len(payload.Name.Value) > 200 {
		validator.Add("name", "must be at most 200 characters")
	}
	if validator.Reject(w, requestID) {
		return
	}

	department, err := h.Service.UpdateDepartment(r.Context(), chi.URLParam(r, "departmentID"), payload)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Department updated successfully", map[string]any{"department": department}, requestID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Service.DeleteDepartment(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Department deleted successfully", nil, requestID)
}

func (h *Handler) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	designations, err := h.Service.ListDesignations(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, designations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDesignation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload designationRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	designation, err := h.Service.CreateDesignation(r.Context(), org.DesignationInput{
		Name:         payload.Name,
		DepartmentID: payload.DepartmentID,
		Status:       payload.Status,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusCreated, "Designation created successfully", map[string]any{"designation": designation}, requestID)
}

func (h *Handler) handleUpdateDesignation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload org.DesignationPatch
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}

	designation, err := h.Service.UpdateDesignation(r.Context(), chi.URLParam(r, "designationID"), payload)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Designation updated successfully", map[string]any{"designation": designation}, requestID)
}

func (h *Handler) handleDeleteDesignation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Service.DeleteDesignation(r.Context(), chi.URLParam(r, "designationID")); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Designation deleted successfully", nil, requestID)
}
