package policyhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/policy"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *policy.Service
}

func NewHandler(service *policy.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/policies", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{policyID}", h.handleUpdate)
		r.Delete("/{policyID}", h.handleDelete)
	})
}

type policyRequest struct {
	Name         string `json:"name" validate:"max=200"`
	Description  string `json:"description" validate:"max=10000"`
	DepartmentID string `json:"departmentId"`
	Status       string `json:"status" validate:"max=50"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Service.List(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, policies, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload policyRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), policy.Input{
		Name:         payload.Name,
		Description:  payload.Description,
		DepartmentID: payload.DepartmentID,
		Status:       payload.Status,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusCreated, "Policy created successfully", map[string]any{"policy": created}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload policy.Patch
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "policyID"), payload)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Policy updated successfully", map[string]any{"policy": updated}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "policyID")); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Policy deleted successfully", nil, requestID)
}
