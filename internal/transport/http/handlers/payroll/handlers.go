package payrollhandler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/patch"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/salaries", h.handleListSalaries)
		r.Post("/salaries", h.handleUpsertSalary)
		r.Get("/salaries/{salaryID}", h.handleGetSalary)
		r.Get("/salaries/{salaryID}/payslip", h.handleDownloadPayslip)
		r.Get("/items", h.handleListItems)
		r.Post("/items", h.handleCreateItem)
		r.Put("/items/{itemID}", h.handleUpdateItem)
		r.Delete("/items/{itemID}", h.handleDeleteItem)
	})
}

type salaryRequest struct {
	UserID     string            `json:"userId"`
	Month      shared.FlexInt    `json:"month"`
	Year       shared.FlexInt    `json:"year"`
	Amount     shared.FlexFloat  `json:"amount" validate:"gte=0"`
	Earnings   payroll.Breakdown `json:"earnings"`
	Deductions payroll.Breakdown `json:"deductions"`
	NetSalary  *shared.FlexFloat `json:"netSalary"`
}

type itemRequest struct {
	Name         string           `json:"name" validate:"max=200"`
	Category     string           `json:"category" validate:"max=100"`
	AmountType   string           `json:"amountType" validate:"max=100"`
	DefaultValue shared.FlexFloat `json:"defaultValue"`
}

type itemPatchRequest struct {
	Name         patch.Field[string]           `json:"name"`
	Category     patch.Field[string]           `json:"category"`
	AmountType   patch.Field[string]           `json:"amountType"`
	DefaultValue patch.Field[shared.FlexFloat] `json:"defaultValue"`
}

func (h *Handler) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := h.Service.ListSalaries(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, salaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsertSalary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload salaryRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	input := payroll.SalaryInput{
		UserID:     payload.UserID,
		Month:      int(payload.Month),
		Year:       int(payload.Year),
		Amount:     float64(payload.Amount),
		Earnings:   payload.Earnings,
		Deductions: payload.Deductions,
	}
	if payload.NetSalary != nil {
		net := float64(*payload.NetSalary)
		input.NetSalary = &net
	}

	salary, created, err := h.Service.UpsertSalary(r.Context(), input)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if created {
		api.Created(w, salary, requestID)
		return
	}
	api.Success(w, salary, requestID)
}

func (h *Handler) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	salary, err := h.Service.GetSalary(r.Context(), chi.URLParam(r, "salaryID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, salary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	pdf, salary, err := h.Service.Payslip(r.Context(), chi.URLParam(r, "salaryID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", salary.PayslipNo+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload itemRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, requestID) {
		return
	}

	item, err := h.Service.CreateItem(r.Context(), payroll.ItemInput{
		Name:         payload.Name,
		Category:     payload.Category,
		AmountType:   payload.AmountType,
		DefaultValue: float64(payload.DefaultValue),
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Created(w, item, requestID)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload itemPatchRequest
	if !shared.Decode(w, r, &payload, requestID) {
		return
	}

	in := payroll.ItemPatch{
		Name:       payload.Name,
		Category:   payload.Category,
		AmountType: payload.AmountType,
	}
	if payload.DefaultValue.Set {
		in.DefaultValue = patch.Some(float64(payload.DefaultValue.Value))
	}

	item, err := h.Service.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), in)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, item, requestID)
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Service.DeleteItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.SuccessMessage(w, http.StatusOK, "Payroll item deleted successfully", nil, requestID)
}
