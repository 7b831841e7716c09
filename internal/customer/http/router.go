package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	commonhttp "github.com/vmorozov/customer-hub/internal/common/http"
	"github.com/vmorozov/customer-hub/internal/common/logger"
	"github.com/vmorozov/customer-hub/internal/customer/domain"
	"github.com/vmorozov/customer-hub/internal/customer/service"
)

type customerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type customerPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type paginationPayload struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalCustomers int64 `json:"totalCustomers"`
	HasNextPage    bool  `json:"hasNextPage"`
	HasPrevPage    bool  `json:"hasPrevPage"`
	Limit          int   `json:"limit"`
}

type pagePayload struct {
	Customers  []customerPayload `json:"customers"`
	Pagination paginationPayload `json:"pagination"`
}

// Single-resource responses nest the customer object, the same shape
// /api/auth/me uses for the user.
type itemPayload struct {
	Customer customerPayload `json:"customer"`
}

type Handler struct {
	customers *service.CustomerService
	timeout   time.Duration
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

// NewHandler mounts the customer routes. Every route sits behind authGate.
func NewHandler(
	customers *service.CustomerService,
	authGate func(http.Handler) http.Handler,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		customers: customers,
		timeout:   timeout,
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}

	mux := http.NewServeMux()
	mux.Handle("/api/customers", authGate(http.HandlerFunc(h.collection)))
	mux.Handle("/api/customers/", authGate(http.HandlerFunc(h.item)))
	return mux
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/customers/")
	if strings.Contains(id, "/") || commonhttp.ValidateUUID(id) != nil {
		commonhttp.WriteFailure(w, http.StatusNotFound, "Customer not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query()
	page, err := h.customers.List(ctx, service.ListInput{
		Page:   parseIntParam(query.Get("page")),
		Limit:  parseIntParam(query.Get("limit")),
		Search: query.Get("search"),
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Customers retrieved successfully", toPagePayload(page))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customer, err := h.customers.Get(ctx, id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Customer retrieved successfully", itemPayload{Customer: toCustomerPayload(customer)})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create customer failed: invalid json: %v", err)
		commonhttp.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customer, err := h.customers.Create(ctx, domain.Fields{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, "Customer created successfully", itemPayload{Customer: toCustomerPayload(customer)})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req customerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update customer failed: invalid json: %v", err)
		commonhttp.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customer, err := h.customers.Update(ctx, id, domain.Fields{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Customer updated successfully", itemPayload{Customer: toCustomerPayload(customer)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.customers.Delete(ctx, id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Customer deleted successfully", nil)
}

func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func toCustomerPayload(customer domain.Customer) customerPayload {
	return customerPayload{
		ID:        string(customer.ID),
		Name:      customer.Name,
		Address:   customer.Address,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func toPagePayload(page domain.Page) pagePayload {
	customers := make([]customerPayload, 0, len(page.Customers))
	for _, customer := range page.Customers {
		customers = append(customers, toCustomerPayload(customer))
	}
	return pagePayload{
		Customers: customers,
		Pagination: paginationPayload{
			CurrentPage:    page.Pagination.CurrentPage,
			TotalPages:     page.Pagination.TotalPages,
			TotalCustomers: page.Pagination.TotalCustomers,
			HasNextPage:    page.Pagination.HasNextPage,
			HasPrevPage:    page.Pagination.HasPrevPage,
			Limit:          page.Pagination.Limit,
		},
	}
}
