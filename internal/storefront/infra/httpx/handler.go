package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joooonis/incourserun-checkout/internal/catalog"
	"github.com/joooonis/incourserun-checkout/internal/checkout"
	"github.com/joooonis/incourserun-checkout/internal/profile"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/ports"
)

// Handler serves the storefront API: catalog, profile, cart, and the
// checkout flow.
type Handler struct {
	catalog  ports.ProductCatalog
	profile  *profile.Service
	backend  ports.BackendClient
	checkout *checkout.Controller
}

func NewHandler(
	cat ports.ProductCatalog,
	prof *profile.Service,
	backend ports.BackendClient,
	ctrl *checkout.Controller,
) *Handler {
	return &Handler{
		catalog:  cat,
		profile:  prof,
		backend:  backend,
		checkout: ctrl,
	}
}

// ListProducts returns the product catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapProductsToResponse(products))
}

// ListOrders returns the signed-in user's order history with catalog
// products joined to each line item.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.backend.Orders(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "orders_error", err.Error())
		return
	}
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrdersToResponse(orders, products))
}

// GetMe returns the signed-in user's profile.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.profile.Me(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "profile_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe validates and applies a profile update (signup completion or
// profile edit).
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req entity.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	user, err := h.profile.Update(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, user)
	case errors.Is(err, profile.ErrNameRequired),
		errors.Is(err, profile.ErrInvalidNickname),
		errors.Is(err, profile.ErrInvalidPhone),
		errors.Is(err, profile.ErrInvalidEmail),
		errors.Is(err, profile.ErrTermsNotAgreed):
		writeError(w, http.StatusUnprocessableEntity, "invalid_profile", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "profile_error", err.Error())
	}
}

// AddCart puts a product into the signed-in user's cart.
func (h *Handler) AddCart(w http.ResponseWriter, r *http.Request) {
	var req AddCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Product == 0 || req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "invalid_item", "product and quantity must be valid")
		return
	}

	if err := h.backend.AddCartItem(r.Context(), req.Product, req.Quantity); err != nil {
		writeError(w, http.StatusBadGateway, "cart_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func errorIsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, checkout.ErrSessionNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
