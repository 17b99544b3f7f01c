package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joooonis/incourserun-checkout/internal/checkout"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// StartCheckout opens a checkout session for a product and quantity taken
// from the product page's navigation parameters.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req StartCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	session, err := h.checkout.StartSession(r.Context(), req.Product, req.Quantity)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, mapCheckoutToResponse(session.View()))
	case errorIsNotFound(err):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "checkout_error", err.Error())
	}
}

// GetCheckout returns the current session snapshot; clients poll it for the
// payment outcome.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapCheckoutToResponse(session.View()))
}

// UpdateOrderer edits the orderer fields or stores a postcode-lookup result.
func (h *Handler) UpdateOrderer(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
		return
	}

	var req UpdateOrdererRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	session.PatchOrderer(checkout.OrdererPatch{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
		LookupAddress: req.LookupAddress,
		LookupZipcode: req.LookupZipcode,
	})
	writeJSON(w, http.StatusOK, mapCheckoutToResponse(session.View()))
}

// UpdateShipping edits the shipping fields. The sameAsOrderer toggle is
// applied first: on copies the orderer into shipping, off clears the form;
// explicit field edits in the same request then apply on top.
func (h *Handler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
		return
	}

	var req UpdateShippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if req.SameAsOrderer != nil {
		session.MatchOrderer(*req.SameAsOrderer)
	}
	session.PatchShipping(checkout.ShippingPatch{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
		Zipcode:       req.Zipcode,
		Request:       req.Request,
	})
	writeJSON(w, http.StatusOK, mapCheckoutToResponse(session.View()))
}

// UpdateAgreements records the payment-method and consent checkboxes and
// returns the recomputed submit state.
func (h *Handler) UpdateAgreements(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
		return
	}

	var req UpdateAgreementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if req.PayMethod != nil {
		session.SetPayMethod(*req.PayMethod)
	}
	if req.Agreement != nil {
		session.SetConsent(*req.Agreement)
	}
	writeJSON(w, http.StatusOK, mapCheckoutToResponse(session.View()))
}

// Pay validates the session and launches the payment flow.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Pay(r.Context(), chi.URLParam(r, "id"))

	var verr *checkout.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, mapCheckoutToResponse(session.View()))
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, checkout.ErrSubmitDisabled):
		writeError(w, http.StatusConflict, "submit_disabled", err.Error())
	case errors.Is(err, checkout.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "already_submitted", err.Error())
	case errorIsNotFound(err):
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "checkout_error", err.Error())
	}
}

// PaymentCallback receives the gateway's asynchronous result and routes it
// to the waiting flow. The gateway calls this, not the storefront UI.
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.MerchantUID == "" {
		writeError(w, http.StatusBadRequest, "invalid_callback", "merchant_uid is required")
		return
	}

	err := h.checkout.HandleCallback(r.Context(), entity.PaymentResult{
		Success:        req.Success,
		MerchantUID:    req.MerchantUID,
		TransactionUID: req.ImpUID,
		ErrorMessage:   req.ErrorMsg,
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_payment_session", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
