package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joooonis/incourserun-checkout/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The gateway posts here; it carries no user token.
	r.Post("/v1/payments/callback", handler.PaymentCallback)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate(jwtSecret))

		r.Get("/v1/products", handler.ListProducts)
		r.Get("/v1/orders", handler.ListOrders)

		r.Get("/v1/users/me", handler.GetMe)
		r.Patch("/v1/users/me", handler.UpdateMe)

		r.Post("/v1/carts", handler.AddCart)

		r.Post("/v1/checkout", handler.StartCheckout)
		r.Get("/v1/checkout/{id}", handler.GetCheckout)
		r.Patch("/v1/checkout/{id}/orderer", handler.UpdateOrderer)
		r.Patch("/v1/checkout/{id}/shipping", handler.UpdateShipping)
		r.Patch("/v1/checkout/{id}/agreements", handler.UpdateAgreements)
		r.Post("/v1/checkout/{id}/pay", handler.Pay)
	})

	return r
}
