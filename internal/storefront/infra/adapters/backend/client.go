// Package backend is the REST client for the commerce backend. Every call
// forwards the caller's bearer token from the request context, mirroring the
// auth-header injection the storefront performs on its outgoing requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/joooonis/incourserun-checkout/internal/pkg/authctx"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// Client implements ports.BackendClient over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the backend at baseURL. httpClient may be
// nil; cancellation and deadlines come from the request context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) Products(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := c.do(ctx, http.MethodGet, "/v1/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Me(ctx context.Context) (*entity.User, error) {
	var user entity.User
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateMe(ctx context.Context, update *entity.ProfileUpdate) (*entity.User, error) {
	var user entity.User
	if err := c.do(ctx, http.MethodPatch, "/v1/users/me", update, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Orders lists the signed-in user's past orders. The user id travels as a
// query parameter, taken from the authenticated context.
func (c *Client) Orders(ctx context.Context) ([]entity.PlacedOrder, error) {
	path := "/v1/orders"
	if id := authctx.UserID(ctx); id != 0 {
		path += "?user=" + strconv.FormatInt(id, 10)
	}
	var orders []entity.PlacedOrder
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder posts the order record. The idempotency key is sent as a
// header so a retried submission maps onto the same order server-side.
func (c *Client) CreateOrder(ctx context.Context, submission *entity.OrderSubmission, idempotencyKey string) (*entity.CreatedOrder, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[authctx.HeaderXIdempotencyKey] = idempotencyKey
	}
	var created entity.CreatedOrder
	if err := c.do(ctx, http.MethodPost, "/v1/orders", submission, headers, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CompletePayment(ctx context.Context, transactionUID, merchantUID string) (*entity.PaymentConfirmation, error) {
	body := struct {
		ImpUID      string `json:"imp_uid"`
		MerchantUID string `json:"merchant_uid"`
	}{
		ImpUID:      transactionUID,
		MerchantUID: merchantUID,
	}
	var confirmation entity.PaymentConfirmation
	if err := c.do(ctx, http.MethodPost, "/v1/orders/payment/complete", body, nil, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID, quantity int64) error {
	body := struct {
		Product  int64 `json:"product"`
		Quantity int64 `json:"quantity"`
	}{
		Product:  productID,
		Quantity: quantity,
	}
	return c.do(ctx, http.MethodPost, "/v1/carts", body, nil, nil)
}

// do performs one JSON round trip. out may be nil when the response body is
// irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := authctx.Token(ctx); token != "" {
		req.Header.Set(authctx.HeaderAuthorization, "Bearer "+token)
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set(authctx.HeaderXRequestId, reqID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("backend: %s %s: status %d: %s", method, path, res.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}
