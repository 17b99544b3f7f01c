// Package gateway opens payment sessions against an iamport-compatible
// payment gateway. The open call is fire-and-forget: the gateway reports
// the outcome later through the storefront's callback endpoint.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// Client implements ports.PaymentGateway.
type Client struct {
	baseURL      string
	merchantCode string
	http         *http.Client
}

// NewClient builds a gateway client. merchantCode is the storefront's
// merchant/app identifier at the PG (e.g. "imp61247005").
func NewClient(baseURL, merchantCode string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: baseURL, merchantCode: merchantCode, http: httpClient}
}

// OpenSession registers the payment with the gateway's prepare endpoint.
// A non-2xx answer means no payment window will open; anything after a 2xx
// arrives asynchronously via callback.
func (c *Client) OpenSession(ctx context.Context, req *entity.PaymentRequest) error {
	payload := struct {
		MerchantCode string `json:"merchant_code"`
		*entity.PaymentRequest
	}{
		MerchantCode:   c.merchantCode,
		PaymentRequest: req,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gateway: encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/prepare", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("gateway: build prepare request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gateway: prepare %s: %w", req.MerchantUID, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("gateway: prepare %s: status %d: %s", req.MerchantUID, res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
