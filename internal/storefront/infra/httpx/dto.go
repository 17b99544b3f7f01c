package httpx

import (
	"github.com/joooonis/incourserun-checkout/internal/checkout"
	"github.com/joooonis/incourserun-checkout/internal/pkg/krformat"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// ProductResponse is a catalog entry plus its display price, formatted
// server-side so every client renders "50,000" the same way.
type ProductResponse struct {
	entity.Product
	DisplayPrice string `json:"displayPrice"`
}

func mapProductsToResponse(products []entity.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			Product:      p,
			DisplayPrice: krformat.FormatPrice(p.Price),
		}
	}
	return out
}

// OrderHistoryItemResponse is one line item of a past order with its catalog
// product joined in. The product is the zero value when the catalog no longer
// lists it.
type OrderHistoryItemResponse struct {
	ID             int64          `json:"id"`
	Product        entity.Product `json:"product"`
	Quantity       int64          `json:"quantity"`
	HasReview      bool           `json:"hasReview"`
	ShippingStatus string         `json:"shippingStatus,omitempty"`
}

// OrderHistoryResponse is one past order on the order-history screen.
type OrderHistoryResponse struct {
	ID            int64                      `json:"id"`
	OrderDate     string                     `json:"orderDate"`
	TotalPrice    int64                      `json:"totalPrice"`
	FreeDelivery  bool                       `json:"freeDelivery"`
	OrderProducts []OrderHistoryItemResponse `json:"orderProducts"`
}

// mapOrdersToResponse joins each order line item to its product record by
// catalog id.
func mapOrdersToResponse(orders []entity.PlacedOrder, products []entity.Product) []OrderHistoryResponse {
	byID := make(map[int64]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]OrderHistoryResponse, len(orders))
	for i, order := range orders {
		items := make([]OrderHistoryItemResponse, len(order.OrderProducts))
		for j, op := range order.OrderProducts {
			items[j] = OrderHistoryItemResponse{
				ID:             op.ID,
				Product:        byID[op.Product],
				Quantity:       op.Quantity,
				HasReview:      op.HasReview,
				ShippingStatus: op.ShippingStatus,
			}
		}
		out[i] = OrderHistoryResponse{
			ID:            order.ID,
			OrderDate:     order.CreatedAt.Format("2006-01-02"),
			TotalPrice:    order.TotalPrice,
			FreeDelivery:  checkout.DeliveryFee(order.TotalPrice) == 0,
			OrderProducts: items,
		}
	}
	return out
}

type StartCheckoutRequest struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
}

type UpdateOrdererRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	AddressDetail *string `json:"addressDetail"`
	LookupAddress *string `json:"lookupAddress"`
	LookupZipcode *string `json:"lookupZipcode"`
}

type UpdateShippingRequest struct {
	SameAsOrderer *bool `json:"sameAsOrderer"`

	Name          *string `json:"shippingName"`
	Phone         *string `json:"shippingPhone"`
	Address       *string `json:"shippingAddress"`
	AddressDetail *string `json:"shippingAddressDetail"`
	Zipcode       *string `json:"shippingZipcode"`
	Request       *string `json:"shippingRequest"`
}

type UpdateAgreementsRequest struct {
	PayMethod *bool `json:"payMethod"`
	Agreement *bool `json:"agreement"`
}

// PaymentCallbackRequest is the gateway webhook body, in the gateway's own
// field naming.
type PaymentCallbackRequest struct {
	Success     bool   `json:"success"`
	MerchantUID string `json:"merchant_uid"`
	ImpUID      string `json:"imp_uid"`
	ErrorMsg    string `json:"error_msg"`
}

type AddCartRequest struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
}

type CheckoutResponse struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Product  entity.Product `json:"product"`
	Quantity int64          `json:"quantity"`

	TotalPrice  int64 `json:"totalPrice"`
	DeliveryFee int64 `json:"deliveryFee"`
	TotalPaid   int64 `json:"totalPaid"`

	DisplayTotalPrice  string `json:"displayTotalPrice"`
	DisplayDeliveryFee string `json:"displayDeliveryFee"`
	DisplayTotalPaid   string `json:"displayTotalPaid"`

	Orderer  entity.Orderer      `json:"orderer"`
	Shipping entity.ShippingInfo `json:"shipping"`

	SubmitState       string `json:"submitState"`
	PayMethodSelected bool   `json:"payMethodSelected"`
	ConsentGiven      bool   `json:"consentGiven"`

	MerchantUID     string `json:"merchantUid,omitempty"`
	OrderID         int64  `json:"orderId,omitempty"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
	RedirectDelayMS int64  `json:"redirectDelayMs,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
}

type ErrorResponse struct {
	Error   string                `json:"error"`
	Message string                `json:"message,omitempty"`
	Fields  []checkout.FieldError `json:"fields,omitempty"`
}

// mapCheckoutToResponse converts a session snapshot to the HTTP shape.
func mapCheckoutToResponse(v checkout.View) CheckoutResponse {
	res := CheckoutResponse{
		ID:                 v.ID,
		Status:             string(v.Status),
		Product:            v.Product,
		Quantity:           v.Quantity,
		TotalPrice:         v.Totals.TotalPrice,
		DeliveryFee:        v.Totals.DeliveryFee,
		TotalPaid:          v.Totals.TotalPaid,
		DisplayTotalPrice:  krformat.FormatPrice(v.Totals.TotalPrice),
		DisplayDeliveryFee: krformat.FormatPrice(v.Totals.DeliveryFee),
		DisplayTotalPaid:   krformat.FormatPrice(v.Totals.TotalPaid),
		Orderer:            v.Orderer,
		Shipping:           v.Shipping,
		SubmitState:        string(v.SubmitState),
		PayMethodSelected:  v.PayMethodSelected,
		ConsentGiven:       v.ConsentGiven,
		MerchantUID:        v.MerchantUID,
		ErrorMessage:       v.FailureMessage,
	}
	if v.Status == checkout.StatusPaid {
		res.OrderID = v.OrderID
		res.RedirectURL = v.RedirectURL()
		res.RedirectDelayMS = checkout.RedirectDelay.Milliseconds()
	}
	return res
}
