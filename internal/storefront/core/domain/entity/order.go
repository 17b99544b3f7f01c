package entity

import "time"

// OrderProduct is a single order line item.
type OrderProduct struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
	Price    int64 `json:"price"`
}

// Orderer is the account holder placing the order. Scratch state populated
// from the signed-in user's profile and editable during checkout.
type Orderer struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	AddressDetail string `json:"addressDetail"`
}

// ShippingInfo is the recipient and delivery address, possibly distinct
// from the orderer.
type ShippingInfo struct {
	Name          string `json:"shippingName"`
	Phone         string `json:"shippingPhone"`
	Address       string `json:"shippingAddress"`
	AddressDetail string `json:"shippingAddressDetail"`
	Zipcode       string `json:"shippingZipcode,omitempty"`
	Request       string `json:"shippingRequest,omitempty"`
}

// Empty reports whether every shipping field is blank.
func (s ShippingInfo) Empty() bool {
	return s == ShippingInfo{}
}

// OrderSubmission is the POST /v1/orders body: shipping fields plus the
// line items and computed amounts.
type OrderSubmission struct {
	ShippingInfo
	OrderProducts []OrderProduct `json:"orderProducts"`
	TotalPrice    int64          `json:"totalPrice"`
	DeliveryFee   int64          `json:"deliveryFee"`
	TotalPaid     int64          `json:"totalPaid"`
	PayMethod     string         `json:"payMethod"`
}

// PlacedOrderProduct is a line item of a past order as the backend returns
// it. Product is the catalog id; joining it to the product record is the
// storefront's job.
type PlacedOrderProduct struct {
	ID             int64  `json:"id"`
	Product        int64  `json:"product"`
	Quantity       int64  `json:"quantity"`
	HasReview      bool   `json:"hasReview"`
	ShippingStatus string `json:"shippingStatus,omitempty"`
}

// PlacedOrder is one entry of the signed-in user's order history.
type PlacedOrder struct {
	ID            int64                `json:"id"`
	CreatedAt     time.Time            `json:"createdAt"`
	TotalPrice    int64                `json:"totalPrice"`
	OrderProducts []PlacedOrderProduct `json:"orderProducts"`
}

// CreatedOrder is the backend's response to a successful order submission.
// MerchantUID is the identifier handed to the payment gateway to correlate
// the payment session with the order record.
type CreatedOrder struct {
	ID          int64  `json:"id"`
	MerchantUID string `json:"merchantUid"`
	TotalPaid   int64  `json:"totalPaid"`
	Status      string `json:"status,omitempty"`
}

// PayMethodCard is the only payment method the storefront offers.
const PayMethodCard = "신용카드"
