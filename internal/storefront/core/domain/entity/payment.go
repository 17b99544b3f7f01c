package entity

// PaymentRequest is the payload a gateway payment session is opened with.
// Field names follow the iamport request_pay contract.
type PaymentRequest struct {
	PG            string `json:"pg"`
	PayMethod     string `json:"pay_method"`
	MerchantUID   string `json:"merchant_uid"`
	Amount        int64  `json:"amount"`
	Name          string `json:"name"`
	BuyerName     string `json:"buyer_name"`
	BuyerTel      string `json:"buyer_tel"`
	BuyerAddr     string `json:"buyer_addr"`
	BuyerPostcode string `json:"buyer_postcode"`
	RedirectURL   string `json:"m_redirect_url"`
}

// PaymentResult is the gateway's asynchronous answer for one session.
type PaymentResult struct {
	Success        bool   `json:"success"`
	MerchantUID    string `json:"merchant_uid"`
	TransactionUID string `json:"imp_uid"`
	ErrorMessage   string `json:"error_msg,omitempty"`
}

// ConfirmedOrder is the order reference inside a payment confirmation.
type ConfirmedOrder struct {
	ID int64 `json:"id"`
}

// PaymentConfirmation is the POST /v1/orders/payment/complete response.
// Status "paid" means the backend verified the transaction against the
// gateway; anything else is a terminal mismatch.
type PaymentConfirmation struct {
	Status string         `json:"status"`
	Order  ConfirmedOrder `json:"order"`
}

// PaymentStatusPaid is the confirmation status for a verified payment.
const PaymentStatusPaid = "paid"
